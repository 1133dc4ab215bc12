// Package checks provides the built-in recipe checks. The engine itself is
// agnostic of this library; the CLI assembles these definitions into a
// registry at startup.
package checks

import (
	"strings"

	"github.com/bioforge-labs/recipelint/pkg/lint"
)

// All returns the built-in check definitions in registration order.
func All() []lint.CheckDef {
	return []lint.CheckDef{
		extraSkipLintsNotList,
		missingHome,
		missingSummary,
		missingLicense,
		sourceMissingURL,
		missingChecksum,
		usesGitURL,
		shouldUseCompilers,
	}
}

var extraSkipLintsNotList = lint.CheckDef{
	Name: "extra_skip_lints_not_list",
	Doc: "The extra/skip-lints field must be a list\n\n" +
		"Use:\n\n  extra:\n    skip-lints:\n      - should_use_compilers",
	CheckRecipe: func(run *lint.Run) {
		v := run.Recipe.Get("extra/skip-lints", nil)
		if v == nil {
			return
		}
		if _, ok := v.([]any); !ok {
			run.Message(lint.WithSection("extra/skip-lints"))
		}
	},
}

var missingHome = lint.CheckDef{
	Name:     "missing_home",
	Severity: lint.SeverityWarning,
	Doc: "The recipe is missing a homepage URL\n\n" +
		"Please add:\n\n  about:\n    home: <URL to homepage>",
	CheckRecipe: func(run *lint.Run) {
		if run.Recipe.Get("about/home", nil) == nil {
			run.Message(lint.WithSection("about"))
		}
	},
}

var missingSummary = lint.CheckDef{
	Name:     "missing_summary",
	Severity: lint.SeverityWarning,
	Doc: "The recipe is missing a summary\n\n" +
		"Please add:\n\n  about:\n    summary: One line briefly describing the package",
	CheckRecipe: func(run *lint.Run) {
		if run.Recipe.Get("about/summary", nil) == nil {
			run.Message(lint.WithSection("about"))
		}
	},
}

var missingLicense = lint.CheckDef{
	Name: "missing_license",
	Doc: "The recipe is missing the about/license key\n\n" +
		"Please add:\n\n  about:\n    license: <name of license>",
	CheckRecipe: func(run *lint.Run) {
		if run.Recipe.Get("about/license", nil) == nil {
			run.Message(lint.WithSection("about"))
		}
	},
}

var sourceMissingURL = lint.CheckDef{
	Name: "source_missing_url",
	Doc: "The recipe is missing a source URL\n\n" +
		"Each source entry needs a `url` pointing at the upstream release\n" +
		"archive.",
	CheckSource: func(run *lint.Run, source map[string]any, section string) {
		if source["url"] == nil && source["git_url"] == nil {
			run.Message(lint.WithSection(section))
		}
	},
}

var missingChecksum = lint.CheckDef{
	Name:     "missing_checksum",
	Requires: []string{"source_missing_url"},
	Doc: "The recipe source is missing a checksum\n\n" +
		"Please add `sha256` (preferred) or `md5` next to the source `url`\n" +
		"so downloads can be verified.",
	CheckSource: func(run *lint.Run, source map[string]any, section string) {
		if source["url"] == nil {
			return
		}
		if source["sha256"] == nil && source["md5"] == nil {
			run.Message(lint.WithSection(section))
		}
	},
}

var usesGitURL = lint.CheckDef{
	Name:     "uses_git_url",
	Severity: lint.SeverityWarning,
	Doc: "The recipe downloads source from git\n\n" +
		"Prefer a release archive `url` over `git_url`; archives are\n" +
		"cacheable and checksummed.",
	CheckSource: func(run *lint.Run, source map[string]any, section string) {
		if source["git_url"] != nil {
			run.Message(lint.WithSection(section + "/git_url"))
		}
	},
}

// compilerDeps are compiler packages that must be requested through the
// compiler() template function rather than listed directly.
var compilerDeps = []string{"gcc", "clang", "llvm", "libgcc", "libgfortran"}

var shouldUseCompilers = lint.CheckDef{
	Name: "should_use_compilers",
	Doc: "The recipe requires a compiler directly\n\n" +
		"Use `{{ compiler('c') }}` (or cxx/fortran) in the build requirements\n" +
		"instead of naming a compiler package.",
	CheckDeps: func(run *lint.Run, deps map[string][]string) {
		for _, compiler := range compilerDeps {
			for _, location := range deps[compiler] {
				run.Message(lint.WithSection(location))
			}
		}
	},
}

// RecipeIsBlacklisted returns a check flagging recipes on the given
// blacklist. The list is loaded once at engine construction; the check only
// reads it.
func RecipeIsBlacklisted(blacklisted []string) lint.CheckDef {
	set := make(map[string]bool, len(blacklisted))
	for _, name := range blacklisted {
		set[strings.TrimSpace(name)] = true
	}
	return lint.CheckDef{
		Name: "recipe_is_blacklisted",
		Doc: "The recipe is blacklisted\n\n" +
			"Please consult the blacklist for the reason it was added.",
		CheckRecipe: func(run *lint.Run) {
			if set[run.Recipe.Name] {
				run.Message(lint.WithLine(1))
			}
		},
	}
}
