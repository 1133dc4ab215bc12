package lint

import "github.com/bioforge-labs/recipelint/pkg/recipe"

// Sentinel check names. Each stands in for one recipe structural failure
// detected before the executor runs, or for an engine-internal failure.
const (
	CheckLinterFailure    = "linter_failure"
	CheckDuplicateKey     = "duplicate_key_in_meta_yaml"
	CheckMissingNameOrVer = "missing_version_or_name"
	CheckEmptyMetaYaml    = "empty_meta_yaml"
	CheckMissingBuild     = "missing_build"
	CheckUnknownSelector  = "unknown_selector"
	CheckMissingMetaYaml  = "missing_meta_yaml"
	CheckTemplateRender   = "template_render_failure"
)

// sentinelChecks returns the hook-less checks standing in for structural
// failures. They never run; the executor issues their messages directly.
func sentinelChecks() []CheckDef {
	return []CheckDef{
		{
			Name: CheckLinterFailure,
			Doc: "An unexpected exception was raised during linting\n\n" +
				"Please file an issue with the recipelint maintainers.",
		},
		{
			Name: CheckDuplicateKey,
			Doc: "The recipe meta.yaml contains a duplicate key\n\n" +
				"This is invalid YAML, as it's unclear what the structure should\n" +
				"become. Please merge the two offending sections.",
		},
		{
			Name: CheckMissingNameOrVer,
			Doc: "The recipe is missing name and/or version\n\n" +
				"Please make sure the recipe has at least:\n\n" +
				"  package:\n    name: package_name\n    version: 0.12.34",
		},
		{
			Name: CheckEmptyMetaYaml,
			Doc: "The recipe has an empty meta.yaml!?\n\n" +
				"Please check if you forgot to commit its contents.",
		},
		{
			Name: CheckMissingBuild,
			Doc: "The recipe is missing a build section\n\n" +
				"Please add:\n\n  build:\n    number: 0",
		},
		{
			Name: CheckUnknownSelector,
			Doc: "The recipe failed to parse due to selector lines\n\n" +
				"Selector syntax (`# [linux]`) is not supported here. Please\n" +
				"remove the selectors or move the logic into the build scripts.",
		},
		{
			Name: CheckMissingMetaYaml,
			Doc: "The recipe is missing a meta.yaml file\n\n" +
				"Most commonly, this is because the file was accidentally\n" +
				"named `meta.yml`. If so, rename it to `meta.yaml`.",
		},
		{
			Name: CheckTemplateRender,
			Doc: "The recipe could not be rendered\n\n" +
				"Check if you are missing quotes or curly braces in template\n" +
				"expressions (the parts with `{{ something }}` or\n" +
				"`{% set var=\"value\" %}`).",
		},
	}
}

// sentinelForKind maps each recipe structural failure kind to its sentinel
// check name.
var sentinelForKind = map[recipe.ErrorKind]string{
	recipe.ErrDuplicateKey:  CheckDuplicateKey,
	recipe.ErrMissingKey:    CheckMissingNameOrVer,
	recipe.ErrEmptyRecipe:   CheckEmptyMetaYaml,
	recipe.ErrMissingBuild:  CheckMissingBuild,
	recipe.ErrHasSelector:   CheckUnknownSelector,
	recipe.ErrMissingFile:   CheckMissingMetaYaml,
	recipe.ErrRenderFailure: CheckTemplateRender,
}
