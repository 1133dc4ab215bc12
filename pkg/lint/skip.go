package lint

import (
	"log/slog"
	"regexp"

	"github.com/bioforge-labs/recipelint/pkg/recipe"
)

// skipLintsField is the recipe field holding a per-recipe list of check names
// to skip. Only honored when the value is a list; otherwise the
// extra_skip_lints_not_list check reports the malformed field.
const skipLintsField = "extra/skip-lints"

var skipDirectiveRe = regexp.MustCompile(`\[\s*lint skip (?P<check>\w+) for (?P<recipe>.*?)\s*\]`)

// ParseSkips scans free text (commonly a commit message) for directive tokens
// of the form "[lint skip <check> for <recipe>]" and returns the check names
// to skip per recipe. Multiple tokens per text are all honored.
func ParseSkips(text string) map[string][]string {
	skips := make(map[string][]string)
	for _, m := range skipDirectiveRe.FindAllStringSubmatch(text, -1) {
		check, recipeName := m[1], m[2]
		skips[recipeName] = append(skips[recipeName], check)
	}
	return skips
}

// resolveSkips builds the final skip set for one recipe: the union of
// directive-derived names, the global exclude list and the recipe's embedded
// skip-lints list, closed under prerequisite propagation. Skipping a check
// proactively skips the checks it requires; the reactive direction (failure
// disabling dependents) is handled by the executor.
func (l *Linter) resolveSkips(r *recipe.Recipe) map[string]bool {
	initial := make([]string, 0, len(l.exclude))
	initial = append(initial, l.skips[r.Name]...)
	initial = append(initial, l.exclude...)
	if embedded, ok := r.Get(skipLintsField, nil).([]any); ok {
		for _, v := range embedded {
			if name, ok := v.(string); ok {
				initial = append(initial, name)
			}
		}
	}

	skip := make(map[string]bool)
	for _, name := range initial {
		if !l.graph.Has(name) {
			l.logger.Error("skipping unknown check", slog.String("check", name))
			continue
		}
		skip[name] = true
	}

	// Propagate to prerequisites: a skipped check drags its own requirements
	// along, not its dependents.
	explicit := make([]string, 0, len(skip))
	for name := range skip {
		explicit = append(explicit, name)
	}
	for _, name := range explicit {
		for _, prereq := range l.graph.Prerequisites(name) {
			if !skip[prereq] {
				l.logger.Info("disabling prerequisite of skipped check",
					slog.String("check", prereq),
					slog.String("skipped", name))
				skip[prereq] = true
			}
		}
	}

	return skip
}
