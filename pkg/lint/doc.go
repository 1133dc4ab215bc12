// Package lint provides the recipe lint engine.
//
// # Architecture
//
// The engine runs an ordered set of independent checks against recipe
// documents and collects structured messages:
//
//  1. Root package (pkg/lint/): check definitions, registry, scheduler,
//     skip resolution, executor and the message model
//  2. Check library (pkg/lint/checks/): the concrete domain checks
//  3. Document model (pkg/recipe/): parsing and field/location lookup
//
// # Check Definitions
//
// Checks are plain data values assembled into an explicit registry at
// startup. A check has a unique name, a severity, a documentation string
// (first line becomes the message title, the rest the body) and up to three
// hooks:
//
//	var missingHome = lint.CheckDef{
//		Name: "missing_home",
//		Doc:  "The recipe is missing a homepage URL\n\nAdd about/home.",
//		CheckRecipe: func(run *lint.Run) {
//			if run.Recipe.Get("about/home", nil) == nil {
//				run.Message(lint.WithSection("about"))
//			}
//		},
//	}
//
// A check that emits no messages for a recipe has passed.
//
// # Prerequisites
//
// Requires lists checks that must have run, and passed, first:
//
//	var b = lint.CheckDef{Name: "b", Requires: []string{"a"}, ...}
//
// The engine orders checks so prerequisites always run before their
// dependents, and skips a dependent for the current recipe when a
// prerequisite fails. The prerequisite relation must be acyclic; a cycle is
// a fatal configuration error at engine construction.
//
// # Skipping
//
// Checks can be skipped per recipe with directive tokens of the form
// "[lint skip <check> for <recipe>]" in free text (commonly a commit
// message), globally via an exclude list, or per recipe via the
// extra/skip-lints list in the recipe itself. Skipping a check also skips
// its prerequisites.
package lint
