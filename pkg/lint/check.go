package lint

import (
	"strings"

	"github.com/bioforge-labs/recipelint/pkg/recipe"
)

// CheckDef is a data-driven check definition. Checks are assembled into a
// Registry explicitly at startup; there is no implicit discovery.
//
// Hooks are optional. Read-only state prepared once (e.g. a preloaded
// blacklist) should be captured in the hook closures at construction time;
// hooks must not retain mutable state between recipes.
type CheckDef struct {
	// Name is the unique check identifier, lower case with underscores.
	Name string

	// Severity defaults to SeverityError when left zero.
	Severity Severity

	// Requires names checks that must have been evaluated, and passed,
	// before this check runs.
	Requires []string

	// Doc describes the check. The first line becomes the default message
	// title, the remainder the body. Normalized once at registration.
	Doc string

	// CheckRecipe is invoked once with the whole recipe.
	CheckRecipe func(run *Run)

	// CheckSource is invoked once per source entry, whether the recipe's
	// source field is a single mapping or a list. The section path is
	// "source" or "source/<n>".
	CheckSource func(run *Run, source map[string]any, section string)

	// CheckDeps is invoked once with the full mapping from dependency
	// identifier to the section paths where it is declared.
	CheckDeps func(run *Run, deps map[string][]string)
}

// Check is a registered check: its definition plus the title and body derived
// from Doc at registration time. Immutable after registry construction.
type Check struct {
	CheckDef

	// Title is the normalized first line of Doc.
	Title string
	// Body is the normalized remainder of Doc.
	Body string
}

// newCheck normalizes a definition into its registered form.
func newCheck(def CheckDef) *Check {
	if def.Severity == 0 {
		def.Severity = SeverityError
	}
	doc := normalizeDoc(def.Doc)
	title, body, _ := strings.Cut(doc, "\n")
	return &Check{
		CheckDef: def,
		Title:    strings.TrimSpace(title),
		Body:     body,
	}
}

// normalizeDoc strips inline emphasis markup so documentation text reads as
// plain text in messages.
func normalizeDoc(doc string) string {
	doc = strings.ReplaceAll(doc, "::", ":")
	doc = strings.ReplaceAll(doc, "``", "`")
	return strings.TrimSpace(doc)
}

// Run is the per-check, per-recipe invocation context. It owns the transient
// message buffer, which is fresh for every invocation.
type Run struct {
	// Recipe is the document under analysis.
	Recipe *recipe.Recipe

	check    *Check
	messages []Message
}

// Message records an issue found by the running check. With no options the
// message carries the check's documentation and no source location.
func (r *Run) Message(opts ...MessageOption) {
	r.messages = append(r.messages, makeMessage(r.check, r.Recipe, opts...))
}

// messageParams collects the optional parts of a message.
type messageParams struct {
	section string
	fname   string
	line    int
	title   string
	body    string
}

// MessageOption customizes a message emitted by a check.
type MessageOption func(*messageParams)

// WithSection attaches the source location of a recipe section path, e.g.
// "build/number" or "source/0/url".
func WithSection(section string) MessageOption {
	return func(p *messageParams) { p.section = section }
}

// WithFile overrides the file name the message refers to.
func WithFile(fname string) MessageOption {
	return func(p *messageParams) { p.fname = fname }
}

// WithLine sets an explicit line instead of resolving a section path.
func WithLine(line int) MessageOption {
	return func(p *messageParams) { p.line = line }
}

// WithTitle overrides the title derived from the check documentation.
func WithTitle(title string) MessageOption {
	return func(p *messageParams) { p.title = title }
}

// WithBody overrides the body derived from the check documentation.
func WithBody(body string) MessageOption {
	return func(p *messageParams) { p.body = body }
}
