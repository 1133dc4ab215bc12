package lint

import "github.com/bioforge-labs/recipelint/pkg/recipe"

// Message is one diagnostic issued by a check for a recipe.
//
// Severity always equals the issuing check's declared severity. The absence
// of any message for a check on a given recipe means the check passed.
type Message struct {
	// Recipe names the recipe the message refers to.
	Recipe string
	// Check names the check issuing the message.
	Check string
	// Severity of the message.
	Severity Severity
	// Title presented to the user.
	Title string
	// Body presented to the user.
	Body string
	// File the problem was found in.
	File string
	// StartLine at which the problem begins; 0 when no location is known.
	StartLine int
	// EndLine at which the problem ends.
	EndLine int
}

// Level returns the presentation level for CI annotations.
func (m Message) Level() string {
	return m.Severity.Level()
}

// makeMessage builds a message for a check on a recipe. A section option is
// resolved to a line range via the recipe, falling back to a single-line span
// at the top of the file when the path cannot be resolved.
func makeMessage(check *Check, r *recipe.Recipe, opts ...MessageOption) Message {
	var p messageParams
	for _, opt := range opts {
		opt(&p)
	}

	var startLine, endLine int
	if p.section != "" {
		sl, _, el, ec, err := r.GetRawRange(p.section)
		if err != nil {
			sl, el, ec = 1, 1, 1
		}
		if ec == 0 {
			el--
		}
		startLine, endLine = sl, el
	} else {
		startLine, endLine = p.line, p.line
	}

	fname := p.fname
	if fname == "" {
		fname = r.Path
	}
	title := p.title
	if title == "" {
		title = check.Title
	}
	body := p.body
	if body == "" {
		body = check.Body
	}

	return Message{
		Recipe:    r.Name,
		Check:     check.Name,
		Severity:  check.Severity,
		Title:     title,
		Body:      body,
		File:      fname,
		StartLine: startLine,
		EndLine:   endLine,
	}
}
