package recipe

import "fmt"

// ErrorKind identifies a structural failure that prevents a recipe from being
// used. Each kind maps to exactly one sentinel lint check.
type ErrorKind int

// Structural failure kinds.
const (
	// ErrDuplicateKey indicates the meta.yaml contains a duplicate mapping key.
	ErrDuplicateKey ErrorKind = iota
	// ErrMissingKey indicates the recipe is missing package name and/or version.
	ErrMissingKey
	// ErrEmptyRecipe indicates the meta.yaml is empty.
	ErrEmptyRecipe
	// ErrMissingBuild indicates the recipe has no build section.
	ErrMissingBuild
	// ErrHasSelector indicates the recipe uses selector line syntax.
	ErrHasSelector
	// ErrMissingFile indicates the meta.yaml file does not exist.
	ErrMissingFile
	// ErrRenderFailure indicates the recipe template could not be rendered.
	ErrRenderFailure
)

// String returns the string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrDuplicateKey:
		return "duplicate_key"
	case ErrMissingKey:
		return "missing_key"
	case ErrEmptyRecipe:
		return "empty_recipe"
	case ErrMissingBuild:
		return "missing_build"
	case ErrHasSelector:
		return "has_selector"
	case ErrMissingFile:
		return "missing_file"
	case ErrRenderFailure:
		return "render_failure"
	default:
		return "unknown"
	}
}

// Error is a structural recipe failure with an optional source line.
type Error struct {
	Kind ErrorKind
	Line int
	Msg  string
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("recipe %s: %s", e.Kind, e.Msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("recipe %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("recipe %s", e.Kind)
}

// Unwrap returns the wrapped error, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind ErrorKind, line int, msg string) *Error {
	return &Error{Kind: kind, Line: line, Msg: msg}
}

func wrapError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
