package lint

import "strings"

// Severity indicates the importance of a check and its messages.
type Severity int

// Severity levels, ordered so comparisons work: Info < Warning < Error.
const (
	// SeverityInfo marks purely informational checks.
	SeverityInfo Severity = 10
	// SeverityWarning marks checks indicating possible problems.
	SeverityWarning Severity = 20
	// SeverityError marks checks that must be fixed and fail a recipe.
	SeverityError Severity = 30
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Level returns the presentation level used by CI annotations:
// "notice" below warning, "warning" below error, "failure" otherwise.
func (s Severity) Level() string {
	if s < SeverityWarning {
		return "notice"
	}
	if s < SeverityError {
		return "warning"
	}
	return "failure"
}

// ParseSeverity converts a severity name to a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch strings.ToLower(s) {
	case "info":
		return SeverityInfo, true
	case "warning":
		return SeverityWarning, true
	case "error":
		return SeverityError, true
	default:
		return 0, false
	}
}
