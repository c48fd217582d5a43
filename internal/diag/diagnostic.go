package diag

import (
	"zyl/internal/source"
)

// Severity ranks how serious a diagnostic is. Only SevError stops the
// pipeline; the other levels are reported and carried on.
type Severity uint8

const (
	// SevInfo marks purely informational output.
	SevInfo Severity = iota
	// SevWarning marks suspicious but accepted input.
	SevWarning
	// SevError marks input the pipeline refuses to continue with.
	SevError
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
}

// String returns the upper-case label used when rendering diagnostics.
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// Note attaches secondary context to a diagnostic.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single reported problem with a primary location.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}
