package template

import (
	"errors"
	"fmt"
)

// errUnmatchedDelimiter reports an opening delimiter without a matching
// closing one before end of input.
var errUnmatchedDelimiter = errors.New("unmatched delimiter")

// FormatError is the single failure kind the engine surfaces: unbalanced
// segment delimiters, a syntax error inside a code segment, or a failure
// while evaluating one. Scan and evaluation failures are always wrapped
// into it so callers only ever deal with one error kind.
type FormatError struct {
	// Template is the identifier (usually the file path) of the
	// offending template.
	Template string
	// Segment is the code segment that failed, empty for scan errors.
	Segment string
	// Reason describes the failure.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *FormatError) Error() string {
	if e.Segment != "" {
		return fmt.Sprintf("template %q has illegal format: can't evaluate %q: %s", e.Template, e.Segment, e.Reason)
	}
	return fmt.Sprintf("template %q has illegal format: %s", e.Template, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *FormatError) Unwrap() error {
	return e.Err
}

func scanError(name, reason string) *FormatError {
	return &FormatError{Template: name, Reason: reason}
}

func segmentError(name, segment string, err error) *FormatError {
	return &FormatError{Template: name, Segment: segment, Reason: err.Error(), Err: err}
}
