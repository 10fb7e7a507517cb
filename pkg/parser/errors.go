package parser

import "errors"

// ErrInvalidFormat is the kind of every parse failure: the line is empty,
// its structural markers are missing or out of order, it has no message,
// or it is longer than the source's line limit.
var ErrInvalidFormat = errors.New("invalid log line format")

// Reasons attached to ParseError. They are diagnostic only; callers should
// match on the kind with errors.Is.
const (
	ReasonEmptyLine       = "empty line"
	ReasonMissingSpace    = "missing space"
	ReasonMissingOpen     = "missing '['"
	ReasonMissingClose    = "missing ']'"
	ReasonLevelBeforeTS   = "level marker before first space"
	ReasonCloseBeforeOpen = "']' before '['"
	ReasonEmptyMessage    = "empty message"
	ReasonLineTooLong     = "line too long"
)

// ParseError describes why a line could not be turned into a LogEntry.
type ParseError struct {
	// Kind is the error class. Always ErrInvalidFormat.
	Kind error

	// Reason is a short human-readable explanation.
	Reason string
}

func newParseError(reason string) *ParseError {
	return &ParseError{Kind: ErrInvalidFormat, Reason: reason}
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.Kind.Error() + ": " + e.Reason
}

// Is reports whether target is the error's kind.
func (e *ParseError) Is(target error) bool {
	return target == e.Kind
}

// Unwrap returns the error kind.
func (e *ParseError) Unwrap() error {
	return e.Kind
}
