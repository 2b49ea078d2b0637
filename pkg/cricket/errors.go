package cricket

import "errors"

// Code is a machine-readable error code.
type Code string

const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeInvalidState       Code = "INVALID_STATE"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeInconsistentLedger Code = "INCONSISTENT_LEDGER"
)

// Error is a domain error carrying a code and optional metadata.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound           = &Error{Code: CodeNotFound}
	ErrInvalidState       = &Error{Code: CodeInvalidState}
	ErrInvalidArgument    = &Error{Code: CodeInvalidArgument}
	ErrInconsistentLedger = &Error{Code: CodeInconsistentLedger}
)

// NotFound reports a missing match, delivery or record.
func NotFound(what, id string) *Error {
	return &Error{
		Code:     CodeNotFound,
		Message:  what + " not found",
		Metadata: map[string]string{"id": id},
	}
}

// InvalidState reports an operation the current match state forbids.
func InvalidState(message string) *Error {
	return &Error{Code: CodeInvalidState, Message: message}
}

// Invalid reports malformed input.
func Invalid(message string) *Error {
	return &Error{Code: CodeInvalidArgument, Message: message}
}

// CodeOf returns the domain code of err, or "" if err is not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
