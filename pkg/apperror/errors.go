// Package apperror provides a structured way to surface the process-level
// error kinds the CLI boundary needs to distinguish: a malformed request,
// an LP/flow backend that could not reach a verdict, or anything else.
package apperror

import (
	"errors"
	"fmt"
)

// ErrorCode represents a specific application error code.
type ErrorCode string

const (
	// CodeMalformedRequest covers schema violations: missing required
	// fields, negative bounds, hi < lo, a sink used as a supply source,
	// and similar shape errors caught during request validation.
	CodeMalformedRequest ErrorCode = "MALFORMED_REQUEST"
	// CodeUnsolvableCore covers the LP backend returning a status other
	// than optimal/infeasible — a genuine process-level failure, not a
	// correctly-determined infeasible result. The failed call is not
	// retried.
	CodeUnsolvableCore ErrorCode = "UNSOLVABLE_CORE"
	// CodeInternal is the fallback for any error that didn't originate
	// from this package (I/O failures, config load errors, and so on).
	CodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error is a custom error type carrying an ErrorCode alongside a
// human-readable message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, allowing for error chain introspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new application error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Code extracts the ErrorCode from an error. If the error is not an *Error,
// it returns CodeInternal.
func Code(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
