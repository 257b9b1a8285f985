// Package apperr provides standardized domain error types for the application.
// Domain services return these typed errors; the bot layer maps them to
// user-facing replies and the HTTP layer maps them to status codes.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind represents the category of error.
type Kind int

const (
	// KindUnknown is the default error kind when none is specified.
	KindUnknown Kind = iota
	// KindNotFound indicates a resource (typically an order) was not found.
	KindNotFound
	// KindValidation indicates invalid input, e.g. order text that parses to
	// nothing or a malformed problem report.
	KindValidation
	// KindForbidden indicates the caller is neither the submitter nor the
	// administrator.
	KindForbidden
	// KindInvalidState indicates the requested transition is not allowed in
	// the order's current status (e.g. editing a delivered order).
	KindInvalidState
	// KindUnmatched indicates one or more products could not be resolved to a
	// supplier; Details carries the unmatched item lines.
	KindUnmatched
	// KindTransport indicates an outbound send to the chat gateway failed.
	KindTransport
	// KindInternal indicates an unexpected internal error.
	KindInternal
)

// Error is a domain error with a typed Kind.
type Error struct {
	Kind    Kind
	Message string
	Op      string      // Operation that failed (optional)
	Err     error       // Underlying error (optional)
	Details interface{} // Additional details for response (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the appropriate HTTP status code for this error kind.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindUnmatched:
		return http.StatusBadRequest
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidState:
		return http.StatusConflict
	case KindTransport:
		return http.StatusBadGateway
	case KindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// New creates a new domain error with the given kind and message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// WithOp returns the error with the operation set.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// WithDetails returns the error with additional details.
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// Convenience constructors for common error types.

// NotFound creates a not found error.
func NotFound(message string) *Error {
	return New(KindNotFound, message)
}

// Validation creates a validation error.
func Validation(message string) *Error {
	return New(KindValidation, message)
}

// Forbidden creates a forbidden error.
func Forbidden(message string) *Error {
	return New(KindForbidden, message)
}

// InvalidState creates an invalid state transition error.
func InvalidState(message string) *Error {
	return New(KindInvalidState, message)
}

// Unmatched creates an unmatched products error carrying the offending lines.
func Unmatched(message string, items []string) *Error {
	return New(KindUnmatched, message).WithDetails(items)
}

// Transport creates a transport error for a failed outbound send.
func Transport(message string, err error) *Error {
	return Wrap(KindTransport, message, err)
}

// Internal creates an internal error.
func Internal(message string) *Error {
	return New(KindInternal, message)
}

// GetKind extracts the error kind from an error.
// Returns KindUnknown if the error is not an *Error.
func GetKind(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return KindUnknown
}

// Is checks if err is an *Error with the given kind.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}
