package domain

import (
	"fmt"
	"net/http"
)

// Error is the client-facing failure taxonomy. Every error that crosses the
// handler boundary is either one of these or collapses into Internal.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func newError(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// ErrValidation reports malformed input.
func ErrValidation(message string) *Error {
	return newError(http.StatusBadRequest, "invalid_parameter", message)
}

// ErrConflict reports a unique-field collision.
func ErrConflict(message string) *Error {
	return newError(http.StatusConflict, "conflict", message)
}

// ErrUnauthenticated reports a missing, invalid, or expired credential.
func ErrUnauthenticated(message string) *Error {
	return newError(http.StatusUnauthorized, "unauthenticated", message)
}

// ErrForbidden reports an authenticated caller acting on a resource it does
// not own.
func ErrForbidden(message string) *Error {
	return newError(http.StatusForbidden, "forbidden", message)
}

// ErrNotFound reports an absent resource.
func ErrNotFound(message string) *Error {
	return newError(http.StatusNotFound, "not_found", message)
}

// ErrTransient reports a persistence or network failure that the caller may
// retry.
func ErrTransient(message string) *Error {
	return newError(http.StatusInternalServerError, "transient", message)
}

// ErrInternal reports an unexpected failure.
func ErrInternal(message string) *Error {
	return newError(http.StatusInternalServerError, "internal", message)
}
