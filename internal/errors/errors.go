// Package errors provides standardized domain errors with codes for the Cerebero API.
//
// Usage:
//
//	// In services - return typed errors
//	if nameTaken {
//	    return errors.Conflict("a tag with this name already exists")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrNotFound) {
//	    ...
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeValidation         Code = "VALIDATION"
	CodeConflict           Code = "CONFLICT"
	CodeInternal           Code = "INTERNAL"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeTokenExpired       Code = "TOKEN_EXPIRED"
	CodeUpstream           Code = "UPSTREAM_UNAVAILABLE"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeConflict:
		return http.StatusConflict
	case CodeUnauthorized, CodeInvalidCredentials, CodeTokenExpired:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause returns a new error wrapping an underlying cause.
func (e *Error) WithCause(cause error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   cause,
	}
}

// Sentinel errors for errors.Is checks.
var (
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "resource not found"}
	ErrAlreadyExists      = &Error{Code: CodeAlreadyExists, Message: "resource already exists"}
	ErrUnauthorized       = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden          = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrConflict           = &Error{Code: CodeConflict, Message: "conflict"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid credentials"}
	ErrUpstream           = &Error{Code: CodeUpstream, Message: "upstream service unavailable"}
)

// Constructors for common error cases.

// NotFound creates a not-found error with a custom message.
func NotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// AlreadyExists creates an already-exists error with a custom message.
func AlreadyExists(message string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: message}
}

// Unauthorized creates an unauthorized error with a custom message.
func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

// Forbidden creates a forbidden error with a custom message.
func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

// Validation creates a validation error with a custom message.
func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// Validationf creates a validation error with a formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error carrying field-level detail.
func ValidationWithDetails(message string, details any) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

// Conflict creates a conflict error with a custom message.
func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

// Internal creates an internal error with a custom message.
func Internal(message string) *Error {
	return &Error{Code: CodeInternal, Message: message}
}

// InvalidCredentials creates an invalid-credentials error.
func InvalidCredentials(message string) *Error {
	return &Error{Code: CodeInvalidCredentials, Message: message}
}

// TokenExpired creates a token-expired error with a custom message.
func TokenExpired(message string) *Error {
	return &Error{Code: CodeTokenExpired, Message: message}
}

// Upstream creates an upstream-unavailable error wrapping the provider failure.
func Upstream(message string, cause error) *Error {
	return &Error{Code: CodeUpstream, Message: message, cause: cause}
}
