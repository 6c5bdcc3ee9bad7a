// Package apperror defines the application's error taxonomy.
//
// Services return these errors; the HTTP layer maps them to status codes
// with errors.Is. The sentinels below are the full taxonomy:
//
//	ErrValidation   → 400  malformed or missing input
//	ErrUnauthorized → 401  missing/invalid token or credentials
//	ErrForbidden    → 403  authenticated, but not allowed to touch the resource
//	ErrNotFound     → 404  id does not resolve
//	ErrConflict     → 409  uniqueness violation
//
// Anything outside the taxonomy is an internal error: logged server-side,
// returned to the client as a generic 500.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// FieldError names a single request field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Err     error        // sentinel from the taxonomy above
	Message string       // human-readable error message
	Fields  []FieldError // optional: the fields causing a validation error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Fields:  []FieldError{{Field: field, Message: message}},
	}
}

// ValidationFields builds a validation error reporting every violated field
// at once, the way the registration endpoint responds when several inputs
// are bad in the same request.
func ValidationFields(fields ...FieldError) *AppError {
	msg := "validation failed"
	if len(fields) == 1 {
		msg = fields[0].Message
	}
	return &AppError{
		Err:     ErrValidation,
		Message: msg,
		Fields:  fields,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Unauthorized returns an AppError for missing or invalid credentials.
// HTTP handlers map this to 401.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}
