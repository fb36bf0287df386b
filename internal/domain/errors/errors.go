package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateName = errors.New("duplicate name")
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("membership conflict")
	ErrPersistence   = errors.New("persistence failure")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
)

// Error codes
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeDuplicateName = "DUPLICATE_NAME"
	CodeNotFound      = "NOT_FOUND"
	CodeConflict      = "MEMBERSHIP_CONFLICT"
	CodePersistence   = "PERSISTENCE_ERROR"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Status)
}

// Unwrap exposes the sentinel so errors.Is(err, ErrNotFound) holds.
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func Validation(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, ErrValidation)
}

func DuplicateName(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeDuplicateName, message, ErrDuplicateName)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeConflict, message, ErrConflict)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

// Persistence wraps an unexpected data-access failure. The underlying error
// is kept for logs but never rendered in production.
func Persistence(err error) *AppError {
	return &AppError{
		Status:  http.StatusInternalServerError,
		Code:    CodePersistence,
		Message: "internal server error",
		Err:     errors.Join(ErrPersistence, err),
	}
}

// AsAppError normalises any error into an AppError; unknown errors become
// persistence failures.
func AsAppError(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, ErrNotFound) {
		return NotFound(err.Error())
	}
	return Persistence(err)
}
