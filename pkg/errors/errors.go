package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeBadRequest    ErrorCode = "BAD_REQUEST"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeConflict      ErrorCode = "CONFLICT"
	ErrCodeRateLimited   ErrorCode = "RATE_LIMITED"
	ErrCodeDatabase      ErrorCode = "DATABASE_ERROR"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound reports a missing row, e.g. "Contact with ID 7 not found".
func NotFound(resource string, id uint) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s with ID %d not found", resource, id))
}

func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message)
}

func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message)
}

// Database wraps a failed (and rolled back) persistence operation.
func Database(message string, err error) *AppError {
	return Wrap(ErrCodeDatabase, message, err)
}

func Internal(message string, err error) *AppError {
	return Wrap(ErrCodeInternalError, message, err)
}

// CodeOf returns the code of the first AppError in err's chain, or ErrCodeInternalError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// IsNotFound checks if error is NotFound
func IsNotFound(err error) bool {
	return err != nil && CodeOf(err) == ErrCodeNotFound
}

// IsUnauthorized checks if error is Unauthorized
func IsUnauthorized(err error) bool {
	return err != nil && CodeOf(err) == ErrCodeUnauthorized
}

// IsValidation checks if error is a validation failure
func IsValidation(err error) bool {
	return err != nil && CodeOf(err) == ErrCodeValidation
}

// IsConflict checks if error is Conflict
func IsConflict(err error) bool {
	return err != nil && CodeOf(err) == ErrCodeConflict
}

// IsDatabase checks if error is a database failure
func IsDatabase(err error) bool {
	return err != nil && CodeOf(err) == ErrCodeDatabase
}

// HTTPStatus maps an error to the response status the API reports for it.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeBadRequest:
		return http.StatusBadRequest
	case ErrCodeValidation:
		return http.StatusUnprocessableEntity
	case ErrCodeConflict:
		return http.StatusConflict
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text that may be shown to API clients.
// Database and internal failures never expose their cause.
func PublicMessage(err error) string {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		return "An unexpected error occurred"
	}
	switch appErr.Code {
	case ErrCodeDatabase:
		return "Database operation failed"
	case ErrCodeInternalError:
		return "An unexpected error occurred"
	}
	return appErr.Message
}

// Slug renders the code the way response bodies carry it ("not_found", "validation_error", ...).
func Slug(err error) string {
	code := CodeOf(err)
	if code == ErrCodeInternalError {
		return "internal_server_error"
	}
	return strings.ToLower(string(code))
}
