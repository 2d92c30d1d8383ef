package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Sign-in and backend errors shared across services
var (
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid username or password"}
	ErrSessionExpired     = &AppError{Code: http.StatusUnauthorized, Message: "Session has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
	ErrBackendUnavailable = &AppError{Code: http.StatusBadGateway, Message: "Bookshop backend is unavailable"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// NewValidationError reports several invalid fields at once
func NewValidationError(fieldErrors []FieldError) *AppError {
	err := NewAppError(http.StatusUnprocessableEntity, "Validation failed")
	err.Errors = fieldErrors
	return err
}

// NewFieldError reports one invalid field; the field message doubles as the
// error message shown to the user
func NewFieldError(field, message string) *AppError {
	err := NewAppError(http.StatusUnprocessableEntity, message)
	err.Errors = []FieldError{{Field: field, Message: message}}
	return err
}

// NewNotFoundError reports a missing resource by name
func NewNotFoundError(resource string) *AppError {
	return NewAppError(http.StatusNotFound, resource+" not found")
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

// NewBusinessError wraps a business-rule rejection reported by the backend.
// The message is surfaced to the user verbatim.
func NewBusinessError(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, message)
}

// NewBackendError maps a non-2xx backend status to an application error.
// Client errors keep their status; anything else becomes 502.
func NewBackendError(status int, message string) *AppError {
	code := http.StatusBadGateway
	if status >= 400 && status < 500 {
		code = status
	}
	if message == "" {
		message = "Backend request failed: " + http.StatusText(status)
	}
	return NewAppError(code, message)
}

// GetAppError converts an error to AppError if possible. Anything else is
// reported as a 500.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewAppError(http.StatusInternalServerError, err.Error())
}
