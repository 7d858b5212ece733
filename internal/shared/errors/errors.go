// Package errors provides application-level error types and utilities.
// Besides the generic validation and internal errors it defines the rejection
// kinds produced by the protection pipeline.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "validation_error"
	ErrorTypeInternal       ErrorType = "internal_error"
	ErrorTypeQuotaExceeded  ErrorType = "rate_limit_exceeded"
	ErrorTypeOriginRejected ErrorType = "origin_rejected"
	ErrorTypeCSRFMismatch   ErrorType = "csrf_validation_failed"
)

// AppError represents an application error with additional context
type AppError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
	Code    int       `json:"code"`
	Details string    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func newAppError(t ErrorType, code int, message string, details []string) *AppError {
	detail := ""
	if len(details) > 0 {
		detail = details[0]
	}
	return &AppError{
		Type:    t,
		Message: message,
		Code:    code,
		Details: detail,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, message, details)
}

// NewInternalError creates a new internal error
func NewInternalError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeInternal, http.StatusInternalServerError, message, details)
}

// NewQuotaExceededError is returned when a client ran out of quota.
// The caller may retry once the reported retry-after has elapsed.
func NewQuotaExceededError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeQuotaExceeded, http.StatusTooManyRequests, message, details)
}

// NewOriginRejectedError is returned when a preflight comes from an origin
// outside the CORS policy. Not retryable without reconfiguration.
func NewOriginRejectedError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeOriginRejected, http.StatusForbidden, message, details)
}

// NewCSRFMismatchError is returned when the double-submit token pair is absent
// or does not match. The caller must fetch a fresh token.
func NewCSRFMismatchError(message string, details ...string) *AppError {
	return newAppError(ErrorTypeCSRFMismatch, http.StatusForbidden, message, details)
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError extracts AppError from error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsCSRFMismatchError checks if the error is a CSRF token failure
func IsCSRFMismatchError(err error) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Type == ErrorTypeCSRFMismatch
}
