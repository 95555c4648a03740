package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeInvalidInput indicates a missing or malformed request parameter
	ErrorTypeInvalidInput ErrorType = "INVALID_INPUT"

	// ErrorTypeUpstreamUnavailable indicates an external provider failed
	// (network, status, decode or auth)
	ErrorTypeUpstreamUnavailable ErrorType = "UPSTREAM_UNAVAILABLE"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: message,
	}
}

// NewUpstreamError creates a new upstream provider error
func NewUpstreamError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeUpstreamUnavailable,
		Message: message,
		Err:     err,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// TypeOf returns the ErrorType carried by err, or ErrorTypeInternal for
// errors that are not AppErrors.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ErrorTypeInternal
}

// IsInvalidInput reports whether err is an invalid input error
func IsInvalidInput(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeInvalidInput
}

// IsUpstreamUnavailable reports whether err is an upstream provider error
func IsUpstreamUnavailable(err error) bool {
	return err != nil && TypeOf(err) == ErrorTypeUpstreamUnavailable
}

// HTTPStatus maps an error to the status code returned to clients.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case ErrorTypeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the message safe to show to a client. Invalid input
// messages are user-correctable and returned as-is; everything else gets the
// caller-supplied generic fallback.
func PublicMessage(err error, fallback string) string {
	var appErr *AppError
	if stderrors.As(err, &appErr) && appErr.Type == ErrorTypeInvalidInput && appErr.Message != "" {
		return appErr.Message
	}
	return fallback
}
