// Package domain contains business logic types and errors.
// Domain errors represent business-level failures, NOT HTTP errors.
// They are infrastructure-agnostic; the status code they carry is the
// client-facing code the HTTP adapter mirrors verbatim.
package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// DefaultErrorStatus is the status used when a failure carries no status of its own.
const DefaultErrorStatus = http.StatusServiceUnavailable

// Sentinel errors for use with errors.Is().
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrValidation indicates the request was rejected before reaching upstream.
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable indicates a required dependency is unavailable.
	ErrUnavailable = errors.New("unavailable")

	// ErrUpstream indicates the upstream answered with a status that is
	// neither a not-found nor a server failure.
	ErrUpstream = errors.New("upstream rejected request")
)

// AppError is the single error currency surfaced past the service core.
// Every failure (transport, upstream status, unexpected) is normalized into one.
type AppError struct {
	// Message is the client-facing description.
	Message string

	// StatusCode is the HTTP-style status mirrored to the caller.
	StatusCode int

	// Operational marks expected failures (as opposed to programming errors).
	Operational bool
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

// Unwrap returns the sentinel error matching the status class for errors.Is() support.
func (e *AppError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return ErrValidation
	case e.StatusCode >= http.StatusInternalServerError:
		return ErrUnavailable
	default:
		return ErrUpstream
	}
}

// NewAppError creates an operational application error.
// A non-positive status falls back to DefaultErrorStatus.
func NewAppError(message string, statusCode int) *AppError {
	if statusCode <= 0 {
		statusCode = DefaultErrorStatus
	}

	return &AppError{Message: message, StatusCode: statusCode, Operational: true}
}

// NewValidationError creates a 400 application error for a rejected input.
func NewValidationError(field, message string) *AppError {
	if field != "" {
		message = fmt.Sprintf("%s %s", field, message)
	}

	return NewAppError(message, http.StatusBadRequest)
}

// AsAppError extracts an AppError from an error chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}

	return nil, false
}

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsUnavailable checks if an error is an unavailable error.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
