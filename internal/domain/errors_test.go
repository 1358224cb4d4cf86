package domain

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound,
		ErrValidation,
		ErrUnavailable,
		ErrUpstream,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNewAppError(t *testing.T) {
	tests := []struct {
		name           string
		message        string
		status         int
		expectedStatus int
	}{
		{
			name:           "explicit status kept",
			message:        "Not Found",
			status:         http.StatusNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "zero status defaults to 503",
			message:        "boom",
			status:         0,
			expectedStatus: http.StatusServiceUnavailable,
		},
		{
			name:           "negative status defaults to 503",
			message:        "boom",
			status:         -1,
			expectedStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAppError(tt.message, tt.status)

			assert.Equal(t, tt.message, err.Message)
			assert.Equal(t, tt.expectedStatus, err.StatusCode)
			assert.True(t, err.Operational)
		})
	}
}

func TestAppError_Error(t *testing.T) {
	err := NewAppError("Not Found", http.StatusNotFound)
	assert.Equal(t, "Not Found (status 404)", err.Error())
}

func TestAppError_UnwrapByStatusClass(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{name: "404 is not found", status: http.StatusNotFound, sentinel: ErrNotFound},
		{name: "400 is validation", status: http.StatusBadRequest, sentinel: ErrValidation},
		{name: "422 is validation", status: http.StatusUnprocessableEntity, sentinel: ErrValidation},
		{name: "500 is unavailable", status: http.StatusInternalServerError, sentinel: ErrUnavailable},
		{name: "503 is unavailable", status: http.StatusServiceUnavailable, sentinel: ErrUnavailable},
		{name: "429 is upstream", status: http.StatusTooManyRequests, sentinel: ErrUpstream},
		{name: "418 is upstream", status: http.StatusTeapot, sentinel: ErrUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAppError("msg", tt.status)
			require.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestAsAppError_ThroughWrapping(t *testing.T) {
	original := NewAppError("Not Found", http.StatusNotFound)
	wrapped := fmt.Errorf("getting pokemon: %w", original)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Same(t, original, appErr)
	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsUnavailable(wrapped))
}

func TestAsAppError_PlainError(t *testing.T) {
	appErr, ok := AsAppError(fmt.Errorf("plain"))
	assert.False(t, ok)
	assert.Nil(t, appErr)
}

func TestNewValidationError(t *testing.T) {
	err := NewValidationError("name", "is required")

	assert.Equal(t, "name is required", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.True(t, IsValidation(err))

	bare := NewValidationError("", "bad input")
	assert.Equal(t, "bad input", bare.Message)
}
