package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	err := New(ValidationError, "invalid input", "field required")
	assert.Equal(t, ValidationError, err.Type)
	assert.Equal(t, "invalid input", err.Message)
	assert.Equal(t, "field required", err.Detail)
}

func TestWrap(t *testing.T) {
	originalErr := fmt.Errorf("original error")
	wrappedErr := Wrap(originalErr, ProtocolError, "decode failed")

	assert.Equal(t, ProtocolError, wrappedErr.Type)
	assert.Equal(t, "decode failed", wrappedErr.Message)
	assert.Equal(t, originalErr.Error(), wrappedErr.Detail)
	assert.Equal(t, originalErr, wrappedErr.Raw)
}

func TestConnectivity(t *testing.T) {
	originalErr := fmt.Errorf("dial tcp: connection refused")
	err := Connectivity(originalErr)

	assert.Equal(t, ConnectivityError, err.Type)
	assert.Equal(t, originalErr, err.Raw)
	assert.ErrorIs(t, err, originalErr)
}

func TestServerLogic(t *testing.T) {
	err := ServerLogic("error", 200)

	assert.Equal(t, ServerLogicError, err.Type)
	assert.Equal(t, "error", err.ServerStatus)
	assert.Equal(t, 200, err.HTTPStatus)
	assert.Equal(t, "error", ServerStatus(err))
}

func TestProtocol(t *testing.T) {
	originalErr := fmt.Errorf("unexpected end of JSON input")
	err := Protocol(originalErr, 500)

	assert.Equal(t, ProtocolError, err.Type)
	assert.Equal(t, 500, err.HTTPStatus)
	assert.Equal(t, originalErr, err.Raw)
}

func TestNotFound(t *testing.T) {
	err := NotFound("Thread", "abc-123")
	assert.Equal(t, NotFoundError, err.Type)
	assert.Equal(t, "Thread not found", err.Message)
	assert.Equal(t, "ID: abc-123", err.Detail)
	assert.Equal(t, 404, err.HTTPStatus)
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name: "with detail",
			err: &AppError{
				Type:    ValidationError,
				Message: "invalid input",
				Detail:  "field required",
			},
			expected: "VALIDATION_ERROR: invalid input (field required)",
		},
		{
			name: "without detail",
			err: &AppError{
				Type:    ConnectivityError,
				Message: "unreachable",
			},
			expected: "CONNECTIVITY_ERROR: unreachable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestIsType(t *testing.T) {
	err := ServerLogic("error", 200)
	wrapped := fmt.Errorf("post message: %w", err)

	assert.True(t, IsType(wrapped, ServerLogicError))
	assert.False(t, IsType(wrapped, ConnectivityError))
	assert.False(t, IsType(fmt.Errorf("plain"), ServerLogicError))
}
