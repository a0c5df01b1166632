// Package errors defines the SDK's error taxonomy. Every failure surfaced by
// the feedback and crash clients is an *AppError so callers can branch on the
// error class instead of string matching.
package errors

import (
	"errors"
	"fmt"
)

type ErrorType string

const (
	// ConnectivityError is a transport-level failure with no structured
	// server response (network unreachable, timeout, connection reset).
	ConnectivityError ErrorType = "CONNECTIVITY_ERROR"
	// NotFoundError marks a resource the server no longer knows about.
	NotFoundError ErrorType = "NOT_FOUND"
	// ServerLogicError is a well-formed response whose status field is not
	// "success"; the server-provided status string rides in ServerStatus.
	ServerLogicError ErrorType = "SERVER_LOGIC_ERROR"
	// ProtocolError is a response body that could not be parsed.
	ProtocolError ErrorType = "PROTOCOL_ERROR"
	// ValidationError is caller input rejected before any request is sent.
	ValidationError ErrorType = "VALIDATION_ERROR"
)

// AppError represents a structured SDK error.
type AppError struct {
	Type         ErrorType `json:"type"`
	Message      string    `json:"message"`
	Detail       string    `json:"detail,omitempty"`
	ServerStatus string    `json:"server_status,omitempty"`
	HTTPStatus   int       `json:"-"`
	Raw          error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// New creates a new AppError.
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Detail:  detail,
	}
}

// Wrap wraps a raw error with AppError context.
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:    errType,
		Message: message,
		Detail:  err.Error(),
		Raw:     err,
	}
}

// Connectivity wraps a transport failure. The original error is preserved
// unwrapped; nothing in the SDK swallows or retries it.
func Connectivity(err error) *AppError {
	return &AppError{
		Type:    ConnectivityError,
		Message: "request could not reach the server",
		Detail:  err.Error(),
		Raw:     err,
	}
}

// ServerLogic reports a response whose status field was not "success".
func ServerLogic(status string, httpStatus int) *AppError {
	return &AppError{
		Type:         ServerLogicError,
		Message:      "server rejected the request",
		Detail:       fmt.Sprintf("status: %s", status),
		ServerStatus: status,
		HTTPStatus:   httpStatus,
	}
}

// Protocol reports a response body that failed to parse.
func Protocol(err error, httpStatus int) *AppError {
	return &AppError{
		Type:       ProtocolError,
		Message:    "malformed server response",
		Detail:     err.Error(),
		HTTPStatus: httpStatus,
		Raw:        err,
	}
}

// ValidationFailed reports bad caller input.
func ValidationFailed(message string, detail string) *AppError {
	return &AppError{
		Type:    ValidationError,
		Message: message,
		Detail:  detail,
	}
}

// NotFound reports a missing resource.
func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: 404,
	}
}

// IsType reports whether err is an AppError of the given type.
func IsType(err error, errType ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == errType
	}
	return false
}

// ServerStatus extracts the server-provided status string from a
// ServerLogicError, or "" when err is anything else.
func ServerStatus(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.ServerStatus
	}
	return ""
}
