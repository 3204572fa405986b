package types

import (
	"errors"
	"fmt"
)

// ErrorCode represents a namespaced error code for travel-concierge errors.
type ErrorCode string

// Configuration error codes
const (
	CONFIG_LOAD_FAILED       ErrorCode = "CONFIG_LOAD_FAILED"
	CONFIG_PARSE_FAILED      ErrorCode = "CONFIG_PARSE_FAILED"
	CONFIG_VALIDATION_FAILED ErrorCode = "CONFIG_VALIDATION_FAILED"
)

// Database error codes
const (
	DB_OPEN_FAILED   ErrorCode = "DB_OPEN_FAILED"
	DB_SCHEMA_FAILED ErrorCode = "DB_SCHEMA_FAILED"
	DB_QUERY_FAILED  ErrorCode = "DB_QUERY_FAILED"
)

// Session error codes
const (
	SESSION_NOT_FOUND      ErrorCode = "SESSION_NOT_FOUND"
	SESSION_INVALID        ErrorCode = "SESSION_INVALID"
	SESSION_PERSIST_FAILED ErrorCode = "SESSION_PERSIST_FAILED"
)

// Tool error codes
const (
	TOOL_NOT_FOUND        ErrorCode = "TOOL_NOT_FOUND"
	TOOL_ALREADY_EXISTS   ErrorCode = "TOOL_ALREADY_EXISTS"
	TOOL_EXECUTION_FAILED ErrorCode = "TOOL_EXECUTION_FAILED"
	TOOL_INVALID_INPUT    ErrorCode = "TOOL_INVALID_INPUT"
)

// Oracle error codes
const (
	ORACLE_AUTH_FAILED    ErrorCode = "ORACLE_AUTH_FAILED"
	ORACLE_REQUEST_FAILED ErrorCode = "ORACLE_REQUEST_FAILED"
	ORACLE_BAD_RESPONSE   ErrorCode = "ORACLE_BAD_RESPONSE"
)

// Tracing error codes
const (
	TRACING_INIT_FAILED     ErrorCode = "TRACING_INIT_FAILED"
	TRACING_SHUTDOWN_FAILED ErrorCode = "TRACING_SHUTDOWN_FAILED"
)

// ConciergeError represents a structured error with error code, message,
// and optional cause. It supports error wrapping and retryability hints
// for error handling logic.
type ConciergeError struct {
	Code      ErrorCode
	Message   string
	Retryable bool
	Cause     error
}

// Error implements the error interface, returning a formatted error message.
// Format: "[CODE] message" or "[CODE] message: cause" if cause exists.
func (e *ConciergeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error for error unwrapping chains.
// This enables using errors.Is() and errors.As() with wrapped errors.
func (e *ConciergeError) Unwrap() error {
	return e.Cause
}

// Is checks if the target error matches this error by error code.
// Returns true if target is a ConciergeError with the same Code.
func (e *ConciergeError) Is(target error) bool {
	var cerr *ConciergeError
	if errors.As(target, &cerr) {
		return e.Code == cerr.Code
	}
	return false
}

// NewError creates a new non-retryable ConciergeError with the given code and message.
func NewError(code ErrorCode, message string) *ConciergeError {
	return &ConciergeError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     nil,
	}
}

// NewRetryableError creates a new retryable ConciergeError with the given code and message.
// Use this for transient errors that may succeed on retry (e.g., network timeouts).
func NewRetryableError(code ErrorCode, message string) *ConciergeError {
	return &ConciergeError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     nil,
	}
}

// WrapError creates a new non-retryable ConciergeError that wraps an existing error.
// The wrapped error is accessible via Unwrap() for error chain inspection.
func WrapError(code ErrorCode, message string, cause error) *ConciergeError {
	return &ConciergeError{
		Code:      code,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

// WrapRetryableError creates a new retryable ConciergeError that wraps an existing error.
func WrapRetryableError(code ErrorCode, message string, cause error) *ConciergeError {
	return &ConciergeError{
		Code:      code,
		Message:   message,
		Retryable: true,
		Cause:     cause,
	}
}

// IsRetryable reports whether err carries a retryable hint anywhere in its chain.
func IsRetryable(err error) bool {
	var cerr *ConciergeError
	if errors.As(err, &cerr) {
		return cerr.Retryable
	}
	return false
}
