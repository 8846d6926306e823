package fetch

import (
	"errors"
	"fmt"
)

// ErrorCode classifies fetch errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, etc).
	ErrCodeConnection
	// ErrCodeRetryableStatus indicates a status from the configured
	// retryable set (e.g. 429, 503); retried transparently.
	ErrCodeRetryableStatus
	// ErrCodeUpstreamStatus indicates a status from the configured breaker
	// failure set; surfaced immediately and counted by the breaker.
	ErrCodeUpstreamStatus
	// ErrCodeHardStatus indicates a non-retryable status outside both sets;
	// surfaced immediately, never retried, not counted by the breaker.
	ErrCodeHardStatus
	// ErrCodeDecode indicates the response payload did not match the
	// requested type.
	ErrCodeDecode
	// ErrCodeValidation indicates invalid input, such as an empty
	// reference URL.
	ErrCodeValidation
	// ErrCodeCircuitOpen indicates the circuit breaker rejected the call.
	ErrCodeCircuitOpen
)

// String returns the error code name.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeRetryableStatus:
		return "retryable_status"
	case ErrCodeUpstreamStatus:
		return "upstream_status"
	case ErrCodeHardStatus:
		return "hard_status"
	case ErrCodeDecode:
		return "decode"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeCircuitOpen:
		return "circuit_open"
	default:
		return "unknown"
	}
}

// Error is a structured fetch error with classification.
type Error struct {
	// StatusCode is the HTTP status code (0 for connection-level errors).
	StatusCode int
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// Retryable indicates whether the operation can be retried.
	Retryable bool
	// Body is the original response body (may be nil).
	Body []byte
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("fetch: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{
		Code:      ErrCodeTimeout,
		Message:   err.Error(),
		Retryable: true,
		Err:       err,
	}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{
		Code:      ErrCodeConnection,
		Message:   err.Error(),
		Retryable: true,
		Err:       err,
	}
}

// NewDecodeError creates a decode error.
func NewDecodeError(err error) *Error {
	return &Error{
		Code:      ErrCodeDecode,
		Message:   err.Error(),
		Retryable: false,
		Err:       err,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(msg string) *Error {
	return &Error{
		Code:      ErrCodeValidation,
		Message:   msg,
		Retryable: false,
	}
}

// NewCircuitOpenError creates a circuit-open error wrapping the breaker's
// sentinel so errors.Is still matches resilience.ErrCircuitOpen.
func NewCircuitOpenError(err error) *Error {
	return &Error{
		Code:      ErrCodeCircuitOpen,
		Message:   "upstream circuit is open",
		Retryable: false,
		Err:       err,
	}
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTimeout
}

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeConnection
}

// IsDecode checks if an error is a decode error.
func IsDecode(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeDecode
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeValidation
}

// IsCircuitOpen checks if an error means the circuit breaker is open.
func IsCircuitOpen(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeCircuitOpen
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
