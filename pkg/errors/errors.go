package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeHTTPStatus ErrorType = "http_status"
	ErrorTypeExhausted  ErrorType = "exhausted"
	ErrorTypeEmptyBody  ErrorType = "empty_body"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeParsing    ErrorType = "parsing"
)

// Error represents a fetch pipeline error with type information
type Error struct {
	Type    ErrorType
	Message string
	Code    int   // HTTP status code when Type is ErrorTypeHTTPStatus
	Err     error // underlying cause, if any
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NetworkError wraps a connection or timeout failure
func NetworkError(err error) *Error {
	return &Error{
		Type:    ErrorTypeNetwork,
		Message: fmt.Sprintf("network error: %v", err),
		Err:     err,
	}
}

// HTTPStatusError records a non-2xx status that is not worth retrying
func HTTPStatusError(code int) *Error {
	return &Error{
		Type:    ErrorTypeHTTPStatus,
		Message: fmt.Sprintf("server returned status %d", code),
		Code:    code,
	}
}

// ExhaustedError records that all retry attempts were consumed
func ExhaustedError(attempts int, last error) *Error {
	return &Error{
		Type:    ErrorTypeExhausted,
		Message: fmt.Sprintf("failed after %d attempts: %v", attempts, last),
		Err:     last,
	}
}

// EmptyBodyError records a 2xx response with no body bytes
func EmptyBodyError() *Error {
	return &Error{
		Type:    ErrorTypeEmptyBody,
		Message: "empty response body",
	}
}

// IOError wraps a filesystem failure
func IOError(op string, err error) *Error {
	return &Error{
		Type:    ErrorTypeIO,
		Message: fmt.Sprintf("%s: %v", op, err),
		Err:     err,
	}
}

// ConfigError records a structurally unsafe or incomplete invocation.
// Config errors are fatal and abort a run before any network activity.
func ConfigError(format string, args ...interface{}) *Error {
	return &Error{
		Type:    ErrorTypeConfig,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsType reports whether err is an *Error of the given type
func IsType(err error, t ErrorType) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// IsNotFound reports whether err is an HTTP 404 status error
func IsNotFound(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Type == ErrorTypeHTTPStatus && e.Code == 404
	}
	return false
}

// IsRetryableStatusCode checks if an HTTP status code indicates a transient error
func IsRetryableStatusCode(statusCode int) bool {
	switch statusCode {
	case 0: // Network error
		return true
	case 429: // Too Many Requests
		return true
	case 500, 502, 503, 504: // Server errors
		return true
	default:
		return false
	}
}
