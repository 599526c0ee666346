package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request deadline or client timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, reset).
	ErrCodeConnection
	// ErrCodeCanceled indicates the caller's context was canceled.
	ErrCodeCanceled
	// ErrCodeAuth indicates an authentication/authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeNotFound indicates the resource was not found (404).
	ErrCodeNotFound
	// ErrCodeRateLimit indicates rate limiting (429).
	ErrCodeRateLimit
	// ErrCodeValidation indicates a rejected request (other 4xx) or one that could not be built.
	ErrCodeValidation
	// ErrCodeServer indicates a server-side error (5xx).
	ErrCodeServer
	// ErrCodeDecode indicates a success response body could not be decoded.
	ErrCodeDecode
)

var errorCodeNames = map[ErrorCode]string{
	ErrCodeTimeout:    "timeout",
	ErrCodeConnection: "connection",
	ErrCodeCanceled:   "canceled",
	ErrCodeAuth:       "auth",
	ErrCodeNotFound:   "not_found",
	ErrCodeRateLimit:  "rate_limit",
	ErrCodeValidation: "validation",
	ErrCodeServer:     "server",
	ErrCodeDecode:     "decode",
}

// String returns the error code name.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "unknown"
}

// Error is a structured HTTP client error with classification.
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
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

func newTransportError(code ErrorCode, retryable bool, err error) *Error {
	return &Error{Code: code, Message: err.Error(), Retryable: retryable, Err: err}
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error { return newTransportError(ErrCodeTimeout, true, err) }

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error { return newTransportError(ErrCodeConnection, true, err) }

// NewCanceledError creates an error for a request abandoned by its caller.
func NewCanceledError(err error) *Error { return newTransportError(ErrCodeCanceled, false, err) }

// NewValidationError creates an error for a request that could not be built.
func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// NewDecodeError creates an error for a 2xx body that is not the expected JSON.
func NewDecodeError(statusCode int, body []byte, err error) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeDecode,
		Message:    fmt.Sprintf("decode response: %v", err),
		Body:       body,
		Err:        err,
	}
}

// NewStatusError creates an error for a non-2xx response.
func NewStatusError(statusCode int, code ErrorCode, retryable bool, body []byte) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       code,
		Message:    http.StatusText(statusCode),
		Retryable:  retryable,
		Body:       body,
	}
}

// ClassifyStatusCode converts an HTTP status code into a typed error.
// Returns nil for 2xx status codes.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return NewStatusError(statusCode, ErrCodeAuth, false, body)
	case statusCode == http.StatusNotFound:
		return NewStatusError(statusCode, ErrCodeNotFound, false, body)
	case statusCode == http.StatusTooManyRequests:
		return NewStatusError(statusCode, ErrCodeRateLimit, true, body)
	case statusCode >= 400 && statusCode < 500:
		return NewStatusError(statusCode, ErrCodeValidation, false, body)
	case statusCode >= 500:
		return NewStatusError(statusCode, ErrCodeServer, true, body)
	default:
		// 1xx/3xx that the client did not follow
		return NewStatusError(statusCode, ErrCodeServer, false, body)
	}
}

// AsError extracts a classified *Error from err's chain.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	e, ok := AsError(err)
	return ok && e.Code == code
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool { return hasCode(err, ErrCodeTimeout) }

// IsConnection checks if an error is a connection error.
func IsConnection(err error) bool { return hasCode(err, ErrCodeConnection) }

// IsCanceled checks if an error is a cancellation error.
func IsCanceled(err error) bool { return hasCode(err, ErrCodeCanceled) }

// IsDecode checks if an error is a response decoding error.
func IsDecode(err error) bool { return hasCode(err, ErrCodeDecode) }

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	e, ok := AsError(err)
	return ok && e.Retryable
}
