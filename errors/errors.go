package errors

import (
	"fmt"
	"net/http"
)

// StatusClientClosedRequest is the non-standard status used when the caller
// went away before the operation completed.
const StatusClientClosedRequest = 499

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Caller errors ---

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// Validation creates a new AppError for validation errors whose message is
// shown to the caller verbatim.
func Validation(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidInput, Message: message,
		HTTPStatus: http.StatusBadRequest, Retryable: false,
	}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// Forbidden creates a new AppError for an operation the configuration does not allow.
func Forbidden(reason string) *AppError {
	if reason == "" {
		reason = "You don't have permission to perform this action."
	}
	return &AppError{
		Code: ErrCodeForbidden, Message: reason,
		HTTPStatus: http.StatusForbidden, Retryable: false,
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// AlreadyExists creates a new AppError for a resource that already exists.
func AlreadyExists(resource string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("A %s with this name already exists.", resource),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"resource": resource},
	}
}

// Canceled creates a new AppError for an operation abandoned by its caller.
func Canceled(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: fmt.Sprintf("The %s operation was canceled.", operation),
		HTTPStatus: StatusClientClosedRequest, Retryable: false,
		Details: map[string]any{"operation": operation}, Cause: cause,
	}
}

// --- Connection/Availability errors ---

// ConnectionFailed creates a new AppError for a failed connection to a service.
func ConnectionFailed(service string) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("Unable to connect to %s.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// Timeout creates a new AppError for an operation that ran out of time.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("The %s operation took too long.", operation),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// RateLimited creates a new AppError for too many requests.
func RateLimited(service string) *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: fmt.Sprintf("%s is rate limiting requests. Please wait and try again.", service),
		HTTPStatus: http.StatusTooManyRequests, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// --- Upstream errors ---

// Upstream creates a new AppError for a non-success HTTP status returned by a
// remote service. The status code and response body are kept as details.
func Upstream(service string, statusCode int, body string) *AppError {
	details := map[string]any{"service": service, "status_code": statusCode}
	if body != "" {
		details["body"] = body
	}
	return &AppError{
		Code: ErrCodeUpstream, Message: fmt.Sprintf("%s responded with HTTP %d.", service, statusCode),
		HTTPStatus: http.StatusBadGateway, Retryable: statusCode >= 500,
		Details: details,
	}
}

// MalformedResponse creates a new AppError for a success response missing an
// expected field or failing to decode.
func MalformedResponse(service, field string) *AppError {
	details := map[string]any{"service": service}
	if field != "" {
		details["field"] = field
	}
	msg := fmt.Sprintf("%s returned a response that could not be understood.", service)
	if field != "" {
		msg = fmt.Sprintf("%s returned a response without %q.", service, field)
	}
	return &AppError{
		Code: ErrCodeMalformedResponse, Message: msg,
		HTTPStatus: http.StatusBadGateway, Retryable: false, Details: details,
	}
}

// TranscriptionFailed creates a new AppError for a job that ended in the
// remote service's error state. reason is the service-provided error text.
func TranscriptionFailed(id, reason string) *AppError {
	details := map[string]any{}
	if id != "" {
		details["transcript_id"] = id
	}
	if reason == "" {
		reason = "transcription failed without a reason"
	}
	return &AppError{
		Code: ErrCodeTranscriptionFailed, Message: reason,
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false, Details: details,
	}
}

// ProtocolViolation creates a new AppError for a job status outside the
// documented set.
func ProtocolViolation(id, status string) *AppError {
	details := map[string]any{"status": status}
	if id != "" {
		details["transcript_id"] = id
	}
	return &AppError{
		Code: ErrCodeProtocolViolation, Message: fmt.Sprintf("Unexpected transcript status %q.", status),
		HTTPStatus: http.StatusBadGateway, Retryable: false, Details: details,
	}
}

// --- Internal errors ---

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
