// Package errors defines the unified error types for the response pipeline.
// Transport and extraction failures are mapped to these standard types so the
// orchestrator can decide retry and fallback behavior uniformly.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// PipelineError represents a standardized failure in the response pipeline.
type PipelineError struct {
	Kind       string `json:"kind"`
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Retryable  bool   `json:"-"`
	Cause      error  `json:"-"`
}

// Error implements the error interface.
func (e *PipelineError) Error() string {
	return fmt.Sprintf("[%s] %s (code=%d)", e.Kind, e.Message, e.StatusCode)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *PipelineError) Unwrap() error {
	return e.Cause
}

// Error kind constants.
const (
	KindRequestFailed      = "request_failed"
	KindTimeout            = "timeout_error"
	KindRateLimit          = "rate_limit_error"
	KindInvalidRequest     = "invalid_request_error"
	KindServiceUnavailable = "service_unavailable_error"
	KindExtractionFailed   = "extraction_failed"
	KindInternalError      = "internal_error"
)

// ErrUnrecognizedShape is returned when a response body matches none of the
// known provider shapes.
var ErrUnrecognizedShape = errors.New("unrecognized response shape")

// NewRequestFailed creates the terminal error raised after retries are
// exhausted. It carries the last observed failure as its cause.
func NewRequestFailed(cause error) *PipelineError {
	message := "request failed"
	if cause != nil {
		message = cause.Error()
	}
	return &PipelineError{
		Kind:      KindRequestFailed,
		Message:   message,
		Retryable: false,
		Cause:     cause,
	}
}

// NewInvalidRequest creates a non-retryable argument validation error.
func NewInvalidRequest(message string) *PipelineError {
	return &PipelineError{
		StatusCode: http.StatusBadRequest,
		Kind:       KindInvalidRequest,
		Message:    message,
		Retryable:  false,
	}
}

// IsTimeout reports whether err is, or was caused by, a timeout.
func IsTimeout(err error) bool {
	for pe := (*PipelineError)(nil); errors.As(err, &pe); err = pe.Cause {
		if pe.Kind == KindTimeout {
			return true
		}
		if pe.Cause == nil {
			break
		}
	}
	return false
}

// NewTimeoutError creates a per-attempt timeout error (retryable).
func NewTimeoutError(message string) *PipelineError {
	return &PipelineError{
		StatusCode: http.StatusRequestTimeout,
		Kind:       KindTimeout,
		Message:    message,
		Retryable:  true,
	}
}

// NewExtractionFailed creates an error for a response body that matched no
// known provider shape. Treated like a transport failure by the orchestrator.
func NewExtractionFailed(message string) *PipelineError {
	return &PipelineError{
		Kind:      KindExtractionFailed,
		Message:   message,
		Retryable: false,
	}
}

// FromStatus maps a non-success HTTP status to a PipelineError.
//
// Plain 4xx statuses are non-retryable: retrying a request the server already
// rejected cannot succeed. 408 and 429 are the exceptions, and all 5xx
// statuses are considered transient.
func FromStatus(statusCode int, message string) *PipelineError {
	kind := KindInternalError
	retryable := statusCode >= 500

	switch statusCode {
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		kind = KindTimeout
		retryable = true
	case http.StatusTooManyRequests:
		kind = KindRateLimit
		retryable = true
	case http.StatusServiceUnavailable, http.StatusBadGateway:
		kind = KindServiceUnavailable
		retryable = true
	default:
		if statusCode >= 400 && statusCode < 500 {
			kind = KindInvalidRequest
			retryable = false
		}
	}

	return &PipelineError{
		StatusCode: statusCode,
		Kind:       kind,
		Message:    message,
		Retryable:  retryable,
	}
}

// IsRetryable reports whether err may succeed on a subsequent attempt.
// Errors that are not PipelineErrors (connection resets, DNS failures and the
// like) are treated as transient.
func IsRetryable(err error) bool {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Retryable
	}
	return true
}
