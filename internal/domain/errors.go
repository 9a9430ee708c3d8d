package domain

import (
	"net/http"
	"time"
)

// Error is the single failure value that crosses component boundaries.
// Services construct these; the HTTP transport maps them to responses exactly once.
type Error struct {
	Status     int
	Message    string
	Details    map[string]any
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidation reports a request the caller can fix (HTTP 400).
func NewValidation(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message}
}

// NewValidationDetails is NewValidation with a machine-readable details payload.
func NewValidationDetails(message string, details map[string]any) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Details: details}
}

// NewUnauthorized reports a missing or wrong ChittyID token (HTTP 401).
func NewUnauthorized() *Error {
	return &Error{Status: http.StatusUnauthorized, Message: "Unauthorized"}
}

// NewNotFound reports an unknown route or hold (HTTP 404).
func NewNotFound(message string) *Error {
	if message == "" {
		message = "Not found"
	}
	return &Error{Status: http.StatusNotFound, Message: message}
}

// NewConflict reports a conflicting duplicate attempt (HTTP 409).
func NewConflict(message string, details map[string]any) *Error {
	return &Error{Status: http.StatusConflict, Message: message, Details: details}
}

// NewRateLimited reports an exhausted fixed window (HTTP 429). retryAfter is
// surfaced as the Retry-After header.
func NewRateLimited(message string, retryAfter time.Duration) *Error {
	return &Error{Status: http.StatusTooManyRequests, Message: message, RetryAfter: retryAfter}
}
