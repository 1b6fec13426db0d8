package mealdb

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is returned for any non-200 response from the catalog.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("mealdb: %s: HTTP %d", e.Endpoint, e.StatusCode)
}

// Recoverable reports whether retrying the request could help:
// timeouts, rate limiting and server errors are; other 4xx are not.
func (e *StatusError) Recoverable() bool {
	switch {
	case e.StatusCode == http.StatusRequestTimeout, e.StatusCode == http.StatusTooManyRequests:
		return true
	case e.StatusCode >= 400 && e.StatusCode < 500:
		return false
	default:
		return true
	}
}

// isRecoverable classifies an attempt error. Network errors are treated as
// transient; decode errors are not.
func isRecoverable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Recoverable()
	}
	var de *decodeError
	if errors.As(err, &de) {
		return false
	}
	return true
}

// decodeError wraps a malformed response body.
type decodeError struct {
	endpoint string
	err      error
}

func (e *decodeError) Error() string {
	return fmt.Sprintf("mealdb: %s: decode response: %v", e.endpoint, e.err)
}

func (e *decodeError) Unwrap() error { return e.err }
