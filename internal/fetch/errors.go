package fetch

import (
	"fmt"
	"net/http"
)

// Error is returned by Fetch when no attempt produced a 2xx response.
type Error struct {
	URL string
	// Attempts is the number of requests issued.
	Attempts int
	// StatusCode is the terminal HTTP status, or 0 when the failure happened
	// below HTTP.
	StatusCode int
	// Err is the last observed cause.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("GET %s: unexpected status: %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	case e.Attempts > 1:
		return fmt.Sprintf("GET %s: giving up after %d attempts: %v", e.URL, e.Attempts, e.Err)
	default:
		return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Transient reports whether the last cause was a retryable transport
// failure, i.e. the attempt budget ran out rather than the server refusing.
func (e *Error) Transient() bool { return e.StatusCode == 0 && isTransient(e.Err) }

type statusError struct {
	code int
}

func (e *statusError) Error() string { return fmt.Sprintf("unexpected status: %d", e.code) }

// transportError marks failures raised by the HTTP round trip or body read.
type transportError struct {
	err error
}

func (e *transportError) Error() string { return e.err.Error() }

func (e *transportError) Unwrap() error { return e.err }
