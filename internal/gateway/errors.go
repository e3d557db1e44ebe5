package gateway

import (
	"errors"
	"fmt"
)

// ErrAuthExpired is returned after a 401. The credential has already been
// cleared and the navigator sent to the login entry point.
var ErrAuthExpired = errors.New("auth_expired")

// RequestFailedError is a non-2xx, non-401 response.
type RequestFailedError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

// TransportError means no response was received, including timeouts.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status of a RequestFailedError, or 0.
func StatusOf(err error) int {
	var failed *RequestFailedError
	if errors.As(err, &failed) {
		return failed.Status
	}
	return 0
}
