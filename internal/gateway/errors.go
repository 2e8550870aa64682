package gateway

import (
	"errors"
	"fmt"
	"strings"
)

// StatusError reports a response status outside the expected set.
// It carries enough context (method, path, actual vs expected status)
// to diagnose a failed mutation without replaying the request.
type StatusError struct {
	// Method is the HTTP method of the failed request.
	Method string

	// Path is the request path relative to the gateway base URL.
	Path string

	// Status is the status code the gateway actually returned.
	Status int

	// Expected is the set of status codes the caller accepted.
	Expected []int

	// Body is a truncated copy of the response body, for diagnosis.
	Body string
}

// Error implements the error interface for StatusError.
func (e *StatusError) Error() string {
	want := make([]string, len(e.Expected))
	for i, s := range e.Expected {
		want[i] = fmt.Sprintf("%d", s)
	}
	msg := fmt.Sprintf("%s %s returned unexpected status %d (expected %s)",
		e.Method, e.Path, e.Status, strings.Join(want, ", "))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// IsUnexpectedStatus checks if an error is or wraps a StatusError.
func IsUnexpectedStatus(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}

// StatusOf returns the status code carried by a wrapped StatusError,
// or 0 when the error is of a different kind.
func StatusOf(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status
	}
	return 0
}

// TransportError reports a connection or timeout failure. The Timeout
// flag distinguishes an exceeded deadline from other transport problems.
type TransportError struct {
	Method  string
	Path    string
	Timeout bool
	Err     error
}

// Error implements the error interface for TransportError.
func (e *TransportError) Error() string {
	kind := "connection failed"
	if e.Timeout {
		kind = "timed out"
	}
	return fmt.Sprintf("%s %s %s: %v", e.Method, e.Path, kind, e.Err)
}

// Unwrap exposes the underlying transport error for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTimeout checks if an error is a TransportError caused by a timeout.
func IsTimeout(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr) && transportErr.Timeout
}

// IsTransport checks if an error is or wraps a TransportError.
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// DecodeError reports a response body that could not be parsed as JSON.
type DecodeError struct {
	Method string
	Path   string
	Err    error
}

// Error implements the error interface for DecodeError.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s %s returned an unparsable body: %v", e.Method, e.Path, e.Err)
}

// Unwrap exposes the underlying decode error for errors.Is/As.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsDecode checks if an error is or wraps a DecodeError.
func IsDecode(err error) bool {
	var decodeErr *DecodeError
	return errors.As(err, &decodeErr)
}
