package client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ServerError is a structured error decoded from the service's error payload.
type ServerError struct {
	Code    int
	Kind    string
	Message string
}

func (e *ServerError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	return e.Message
}

// networkError wraps transport-level failures (dial, reset, DNS).
type networkError struct{ err error }

func (e networkError) Error() string { return "network error: " + e.err.Error() }
func (e networkError) Unwrap() error { return e.err }

// timeoutError wraps deadline expiry, from either the context or the socket.
type timeoutError struct{ err error }

func (e timeoutError) Error() string { return "request timed out" }
func (e timeoutError) Unwrap() error { return e.err }

// classifyTransportError sorts a failed round trip into the client taxonomy:
// canceled, timed out, or plain network failure. Cancellation is surfaced as
// context.Canceled so callers can discard it silently.
func classifyTransportError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return context.Canceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutError{err}
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return timeoutError{err}
	}
	return networkError{err}
}

// IsCanceled reports whether err came from an advisory cancellation.
func IsCanceled(err error) bool { return errors.Is(err, context.Canceled) }

// IsTimeout reports whether err came from a deadline expiry.
func IsTimeout(err error) bool {
	var te timeoutError
	return errors.As(err, &te)
}

// IsNetwork reports whether err is a transport-level failure.
func IsNetwork(err error) bool {
	var ne networkError
	return errors.As(err, &ne)
}

// IsServer reports whether err is a structured error from the service, and
// returns it when so.
func IsServer(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
