package bedrock

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Sentinel errors for common failure scenarios
var (
	// ErrMissingBaseURL is returned when no backend URL is configured.
	ErrMissingBaseURL = errors.New("bedrock: backend base URL is not configured")

	// ErrUnknownService is returned for a service outside the known set.
	ErrUnknownService = errors.New("bedrock: unknown service")

	// ErrUnexpectedResponse is returned when a shared or cached value does not
	// have the type the caller asked for.
	ErrUnexpectedResponse = errors.New("bedrock: unexpected response type")

	// ErrInvalidConfig wraps configuration validation failures.
	ErrInvalidConfig = errors.New("bedrock: invalid configuration")
)

// RequestError describes a failed call to the reporting backend.
type RequestError struct {
	Service    Service
	Method     string
	URL        string
	RequestID  string
	StatusCode int
	Body       string
	Cause      error
}

// Error implements error interface.
func (e *RequestError) Error() string {
	if e == nil {
		return "<nil>"
	}

	msg := fmt.Sprintf("%s %s", e.Method, e.URL)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	return fmt.Sprintf("bedrock: %s request failed: %s", e.Service, msg)
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches another *RequestError with the same status code, or any
// *RequestError when the target's status code is zero.
func (e *RequestError) Is(target error) bool {
	if e == nil {
		return false
	}
	t, ok := target.(*RequestError)
	if !ok {
		return false
	}
	return t.StatusCode == 0 || t.StatusCode == e.StatusCode
}

// IsTransient reports whether err is worth retrying at a higher layer:
// network failures, timeouts, 429 and 5xx responses.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var reqErr *RequestError
	if errors.As(err, &reqErr) && reqErr.StatusCode > 0 {
		return reqErr.StatusCode == http.StatusTooManyRequests || reqErr.StatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	return false
}
