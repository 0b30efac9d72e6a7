package bedrock

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
)

func TestRequestErrorError(t *testing.T) {
	err := &RequestError{
		Service:    ServiceSearchConsole,
		Method:     "POST",
		URL:        "http://localhost:8081/api/google/searchConsole",
		RequestID:  "req-7",
		StatusCode: 502,
	}

	msg := err.Error()
	for _, want := range []string{"searchConsole", "status 502", "[req-7]", "POST http://localhost:8081/api/google/searchConsole"} {
		if !strings.Contains(msg, want) {
			t.Errorf("Error() = %q, missing %q", msg, want)
		}
	}

	var nilErr *RequestError
	if nilErr.Error() != "<nil>" {
		t.Errorf("nil RequestError.Error() = %q", nilErr.Error())
	}
}

func TestRequestErrorUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := fmt.Errorf("fetch: %w", &RequestError{Service: ServiceAnalytics, Cause: cause})

	if !errors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatal("expected errors.As to find *RequestError")
	}
	if reqErr.Service != ServiceAnalytics {
		t.Errorf("Service = %q", reqErr.Service)
	}
}

func TestRequestErrorIs(t *testing.T) {
	err := &RequestError{StatusCode: 404}

	if !errors.Is(err, &RequestError{}) {
		t.Error("expected match against zero-status target")
	}
	if !errors.Is(err, &RequestError{StatusCode: 404}) {
		t.Error("expected match against same status")
	}
	if errors.Is(err, &RequestError{StatusCode: 500}) {
		t.Error("unexpected match against different status")
	}
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

var _ net.Error = timeoutError{}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, true},
		{"wrapped deadline", &RequestError{Cause: context.DeadlineExceeded}, true},
		{"too many requests", &RequestError{StatusCode: 429}, true},
		{"server error", &RequestError{StatusCode: 503}, true},
		{"bad request", &RequestError{StatusCode: 400}, false},
		{"network", &RequestError{Cause: timeoutError{}}, true},
		{"config", ErrMissingBaseURL, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsTransient(tt.err); got != tt.want {
				t.Errorf("IsTransient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
