package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/osmarBedrock/bedrock-frontend/internal/backoff"
)

// Backend paths, relative to Config.BackendURL.
const (
	PathAnalytics     = "/google/analytics"
	PathSearchConsole = "/google/searchConsole"
	PathPageSpeed     = "/google/pageSpeed"
)

// RequestIDHeader carries a per-call id for correlating backend logs.
const RequestIDHeader = "X-Request-ID"

const maxErrorBody = 4 << 10

// HTTPTransport posts JSON requests to the reporting backend, retrying
// network failures, 429 and 5xx responses with backoff.
type HTTPTransport struct {
	baseURL   string
	client    *retryablehttp.Client
	logger    Logger
	requestID func() string
}

// TransportOption configures an HTTPTransport.
type TransportOption func(*HTTPTransport)

// WithHTTPClient replaces the underlying *http.Client. The configured
// timeout still applies.
func WithHTTPClient(client *http.Client) TransportOption {
	return func(t *HTTPTransport) {
		timeout := t.client.HTTPClient.Timeout
		t.client.HTTPClient = client
		t.client.HTTPClient.Timeout = timeout
	}
}

// WithTransportLogger sets the logger used for requests and retries.
func WithTransportLogger(logger Logger) TransportOption {
	return func(t *HTTPTransport) {
		t.logger = logger
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) TransportOption {
	return func(t *HTTPTransport) {
		t.requestID = gen
	}
}

// NewHTTPTransport builds a transport for cfg. It fails with
// ErrMissingBaseURL when no backend URL is configured, so a misconfigured
// process cannot issue any request.
func NewHTTPTransport(cfg *Config, options ...TransportOption) (*HTTPTransport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	strategy, err := backoff.ByName(cfg.Backoff, cfg.Jitter)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = cfg.Timeout
	rc.RetryMax = cfg.RetryMax
	rc.RetryWaitMin = cfg.RetryWaitMin
	rc.RetryWaitMax = cfg.RetryWaitMax
	rc.Backoff = retryBackoff(strategy)
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil

	t := &HTTPTransport{
		baseURL:   strings.TrimRight(cfg.BackendURL, "/"),
		client:    rc,
		requestID: uuid.NewString,
	}

	for _, option := range options {
		option(t)
	}

	if t.logger != nil {
		rc.Logger = t.logger
	}

	return t, nil
}

// retryBackoff honours Retry-After on 429/503 and otherwise defers to the
// configured strategy.
func retryBackoff(strategy backoff.Strategy) retryablehttp.Backoff {
	return func(min, max time.Duration, attemptNum int, resp *http.Response) time.Duration {
		if resp != nil && (resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable) {
			if resp.Header.Get("Retry-After") != "" {
				return retryablehttp.DefaultBackoff(min, max, attemptNum, resp)
			}
		}
		return strategy.Wait(attemptNum, min, max)
	}
}

// BaseURL returns the backend base URL without a trailing slash.
func (t *HTTPTransport) BaseURL() string {
	return t.baseURL
}

// Post sends body as JSON to path and decodes a 2xx JSON reply into out. Any
// other status is returned as a *RequestError.
func (t *HTTPTransport) Post(ctx context.Context, svc Service, path string, body, out any) (int, error) {
	url := t.baseURL + path

	var requestID string
	if t.requestID != nil {
		requestID = t.requestID()
	}

	fail := func(status int, respBody string, cause error) (int, error) {
		return status, &RequestError{
			Service:    svc,
			Method:     http.MethodPost,
			URL:        url,
			RequestID:  requestID,
			StatusCode: status,
			Body:       respBody,
			Cause:      cause,
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fail(0, "", fmt.Errorf("encode request: %w", err))
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, payload)
	if err != nil {
		return fail(0, "", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if requestID != "" {
		req.Header.Set(RequestIDHeader, requestID)
	}

	if t.logger != nil {
		t.logger.Debug("Starting request", "requestID", requestID, "service", svc, "url", url)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		return fail(0, "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fail(resp.StatusCode, strings.TrimSpace(string(snippet)), nil)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return fail(resp.StatusCode, "", fmt.Errorf("decode response: %w", err))
		}
	}

	return resp.StatusCode, nil
}

// PostJSON adapts t into a Transport that posts params to path.
func PostJSON[P, T any](t *HTTPTransport, svc Service, path string) Transport[P, T] {
	return func(ctx context.Context, params P) (Response[T], error) {
		var out T
		status, err := t.Post(ctx, svc, path, params, &out)
		if err != nil {
			return Response[T]{StatusCode: status}, err
		}
		return Response[T]{StatusCode: status, Body: out}, nil
	}
}
