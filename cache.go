package bedrock

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/osmarBedrock/bedrock-frontend/internal/singleflight"
)

// DefaultTTL is how long a successful response is served from the cache.
const DefaultTTL = 5 * time.Minute

// CacheEntry is a stored response and the time it was written.
type CacheEntry struct {
	Data      any
	Timestamp time.Time
}

// CacheState lists the keys currently held by each store.
type CacheState struct {
	Cached  []CacheKey `json:"cached"`
	Pending []CacheKey `json:"pending"`
}

// Response is what a Transport produced: the decoded body and the status it
// arrived with.
type Response[T any] struct {
	StatusCode int
	Body       T
}

// Successful reports a 2xx status.
func (r Response[T]) Successful() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Transport performs the backend call for params.
type Transport[P, T any] func(ctx context.Context, params P) (Response[T], error)

// Cache is an in-memory response cache that also coalesces concurrent
// requests for the same key into a single backend call. Entries are never
// evicted; staleness is checked when they are read. It is safe for
// concurrent use.
type Cache struct {
	mu         sync.Mutex
	entries    map[CacheKey]*CacheEntry
	pending    *singleflight.Group
	generation uint64

	ttl       time.Duration
	clock     clockwork.Clock
	keyFields map[Service][]string
	logger    Logger
	metrics   *MetricsCollector

	validationError error
}

// NewCache constructs a Cache using the provided functional options. Call
// IsValid / ValidationError to check the resulting configuration.
func NewCache(options ...Option) *Cache {
	keyFields := make(map[Service][]string, len(defaultKeyFields))
	for svc, fields := range defaultKeyFields {
		keyFields[svc] = append([]string(nil), fields...)
	}

	c := &Cache{
		entries:   make(map[CacheKey]*CacheEntry),
		pending:   singleflight.New(),
		ttl:       DefaultTTL,
		clock:     clockwork.NewRealClock(),
		keyFields: keyFields,
	}

	for _, option := range options {
		option(c)
	}

	if err := c.ValidateConfiguration(); err != nil {
		c.validationError = err
	}

	return c
}

// Key derives the cache key for a request to svc using this cache's
// allow-lists.
func (c *Cache) Key(svc Service, params any) CacheKey {
	return deriveKey(svc, c.keyFields[svc], params)
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Execute returns the cached body for the request when it is still fresh,
// otherwise joins an identical in-flight request or starts one through
// transport. Only 2xx responses are cached; errors are never cached and are
// returned unchanged to every caller sharing the request.
//
// Each caller stops waiting when its own ctx is done. The backend call itself
// runs on a context detached from cancellation, so one caller leaving does not
// fail the others.
func Execute[P, T any](ctx context.Context, c *Cache, svc Service, params P, transport Transport[P, T]) (T, error) {
	var zero T

	if c.validationError != nil {
		return zero, c.validationError
	}
	if !svc.Valid() {
		return zero, fmt.Errorf("%w: %q", ErrUnknownService, svc)
	}

	key := c.Key(svc, params)

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && c.clock.Now().Sub(entry.Timestamp) < c.ttl {
		c.mu.Unlock()

		c.metrics.RecordLookup(svc, LookupHit)
		if c.logger != nil {
			c.logger.Debug("Cache hit", "service", svc, "cacheKey", key, "age", c.clock.Now().Sub(entry.Timestamp))
		}
		return bodyOf[T](entry.Data)
	}

	call, owner := c.pending.Join(key)
	generation := c.generation
	if owner {
		c.metrics.RecordSizes(len(c.entries), c.pending.Len())
	}
	c.mu.Unlock()

	if owner {
		c.metrics.RecordLookup(svc, LookupMiss)
		if c.logger != nil {
			c.logger.Debug("Cache miss - calling backend", "service", svc, "cacheKey", key)
		}
		go runTransport(context.WithoutCancel(ctx), c, svc, key, generation, call, params, transport)
	} else {
		c.metrics.RecordLookup(svc, LookupShared)
		if c.logger != nil {
			c.logger.Debug("Joined in-flight request", "service", svc, "cacheKey", key)
		}
	}

	v, err := call.Wait(ctx)
	if err != nil {
		return zero, err
	}
	return bodyOf[T](v)
}

func runTransport[P, T any](ctx context.Context, c *Cache, svc Service, key CacheKey, generation uint64, call *singleflight.Call, params P, transport Transport[P, T]) {
	start := c.clock.Now()
	resp, err := invoke(ctx, params, transport)
	duration := c.clock.Now().Sub(start)

	c.metrics.RecordTransport(svc, resp.StatusCode, duration, err)

	// Waiters are released after the outcome is logged.
	c.mu.Lock()
	defer func() {
		c.pending.Settle(key, call, resp, err)
		c.metrics.RecordSizes(len(c.entries), c.pending.Len())
		c.mu.Unlock()
	}()

	stored := err == nil && resp.Successful() && generation == c.generation
	if stored {
		c.entries[key] = &CacheEntry{Data: resp, Timestamp: c.clock.Now()}
	}

	if c.logger == nil {
		return
	}
	switch {
	case err != nil:
		c.logger.Warn("Backend request failed", "service", svc, "cacheKey", key, "duration", duration, "error", err.Error())
	case !resp.Successful():
		c.logger.Warn("Backend returned non-success status, not caching", "service", svc, "cacheKey", key, "statusCode", resp.StatusCode)
	case stored:
		c.logger.Debug("Response cached", "service", svc, "cacheKey", key, "ttl", c.ttl, "duration", duration)
	default:
		c.logger.Debug("Cache cleared during request, result not stored", "service", svc, "cacheKey", key)
	}
}

// invoke runs transport, turning a panic into an error so the pending entry
// is always settled.
func invoke[P, T any](ctx context.Context, params P, transport Transport[P, T]) (resp Response[T], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("bedrock: transport panicked: %v", r)
		}
	}()
	return transport(ctx, params)
}

func bodyOf[T any](v any) (T, error) {
	resp, ok := v.(Response[T])
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: have %T", ErrUnexpectedResponse, v)
	}
	return resp.Body, nil
}

// Clear empties both the response store and the in-flight store. Requests
// already running still complete for their callers but do not repopulate
// the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[CacheKey]*CacheEntry)
	c.pending.Reset()
	c.generation++
	c.metrics.RecordSizes(0, 0)
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Info("Cache cleared")
	}
}

// State returns the sorted keys of both stores. Stale entries are listed
// until they are overwritten or cleared.
func (c *Cache) State() CacheState {
	c.mu.Lock()
	cached := make([]CacheKey, 0, len(c.entries))
	for k := range c.entries {
		cached = append(cached, k)
	}
	pending := c.pending.Keys()
	c.mu.Unlock()

	sort.Strings(cached)
	return CacheState{Cached: cached, Pending: pending}
}

// Len returns the number of stored entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// IsValid reports whether configuration validation passed at construction.
func (c *Cache) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Cache) ValidationError() error {
	return c.validationError
}
