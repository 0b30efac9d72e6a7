package bedrock

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// Option represents a configuration option
type Option func(*Cache)

// WithTTL sets how long successful responses are served from the cache
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithClock sets the clock used for entry timestamps and staleness checks
func WithClock(clock clockwork.Clock) Option {
	return func(c *Cache) {
		c.clock = clock
	}
}

// WithLogger sets a logger for cache activity
func WithLogger(logger Logger) Option {
	return func(c *Cache) {
		c.logger = logger
	}
}

// WithMetrics enables Prometheus metrics on the default registerer
func WithMetrics() Option {
	return func(c *Cache) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Cache) {
		c.metrics = collector
	}
}

// WithKeyFields replaces the allow-list of request fields that make up the
// cache key for svc. Use it when the backend returns payloads that differ by
// a field the default list ignores, e.g. adding "metric" for analytics.
func WithKeyFields(svc Service, fields ...string) Option {
	return func(c *Cache) {
		c.keyFields[svc] = append([]string(nil), fields...)
	}
}

// ValidateConfiguration validates the cache configuration and returns an error if invalid
func (c *Cache) ValidateConfiguration() error {
	var errors []string

	if c.ttl <= 0 {
		errors = append(errors, "ttl must be positive")
	}
	if c.ttl > 24*time.Hour {
		errors = append(errors, "ttl > 24h may serve very stale reports")
	}

	if c.clock == nil {
		errors = append(errors, "clock cannot be nil")
	}

	for svc, fields := range c.keyFields {
		if !svc.Valid() {
			errors = append(errors, fmt.Sprintf("key fields configured for unknown service %q", svc))
			continue
		}
		for i, field := range fields {
			if field == "" {
				errors = append(errors, fmt.Sprintf("key field %d for service %q cannot be empty", i, svc))
			}
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, errors)
	}

	return nil
}
