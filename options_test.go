package bedrock

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
)

func TestNewCacheDefaults(t *testing.T) {
	c := NewCache()

	if !c.IsValid() {
		t.Fatalf("default cache invalid: %v", c.ValidationError())
	}
	if c.TTL() != DefaultTTL {
		t.Errorf("Expected ttl=%v, got %v", DefaultTTL, c.TTL())
	}
	if c.metrics != nil {
		t.Error("metrics should be disabled by default")
	}
	if c.logger != nil {
		t.Error("logger should be unset by default")
	}
}

func TestWithTTL(t *testing.T) {
	c := NewCache(WithTTL(time.Minute))

	if c.TTL() != time.Minute {
		t.Errorf("Expected ttl=1m, got %v", c.TTL())
	}
}

func TestWithClock(t *testing.T) {
	clock := clockwork.NewFakeClock()
	c := NewCache(WithClock(clock))

	if c.clock != clock {
		t.Error("Expected custom clock to be set")
	}
}

func TestWithMetricsCollector(t *testing.T) {
	collector := NewMetricsCollectorWithRegistry(prometheus.NewRegistry())
	c := NewCache(WithMetricsCollector(collector))

	if c.metrics != collector {
		t.Error("Expected custom metrics collector to be set")
	}
}

func TestWithKeyFieldsDoesNotLeakIntoDefaults(t *testing.T) {
	fields := []string{"range", "metric"}
	c := NewCache(WithKeyFields(ServiceAnalytics, fields...))
	fields[1] = "mutated"

	if got := c.keyFields[ServiceAnalytics]; len(got) != 2 || got[1] != "metric" {
		t.Errorf("Expected [range metric], got %v", got)
	}
	if got := defaultKeyFields[ServiceAnalytics]; len(got) != 1 {
		t.Errorf("default allow-list modified: %v", got)
	}

	other := NewCache()
	if got := other.keyFields[ServiceAnalytics]; len(got) != 1 {
		t.Errorf("new cache picked up modified allow-list: %v", got)
	}
}

func TestValidateConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		options []Option
		valid   bool
	}{
		{"defaults", nil, true},
		{"zero ttl", []Option{WithTTL(0)}, false},
		{"negative ttl", []Option{WithTTL(-time.Second)}, false},
		{"ttl over a day", []Option{WithTTL(25 * time.Hour)}, false},
		{"nil clock", []Option{WithClock(nil)}, false},
		{"unknown service fields", []Option{WithKeyFields(Service("billing"), "range")}, false},
		{"empty field name", []Option{WithKeyFields(ServiceAnalytics, "range", "")}, false},
		{"empty allow-list", []Option{WithKeyFields(ServicePageSpeed)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCache(tt.options...)

			if c.IsValid() != tt.valid {
				t.Errorf("IsValid() = %v, want %v (err: %v)", c.IsValid(), tt.valid, c.ValidationError())
			}
			if !tt.valid && !errors.Is(c.ValidationError(), ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", c.ValidationError())
			}
		})
	}
}
