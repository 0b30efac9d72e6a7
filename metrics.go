package bedrock

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes recorded by MetricsCollector.
const (
	LookupHit    = "hit"
	LookupMiss   = "miss"
	LookupShared = "shared"
)

// MetricsCollector provides Prometheus metrics for cache lookups and backend
// calls. A nil *MetricsCollector is valid and records nothing.
type MetricsCollector struct {
	lookupsTotal *prometheus.CounterVec

	transportDuration *prometheus.HistogramVec
	transportErrors   *prometheus.CounterVec

	cacheEntries    prometheus.Gauge
	pendingRequests prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetricsCollector creates a metrics collector on the default registerer.
func NewMetricsCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
}

// NewMetricsCollectorWithRegistry creates a collector using supplied registerer.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(registry)

	mc := &MetricsCollector{
		lookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bedrock_cache_lookups_total",
				Help: "Total number of cache lookups by outcome (hit, miss, shared)",
			},
			[]string{"service", "result"},
		),
		transportDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bedrock_transport_duration_seconds",
				Help:    "Duration of backend calls issued on cache misses",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "status_code"},
		),
		transportErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bedrock_transport_errors_total",
				Help: "Total number of failed backend calls",
			},
			[]string{"service"},
		),
		cacheEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bedrock_cache_entries",
				Help: "Current number of entries in the response cache",
			},
		),
		pendingRequests: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "bedrock_pending_requests",
				Help: "Current number of in-flight backend calls",
			},
		),
	}

	if reg, ok := registry.(*prometheus.Registry); ok {
		mc.registry = reg
	}

	return mc
}

// RecordLookup increments the lookup counter for a hit, miss or shared result.
func (mc *MetricsCollector) RecordLookup(service Service, result string) {
	if mc == nil {
		return
	}

	mc.lookupsTotal.WithLabelValues(string(service), result).Inc()
}

// RecordTransport observes one backend call. statusCode is 0 when the call
// failed before a response was received.
func (mc *MetricsCollector) RecordTransport(service Service, statusCode int, duration time.Duration, err error) {
	if mc == nil {
		return
	}

	mc.transportDuration.WithLabelValues(string(service), strconv.Itoa(statusCode)).Observe(duration.Seconds())
	if err != nil {
		mc.transportErrors.WithLabelValues(string(service)).Inc()
	}
}

// RecordSizes sets the cache and pending gauges.
func (mc *MetricsCollector) RecordSizes(entries, pending int) {
	if mc == nil {
		return
	}

	mc.cacheEntries.Set(float64(entries))
	mc.pendingRequests.Set(float64(pending))
}

// GetRegistry exposes the underlying prometheus registry, or nil when the
// collector was built on a different Registerer.
func (mc *MetricsCollector) GetRegistry() *prometheus.Registry {
	if mc == nil {
		return nil
	}
	return mc.registry
}
