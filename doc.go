// Package bedrock is the data layer behind the Bedrock analytics dashboard:
// it fetches Google Analytics, Search Console and PageSpeed reports from the
// backend API and keeps them in an in-memory cache.
//
//   - Responses are cached per request scope for a fixed TTL (5 minutes by default)
//   - Concurrent identical requests share one backend call
//   - Failures and non-2xx responses are never cached
//   - Retries with backoff live in the HTTP transport, not the cache
//   - Prometheus metrics and leveled logging (zap) are optional
//
// The scope of a request is decided by a per-service allow-list of fields:
// analytics requests are keyed by range only, Search Console by range and
// site, PageSpeed by site. Requests differing only in metrics or dimensions
// therefore share one entry; use WithKeyFields when the backend returns
// metric-specific payloads.
//
// Typical usage:
//
//	cfg, err := bedrock.LoadConfig("bedrock.yaml")
//	if err != nil {
//	    return err // ErrMissingBaseURL when BEDROCK_BACKEND_URL is unset
//	}
//	svc, err := bedrock.NewAnalyticsServiceFromConfig(cfg, nil, bedrock.WithMetrics())
//	if err != nil {
//	    return err
//	}
//	report, err := svc.HandleAnalyticsRequest(ctx, bedrock.AnalyticsRequest{
//	    Range:  bedrock.RangeWeek,
//	    Metric: []bedrock.Metric{bedrock.MetricActiveUsers},
//	})
//
// Each Cache is an explicit instance; create one per process (or per test)
// and share it between callers.
package bedrock
