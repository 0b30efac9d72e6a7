package bedrock

import (
	"context"
)

// AnalyticsService is the entry point used by dashboard code: each handler
// goes through the shared Cache before reaching the backend.
type AnalyticsService struct {
	cache *Cache

	analytics     Transport[AnalyticsRequest, *AnalyticsResponse]
	searchConsole Transport[SearchConsoleRequest, *SearchConsoleResponse]
	pageSpeed     Transport[PageSpeedInsightRequest, *PageSpeedInsightResponse]
}

// NewAnalyticsService wires cache to the backend described by transport.
func NewAnalyticsService(cache *Cache, transport *HTTPTransport) *AnalyticsService {
	return &AnalyticsService{
		cache:         cache,
		analytics:     PostJSON[AnalyticsRequest, *AnalyticsResponse](transport, ServiceAnalytics, PathAnalytics),
		searchConsole: PostJSON[SearchConsoleRequest, *SearchConsoleResponse](transport, ServiceSearchConsole, PathSearchConsole),
		pageSpeed:     PostJSON[PageSpeedInsightRequest, *PageSpeedInsightResponse](transport, ServicePageSpeed, PathPageSpeed),
	}
}

// NewAnalyticsServiceFromConfig builds the transport and cache from cfg.
// Cache options are applied after the configured TTL, so they may override
// it. It fails with ErrMissingBaseURL before any request can be made when
// the backend URL is absent.
func NewAnalyticsServiceFromConfig(cfg *Config, logger Logger, options ...Option) (*AnalyticsService, error) {
	var transportOpts []TransportOption
	if logger != nil {
		transportOpts = append(transportOpts, WithTransportLogger(logger))
	}

	transport, err := NewHTTPTransport(cfg, transportOpts...)
	if err != nil {
		return nil, err
	}

	cacheOpts := []Option{WithTTL(cfg.CacheTTL)}
	if logger != nil {
		cacheOpts = append(cacheOpts, WithLogger(logger))
	}
	cacheOpts = append(cacheOpts, options...)

	cache := NewCache(cacheOpts...)
	if err := cache.ValidationError(); err != nil {
		return nil, err
	}

	return NewAnalyticsService(cache, transport), nil
}

// HandleAnalyticsRequest fetches a GA report.
func (s *AnalyticsService) HandleAnalyticsRequest(ctx context.Context, req AnalyticsRequest) (*AnalyticsResponse, error) {
	return Execute(ctx, s.cache, ServiceAnalytics, req, s.analytics)
}

// HandleSearchConsoleRequest fetches Search Console query data.
func (s *AnalyticsService) HandleSearchConsoleRequest(ctx context.Context, req SearchConsoleRequest) (*SearchConsoleResponse, error) {
	return Execute(ctx, s.cache, ServiceSearchConsole, req, s.searchConsole)
}

// HandlePageSpeedInsightsRequest fetches Lighthouse scores for a site.
func (s *AnalyticsService) HandlePageSpeedInsightsRequest(ctx context.Context, req PageSpeedInsightRequest) (*PageSpeedInsightResponse, error) {
	return Execute(ctx, s.cache, ServicePageSpeed, req, s.pageSpeed)
}

// ClearCache empties the response and in-flight stores.
func (s *AnalyticsService) ClearCache() {
	s.cache.Clear()
}

// CacheState reports the cached and in-flight keys.
func (s *AnalyticsService) CacheState() CacheState {
	return s.cache.State()
}

// Cache returns the underlying cache.
func (s *AnalyticsService) Cache() *Cache {
	return s.cache
}
