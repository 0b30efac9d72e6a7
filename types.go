package bedrock

// Range is the reporting window requested from the backend.
type Range string

const (
	RangeDay     Range = "day"
	RangeWeek    Range = "week"
	RangeMonth   Range = "month"
	RangeQuarter Range = "quarter"
)

// Metric names a Google Analytics or Search Console measure.
type Metric string

const (
	MetricPosition               Metric = "position"
	MetricClicks                 Metric = "clicks"
	MetricImpressions            Metric = "impressions"
	MetricCTR                    Metric = "ctr"
	MetricActiveUsers            Metric = "activeUsers"
	MetricSessions               Metric = "sessions"
	MetricBounceRate             Metric = "bounceRate"
	MetricAverageSessionDuration Metric = "averageSessionDuration"
)

// AnalyticsRequest is the body of POST /google/analytics.
type AnalyticsRequest struct {
	Range         Range    `json:"range"`
	GoogleToken   string   `json:"googleToken,omitempty"`
	Dimensions    []string `json:"dimensions,omitempty"`
	Metric        []Metric `json:"metric,omitempty"`
	ViewID        string   `json:"viewId,omitempty"`
	IsRealTime    bool     `json:"isRealTime,omitempty"`
	KeepEmptyRows bool     `json:"keepEmptyRows,omitempty"`
}

// SearchConsoleRequest is the body of POST /google/searchConsole.
type SearchConsoleRequest struct {
	Range       Range  `json:"range"`
	GoogleToken string `json:"googleToken,omitempty"`
	SiteURL     string `json:"siteUrl,omitempty"`
	RowLimit    int    `json:"rowLimit,omitempty"`
}

// PageSpeedInsightRequest is the body of POST /google/pageSpeed.
type PageSpeedInsightRequest struct {
	GoogleToken string `json:"googleToken,omitempty"`
	SiteURL     string `json:"siteUrl,omitempty"`
}

// AnalyticsResponse mirrors a GA4 runReport result.
type AnalyticsResponse struct {
	DimensionHeaders []DimensionHeader `json:"dimensionHeaders"`
	MetricHeaders    []MetricHeader    `json:"metricHeaders"`
	Rows             []Row             `json:"rows"`
	Totals           []Row             `json:"totals"`
	RowCount         int               `json:"rowCount"`
	Metadata         Metadata          `json:"metadata"`
	Kind             string            `json:"kind"`
}

type DimensionHeader struct {
	Name string `json:"name"`
}

type MetricHeader struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Metadata struct {
	CurrencyCode string `json:"currencyCode"`
	TimeZone     string `json:"timeZone"`
}

// Row is one report row; metric values arrive as decimal strings.
type Row struct {
	DimensionValues []Value `json:"dimensionValues"`
	MetricValues    []Value `json:"metricValues"`
}

type Value struct {
	Value string `json:"value"`
}

// SearchConsoleResponse is the Search Console query result plus the
// backend's pre-shaped chart rows and query table.
type SearchConsoleResponse struct {
	Rows                    []SearchRow `json:"rows"`
	ResponseAggregationType string      `json:"responseAggregationType"`
	ChartData               []SearchRow `json:"chartData,omitempty"`
	Queries                 []QueryData `json:"queries"`
}

type SearchRow struct {
	Keys        []string `json:"keys"`
	Clicks      float64  `json:"clicks"`
	Impressions float64  `json:"impressions"`
	CTR         float64  `json:"ctr"`
	Position    float64  `json:"position"`
}

type QueryData struct {
	Name        string   `json:"name"`
	Clicks      *float64 `json:"Clicks,omitempty"`
	Impressions *float64 `json:"Impressions,omitempty"`
	CTR         *float64 `json:"CTR,omitempty"`
	Position    *float64 `json:"Position,omitempty"`
}

// PageSpeedInsightResponse carries the Lighthouse category scores.
type PageSpeedInsightResponse struct {
	Performance   PerformanceData `json:"performance"`
	Accessibility ScoreData       `json:"accessibility"`
	BestPractices ScoreData       `json:"bestPractices"`
	SEO           ScoreData       `json:"seo"`
}

type PerformanceData struct {
	Score   float64            `json:"score"`
	Metrics PerformanceMetrics `json:"metrics"`
}

type ScoreData struct {
	Score float64 `json:"score"`
}

type PerformanceMetrics struct {
	FirstContentfulPaint   float64 `json:"firstContentfulPaint"`
	SpeedIndex             float64 `json:"speedIndex"`
	LargestContentfulPaint float64 `json:"largestContentfulPaint"`
	CumulativeLayoutShift  float64 `json:"cumulativeLayoutShift"`
	TotalBlockingTime      float64 `json:"totalBlockingTime"`
}
