// Package report turns backend analytics responses into the totals, series
// and slices the dashboard widgets display.
package report

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	bedrock "github.com/osmarBedrock/bedrock-frontend"
)

// DefaultTimeZone is used for date labels when a report carries none.
const DefaultTimeZone = "America/Denver"

// Column order of the metric values in the overview analytics report.
const (
	colActiveUsers = iota
	colSessions
	colBounceRate
	colAverageDuration
)

// Palette colors pie slices in order.
var Palette = []string{
	"rgb(71, 71, 235)",
	"rgb(115, 51, 204)",
	"rgb(207, 163, 242)",
	"rgb(114, 7, 150)",
	"rgb(8, 120, 179)",
	"rgb(26, 115, 232)",
}

// AnalyticsSummary holds the headline numbers of an overview report.
type AnalyticsSummary struct {
	TotalUsers        int
	TotalSessions     int
	AverageBounceRate float64 // percent
	AverageDuration   float64 // seconds
}

// AggregateAnalytics sums users and sessions and averages bounce rate and
// session duration over rows. Rows must carry the four overview metrics in
// order: activeUsers, sessions, bounceRate, averageSessionDuration.
func AggregateAnalytics(rows []bedrock.Row) AnalyticsSummary {
	var s AnalyticsSummary
	if len(rows) == 0 {
		return s
	}

	var bounce, duration float64
	for _, row := range rows {
		s.TotalUsers += metricInt(row, colActiveUsers)
		s.TotalSessions += metricInt(row, colSessions)
		bounce += metricFloat(row, colBounceRate) * 100
		duration += metricFloat(row, colAverageDuration)
	}

	n := float64(len(rows))
	s.AverageBounceRate = bounce / n
	s.AverageDuration = duration / n
	return s
}

// SEOSummary holds the headline numbers of a Search Console report.
type SEOSummary struct {
	TotalClicks      float64
	TotalImpressions float64
	AverageCTR       float64 // percent
	AveragePosition  float64
}

// AggregateSEO sums clicks and impressions and averages CTR and position.
func AggregateSEO(rows []bedrock.SearchRow) SEOSummary {
	var s SEOSummary
	if len(rows) == 0 {
		return s
	}

	var ctr, position float64
	for _, row := range rows {
		s.TotalClicks += row.Clicks
		s.TotalImpressions += row.Impressions
		ctr += row.CTR * 100
		position += row.Position
	}

	n := float64(len(rows))
	s.AverageCTR = ctr / n
	s.AveragePosition = position / n
	return s
}

// ChartPoint is one x/y pair of a time series. Key names the series.
type ChartPoint struct {
	Date  string
	Key   string
	Value float64
}

// ChartSeries extracts the series for metric from an overview report. Each
// row's first dimension is its bucket index (day, or week for quarters).
func ChartSeries(resp *bedrock.AnalyticsResponse, metric bedrock.Metric, rng bedrock.Range, now time.Time) []ChartPoint {
	if resp == nil || len(resp.Rows) == 0 {
		return nil
	}

	tz := resp.Metadata.TimeZone
	key := DataKey(metric)
	points := make([]ChartPoint, 0, len(resp.Rows))

	for _, row := range resp.Rows {
		index := dimensionInt(row)
		p := ChartPoint{
			Date: DateLabel(rng, index, resp.Rows, tz, now),
			Key:  key,
		}

		switch metric {
		case bedrock.MetricSessions:
			p.Value = float64(metricInt(row, colSessions))
		case bedrock.MetricBounceRate:
			p.Value = metricFloat(row, colBounceRate) * 100
		case bedrock.MetricAverageSessionDuration:
			p.Value = metricFloat(row, colAverageDuration)
		default:
			p.Value = float64(metricInt(row, colActiveUsers))
		}
		points = append(points, p)
	}
	return points
}

// DataKey is the series label for an analytics metric.
func DataKey(metric bedrock.Metric) string {
	switch metric {
	case bedrock.MetricAverageSessionDuration:
		return "Duration"
	case bedrock.MetricBounceRate:
		return "Bounce Rate"
	case bedrock.MetricSessions:
		return "Sessions"
	default:
		return "Users"
	}
}

// SEODataKey is the series label for a Search Console metric.
func SEODataKey(metric bedrock.Metric) string {
	switch metric {
	case bedrock.MetricImpressions:
		return "Impressions"
	case bedrock.MetricCTR:
		return "CTR"
	case bedrock.MetricPosition:
		return "Position"
	default:
		return "Clicks"
	}
}

// SEOSeries extracts the series for metric from Search Console chart rows,
// whose first key is a YYYY-MM-DD date.
func SEOSeries(rows []bedrock.SearchRow, metric bedrock.Metric) []ChartPoint {
	if len(rows) == 0 {
		return nil
	}

	key := SEODataKey(metric)
	points := make([]ChartPoint, 0, len(rows))
	for _, row := range rows {
		var date string
		if len(row.Keys) > 0 {
			date = SEODateLabel(row.Keys[0])
		}

		p := ChartPoint{Date: date, Key: key}
		switch metric {
		case bedrock.MetricImpressions:
			p.Value = row.Impressions
		case bedrock.MetricCTR:
			p.Value = row.CTR
		case bedrock.MetricPosition:
			p.Value = row.Position
		default:
			p.Value = row.Clicks
		}
		points = append(points, p)
	}
	return points
}

// Slice is one segment of a pie chart.
type Slice struct {
	Name  string
	Value float64
	Color string
}

// PieSlices maps a single-dimension, single-metric report (e.g. sessions by
// channel group) to colored slices. Colors cycle through Palette.
func PieSlices(resp *bedrock.AnalyticsResponse) []Slice {
	if resp == nil || len(resp.Rows) == 0 {
		return nil
	}

	slices := make([]Slice, 0, len(resp.Rows))
	for i, row := range resp.Rows {
		var name string
		if len(row.DimensionValues) > 0 {
			name = row.DimensionValues[0].Value
		}
		slices = append(slices, Slice{
			Name:  name,
			Value: metricFloat(row, 0),
			Color: Palette[i%len(Palette)],
		})
	}
	return slices
}

// Score is a named 0-100 value.
type Score struct {
	Name  string
	Value float64
}

// PageSpeedScores returns the four Lighthouse category scores.
func PageSpeedScores(resp *bedrock.PageSpeedInsightResponse) []Score {
	if resp == nil {
		return nil
	}
	return []Score{
		{Name: "Performance", Value: resp.Performance.Score},
		{Name: "Accessibility", Value: resp.Accessibility.Score},
		{Name: "Best Practices", Value: resp.BestPractices.Score},
		{Name: "SEO", Value: resp.SEO.Score},
	}
}

// PerformanceMetrics lists the non-zero Lighthouse performance metrics.
func PerformanceMetrics(resp *bedrock.PageSpeedInsightResponse) []Score {
	if resp == nil {
		return nil
	}

	m := resp.Performance.Metrics
	all := []Score{
		{Name: "First Contentful Paint", Value: m.FirstContentfulPaint},
		{Name: "Speed Index", Value: m.SpeedIndex},
		{Name: "Largest Contentful Paint", Value: m.LargestContentfulPaint},
		{Name: "Cumulative Layout Shift", Value: m.CumulativeLayoutShift},
		{Name: "Total Blocking Time", Value: m.TotalBlockingTime},
	}

	out := all[:0]
	for _, s := range all {
		if s.Value != 0 {
			out = append(out, s)
		}
	}
	return out
}

// FormatDuration renders seconds as "42s" under a minute, "1.5 min" above.
func FormatDuration(seconds float64) string {
	if seconds < 60 {
		return fmt.Sprintf("%.0fs", seconds)
	}
	return fmt.Sprintf("%.1f min", seconds/60)
}

// FormatValue renders a series value for display next to its key.
func FormatValue(key string, v float64) string {
	switch key {
	case "Bounce Rate":
		return fmt.Sprintf("%.2f%%", v)
	case "Duration":
		return FormatDuration(v)
	case "CTR":
		ctr := fmt.Sprintf("%.2f", v*100)
		if ctr == "0.00" {
			ctr = "0"
		}
		return ctr + "%"
	case "Position":
		return fmt.Sprintf("%.1f", v)
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

// FormatDay renders t as "19th Jul".
func FormatDay(t time.Time) string {
	return humanize.Ordinal(t.Day()) + " " + t.Format("Jan")
}

func metricFloat(row bedrock.Row, col int) float64 {
	if col >= len(row.MetricValues) {
		return 0
	}
	f, err := strconv.ParseFloat(row.MetricValues[col].Value, 64)
	if err != nil {
		return 0
	}
	return f
}

func metricInt(row bedrock.Row, col int) int {
	return int(metricFloat(row, col))
}

func dimensionInt(row bedrock.Row) int {
	if len(row.DimensionValues) == 0 {
		return 0
	}
	f, err := strconv.ParseFloat(row.DimensionValues[0].Value, 64)
	if err != nil {
		return 0
	}
	return int(f)
}
