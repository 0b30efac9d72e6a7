package report

import (
	"time"
	_ "time/tzdata"

	bedrock "github.com/osmarBedrock/bedrock-frontend"
)

// DateLabel returns the x-axis label of the bucket at rowIndex. Buckets end
// yesterday: days for day/week/month reports, weeks for quarters, where the
// first row's dimension value is the lowest week index.
func DateLabel(rng bedrock.Range, rowIndex int, rows []bedrock.Row, tz string, now time.Time) string {
	loc := location(tz)
	yesterday := now.In(loc).AddDate(0, 0, -1)
	count := len(rows)

	if rng == bedrock.RangeQuarter {
		minIndex := 0
		if count > 0 {
			minIndex = dimensionInt(rows[0])
		}
		difference := rowIndex - minIndex + 1
		weeks := count - difference
		return FormatDay(yesterday.AddDate(0, 0, -7*weeks))
	}

	days := count - (rowIndex + 1)
	return FormatDay(yesterday.AddDate(0, 0, -days))
}

// SEODateLabel formats a YYYY-MM-DD Search Console date. Unparseable input
// is returned unchanged.
func SEODateLabel(date string) string {
	t, err := time.Parse(time.DateOnly, date)
	if err != nil {
		return date
	}
	return FormatDay(t)
}

func location(tz string) *time.Location {
	if tz == "" {
		tz = DefaultTimeZone
	}
	if loc, err := time.LoadLocation(tz); err == nil {
		return loc
	}
	if loc, err := time.LoadLocation(DefaultTimeZone); err == nil {
		return loc
	}
	return time.UTC
}
