package forecast

import (
	"sort"
	"time"

	"github.com/storelens/pos-insight-be/internal/core/weather"
)

// DailyPoint is one calendar date's total revenue
type DailyPoint struct {
	Date    time.Time
	Revenue float64
}

// BuildDailySeries aggregates transactions to one row per calendar date and
// reindexes to a continuous daily range from the minimum to the maximum
// observed date. Missing dates are filled with the placeholder revenue, not
// zero and not interpolated.
func BuildDailySeries(rows []weather.Enriched, fill float64) []DailyPoint {
	if len(rows) == 0 {
		return nil
	}

	totals := make(map[time.Time]float64)
	for _, row := range rows {
		d := row.Timestamp
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		totals[day] += row.Revenue
	}

	days := make([]time.Time, 0, len(totals))
	for day := range totals {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	min, max := days[0], days[len(days)-1]
	series := make([]DailyPoint, 0, int(max.Sub(min).Hours()/24)+1)
	for day := min; !day.After(max); day = day.AddDate(0, 0, 1) {
		revenue, ok := totals[day]
		if !ok {
			revenue = fill
		}
		series = append(series, DailyPoint{Date: day, Revenue: revenue})
	}
	return series
}
