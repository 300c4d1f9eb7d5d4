package cluster

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/storelens/pos-insight-be/internal/core/weather"
)

// featureMatrix is the per-item feature table fed to k-means: numeric
// aggregates plus one summed-quantity pivot per categorical dimension.
// Items and pivot categories are sorted so the layout is deterministic.
type featureMatrix struct {
	items   []string
	columns []string
	data    [][]float64 // row per item, standardized in place before fitting

	// unstandardized aggregates kept for summaries and representatives
	revenue  []float64
	quantity []float64
	price    []float64
}

type itemAgg struct {
	revenue  float64
	quantity float64
	priceSum float64
	count    int
}

// buildFeatures pivots summed quantity per item across month, weekday,
// time-of-day, season and holiday flag, and merges the pivots onto the
// per-item aggregates. Missing pivot cells are 0.
func buildFeatures(rows []weather.Enriched) *featureMatrix {
	aggs := make(map[string]*itemAgg)
	dims := []struct {
		name string
		key  func(weather.Enriched) string
	}{
		{"month", func(r weather.Enriched) string { return r.Month }},
		{"weekday", func(r weather.Enriched) string { return r.Weekday }},
		{"time_of_day", func(r weather.Enriched) string { return r.TimeOfDay }},
		{"season", func(r weather.Enriched) string { return r.Season }},
		{"holiday", func(r weather.Enriched) string { return r.Holiday }},
	}
	pivots := make([]map[string]map[string]float64, len(dims))
	for i := range pivots {
		pivots[i] = make(map[string]map[string]float64)
	}

	for _, row := range rows {
		if row.Item == "" {
			continue
		}
		a, ok := aggs[row.Item]
		if !ok {
			a = &itemAgg{}
			aggs[row.Item] = a
		}
		a.revenue += row.Revenue
		a.quantity += row.Quantity
		a.priceSum += row.UnitPrice
		a.count++

		for d, dim := range dims {
			cell, ok := pivots[d][row.Item]
			if !ok {
				cell = make(map[string]float64)
				pivots[d][row.Item] = cell
			}
			cell[dim.key(row)] += row.Quantity
		}
	}

	items := make([]string, 0, len(aggs))
	for item := range aggs {
		items = append(items, item)
	}
	sort.Strings(items)

	// stable pivot column layout: per dimension, sorted category values
	columns := []string{"revenue", "quantity", "price"}
	categories := make([][]string, len(dims))
	for d, dim := range dims {
		seen := map[string]bool{}
		for _, cell := range pivots[d] {
			for cat := range cell {
				seen[cat] = true
			}
		}
		cats := make([]string, 0, len(seen))
		for cat := range seen {
			cats = append(cats, cat)
		}
		sort.Strings(cats)
		categories[d] = cats
		for _, cat := range cats {
			columns = append(columns, dim.name+"_"+cat)
		}
	}

	fm := &featureMatrix{
		items:    items,
		columns:  columns,
		data:     make([][]float64, len(items)),
		revenue:  make([]float64, len(items)),
		quantity: make([]float64, len(items)),
		price:    make([]float64, len(items)),
	}
	for i, item := range items {
		a := aggs[item]
		meanPrice := a.priceSum / float64(a.count)
		fm.revenue[i] = a.revenue
		fm.quantity[i] = a.quantity
		fm.price[i] = meanPrice

		row := make([]float64, 0, len(columns))
		row = append(row, a.revenue, a.quantity, meanPrice)
		for d := range dims {
			for _, cat := range categories[d] {
				row = append(row, pivots[d][item][cat])
			}
		}
		fm.data[i] = row
	}
	return fm
}

// standardize scales every column to zero mean and unit variance in place.
// Zero-variance columns collapse to 0.
func standardize(data [][]float64) {
	if len(data) == 0 {
		return
	}
	n, cols := len(data), len(data[0])
	col := make([]float64, n)
	for c := 0; c < cols; c++ {
		for r := 0; r < n; r++ {
			col[r] = data[r][c]
		}
		mean := stat.Mean(col, nil)
		std := stat.PopStdDev(col, nil)
		for r := 0; r < n; r++ {
			if std == 0 {
				data[r][c] = 0
			} else {
				data[r][c] = (data[r][c] - mean) / std
			}
		}
	}
}
