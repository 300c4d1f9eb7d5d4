package weather

import (
	"context"
	"time"
)

// Observation is one hourly weather reading keyed by its zero-padded
// calendar parts, the join key against normalized transactions.
type Observation struct {
	Year  string `json:"year"`
	Month string `json:"month"`
	Day   string `json:"day"`
	Hour  string `json:"hour"`

	Temperature   *float64 `json:"ta"`
	WindSpeed     *float64 `json:"ws"`
	Humidity      *float64 `json:"hm"`
	Precipitation *float64 `json:"rn"`
}

// Provider fetches hourly weather observations for a location over a span
type Provider interface {
	// HourlyObservations returns every hourly reading between start and end
	// inclusive for the given location
	HourlyObservations(ctx context.Context, start, end time.Time, location string) ([]Observation, error)

	// GetProviderName returns the provider name
	GetProviderName() string
}
