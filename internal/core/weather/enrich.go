package weather

import (
	"context"

	"github.com/storelens/pos-insight-be/internal/core/apperrors"
	"github.com/storelens/pos-insight-be/internal/core/ingest"
)

// Enriched is a normalized transaction joined with its hourly weather
// context. Unmatched hours keep nil readings; precipitation defaults to 0.
type Enriched struct {
	ingest.Transaction

	Temperature   *float64 `json:"temperature"`
	WindSpeed     *float64 `json:"wind_speed"`
	Humidity      *float64 `json:"humidity"`
	Precipitation float64  `json:"precipitation"`
}

// Enricher merges hourly observations onto normalized transactions
type Enricher struct {
	provider Provider
	location string
}

// NewEnricher creates an enricher fetching observations for the fixed
// reference location.
func NewEnricher(provider Provider, location string) *Enricher {
	return &Enricher{provider: provider, location: location}
}

// Enrich fetches the observation span covering the transactions and
// left-joins it by (year, month, day, hour). A provider failure is returned
// as an EnrichmentError; callers may treat it as recoverable and join with
// no observations instead. Rows are never dropped.
func (e *Enricher) Enrich(ctx context.Context, txs []ingest.Transaction) ([]Enriched, error) {
	if len(txs) == 0 {
		return Join(txs, nil), nil
	}

	min, max := txs[0].Timestamp, txs[0].Timestamp
	for _, tx := range txs[1:] {
		if tx.Timestamp.Before(min) {
			min = tx.Timestamp
		}
		if tx.Timestamp.After(max) {
			max = tx.Timestamp
		}
	}

	obs, err := e.provider.HourlyObservations(ctx, min, max, e.location)
	if err != nil {
		return nil, apperrors.Enrichment("weather provider unavailable", err)
	}
	return Join(txs, obs), nil
}

// Join left-joins observations onto transactions by (year, month, day, hour)
func Join(txs []ingest.Transaction, obs []Observation) []Enriched {
	byHour := make(map[string]Observation, len(obs))
	for _, o := range obs {
		byHour[o.Year+o.Month+o.Day+o.Hour] = o
	}

	enriched := make([]Enriched, len(txs))
	for i, tx := range txs {
		row := Enriched{Transaction: tx}
		if o, ok := byHour[tx.Year+tx.Month+tx.Day+tx.Hour]; ok {
			row.Temperature = o.Temperature
			row.WindSpeed = o.WindSpeed
			row.Humidity = o.Humidity
			if o.Precipitation != nil {
				row.Precipitation = *o.Precipitation
			}
		}
		enriched[i] = row
	}
	return enriched
}
