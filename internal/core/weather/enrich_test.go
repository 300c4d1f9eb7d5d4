package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelens/pos-insight-be/internal/core/apperrors"
	"github.com/storelens/pos-insight-be/internal/core/ingest"
)

type stubProvider struct {
	obs   []Observation
	err   error
	start time.Time
	end   time.Time
}

func (s *stubProvider) HourlyObservations(ctx context.Context, start, end time.Time, location string) ([]Observation, error) {
	s.start, s.end = start, end
	return s.obs, s.err
}

func (s *stubProvider) GetProviderName() string { return "stub" }

func tx(ts time.Time) ingest.Transaction {
	return ingest.Transaction{
		Timestamp: ts,
		Year:      ts.Format("2006"),
		Month:     ts.Format("01"),
		Day:       ts.Format("02"),
		Hour:      ts.Format("15"),
	}
}

func TestEnrichJoinsByHour(t *testing.T) {
	ts := time.Date(2024, 3, 8, 12, 30, 0, 0, time.UTC)
	temp, rain := 14.5, 2.0
	provider := &stubProvider{obs: []Observation{
		{Year: "2024", Month: "03", Day: "08", Hour: "12", Temperature: &temp, Precipitation: &rain},
	}}
	e := NewEnricher(provider, "서울")

	rows, err := e.Enrich(context.Background(), []ingest.Transaction{tx(ts)})
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NotNil(t, rows[0].Temperature)
	assert.Equal(t, 14.5, *rows[0].Temperature)
	assert.Equal(t, 2.0, rows[0].Precipitation)
	assert.Nil(t, rows[0].Humidity)
}

func TestEnrichSpansMinToMax(t *testing.T) {
	early := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	late := time.Date(2024, 3, 5, 22, 0, 0, 0, time.UTC)
	provider := &stubProvider{}
	e := NewEnricher(provider, "서울")

	_, err := e.Enrich(context.Background(), []ingest.Transaction{tx(late), tx(early), tx(late.Add(-time.Hour))})
	require.NoError(t, err)

	assert.Equal(t, early, provider.start)
	assert.Equal(t, late, provider.end)
}

func TestEnrichProviderFailure(t *testing.T) {
	provider := &stubProvider{err: errors.New("connection refused")}
	e := NewEnricher(provider, "서울")

	_, err := e.Enrich(context.Background(), []ingest.Transaction{tx(time.Now())})
	var enrichErr *apperrors.EnrichmentError
	require.ErrorAs(t, err, &enrichErr)
}

func TestJoinWithoutObservationsKeepsRows(t *testing.T) {
	txs := []ingest.Transaction{tx(time.Now()), tx(time.Now().Add(time.Hour))}

	rows := Join(txs, nil)

	require.Len(t, rows, 2)
	assert.Nil(t, rows[0].Temperature)
	assert.Equal(t, 0.0, rows[0].Precipitation)
}
