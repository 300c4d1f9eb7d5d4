package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storelens/pos-insight-be/internal/core/apperrors"
	"github.com/storelens/pos-insight-be/internal/core/cluster"
	"github.com/storelens/pos-insight-be/internal/core/forecast"
	"github.com/storelens/pos-insight-be/internal/core/ingest"
	"github.com/storelens/pos-insight-be/internal/core/weather"
	"github.com/storelens/pos-insight-be/internal/modules/analysis/models"
	"github.com/storelens/pos-insight-be/internal/modules/analysis/repositories"
)

type fakeSourceRepo struct {
	sources map[uuid.UUID]*models.DataSource
	marked  []uuid.UUID
	markErr error
}

func (f *fakeSourceRepo) FindActive(id uuid.UUID, storeID int64) (*models.DataSource, error) {
	s, ok := f.sources[id]
	if !ok || s.StoreID != storeID || s.Status != models.SourceStatusActive {
		return nil, repositories.ErrSourceNotFound
	}
	return s, nil
}

func (f *fakeSourceRepo) MarkLastAnalyzed(ids []uuid.UUID, at time.Time) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.marked = append(f.marked, ids...)
	return nil
}

func (f *fakeSourceRepo) ListStale(before time.Time) ([]models.DataSource, error) {
	return nil, nil
}

type fakeRunRepo struct {
	inserted  []*models.AnalysisRun
	insertErr error
}

func (f *fakeRunRepo) Insert(run *models.AnalysisRun) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, run)
	return nil
}

func (f *fakeRunRepo) GetByID(id uuid.UUID) (*models.AnalysisRun, error) { return nil, nil }

func (f *fakeRunRepo) ListByStore(storeID int64, limit int) ([]models.AnalysisRun, error) {
	return nil, nil
}

type fakeBlobs struct {
	objects map[string]string
}

func (f *fakeBlobs) Fetch(ctx context.Context, key, localPath string) (string, error) {
	content, ok := f.objects[key]
	if !ok {
		return "", fmt.Errorf("no such object %s", key)
	}
	if err := os.WriteFile(localPath, []byte(content), 0o644); err != nil {
		return "", err
	}
	return localPath, nil
}

func (f *fakeBlobs) GetProviderName() string { return "fake" }

type noObsProvider struct{ err error }

func (p *noObsProvider) HourlyObservations(ctx context.Context, start, end time.Time, location string) ([]weather.Observation, error) {
	return nil, p.err
}

func (p *noObsProvider) GetProviderName() string { return "none" }

// tossExport renders a toss-style CSV covering the given number of days with
// four items per day.
func tossExport(days int) string {
	var b strings.Builder
	b.WriteString("주문시작시각,상품명,수량,상품가격\n")
	b.WriteString("총합,,,\n")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for d := 0; d < days; d++ {
		day := start.AddDate(0, 0, d).Format("2006-01-02")
		fmt.Fprintf(&b, "%s 12:00:00,아메리카노,%d,4500\n", day, 1+d%3)
		fmt.Fprintf(&b, "%s 12:30:00,케이크,%d,6500\n", day, 1+d%2)
		fmt.Fprintf(&b, "%s 18:00:00,카페라떼,1,5000\n", day)
		fmt.Fprintf(&b, "%s 19:00:00,쿠키,2,2000\n", day)
	}
	return b.String()
}

type fixture struct {
	orch    *Orchestrator
	sources *fakeSourceRepo
	runs    *fakeRunRepo
	tempDir string
}

func newFixture(t *testing.T, objects map[string]string, weatherErr error) *fixture {
	t.Helper()
	sources := &fakeSourceRepo{sources: map[uuid.UUID]*models.DataSource{}}
	runs := &fakeRunRepo{}
	tempDir := filepath.Join(t.TempDir(), "tmp")

	orch := NewOrchestrator(
		sources,
		runs,
		&fakeBlobs{objects: objects},
		ingest.NewNormalizer(nil),
		weather.NewEnricher(&noObsProvider{err: weatherErr}, "서울"),
		forecast.NewEngine(forecast.DefaultConfig()),
		cluster.NewEngine(cluster.DefaultConfig()),
		tempDir,
	)
	return &fixture{orch: orch, sources: sources, runs: runs, tempDir: tempDir}
}

func (f *fixture) addSource(storeID int64, key string) uuid.UUID {
	id := uuid.New()
	f.sources.sources[id] = &models.DataSource{
		ID:       id,
		StoreID:  storeID,
		FilePath: key,
		Status:   models.SourceStatusActive,
	}
	return id
}

func assertTempDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return
	}
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAnalyzeCompleted(t *testing.T) {
	f := newFixture(t, map[string]string{"exports/jan.csv": tossExport(70)}, nil)
	id := f.addSource(7, "exports/jan.csv")

	run, err := f.orch.Analyze(context.Background(), RunRequest{
		StoreID:      7,
		SourceIDs:    []string{id.String()},
		RegisterType: "toss",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusCompleted, run.Status)
	assert.Equal(t, "autoanalysis", run.AnalysisType)
	require.Len(t, f.runs.inserted, 1)

	var forecastResult forecast.Result
	require.NoError(t, json.Unmarshal(run.Forecast, &forecastResult))
	assert.Len(t, forecastResult.Predictions, 30)

	var clusterResult cluster.Result
	require.NoError(t, json.Unmarshal(run.Cluster, &clusterResult))
	assert.Len(t, clusterResult.Clusters, 4)

	assert.Equal(t, []uuid.UUID{id}, f.sources.marked)
	assertTempDirEmpty(t, f.tempDir)
}

func TestAnalyzeConcatenatesSources(t *testing.T) {
	second := "주문시작시각,상품명,수량,상품가격\n총합,,,\n" +
		"2024-01-02 12:00:00,유자차,2,3500\n" +
		"2024-01-03 12:00:00,대추차,1,4000\n"
	f := newFixture(t, map[string]string{
		"exports/jan.csv":  tossExport(70),
		"exports/side.csv": second,
	}, nil)
	a := f.addSource(7, "exports/jan.csv")
	b := f.addSource(7, "exports/side.csv")

	run, err := f.orch.Analyze(context.Background(), RunRequest{
		StoreID:      7,
		SourceIDs:    []string{a.String(), b.String()},
		RegisterType: "toss",
	})
	require.NoError(t, err)

	// items from both exports are clustered together
	var clusterResult cluster.Result
	require.NoError(t, json.Unmarshal(run.Cluster, &clusterResult))
	assert.Len(t, clusterResult.Clusters, 6)

	assert.ElementsMatch(t, []uuid.UUID{a, b}, f.sources.marked)
	assertTempDirEmpty(t, f.tempDir)
}

func TestAnalyzeForeignSource(t *testing.T) {
	f := newFixture(t, map[string]string{"exports/jan.csv": tossExport(70)}, nil)
	id := f.addSource(99, "exports/jan.csv") // belongs to another store

	_, err := f.orch.Analyze(context.Background(), RunRequest{
		StoreID:      7,
		SourceIDs:    []string{id.String()},
		RegisterType: "toss",
	})
	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)

	assert.Empty(t, f.runs.inserted)
	assert.Empty(t, f.sources.marked)
	assertTempDirEmpty(t, f.tempDir)
}

func TestAnalyzeInvalidSourceID(t *testing.T) {
	f := newFixture(t, nil, nil)

	_, err := f.orch.Analyze(context.Background(), RunRequest{
		StoreID:   7,
		SourceIDs: []string{"not-a-uuid"},
	})
	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestAnalyzeShortHistoryFailsForecastOnly(t *testing.T) {
	f := newFixture(t, map[string]string{"exports/week.csv": tossExport(7)}, nil)
	id := f.addSource(7, "exports/week.csv")

	run, err := f.orch.Analyze(context.Background(), RunRequest{
		StoreID:      7,
		SourceIDs:    []string{id.String()},
		RegisterType: "toss",
	})
	require.NoError(t, err)

	assert.Equal(t, models.RunStatusFailed, run.Status)
	require.Len(t, f.runs.inserted, 1)

	var forecastPayload map[string]interface{}
	require.NoError(t, json.Unmarshal(run.Forecast, &forecastPayload))
	assert.Contains(t, forecastPayload, "error")

	// clustering still ran on the four items
	var clusterResult cluster.Result
	require.NoError(t, json.Unmarshal(run.Cluster, &clusterResult))
	assert.Len(t, clusterResult.Clusters, 4)

	assertTempDirEmpty(t, f.tempDir)
}

func TestAnalyzeWeatherOutageIsRecoverable(t *testing.T) {
	f := newFixture(t, map[string]string{"exports/jan.csv": tossExport(70)}, errors.New("kma down"))
	id := f.addSource(7, "exports/jan.csv")

	run, err := f.orch.Analyze(context.Background(), RunRequest{
		StoreID:      7,
		SourceIDs:    []string{id.String()},
		RegisterType: "toss",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RunStatusCompleted, run.Status)
}

func TestAnalyzePersistenceFailure(t *testing.T) {
	f := newFixture(t, map[string]string{"exports/jan.csv": tossExport(70)}, nil)
	id := f.addSource(7, "exports/jan.csv")
	f.runs.insertErr = errors.New("connection reset")

	_, err := f.orch.Analyze(context.Background(), RunRequest{
		StoreID:      7,
		SourceIDs:    []string{id.String()},
		RegisterType: "toss",
	})
	var pErr *apperrors.PersistenceError
	require.ErrorAs(t, err, &pErr)

	assert.Empty(t, f.sources.marked)
	assertTempDirEmpty(t, f.tempDir)
}

func TestAnalyzeUnknownRegister(t *testing.T) {
	f := newFixture(t, nil, nil)

	_, err := f.orch.Analyze(context.Background(), RunRequest{
		StoreID:      7,
		SourceIDs:    []string{uuid.NewString()},
		RegisterType: "square",
	})
	var vErr *apperrors.ValidationError
	require.ErrorAs(t, err, &vErr)
}
