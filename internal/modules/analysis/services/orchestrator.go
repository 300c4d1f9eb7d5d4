package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/storelens/pos-insight-be/internal/core/apperrors"
	"github.com/storelens/pos-insight-be/internal/core/cluster"
	"github.com/storelens/pos-insight-be/internal/core/forecast"
	"github.com/storelens/pos-insight-be/internal/core/ingest"
	"github.com/storelens/pos-insight-be/internal/core/storage"
	"github.com/storelens/pos-insight-be/internal/core/weather"
	"github.com/storelens/pos-insight-be/internal/modules/analysis/models"
	"github.com/storelens/pos-insight-be/internal/modules/analysis/repositories"
	"github.com/storelens/pos-insight-be/internal/shared/utils"
)

// RunRequest identifies the sources to analyze for one store
type RunRequest struct {
	StoreID      int64
	SourceIDs    []string
	RegisterType string
}

// Orchestrator drives one end-to-end auto-analysis: fetch exports from blob
// storage, normalize and enrich them, run both engines and persist the run.
type Orchestrator struct {
	sources    repositories.SourceRepository
	runs       repositories.RunRepository
	blobs      storage.Provider
	normalizer *ingest.Normalizer
	enricher   *weather.Enricher
	forecaster *forecast.Engine
	clusterer  *cluster.Engine
	tempDir    string
}

// NewOrchestrator wires the analysis pipeline
func NewOrchestrator(
	sources repositories.SourceRepository,
	runs repositories.RunRepository,
	blobs storage.Provider,
	normalizer *ingest.Normalizer,
	enricher *weather.Enricher,
	forecaster *forecast.Engine,
	clusterer *cluster.Engine,
	tempDir string,
) *Orchestrator {
	return &Orchestrator{
		sources:    sources,
		runs:       runs,
		blobs:      blobs,
		normalizer: normalizer,
		enricher:   enricher,
		forecaster: forecaster,
		clusterer:  clusterer,
		tempDir:    tempDir,
	}
}

// Analyze runs the full pipeline for one store. Temp files are removed on
// every exit path. A single engine failure still yields a persisted run with
// status "failed" and the error captured in that engine's payload; only
// validation and persistence failures abort without a run record.
func (o *Orchestrator) Analyze(ctx context.Context, req RunRequest) (*models.AnalysisRun, error) {
	if len(req.SourceIDs) == 0 {
		return nil, apperrors.Validation("no source ids given")
	}
	profile, err := ingest.ProfileFor(req.RegisterType)
	if err != nil {
		return nil, err
	}

	var tempPaths []string
	defer func() {
		for i := len(tempPaths) - 1; i >= 0; i-- {
			if rmErr := os.Remove(tempPaths[i]); rmErr != nil && !os.IsNotExist(rmErr) {
				utils.LogWarn("failed to remove temp file", map[string]interface{}{
					"path": tempPaths[i], "error": rmErr.Error(),
				})
			}
		}
	}()

	if err := os.MkdirAll(o.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}

	sourceIDs := make([]uuid.UUID, 0, len(req.SourceIDs))
	var txs []ingest.Transaction
	for _, raw := range req.SourceIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, apperrors.Validation("invalid source id %q", raw)
		}
		source, err := o.sources.FindActive(id, req.StoreID)
		if err != nil {
			if errors.Is(err, repositories.ErrSourceNotFound) {
				return nil, apperrors.Validation("source %s not found for store %d", raw, req.StoreID)
			}
			return nil, fmt.Errorf("failed to load source %s: %w", raw, err)
		}
		sourceIDs = append(sourceIDs, id)

		localPath := filepath.Join(o.tempDir, fmt.Sprintf("%s_%s", time.Now().Format("20060102150405"), filepath.Base(source.FilePath)))
		fetched, err := o.blobs.Fetch(ctx, source.FilePath, localPath)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch %s: %w", source.FilePath, err)
		}
		tempPaths = append(tempPaths, fetched)

		sourceTxs, err := o.normalizer.Normalize(fetched, profile)
		if err != nil {
			return nil, err
		}
		txs = append(txs, sourceTxs...)
	}

	if len(txs) == 0 {
		return nil, apperrors.Validation("sources contained no usable transactions")
	}

	rows, err := o.enricher.Enrich(ctx, txs)
	if err != nil {
		var enrichErr *apperrors.EnrichmentError
		if !errors.As(err, &enrichErr) {
			return nil, err
		}
		utils.LogWarn("weather enrichment unavailable, continuing without observations", map[string]interface{}{
			"store_id": req.StoreID, "error": err.Error(),
		})
		rows = weather.Join(txs, nil)
	}

	forecastResult, forecastErr := o.forecaster.Forecast(rows)
	clusterResult, clusterErr := o.clusterer.Cluster(rows)

	status := models.RunStatusCompleted
	if forecastErr != nil || clusterErr != nil {
		status = models.RunStatusFailed
	}

	forecastPayload, err := enginePayload(forecastResult, forecastErr)
	if err != nil {
		return nil, err
	}
	clusterPayload, err := enginePayload(clusterResult, clusterErr)
	if err != nil {
		return nil, err
	}
	idsJSON, err := json.Marshal(req.SourceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal source ids: %w", err)
	}

	run := &models.AnalysisRun{
		StoreID:      req.StoreID,
		SourceIDs:    datatypes.JSON(idsJSON),
		AnalysisType: "autoanalysis",
		Status:       status,
		Forecast:     forecastPayload,
		Cluster:      clusterPayload,
	}
	if err := o.runs.Insert(run); err != nil {
		return nil, apperrors.Persistence(err)
	}

	if err := o.sources.MarkLastAnalyzed(sourceIDs, time.Now()); err != nil {
		utils.LogWarn("failed to stamp last_analyzed", map[string]interface{}{
			"store_id": req.StoreID, "error": err.Error(),
		})
	}

	utils.LogInfo("✅ analysis run persisted", map[string]interface{}{
		"run_id": run.ID, "store_id": req.StoreID, "status": status,
	})
	return run, nil
}

// enginePayload marshals an engine result, or an error document when the
// engine failed.
func enginePayload(result interface{}, engineErr error) (datatypes.JSON, error) {
	if engineErr != nil {
		doc, err := json.Marshal(map[string]string{"error": engineErr.Error()})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal engine error: %w", err)
		}
		return datatypes.JSON(doc), nil
	}
	doc, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal engine result: %w", err)
	}
	return datatypes.JSON(doc), nil
}
