package main

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/storelens/pos-insight-be/internal/core/cluster"
	"github.com/storelens/pos-insight-be/internal/core/forecast"
	"github.com/storelens/pos-insight-be/internal/core/ingest"
	"github.com/storelens/pos-insight-be/internal/core/storage"
	"github.com/storelens/pos-insight-be/internal/core/weather"
	"github.com/storelens/pos-insight-be/internal/modules/analysis/repositories"
	"github.com/storelens/pos-insight-be/internal/modules/analysis/services"
	"github.com/storelens/pos-insight-be/internal/shared/config"
)

// buildOrchestrator wires repositories, providers and engines from config
func buildOrchestrator(cfg *config.Config, db *gorm.DB) (*services.Orchestrator, error) {
	blobs, err := newStorageProvider(cfg)
	if err != nil {
		return nil, err
	}

	kma := weather.NewKMAProvider(cfg.KMAServiceKey)
	enricher := weather.NewEnricher(kma, cfg.WeatherLocation)

	forecastCfg := forecast.DefaultConfig()
	forecastCfg.FillValue = &cfg.GapFillValue
	clusterCfg := cluster.DefaultConfig()
	clusterCfg.Seed = cfg.ModelSeed

	return services.NewOrchestrator(
		repositories.NewSourceRepository(db),
		repositories.NewRunRepository(db),
		blobs,
		ingest.NewNormalizer(ingest.NewKoreanCalendar()),
		enricher,
		forecast.NewEngine(forecastCfg),
		cluster.NewEngine(clusterCfg),
		cfg.TempDir,
	), nil
}

// newStorageProvider selects the blob storage backend from config
func newStorageProvider(cfg *config.Config) (storage.Provider, error) {
	switch cfg.StorageProvider {
	case "s3":
		return storage.NewS3Provider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, cfg.AWSRegion, cfg.S3Bucket)
	case "local":
		return storage.NewLocalProvider(cfg.LocalStorageDir), nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", cfg.StorageProvider)
	}
}
