package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/storelens/pos-insight-be/internal/core/cluster"
	"github.com/storelens/pos-insight-be/internal/core/forecast"
	"github.com/storelens/pos-insight-be/internal/core/ingest"
	"github.com/storelens/pos-insight-be/internal/core/storage"
	"github.com/storelens/pos-insight-be/internal/core/weather"
	"github.com/storelens/pos-insight-be/internal/modules/analysis/repositories"
	"github.com/storelens/pos-insight-be/internal/modules/analysis/services"
	"github.com/storelens/pos-insight-be/internal/shared/config"
	"github.com/storelens/pos-insight-be/internal/shared/database"
	"github.com/storelens/pos-insight-be/internal/shared/utils"
)

func main() {
	var storeID int64
	var sources string
	var register string
	flag.Int64Var(&storeID, "store", 0, "Store ID to analyze")
	flag.StringVar(&sources, "sources", "", "Comma-separated data source IDs")
	flag.StringVar(&register, "register", "", "Register type of the exports (kiwoom, toss)")
	flag.Parse()

	utils.InitLogger()
	cfg := config.LoadConfig()

	if storeID == 0 || sources == "" {
		utils.LogError("missing required flags", nil, map[string]interface{}{
			"usage": "analyzer -store <id> -sources <id,id,...> [-register kiwoom|toss]",
		})
		os.Exit(2)
	}

	db, err := database.NewDB(cfg.DatabaseURL)
	if err != nil {
		utils.LogError("failed to connect database", err, nil)
		os.Exit(1)
	}

	orchestrator, err := buildOrchestrator(cfg, db)
	if err != nil {
		utils.LogError("failed to wire pipeline", err, nil)
		os.Exit(1)
	}

	req := services.RunRequest{
		StoreID:      storeID,
		SourceIDs:    strings.Split(sources, ","),
		RegisterType: register,
	}
	run, err := orchestrator.Analyze(context.Background(), req)
	if err != nil {
		utils.LogError("analysis failed", err, map[string]interface{}{"store_id": storeID})
		os.Exit(1)
	}

	utils.LogInfo("🎉 analysis complete", map[string]interface{}{
		"run_id": run.ID, "status": run.Status,
	})
}

// buildOrchestrator wires repositories, providers and engines from config
func buildOrchestrator(cfg *config.Config, db *gorm.DB) (*services.Orchestrator, error) {
	blobs, err := newStorageProvider(cfg)
	if err != nil {
		return nil, err
	}
	utils.LogInfo("storage provider ready", map[string]interface{}{"provider": blobs.GetProviderName()})

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
