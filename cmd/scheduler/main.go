package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/storelens/pos-insight-be/internal/modules/analysis/models"
	"github.com/storelens/pos-insight-be/internal/modules/analysis/repositories"
	"github.com/storelens/pos-insight-be/internal/modules/analysis/services"
	"github.com/storelens/pos-insight-be/internal/shared/config"
	"github.com/storelens/pos-insight-be/internal/shared/database"
	"github.com/storelens/pos-insight-be/internal/shared/utils"
)

func main() {
	utils.InitLogger()
	cfg := config.LoadConfig()

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
	sources := repositories.NewSourceRepository(db)

	c := cron.New(cron.WithSeconds())
	_, err = c.AddFunc(cfg.ScheduleSpec, func() {
		runStaleAnalyses(orchestrator, sources, cfg.StaleAfterDays)
	})
	if err != nil {
		utils.LogError("invalid schedule spec", err, map[string]interface{}{"spec": cfg.ScheduleSpec})
		os.Exit(1)
	}

	c.Start()
	utils.LogInfo("⏰ scheduler started", map[string]interface{}{"spec": cfg.ScheduleSpec})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.LogInfo("scheduler shutting down", nil)
	<-c.Stop().Done()
}

// runStaleAnalyses re-analyzes every store whose active sources have gone
// unanalyzed past the staleness cutoff. Sources are grouped per store and
// register type so each group becomes one analysis run.
func runStaleAnalyses(orchestrator *services.Orchestrator, sources repositories.SourceRepository, staleAfterDays int) {
	cutoff := time.Now().AddDate(0, 0, -staleAfterDays)
	stale, err := sources.ListStale(cutoff)
	if err != nil {
		utils.LogError("failed to list stale sources", err, nil)
		return
	}
	if len(stale) == 0 {
		utils.LogInfo("no stale sources", nil)
		return
	}

	type group struct {
		storeID  int64
		register string
	}
	batches := make(map[group][]models.DataSource)
	for _, s := range stale {
		g := group{storeID: s.StoreID, register: s.RegisterType}
		batches[g] = append(batches[g], s)
	}

	for g, members := range batches {
		ids := make([]string, len(members))
		for i, s := range members {
			ids[i] = s.ID.String()
		}
		req := services.RunRequest{StoreID: g.storeID, SourceIDs: ids, RegisterType: g.register}
		run, err := orchestrator.Analyze(context.Background(), req)
		if err != nil {
			utils.LogError("scheduled analysis failed", err, map[string]interface{}{
				"store_id": g.storeID, "sources": len(ids),
			})
			continue
		}
		utils.LogInfo("scheduled analysis finished", map[string]interface{}{
			"store_id": g.storeID, "run_id": run.ID, "status": run.Status,
		})
	}
}
