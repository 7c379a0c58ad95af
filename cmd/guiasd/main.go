package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/dfelipe-rojas/guias-tracker/internal/common"
	"github.com/dfelipe-rojas/guias-tracker/internal/export"
	"github.com/dfelipe-rojas/guias-tracker/internal/ingest"
	"github.com/dfelipe-rojas/guias-tracker/internal/repository"
	"github.com/dfelipe-rojas/guias-tracker/internal/risk"
	"github.com/dfelipe-rojas/guias-tracker/internal/server"
)

// Version is set during build.
var Version = "dev"

func main() {
	// Logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	log := logger.Sugar()

	// Structured logger for the internal services
	svcLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(svcLog)

	// Env
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	// Context with signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Store
	db, err := repository.Open(ctx, cfg.Store.Path, svcLog)
	if err != nil {
		log.Fatalf("opening shipment store: %v", err)
	}
	defer db.Close()
	repo := repository.NewShipmentRepository(db, svcLog)

	// Risk rules (YAML overrides on top of built-in thresholds)
	riskCfg, err := risk.LoadConfig(cfg.Ingest.RiskRulesPath)
	if err != nil {
		log.Fatalf("loading risk rules: %v", err)
	}

	// Services
	ingestSvc := ingest.NewService(repo, risk.New(riskCfg), svcLog)
	exportSvc := export.NewService(ingestSvc, svcLog)

	// Drop-directory watcher (optional)
	if cfg.Ingest.DropDir != "" {
		w, err := ingest.NewWatcher(ingestSvc, ingest.WatchConfig{
			Dir:      cfg.Ingest.DropDir,
			Debounce: cfg.Ingest.WatchDebounce,
		}, svcLog)
		if err != nil {
			log.Fatalf("creating watcher: %v", err)
		}
		go func() {
			if err := w.Run(ctx); err != nil && ctx.Err() == nil {
				log.Errorf("watcher stopped: %v", err)
			}
		}()
		log.Infow("drop directory watcher started", "dir", cfg.Ingest.DropDir)
	}

	// HTTP server
	e := server.New(&server.Dependencies{
		Ingest:  ingestSvc,
		Export:  exportSvc,
		Logger:  svcLog,
		Version: Version,
	})

	go func() {
		log.Infof("HTTP serving on %s", cfg.Server.HTTPAddr)
		if err := e.Start(cfg.Server.HTTPAddr); err != nil && ctx.Err() == nil {
			log.Fatalf("http serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
	fmt.Println("stopped.")
}
