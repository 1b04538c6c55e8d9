package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/francesco-c/acceptance-filler/internal/application/handlers"
	"github.com/francesco-c/acceptance-filler/internal/domain/ports"
	"github.com/francesco-c/acceptance-filler/internal/domain/services"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/config"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/metrics"
	"github.com/francesco-c/acceptance-filler/internal/infrastructure/relationaldb/acceptancedb"
)

// Deps holds the dependencies of one run.
type Deps struct {
	Config      *config.Config
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Store       ports.AcceptanceStore
	FillHandler *handlers.FillHandler
}

// loadConfig loads the configuration for the current directory and applies
// the persistent flags.
func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd, globalConfig)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if globalLogLevel != "" {
		cfg.Log.Level = globalLogLevel
	}
	if globalLogFormat != "" {
		cfg.Log.Format = globalLogFormat
	}

	return cfg, nil
}

// withDeps builds dependencies from cfg, then calls the provided function.
// The store is opened once and closed on every return path.
func withDeps(cfg *config.Config, fn func(*Deps) error) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := newLogger(cfg.Log, os.Stderr)
	if err != nil {
		return err
	}
	logger = logger.With("run_id", uuid.NewString())

	store, err := acceptancedb.NewRepository(cfg.Database)
	if err != nil {
		return fmt.Errorf("creating %s store: %w", cfg.Database.Driver, err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing store", "error", err)
		}
	}()

	m := metrics.New()
	matcher := services.NewMatchService(store, services.MatchOptions{
		Locale:     cfg.Match.Locale,
		MaxPeriods: cfg.Match.MaxPeriods,
		DateWindow: cfg.Match.DateWindow,
		WindowDays: cfg.Match.WindowDays,
	}, m)
	reconcile := services.NewReconcileService(matcher,
		services.WithLogger(logger),
		services.WithMetrics(m),
	)

	return fn(&Deps{
		Config:      cfg,
		Logger:      logger,
		Metrics:     m,
		Store:       store,
		FillHandler: handlers.NewFillHandler(reconcile),
	})
}
