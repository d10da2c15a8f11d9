package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/diamond-odds/external/mlbstats"
	"github.com/riskibarqy/diamond-odds/internal/app"
	"github.com/riskibarqy/diamond-odds/internal/config"
	"github.com/riskibarqy/diamond-odds/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/diamond-odds/internal/platform/logging"
	"github.com/riskibarqy/diamond-odds/internal/usecase"
)

func main() {
	cfg, err := config.LoadTool("diamond-odds-seed")
	if err != nil {
		panic(err)
	}

	logger := logging.New(logging.Options{
		Level:   cfg.LogLevel,
		Service: cfg.ServiceName,
		Version: cfg.ServiceVersion,
		Env:     cfg.AppEnv,
	})
	logging.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("seed failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func run(cfg config.Config, logger *logging.Logger) error {
	if cfg.StorageDriver != config.StorageDriverPostgres {
		logger.Warn("seeding skipped: reference data is only persisted with postgres storage", "storage", cfg.StorageDriver)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := app.OpenDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	client := mlbstats.NewClient(mlbstats.ClientConfig{
		BaseURL:    cfg.MLBStatsBaseURL,
		Timeout:    cfg.MLBStatsTimeout,
		MaxRetries: 2,
		Logger:     logger.Named("mlbstats"),
	})
	svc := usecase.NewSeedService(
		client,
		postgres.NewTeamRepository(db),
		postgres.NewPlayerRepository(db),
		cfg.SeedMaxWorkers,
		logger,
	)

	result, err := svc.Seed(ctx)
	if err != nil {
		return err
	}
	logger.Info("seed finished",
		"teams", result.Teams,
		"players", result.Players,
		"failed_rosters", result.FailedRosters,
		"failed_players", result.FailedPlayers,
		"skipped_players", result.SkippedPlayers,
	)
	return nil
}
