package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/riskibarqy/diamond-odds/internal/config"
	"github.com/riskibarqy/diamond-odds/internal/domain/ingestrun"
	"github.com/riskibarqy/diamond-odds/external/oddsapi"
	"github.com/riskibarqy/diamond-odds/external/scorer"
	"github.com/riskibarqy/diamond-odds/internal/infrastructure/lease"
	"github.com/riskibarqy/diamond-odds/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/diamond-odds/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/diamond-odds/internal/platform/id"
	"github.com/riskibarqy/diamond-odds/internal/platform/logging"
	"github.com/riskibarqy/diamond-odds/internal/platform/resilience"
	"github.com/riskibarqy/diamond-odds/internal/platform/scheduler"
	"github.com/riskibarqy/diamond-odds/internal/usecase"
)

const ingestLeaseKey = "diamond-odds:ingest-odds:lease"

// App owns every long-lived dependency of the API process.
type App struct {
	cfg    config.Config
	logger *logging.Logger

	db    *sqlx.DB
	redis *redis.Client

	server    *http.Server
	scheduler *scheduler.Scheduler
	job       *ingestJob
	probe     storageProbe
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	repos, db, err := newRepositories(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, logger: logger, db: db}
	if db != nil {
		a.probe = storageProbe{db: db}
	}

	var runLog httpapi.IngestionRunLog
	var job httpapi.IngestionJob
	if cfg.IngestEnabled {
		ingestion, err := a.buildIngestion(repos)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		runLog = ingestion
		job = a.job
	}

	features := usecase.NewFeatureService(repos.games, repos.stats, usecase.FeatureConfig{
		Window:   cfg.FeatureWindow,
		MinGames: cfg.FeatureMinGames,
	})
	modelScorer := scorer.NewSubprocess(scorer.Config{
		Command: cfg.ScorerCommand,
		Args:    cfg.ScorerArgs,
		Timeout: cfg.ScorerTimeout,
		Logger:  logger.Named("scorer"),
	})
	predictions := usecase.NewPredictionService(repos.games, features, modelScorer, repos.predictions, cfg.ScorerModel, logger)
	odds := usecase.NewOddsQueryService(repos.games, repos.lines, repos.props)

	handler := httpapi.NewHandler(odds, predictions, runLog, job, a.probe, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	a.server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return a, nil
}

func (a *App) buildIngestion(repos repositories) (*usecase.OddsIngestionService, error) {
	aliases, err := usecase.LoadTeamAliases(a.cfg.TeamAliasFile)
	if err != nil {
		return nil, err
	}
	resolver := usecase.NewEntityResolver(
		cache.NewTeamRepository(repos.teams, a.cfg.TeamCacheTTL),
		repos.games,
		usecase.ResolverConfig{FuzzyMatch: a.cfg.TeamFuzzyMatch, Aliases: aliases},
		a.logger,
	)

	provider := oddsapi.NewClient(oddsapi.ClientConfig{
		BaseURL:      a.cfg.OddsAPIBaseURL,
		APIKey:       a.cfg.OddsAPIKey,
		Sport:        a.cfg.OddsAPISport,
		Regions:      a.cfg.OddsAPIRegions,
		Markets:      a.cfg.OddsAPIMarkets,
		Bookmakers:   a.cfg.OddsAPIBookmakers,
		Timeout:      a.cfg.OddsAPITimeout,
		MaxRetries:   a.cfg.OddsAPIMaxRetries,
		RetryBackoff: a.cfg.OddsAPIRetryBackoff,
		Logger:       a.logger.Named("oddsapi"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          a.cfg.OddsAPICircuitEnabled,
			FailureThreshold: a.cfg.OddsAPICircuitFailureCount,
			OpenTimeout:      a.cfg.OddsAPICircuitOpenTimeout,
			HalfOpenMaxReq:   a.cfg.OddsAPICircuitHalfOpenMaxReq,
		},
	})

	ingestion := usecase.NewOddsIngestionService(provider, resolver, repos.lines, usecase.OddsIngestionConfig{
		MaxWorkers: a.cfg.IngestMaxWorkers,
	}, a.logger).WithRunLog(repos.runs)
	if a.cfg.IngestPlayerProps {
		ingestion.WithPlayerProps(repos.props, repos.players)
	}
	if a.cfg.IngestArchivePayloads {
		ingestion.WithPayloadArchive(repos.rawData)
	}

	schedCfg := scheduler.Config{
		Name:     "ingest-odds",
		Interval: a.cfg.IngestInterval,
		Logger:   a.logger,
	}
	if a.cfg.RedisURL != "" {
		client, err := lease.NewRedisClient(a.cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		a.redis = client
		schedCfg.Lease = lease.NewRedisLease(client, ingestLeaseKey, a.cfg.IngestLeaseTTL, idgen.NewUUIDGenerator())
	}

	sched, err := scheduler.New(schedCfg, scheduledCycle(ingestion))
	if err != nil {
		return nil, fmt.Errorf("build ingest scheduler: %w", err)
	}
	a.scheduler = sched
	a.job = &ingestJob{runner: ingestion, scheduler: sched}
	return ingestion, nil
}

func (a *App) Server() *http.Server {
	return a.server
}

// StartBackground starts the ingest scheduler and, when configured, one
// startup cycle. A failed readiness probe leaves the API serving without ticks.
func (a *App) StartBackground(ctx context.Context) {
	if a.scheduler == nil {
		a.logger.InfoContext(ctx, "odds ingestion disabled")
		return
	}

	if err := a.scheduler.Start(ctx, a.probe); err != nil {
		a.logger.ErrorContext(ctx, "ingest scheduler not started", "error", err)
		return
	}

	if !a.cfg.IngestRunOnStart {
		return
	}
	go func() {
		runCtx := context.WithoutCancel(ctx)
		result, err := a.job.run(runCtx, ingestrun.TriggerStartup)
		if err != nil {
			a.logger.WarnContext(runCtx, "startup ingest cycle failed", "error", err)
			return
		}
		a.logger.InfoContext(runCtx, "startup ingest cycle finished",
			"cycle_id", result.CycleID,
			"snapshots_written", result.SnapshotsWritten,
		)
	}()
}

// StopBackground halts future ticks without waiting for an in-flight cycle.
func (a *App) StopBackground() {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
}

// Close stops ticks and releases connections.
func (a *App) Close() error {
	a.StopBackground()

	var errs []error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close postgres: %w", err))
		}
	}
	return errors.Join(errs...)
}
