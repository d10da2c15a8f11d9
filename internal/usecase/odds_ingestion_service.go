package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/diamond-odds/internal/domain/game"
	"github.com/riskibarqy/diamond-odds/internal/domain/ingestrun"
	"github.com/riskibarqy/diamond-odds/internal/domain/line"
	"github.com/riskibarqy/diamond-odds/internal/domain/market"
	"github.com/riskibarqy/diamond-odds/internal/domain/player"
	"github.com/riskibarqy/diamond-odds/internal/domain/playerprop"
	"github.com/riskibarqy/diamond-odds/internal/domain/rawdata"
	"github.com/riskibarqy/diamond-odds/internal/domain/team"
	"github.com/riskibarqy/diamond-odds/internal/platform/id"
	"github.com/riskibarqy/diamond-odds/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	defaultIngestMaxWorkers = 4
	oddsPayloadSource       = "the-odds-api"
	oddsPayloadEntityType   = "odds_snapshot"
)

// Cycle error stages.
const (
	StageValidate       = "validate"
	StageResolveTeam    = "resolve_team"
	StageResolveGame    = "resolve_game"
	StageBookmaker      = "bookmaker"
	StageAppendSnapshot = "append_snapshot"
	StageAppendProps    = "append_props"
	StageArchive        = "archive"
	StagePanic          = "panic"
)

type OddsIngestionConfig struct {
	// MaxWorkers bounds concurrent per-game work; keep it below the DB pool size.
	MaxWorkers int
}

// CycleError records one failure that did not abort the cycle.
type CycleError struct {
	Stage     string    `json:"stage"`
	EventID   string    `json:"event_id,omitempty"`
	HomeTeam  string    `json:"home_team,omitempty"`
	AwayTeam  string    `json:"away_team,omitempty"`
	StartTime time.Time `json:"commence_time,omitempty"`
	GameID    int64     `json:"game_id,omitempty"`
	Bookmaker string    `json:"bookmaker,omitempty"`
	Message   string    `json:"message"`
}

func (e CycleError) Error() string {
	var b strings.Builder
	b.WriteString(e.Stage)
	if e.AwayTeam != "" || e.HomeTeam != "" {
		fmt.Fprintf(&b, " %s@%s", e.AwayTeam, e.HomeTeam)
	}
	if e.Bookmaker != "" {
		b.WriteString(" [")
		b.WriteString(e.Bookmaker)
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

type CycleResult struct {
	CycleID          string       `json:"cycle_id"`
	StartedAt        time.Time    `json:"started_at"`
	FinishedAt       time.Time    `json:"finished_at"`
	GamesSeen        int          `json:"games_seen"`
	GamesProcessed   int          `json:"games_processed"`
	GamesSkipped     int          `json:"games_skipped"`
	SnapshotsWritten int          `json:"snapshots_written"`
	PropsWritten     int          `json:"props_written"`
	Errors           []CycleError `json:"errors"`
}

type ingestTriggerKey struct{}

// WithIngestTrigger tags the cycle started with ctx for the run log.
func WithIngestTrigger(ctx context.Context, trigger ingestrun.Trigger) context.Context {
	return context.WithValue(ctx, ingestTriggerKey{}, trigger)
}

func ingestTriggerFromContext(ctx context.Context) ingestrun.Trigger {
	if v, ok := ctx.Value(ingestTriggerKey{}).(ingestrun.Trigger); ok && v != "" {
		return v
	}
	return ingestrun.TriggerSchedule
}

type entityResolver interface {
	ResolveTeam(ctx context.Context, externalName string) (team.Team, error)
	ResolveGame(ctx context.Context, homeTeamID, awayTeamID int64, startTime time.Time) (game.Game, error)
}

// OddsIngestionService runs one fetch-resolve-normalize-persist cycle. It is
// the only writer of line snapshots and player props.
type OddsIngestionService struct {
	provider OddsProvider
	resolver entityResolver
	lineRepo line.Repository

	propRepo   playerprop.Repository
	playerRepo player.Repository
	rawRepo    rawdata.Repository
	runRepo    ingestrun.Repository

	ids       id.Generator
	validator *validator.Validate
	now       func() time.Time
	cfg       OddsIngestionConfig
	logger    *logging.Logger
}

func NewOddsIngestionService(
	provider OddsProvider,
	resolver entityResolver,
	lineRepo line.Repository,
	cfg OddsIngestionConfig,
	logger *logging.Logger,
) *OddsIngestionService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultIngestMaxWorkers
	}
	return &OddsIngestionService{
		provider:  provider,
		resolver:  resolver,
		lineRepo:  lineRepo,
		ids:       id.NewUUIDGenerator(),
		validator: validator.New(),
		now:       time.Now,
		cfg:       cfg,
		logger:    logger.Named("ingestion"),
	}
}

// WithPlayerProps enables prop extraction. Props whose player is unknown are skipped.
func (s *OddsIngestionService) WithPlayerProps(propRepo playerprop.Repository, playerRepo player.Repository) *OddsIngestionService {
	s.propRepo = propRepo
	s.playerRepo = playerRepo
	return s
}

// WithPayloadArchive stores the raw upstream body of each cycle.
func (s *OddsIngestionService) WithPayloadArchive(repo rawdata.Repository) *OddsIngestionService {
	s.rawRepo = repo
	return s
}

// WithRunLog records a summary row per cycle.
func (s *OddsIngestionService) WithRunLog(repo ingestrun.Repository) *OddsIngestionService {
	s.runRepo = repo
	return s
}

func (s *OddsIngestionService) WithIDGenerator(gen id.Generator) *OddsIngestionService {
	if gen != nil {
		s.ids = gen
	}
	return s
}

func (s *OddsIngestionService) WithClock(now func() time.Time) *OddsIngestionService {
	if now != nil {
		s.now = now
	}
	return s
}

// RunCycle fetches the market once and persists one snapshot per bookmaker of
// every resolvable game. Only a fetch failure aborts the cycle; everything else
// is collected into CycleResult.Errors.
func (s *OddsIngestionService) RunCycle(ctx context.Context) (CycleResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsIngestionService.RunCycle")
	defer span.End()

	cycleID, err := s.ids.NewID()
	if err != nil {
		return CycleResult{}, fmt.Errorf("generate cycle id: %w", err)
	}
	span.SetAttributes(attribute.String("ingest.cycle_id", cycleID))

	logger := s.logger.With("cycle_id", cycleID)
	result := CycleResult{CycleID: cycleID, StartedAt: s.now().UTC(), Errors: []CycleError{}}
	trigger := ingestTriggerFromContext(ctx)

	logger.InfoContext(ctx, "odds ingestion cycle started", "trigger", trigger)

	snapshot, err := s.provider.FetchOdds(ctx)
	if err != nil {
		result.FinishedAt = s.now().UTC()
		logger.ErrorContext(ctx, "odds fetch failed, cycle aborted", "error", err)
		s.recordRun(ctx, logger, trigger, result, err)
		return result, fmt.Errorf("fetch odds: %w", err)
	}

	result.GamesSeen = len(snapshot.Events)
	if snapshot.RequestsRemaining != "" {
		logger.InfoContext(ctx, "odds api quota",
			"requests_remaining", snapshot.RequestsRemaining,
			"requests_used", snapshot.RequestsUsed,
		)
	}

	if cycleErr, ok := s.archivePayload(ctx, cycleID, snapshot); !ok {
		result.Errors = append(result.Errors, cycleErr)
	}

	outcomes, err := s.processEvents(ctx, logger, cycleID, snapshot.Events)
	if err != nil {
		result.FinishedAt = s.now().UTC()
		s.recordRun(ctx, logger, trigger, result, err)
		return result, err
	}

	for _, outcome := range outcomes {
		if outcome.processed {
			result.GamesProcessed++
		} else {
			result.GamesSkipped++
		}
		result.SnapshotsWritten += outcome.snapshots
		result.PropsWritten += outcome.props
		result.Errors = append(result.Errors, outcome.errors...)
	}
	result.FinishedAt = s.now().UTC()

	span.SetAttributes(
		attribute.Int("ingest.games_seen", result.GamesSeen),
		attribute.Int("ingest.snapshots_written", result.SnapshotsWritten),
		attribute.Int("ingest.error_count", len(result.Errors)),
	)
	logger.InfoContext(ctx, "odds ingestion cycle finished",
		"games_seen", result.GamesSeen,
		"games_processed", result.GamesProcessed,
		"games_skipped", result.GamesSkipped,
		"snapshots_written", result.SnapshotsWritten,
		"props_written", result.PropsWritten,
		"error_count", len(result.Errors),
		"duration", result.FinishedAt.Sub(result.StartedAt),
	)
	s.recordRun(ctx, logger, trigger, result, nil)

	return result, nil
}

type eventOutcome struct {
	processed bool
	snapshots int
	props     int
	errors    []CycleError
}

func (s *OddsIngestionService) processEvents(
	ctx context.Context,
	logger *logging.Logger,
	cycleID string,
	events []ExternalOddsEvent,
) ([]eventOutcome, error) {
	outcomes := make([]eventOutcome, len(events))
	if len(events) == 0 {
		return outcomes, nil
	}

	workerCount := s.cfg.MaxWorkers
	if workerCount > len(events) {
		workerCount = len(events)
	}
	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for idx := range events {
		idx := idx
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			outcomes[idx] = s.processEventSafely(ctx, logger, cycleID, events[idx])
		}); err != nil {
			workers.Done()
			workers.Wait()
			return nil, fmt.Errorf("submit game to worker pool: %w", err)
		}
	}
	workers.Wait()

	return outcomes, nil
}

// processEventSafely keeps a panic in one game from taking down the cycle.
func (s *OddsIngestionService) processEventSafely(
	ctx context.Context,
	logger *logging.Logger,
	cycleID string,
	event ExternalOddsEvent,
) (out eventOutcome) {
	defer func() {
		if recovered := recover(); recovered != nil {
			logger.ErrorContext(ctx, "panic while ingesting game",
				"event_id", event.ID,
				"home_team", event.HomeTeam,
				"away_team", event.AwayTeam,
				"panic", fmt.Sprint(recovered),
				"stack", string(debug.Stack()),
			)
			out.errors = append(out.errors, eventError(event, StagePanic, fmt.Sprint(recovered)))
		}
	}()
	return s.processEvent(ctx, logger, cycleID, event)
}

func (s *OddsIngestionService) processEvent(
	ctx context.Context,
	logger *logging.Logger,
	cycleID string,
	event ExternalOddsEvent,
) eventOutcome {
	var out eventOutcome
	logger = logger.With(
		"event_id", event.ID,
		"home_team", event.HomeTeam,
		"away_team", event.AwayTeam,
		"commence_time", event.CommenceTime,
	)

	if event.DecodeError != "" {
		logger.WarnContext(ctx, "undecodable odds event skipped", "error", event.DecodeError)
		out.errors = append(out.errors, eventError(event, StageValidate, event.DecodeError))
		return out
	}
	if err := s.validator.StructCtx(ctx, event); err != nil {
		logger.WarnContext(ctx, "malformed odds event skipped", "error", err)
		out.errors = append(out.errors, eventError(event, StageValidate, err.Error()))
		return out
	}

	homeTeam, err := s.resolver.ResolveTeam(ctx, event.HomeTeam)
	if err != nil {
		return s.skipUnresolved(ctx, logger, event, event.HomeTeam, err)
	}
	awayTeam, err := s.resolver.ResolveTeam(ctx, event.AwayTeam)
	if err != nil {
		return s.skipUnresolved(ctx, logger, event, event.AwayTeam, err)
	}

	item, err := s.resolver.ResolveGame(ctx, homeTeam.ID, awayTeam.ID, event.CommenceTime)
	if err != nil {
		logger.ErrorContext(ctx, "resolve game failed", "error", err)
		out.errors = append(out.errors, eventError(event, StageResolveGame, err.Error()))
		return out
	}
	out.processed = true
	logger = logger.With("game_id", item.ID)

	for _, block := range event.Malformed {
		cerr := eventError(event, StageBookmaker, block.Reason)
		cerr.GameID = item.ID
		cerr.Bookmaker = block.Bookmaker
		if block.Market != "" {
			cerr.Message = "market " + block.Market + ": " + block.Reason
		}
		logger.WarnContext(ctx, "malformed odds block dropped", "bookmaker", block.Bookmaker, "market", block.Market, "error", block.Reason)
		out.errors = append(out.errors, cerr)
	}

	for _, bookmaker := range event.Bookmakers {
		sportsbook := strings.TrimSpace(bookmaker.Key)
		if sportsbook == "" {
			cerr := eventError(event, StageBookmaker, "bookmaker key is empty")
			cerr.GameID = item.ID
			logger.WarnContext(ctx, "bookmaker without key skipped")
			out.errors = append(out.errors, cerr)
			continue
		}
		bookmaker.Key = sportsbook

		normalized := market.NormalizeBookmaker(bookmaker, event.HomeTeam)
		if len(normalized.Ignored) > 0 {
			logger.DebugContext(ctx, "unsupported markets ignored", "bookmaker", sportsbook, "markets", normalized.Ignored)
		}

		_, err := s.lineRepo.Append(ctx, line.Snapshot{
			GameID:     item.ID,
			Sportsbook: sportsbook,
			CycleID:    cycleID,
			Fields:     normalized.Fields,
			CapturedAt: s.now().UTC(),
		})
		if err != nil {
			cerr := eventError(event, StageAppendSnapshot, err.Error())
			cerr.GameID = item.ID
			cerr.Bookmaker = sportsbook
			logger.ErrorContext(ctx, "append line snapshot failed", "bookmaker", sportsbook, "error", err)
			out.errors = append(out.errors, cerr)
			continue
		}
		out.snapshots++

		written, err := s.appendProps(ctx, logger, cycleID, item.ID, sportsbook, normalized.Props)
		out.props += written
		if err != nil {
			cerr := eventError(event, StageAppendProps, err.Error())
			cerr.GameID = item.ID
			cerr.Bookmaker = sportsbook
			logger.ErrorContext(ctx, "append player props failed", "bookmaker", sportsbook, "error", err)
			out.errors = append(out.errors, cerr)
		}
	}

	return out
}

func (s *OddsIngestionService) skipUnresolved(
	ctx context.Context,
	logger *logging.Logger,
	event ExternalOddsEvent,
	name string,
	err error,
) eventOutcome {
	if stderrors.Is(err, ErrTeamNotFound) {
		logger.WarnContext(ctx, "team not resolved, game skipped", "team", name)
	} else {
		logger.ErrorContext(ctx, "resolve team failed, game skipped", "team", name, "error", err)
	}
	return eventOutcome{errors: []CycleError{eventError(event, StageResolveTeam, err.Error())}}
}

func (s *OddsIngestionService) appendProps(
	ctx context.Context,
	logger *logging.Logger,
	cycleID string,
	gameID int64,
	sportsbook string,
	lines []market.PropLine,
) (int, error) {
	if s.propRepo == nil || s.playerRepo == nil || len(lines) == 0 {
		return 0, nil
	}

	capturedAt := s.now().UTC()
	players := make(map[string]int64, len(lines))
	items := make([]playerprop.Prop, 0, len(lines))
	for _, pl := range lines {
		playerID, known := players[pl.PlayerName]
		if !known {
			p, ok, err := s.playerRepo.GetByName(ctx, pl.PlayerName)
			if err != nil {
				return 0, fmt.Errorf("get player %q: %w", pl.PlayerName, err)
			}
			if ok {
				playerID = p.ID
			}
			players[pl.PlayerName] = playerID
		}
		if playerID == 0 {
			logger.DebugContext(ctx, "prop player not found", "player", pl.PlayerName, "prop_type", pl.PropType)
			continue
		}

		items = append(items, playerprop.Prop{
			PlayerID:   playerID,
			GameID:     gameID,
			Sportsbook: sportsbook,
			PropType:   pl.PropType,
			Line:       pl.Line,
			OverOdds:   pl.OverOdds,
			UnderOdds:  pl.UnderOdds,
			CycleID:    cycleID,
			CapturedAt: capturedAt,
		})
	}
	if len(items) == 0 {
		return 0, nil
	}
	return s.propRepo.AppendMany(ctx, items)
}

func (s *OddsIngestionService) archivePayload(ctx context.Context, cycleID string, snapshot ExternalOddsSnapshot) (CycleError, bool) {
	if s.rawRepo == nil || len(snapshot.Raw) == 0 {
		return CycleError{}, true
	}

	fetchedAt := snapshot.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = s.now()
	}
	sum := sha256.Sum256(snapshot.Raw)
	err := s.rawRepo.UpsertMany(ctx, []rawdata.Payload{{
		Source:      oddsPayloadSource,
		EntityType:  oddsPayloadEntityType,
		EntityKey:   cycleID,
		CycleID:     cycleID,
		PayloadJSON: string(snapshot.Raw),
		PayloadHash: hex.EncodeToString(sum[:]),
		FetchedAt:   fetchedAt.UTC(),
	}})
	if err != nil {
		s.logger.WarnContext(ctx, "archive odds payload failed", "cycle_id", cycleID, "error", err)
		return CycleError{Stage: StageArchive, Message: err.Error()}, false
	}
	return CycleError{}, true
}

func (s *OddsIngestionService) recordRun(
	ctx context.Context,
	logger *logging.Logger,
	trigger ingestrun.Trigger,
	result CycleResult,
	cycleErr error,
) {
	if s.runRepo == nil {
		return
	}

	run := ingestrun.Run{
		CycleID:          result.CycleID,
		Trigger:          trigger,
		Status:           ingestrun.StatusCompleted,
		GamesSeen:        result.GamesSeen,
		GamesProcessed:   result.GamesProcessed,
		GamesSkipped:     result.GamesSkipped,
		SnapshotsWritten: result.SnapshotsWritten,
		PropsWritten:     result.PropsWritten,
		ErrorCount:       len(result.Errors),
		StartedAt:        result.StartedAt,
		FinishedAt:       result.FinishedAt,
	}
	switch {
	case cycleErr != nil:
		run.Status = ingestrun.StatusFailed
		run.ErrorCount++
		run.ErrorMessage = cycleErr.Error()
	case len(result.Errors) > 0:
		run.Status = ingestrun.StatusPartial
		run.ErrorMessage = summarizeCycleErrors(result.Errors)
	}
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		run.TraceID = spanCtx.TraceID().String()
		run.SpanID = spanCtx.SpanID().String()
	}

	if err := s.runRepo.Record(ctx, run); err != nil {
		logger.WarnContext(ctx, "record ingestion run failed", "error", err)
	}
}

// LatestRuns lists the most recent cycles, newest first.
func (s *OddsIngestionService) LatestRuns(ctx context.Context, limit int) ([]ingestrun.Run, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsIngestionService.LatestRuns")
	defer span.End()

	if s.runRepo == nil {
		return nil, fmt.Errorf("%w: ingestion run log is not configured", ErrDependencyUnavailable)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	runs, err := s.runRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list ingestion runs: %w", err)
	}
	return runs, nil
}

func summarizeCycleErrors(errs []CycleError) string {
	counts := make(map[string]int, len(errs))
	for _, e := range errs {
		counts[e.Stage]++
	}
	stages := make([]string, 0, len(counts))
	for stage := range counts {
		stages = append(stages, stage)
	}
	sort.Strings(stages)

	parts := make([]string, 0, len(stages))
	for _, stage := range stages {
		parts = append(parts, fmt.Sprintf("%s=%d", stage, counts[stage]))
	}
	return strings.Join(parts, ", ")
}

func eventError(event ExternalOddsEvent, stage, message string) CycleError {
	return CycleError{
		Stage:     stage,
		EventID:   event.ID,
		HomeTeam:  event.HomeTeam,
		AwayTeam:  event.AwayTeam,
		StartTime: event.CommenceTime,
		Message:   message,
	}
}
