package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/diamond-odds/internal/domain/game"
	"github.com/riskibarqy/diamond-odds/internal/domain/ingestrun"
	"github.com/riskibarqy/diamond-odds/internal/domain/line"
	"github.com/riskibarqy/diamond-odds/internal/domain/playerprop"
	"github.com/riskibarqy/diamond-odds/internal/domain/prediction"
	"github.com/riskibarqy/diamond-odds/internal/platform/logging"
	"github.com/riskibarqy/diamond-odds/internal/usecase"
)

type OddsService interface {
	ListLines(ctx context.Context, gameID int64, limit int) (game.Game, []line.Snapshot, error)
	ListProps(ctx context.Context, gameID int64) ([]playerprop.Prop, error)
}

type PredictionService interface {
	Get(ctx context.Context, gameID int64) (prediction.Prediction, error)
	Generate(ctx context.Context, gameID int64) (prediction.Prediction, error)
}

type IngestionRunLog interface {
	LatestRuns(ctx context.Context, limit int) ([]ingestrun.Run, error)
}

// IngestionJob is the scheduled odds cycle as seen by operators.
type IngestionJob interface {
	// RunNow runs one cycle synchronously. It returns usecase.ErrCycleInFlight
	// when a run is already executing here and usecase.ErrLeaseUnavailable when
	// the cross-replica lease cannot be taken.
	RunNow(ctx context.Context) (usecase.CycleResult, error)
	SchedulerRunning() bool
	InFlight() bool
	DroppedTicks() int64
}

type ReadinessProbe interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	odds        OddsService
	predictions PredictionService
	runs        IngestionRunLog
	job         IngestionJob
	probe       ReadinessProbe
	logger      *logging.Logger
	validator   *validator.Validate
}

func NewHandler(
	odds OddsService,
	predictions PredictionService,
	runs IngestionRunLog,
	job IngestionJob,
	probe ReadinessProbe,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		odds:        odds,
		predictions: predictions,
		runs:        runs,
		job:         job,
		probe:       probe,
		logger:      logger.Named("handler"),
		validator:   validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	if h.probe != nil {
		if err := h.probe.Ping(ctx); err != nil {
			h.logger.WarnContext(ctx, "readiness probe failed", "error", err)
			writeError(ctx, w, fmt.Errorf("%w: persistence unreachable", usecase.ErrDependencyUnavailable))
			return
		}
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type gameRequest struct {
	GameID int64 `validate:"gt=0"`
}

type gameLinesRequest struct {
	GameID int64 `validate:"gt=0"`
	Limit  int   `validate:"gte=0,lte=500"`
}

type ingestionStatusRequest struct {
	Limit int `validate:"gte=0,lte=100"`
}

func parseInt64Param(name, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", usecase.ErrInvalidInput, name)
	}
	return value, nil
}

func (h *Handler) parseGameRequest(ctx context.Context, r *http.Request) (gameRequest, error) {
	gameID, err := parseInt64Param("gameID", r.PathValue("gameID"))
	if err != nil {
		return gameRequest{}, err
	}
	req := gameRequest{GameID: gameID}
	if err := h.validateRequest(ctx, req); err != nil {
		return gameRequest{}, err
	}
	return req, nil
}

func parseLimit(r *http.Request) (int, error) {
	limit, err := parseInt64Param("limit", r.URL.Query().Get("limit"))
	if err != nil {
		return 0, err
	}
	return int(limit), nil
}
