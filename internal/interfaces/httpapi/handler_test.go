package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/diamond-odds/internal/domain/game"
	"github.com/riskibarqy/diamond-odds/internal/domain/ingestrun"
	"github.com/riskibarqy/diamond-odds/internal/domain/line"
	"github.com/riskibarqy/diamond-odds/internal/domain/playerprop"
	"github.com/riskibarqy/diamond-odds/internal/domain/prediction"
	"github.com/riskibarqy/diamond-odds/internal/platform/logging"
	"github.com/riskibarqy/diamond-odds/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJobToken = "job-secret"

type fakeOdds struct {
	games     map[int64]game.Game
	lines     []line.Snapshot
	lastLimit int
}

func (f *fakeOdds) ListLines(_ context.Context, gameID int64, limit int) (game.Game, []line.Snapshot, error) {
	f.lastLimit = limit
	g, ok := f.games[gameID]
	if !ok {
		return game.Game{}, nil, fmt.Errorf("%w: game id=%d", usecase.ErrNotFound, gameID)
	}
	return g, f.lines, nil
}

func (f *fakeOdds) ListProps(_ context.Context, gameID int64) ([]playerprop.Prop, error) {
	if _, ok := f.games[gameID]; !ok {
		return nil, fmt.Errorf("%w: game id=%d", usecase.ErrNotFound, gameID)
	}
	return []playerprop.Prop{{ID: 1, PlayerID: 9, GameID: gameID, Sportsbook: "draftkings", PropType: "batter_hits", Line: 1.5}}, nil
}

type fakePredictions struct {
	err error
}

func (f *fakePredictions) Get(_ context.Context, gameID int64) (prediction.Prediction, error) {
	if f.err != nil {
		return prediction.Prediction{}, f.err
	}
	return prediction.Prediction{GameID: gameID, Model: "basic_rf_v1"}, nil
}

func (f *fakePredictions) Generate(_ context.Context, gameID int64) (prediction.Prediction, error) {
	if f.err != nil {
		return prediction.Prediction{}, f.err
	}
	return prediction.Prediction{
		GameID: gameID,
		Score:  prediction.Score{PredictedHomeScore: 4.5, PredictedAwayScore: 3.9, PredictedTotal: 8.4, ConfidenceScore: 0.61},
		Model:  "basic_rf_v1",
	}, nil
}

type fakeRunLog struct {
	runs []ingestrun.Run
	err  error
}

func (f *fakeRunLog) LatestRuns(_ context.Context, limit int) ([]ingestrun.Run, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && limit < len(f.runs) {
		return f.runs[:limit], nil
	}
	return f.runs, nil
}

type fakeJob struct {
	result   usecase.CycleResult
	err      error
	calls    int
	running  bool
	inFlight bool
	dropped  int64
}

func (f *fakeJob) RunNow(context.Context) (usecase.CycleResult, error) {
	f.calls++
	return f.result, f.err
}
func (f *fakeJob) SchedulerRunning() bool { return f.running }
func (f *fakeJob) InFlight() bool         { return f.inFlight }
func (f *fakeJob) DroppedTicks() int64    { return f.dropped }

type fakeProbe struct{ err error }

func (f fakeProbe) Ping(context.Context) error { return f.err }

type envelope struct {
	Data  map[string]any `json:"data"`
	Error *struct {
		Code    int    `json:"code"`
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}

type routerDeps struct {
	odds        *fakeOdds
	predictions *fakePredictions
	runs        *fakeRunLog
	job         *fakeJob
	probe       fakeProbe
}

func newTestDeps() *routerDeps {
	return &routerDeps{
		odds: &fakeOdds{
			games: map[int64]game.Game{
				7: {ID: 7, HomeTeamID: 1, AwayTeamID: 2, StartTime: time.Date(2026, 4, 1, 23, 5, 0, 0, time.UTC), Status: game.StatusScheduled, Season: 2026},
			},
		},
		predictions: &fakePredictions{},
		runs:        &fakeRunLog{},
		job:         &fakeJob{},
	}
}

func (d *routerDeps) router(job IngestionJob) http.Handler {
	h := NewHandler(d.odds, d.predictions, d.runs, job, d.probe, logging.NewNop())
	return NewRouter(h, logging.NewNop(), []string{"*"}, testJobToken)
}

func serve(t *testing.T, router http.Handler, method, path string, header map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var body envelope
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestHandler_Healthz(t *testing.T) {
	deps := newTestDeps()
	rec, _ := serve(t, deps.router(deps.job), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	deps.probe = fakeProbe{err: errors.New("connection refused")}
	rec, body := serve(t, deps.router(deps.job), http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "UNAVAILABLE", body.Error.Status)
}

func TestHandler_ListGameLines(t *testing.T) {
	ml := -150
	deps := newTestDeps()
	deps.odds.lines = []line.Snapshot{{ID: 3, GameID: 7, Sportsbook: "fanduel", CycleID: "c1", Fields: line.Fields{HomeMoneyline: &ml}}}
	router := deps.router(deps.job)

	rec, body := serve(t, router, http.MethodGet, "/v1/games/7/lines?limit=25", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 25, deps.odds.lastLimit)
	lines, ok := body.Data["lines"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)
	assert.Equal(t, float64(-150), lines[0].(map[string]any)["homeMoneyline"])
	assert.Nil(t, lines[0].(map[string]any)["awayMoneyline"])
}

func TestHandler_ListGameLines_Errors(t *testing.T) {
	deps := newTestDeps()
	router := deps.router(deps.job)

	cases := []struct {
		name string
		path string
		want int
	}{
		{name: "unknown game", path: "/v1/games/99/lines", want: http.StatusNotFound},
		{name: "non numeric id", path: "/v1/games/abc/lines", want: http.StatusBadRequest},
		{name: "zero id", path: "/v1/games/0/lines", want: http.StatusBadRequest},
		{name: "limit too large", path: "/v1/games/7/lines?limit=1000", want: http.StatusBadRequest},
		{name: "negative limit", path: "/v1/games/7/lines?limit=-1", want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := serve(t, router, http.MethodGet, tc.path, nil)
			assert.Equal(t, tc.want, rec.Code)
			require.NotNil(t, body.Error)
		})
	}
}

func TestHandler_ListGameProps(t *testing.T) {
	deps := newTestDeps()
	rec, _ := serve(t, deps.router(deps.job), http.MethodGet, "/v1/games/7/props", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_GeneratePrediction(t *testing.T) {
	deps := newTestDeps()
	rec, body := serve(t, deps.router(deps.job), http.MethodPost, "/v1/predictions/games/7", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 8.4, body.Data["predictedTotal"])
	assert.Equal(t, "basic_rf_v1", body.Data["model"])
}

func TestHandler_PredictionErrors(t *testing.T) {
	cases := []struct {
		name   string
		method string
		err    error
		want   int
	}{
		{name: "insufficient history", method: http.MethodPost, err: fmt.Errorf("%w: team 1 has 3 games", usecase.ErrInsufficientData), want: http.StatusBadRequest},
		{name: "scorer failed", method: http.MethodPost, err: fmt.Errorf("%w: exit status 1", usecase.ErrScorerFailed), want: http.StatusBadGateway},
		{name: "no stored prediction", method: http.MethodGet, err: fmt.Errorf("%w: prediction game_id=7", usecase.ErrNotFound), want: http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			deps := newTestDeps()
			deps.predictions.err = tc.err
			rec, _ := serve(t, deps.router(deps.job), tc.method, "/v1/predictions/games/7", nil)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestHandler_IngestionStatus(t *testing.T) {
	deps := newTestDeps()
	deps.job.running = true
	deps.job.dropped = 2
	deps.runs.runs = []ingestrun.Run{
		{CycleID: "c2", Trigger: ingestrun.TriggerSchedule, Status: ingestrun.StatusCompleted},
		{CycleID: "c1", Trigger: ingestrun.TriggerManual, Status: ingestrun.StatusPartial},
	}

	rec, body := serve(t, deps.router(deps.job), http.MethodGet, "/v1/ingestion/status?limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	scheduler := body.Data["scheduler"].(map[string]any)
	assert.Equal(t, true, scheduler["running"])
	assert.Equal(t, float64(2), scheduler["droppedTicks"])
	runs := body.Data["runs"].([]any)
	require.Len(t, runs, 1)
	assert.Equal(t, "c2", runs[0].(map[string]any)["cycleId"])
}

func TestHandler_IngestionStatus_WithoutRunLog(t *testing.T) {
	deps := newTestDeps()
	deps.runs.err = fmt.Errorf("%w: run log is not configured", usecase.ErrDependencyUnavailable)

	rec, body := serve(t, deps.router(deps.job), http.MethodGet, "/v1/ingestion/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, body.Data["runs"])
}

func TestHandler_RunIngestOddsJob(t *testing.T) {
	deps := newTestDeps()
	deps.job.result = usecase.CycleResult{
		CycleID:          "cycle-1",
		GamesSeen:        3,
		SnapshotsWritten: 5,
		Errors:           []usecase.CycleError{{Stage: "resolve", HomeTeam: "Nowhere Nine", Message: "team not found"}},
	}
	router := deps.router(deps.job)

	rec, _ := serve(t, router, http.MethodPost, "/v1/internal/jobs/ingest-odds", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = serve(t, router, http.MethodPost, "/v1/internal/jobs/ingest-odds", map[string]string{"X-Internal-Job-Token": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, deps.job.calls)

	rec, body := serve(t, router, http.MethodPost, "/v1/internal/jobs/ingest-odds", map[string]string{"X-Internal-Job-Token": testJobToken})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, deps.job.calls)
	assert.Equal(t, "cycle-1", body.Data["cycleId"])
	assert.Equal(t, float64(5), body.Data["snapshotsWritten"])
	assert.Len(t, body.Data["errors"], 1)
}

func TestHandler_RunIngestOddsJob_InFlight(t *testing.T) {
	deps := newTestDeps()
	deps.job.err = usecase.ErrCycleInFlight

	rec, body := serve(t, deps.router(deps.job), http.MethodPost, "/v1/internal/jobs/ingest-odds", map[string]string{"X-Internal-Job-Token": testJobToken})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ABORTED", body.Error.Status)
}

func TestHandler_RunIngestOddsJob_LeaseHeldElsewhere(t *testing.T) {
	deps := newTestDeps()
	deps.job.err = fmt.Errorf("%w: held by another replica", usecase.ErrLeaseUnavailable)

	rec, body := serve(t, deps.router(deps.job), http.MethodPost, "/v1/internal/jobs/ingest-odds", map[string]string{"X-Internal-Job-Token": testJobToken})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, body.Error)
	assert.Equal(t, "ABORTED", body.Error.Status)
	assert.Contains(t, body.Error.Message, "another replica")
	assert.NotContains(t, body.Error.Message, "in flight")
}

func TestHandler_RunIngestOddsJob_NotConfigured(t *testing.T) {
	deps := newTestDeps()
	rec, _ := serve(t, deps.router(nil), http.MethodPost, "/v1/internal/jobs/ingest-odds", map[string]string{"X-Internal-Job-Token": testJobToken})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
