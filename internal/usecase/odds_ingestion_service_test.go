package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/diamond-odds/internal/domain/game"
	"github.com/riskibarqy/diamond-odds/internal/domain/ingestrun"
	"github.com/riskibarqy/diamond-odds/internal/domain/market"
	"github.com/riskibarqy/diamond-odds/internal/domain/player"
	"github.com/riskibarqy/diamond-odds/internal/domain/team"
	"github.com/riskibarqy/diamond-odds/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/diamond-odds/internal/platform/id"
	"github.com/stretchr/testify/require"
)

type fakeOddsProvider struct {
	snapshot ExternalOddsSnapshot
	err      error
	calls    int
}

func (p *fakeOddsProvider) FetchOdds(context.Context) (ExternalOddsSnapshot, error) {
	p.calls++
	return p.snapshot, p.err
}

type ingestionFixture struct {
	service  *OddsIngestionService
	provider *fakeOddsProvider
	lines    *memory.LineRepository
	props    *memory.PlayerPropRepository
	raw      *memory.RawDataRepository
	runs     *memory.IngestRunRepository
	games    *memory.GameRepository
}

var fixedIngestTime = time.Date(2026, 7, 1, 15, 0, 0, 0, time.UTC)

func newIngestionFixture(events ...ExternalOddsEvent) *ingestionFixture {
	teams := memory.NewTeamRepository(memory.SeedTeams())
	games := memory.NewGameRepository(nil)
	players := memory.NewPlayerRepository([]player.Player{
		{ExternalID: 592450, Name: "Aaron Judge", TeamID: 3, Active: true},
	})

	f := &ingestionFixture{
		provider: &fakeOddsProvider{snapshot: ExternalOddsSnapshot{Events: events, Raw: []byte(`[]`), FetchedAt: fixedIngestTime}},
		lines:    memory.NewLineRepository(),
		props:    memory.NewPlayerPropRepository(),
		raw:      memory.NewRawDataRepository(),
		runs:     memory.NewIngestRunRepository(),
		games:    games,
	}
	resolver := NewEntityResolver(teams, games, ResolverConfig{}, nil)
	f.service = NewOddsIngestionService(f.provider, resolver, f.lines, OddsIngestionConfig{MaxWorkers: 3}, nil).
		WithPlayerProps(f.props, players).
		WithPayloadArchive(f.raw).
		WithRunLog(f.runs).
		WithIDGenerator(id.NewSequence("cycle-1", "cycle-2")).
		WithClock(func() time.Time { return fixedIngestTime })
	return f
}

func price(v float64) *float64 { return &v }

func h2h(home string, homePrice float64, away string, awayPrice float64) market.Market {
	return market.Market{Key: market.KeyHeadToHead, Outcomes: []market.Outcome{
		{Name: away, Price: price(awayPrice)},
		{Name: home, Price: price(homePrice)},
	}}
}

func yankeesRedSox(bookmakers ...market.Bookmaker) ExternalOddsEvent {
	return ExternalOddsEvent{
		ID:           "evt-nyy-bos",
		HomeTeam:     "New York Yankees",
		AwayTeam:     "Boston Red Sox",
		CommenceTime: time.Date(2026, 7, 1, 23, 5, 0, 0, time.UTC),
		Bookmakers:   bookmakers,
	}
}

func TestOddsIngestionService_YankeesRedSoxMoneyline(t *testing.T) {
	t.Parallel()

	f := newIngestionFixture(yankeesRedSox(market.Bookmaker{
		Key:     "draftkings",
		Markets: []market.Market{h2h("New York Yankees", -150, "Boston Red Sox", 130)},
	}))

	result, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, "cycle-1", result.CycleID)
	require.Equal(t, 1, result.GamesSeen)
	require.Equal(t, 1, result.GamesProcessed)
	require.Equal(t, 1, result.SnapshotsWritten)
	require.Empty(t, result.Errors)

	stored := f.lines.All()
	require.Len(t, stored, 1)
	require.Equal(t, "draftkings", stored[0].Sportsbook)
	require.Equal(t, "cycle-1", stored[0].CycleID)
	require.Equal(t, -150, *stored[0].HomeMoneyline)
	require.Equal(t, 130, *stored[0].AwayMoneyline)
	require.Nil(t, stored[0].HomeSpread)

	g, ok, err := f.games.GetByID(context.Background(), stored[0].GameID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, game.StatusScheduled, g.Status)
}

func TestOddsIngestionService_SnapshotsMatchBookmakersOverResolvedGames(t *testing.T) {
	t.Parallel()

	books := func(keys ...string) []market.Bookmaker {
		out := make([]market.Bookmaker, 0, len(keys))
		for _, k := range keys {
			out = append(out, market.Bookmaker{Key: k, Markets: []market.Market{{
				Key: market.KeyTotals,
				Outcomes: []market.Outcome{
					{Name: "Over", Price: price(-110), Point: price(8.5)},
					{Name: "Under", Price: price(-105), Point: price(8.5)},
				},
			}}})
		}
		return out
	}
	start := time.Date(2026, 7, 2, 23, 10, 0, 0, time.UTC)
	events := []ExternalOddsEvent{
		{ID: "a", HomeTeam: "Los Angeles Dodgers", AwayTeam: "San Diego Padres", CommenceTime: start, Bookmakers: books("draftkings", "fanduel", "betmgm")},
		{ID: "b", HomeTeam: "Chicago Cubs", AwayTeam: "Milwaukee Brewers", CommenceTime: start, Bookmakers: books("draftkings", "fanduel")},
		{ID: "c", HomeTeam: "Springfield Isotopes", AwayTeam: "Shelbyville Shelbyvillians", CommenceTime: start, Bookmakers: books("draftkings")},
		{ID: "d", HomeTeam: "Houston Astros", AwayTeam: "Texas Rangers", CommenceTime: start, Bookmakers: nil},
	}
	f := newIngestionFixture(events...)

	result, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 4, result.GamesSeen)
	require.Equal(t, 3, result.GamesProcessed)
	require.Equal(t, 1, result.GamesSkipped)
	require.Equal(t, 5, result.SnapshotsWritten)
	require.Len(t, f.lines.All(), 5)

	for _, s := range f.lines.All() {
		require.Equal(t, 8.5, *s.OverUnder)
		require.Equal(t, -110, *s.OverOdds)
		require.Equal(t, -105, *s.UnderOdds)
	}
}

func TestOddsIngestionService_UnknownTeamSkipsGame(t *testing.T) {
	t.Parallel()

	f := newIngestionFixture(ExternalOddsEvent{
		ID:           "evt-x",
		HomeTeam:     "New York Yankees",
		AwayTeam:     "Brooklyn Robins",
		CommenceTime: time.Date(2026, 7, 1, 23, 5, 0, 0, time.UTC),
		Bookmakers:   []market.Bookmaker{{Key: "fanduel", Markets: []market.Market{h2h("New York Yankees", -200, "Brooklyn Robins", 170)}}},
	})

	result, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, result.SnapshotsWritten)
	require.Equal(t, 1, result.GamesSkipped)
	require.Len(t, result.Errors, 1)
	require.Equal(t, StageResolveTeam, result.Errors[0].Stage)
	require.Equal(t, "Brooklyn Robins", result.Errors[0].AwayTeam)
	require.Empty(t, f.lines.All())

	runs, err := f.runs.ListRecent(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, ingestrun.StatusPartial, runs[0].Status)
}

func TestOddsIngestionService_MissingSpreadsLeaveNilFields(t *testing.T) {
	t.Parallel()

	f := newIngestionFixture(yankeesRedSox(market.Bookmaker{
		Key: "caesars",
		Markets: []market.Market{
			h2h("New York Yankees", -120, "Boston Red Sox", 100),
			{Key: market.KeyTotals, Outcomes: []market.Outcome{
				{Name: "Over", Price: price(-115), Point: price(9)},
				{Name: "Under", Price: price(-105), Point: price(9)},
			}},
		},
	}))

	_, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)

	stored := f.lines.All()
	require.Len(t, stored, 1)
	require.Nil(t, stored[0].HomeSpread)
	require.Nil(t, stored[0].HomeSpreadOdds)
	require.Nil(t, stored[0].AwaySpread)
	require.Nil(t, stored[0].AwaySpreadOdds)
	require.NotNil(t, stored[0].HomeMoneyline)
	require.Equal(t, 9.0, *stored[0].OverUnder)
}

func TestOddsIngestionService_FetchFailureAbortsCycle(t *testing.T) {
	t.Parallel()

	f := newIngestionFixture()
	f.provider.err = errors.New("upstream 503")

	result, err := f.service.RunCycle(context.Background())
	require.Error(t, err)
	require.Equal(t, "cycle-1", result.CycleID)
	require.Empty(t, f.lines.All())

	runs, err := f.runs.ListRecent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, ingestrun.StatusFailed, runs[0].Status)
	require.Contains(t, runs[0].ErrorMessage, "upstream 503")
}

func TestOddsIngestionService_BlankBookmakerKeyDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	f := newIngestionFixture(yankeesRedSox(
		market.Bookmaker{Key: "  ", Markets: []market.Market{h2h("New York Yankees", -150, "Boston Red Sox", 130)}},
		market.Bookmaker{Key: "fanduel", Markets: []market.Market{h2h("New York Yankees", -145, "Boston Red Sox", 125)}},
	))

	result, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.SnapshotsWritten)
	require.Equal(t, 1, result.GamesProcessed)
	require.Len(t, result.Errors, 1)
	require.Equal(t, StageBookmaker, result.Errors[0].Stage)
}

func TestOddsIngestionService_AppendsEveryCycle(t *testing.T) {
	t.Parallel()

	f := newIngestionFixture(yankeesRedSox(market.Bookmaker{
		Key:     "draftkings",
		Markets: []market.Market{h2h("New York Yankees", -150, "Boston Red Sox", 130)},
	}))

	_, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	second, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, "cycle-2", second.CycleID)

	stored := f.lines.All()
	require.Len(t, stored, 2)
	require.Equal(t, stored[0].GameID, stored[1].GameID)
	require.NotEqual(t, stored[0].CycleID, stored[1].CycleID)
}

func TestOddsIngestionService_MalformedEventIsSkipped(t *testing.T) {
	t.Parallel()

	f := newIngestionFixture(
		ExternalOddsEvent{ID: "bad", HomeTeam: "New York Yankees", AwayTeam: "New York Yankees", CommenceTime: time.Now()},
		ExternalOddsEvent{ID: "no-time", HomeTeam: "New York Yankees", AwayTeam: "Boston Red Sox"},
	)

	result, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, result.GamesSkipped)
	require.Len(t, result.Errors, 2)
	for _, e := range result.Errors {
		require.Equal(t, StageValidate, e.Stage)
	}
}

func TestOddsIngestionService_EventWithoutIDIsIngested(t *testing.T) {
	t.Parallel()

	event := yankeesRedSox(market.Bookmaker{
		Key:     "draftkings",
		Markets: []market.Market{h2h("New York Yankees", -150, "Boston Red Sox", 130)},
	})
	event.ID = ""
	f := newIngestionFixture(event)

	result, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.GamesProcessed)
	require.Equal(t, 1, result.SnapshotsWritten)
	require.Empty(t, result.Errors)
	stored := f.lines.All()
	require.Len(t, stored, 1)
	_, ok, err := f.games.GetByID(context.Background(), stored[0].GameID)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestOddsIngestionService_MalformedBlocksKeepGoodSnapshots(t *testing.T) {
	t.Parallel()

	withBadBook := yankeesRedSox(
		market.Bookmaker{Key: "draftkings", Markets: []market.Market{h2h("New York Yankees", -150, "Boston Red Sox", 130)}},
		market.Bookmaker{Key: "fanduel", Markets: []market.Market{{
			Key: market.KeyTotals,
			Outcomes: []market.Outcome{
				{Name: "Over", Price: price(-110), Point: price(8.5)},
				{Name: "Under", Price: price(-110), Point: price(8.5)},
			},
		}}},
	)
	withBadBook.Malformed = []MalformedBlock{
		{Bookmaker: "badbook", Reason: "decode bookmaker: mismatched type"},
		{Bookmaker: "fanduel", Market: market.KeyHeadToHead, Reason: "decode market: mismatched type"},
	}
	undecodable := ExternalOddsEvent{HomeTeam: "Chicago Cubs", DecodeError: "decode event: mismatched type"}
	dodgers := ExternalOddsEvent{
		HomeTeam:     "Los Angeles Dodgers",
		AwayTeam:     "San Francisco Giants",
		CommenceTime: time.Date(2026, 7, 2, 2, 10, 0, 0, time.UTC),
		Bookmakers: []market.Bookmaker{
			{Key: "draftkings", Markets: []market.Market{h2h("Los Angeles Dodgers", -165, "San Francisco Giants", 140)}},
		},
	}
	f := newIngestionFixture(withBadBook, undecodable, dodgers)

	result, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, result.GamesSeen)
	require.Equal(t, 2, result.GamesProcessed)
	require.Equal(t, 1, result.GamesSkipped)
	require.Equal(t, 3, result.SnapshotsWritten)
	require.Len(t, f.lines.All(), 3)

	require.Len(t, result.Errors, 3)
	require.Equal(t, StageBookmaker, result.Errors[0].Stage)
	require.Equal(t, "badbook", result.Errors[0].Bookmaker)
	require.NotZero(t, result.Errors[0].GameID)
	require.Equal(t, StageBookmaker, result.Errors[1].Stage)
	require.Equal(t, "fanduel", result.Errors[1].Bookmaker)
	require.Contains(t, result.Errors[1].Message, "market h2h")
	require.Equal(t, StageValidate, result.Errors[2].Stage)
	require.Equal(t, "Chicago Cubs", result.Errors[2].HomeTeam)

	var fanduel int
	for _, snap := range f.lines.All() {
		if snap.Sportsbook == "fanduel" {
			fanduel++
			require.Nil(t, snap.HomeMoneyline)
			require.NotNil(t, snap.OverUnder)
		}
	}
	require.Equal(t, 1, fanduel)
}

func TestOddsIngestionService_PlayerPropsAndArchive(t *testing.T) {
	t.Parallel()

	f := newIngestionFixture(yankeesRedSox(market.Bookmaker{
		Key: "draftkings",
		Markets: []market.Market{
			h2h("New York Yankees", -150, "Boston Red Sox", 130),
			{Key: "batter_home_runs", Outcomes: []market.Outcome{
				{Name: "Over", Description: "Aaron Judge", Price: price(240), Point: price(0.5)},
				{Name: "Under", Description: "Aaron Judge", Price: price(-320), Point: price(0.5)},
				{Name: "Over", Description: "Unknown Rookie", Price: price(600), Point: price(0.5)},
			}},
		},
	}))

	result, err := f.service.RunCycle(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, result.PropsWritten)

	snapshot := f.lines.All()[0]
	props, err := f.props.ListByGame(context.Background(), snapshot.GameID)
	require.NoError(t, err)
	require.Len(t, props, 1)
	require.Equal(t, "batter_home_runs", props[0].PropType)
	require.Equal(t, 240, *props[0].OverOdds)
	require.Equal(t, -320, *props[0].UnderOdds)
	require.Nil(t, props[0].Result)

	archived, ok := f.raw.Get(oddsPayloadSource, oddsPayloadEntityType, "cycle-1")
	require.True(t, ok)
	require.Equal(t, "[]", archived.PayloadJSON)
	require.Len(t, archived.PayloadHash, 64)
}

type panickingResolver struct{}

func (panickingResolver) ResolveTeam(context.Context, string) (team.Team, error) {
	panic("resolver exploded")
}

func (panickingResolver) ResolveGame(context.Context, int64, int64, time.Time) (game.Game, error) {
	return game.Game{}, nil
}

func TestOddsIngestionService_PanicInOneGameIsIsolated(t *testing.T) {
	t.Parallel()

	provider := &fakeOddsProvider{snapshot: ExternalOddsSnapshot{Events: []ExternalOddsEvent{yankeesRedSox()}}}
	svc := NewOddsIngestionService(provider, panickingResolver{}, memory.NewLineRepository(), OddsIngestionConfig{}, nil)

	result, err := svc.RunCycle(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Errors, 1)
	require.Equal(t, StagePanic, result.Errors[0].Stage)
	require.Equal(t, 1, result.GamesSkipped)
}

func TestOddsIngestionService_ManualTriggerIsRecorded(t *testing.T) {
	t.Parallel()

	f := newIngestionFixture()
	ctx := WithIngestTrigger(context.Background(), ingestrun.TriggerManual)

	_, err := f.service.RunCycle(ctx)
	require.NoError(t, err)

	runs, err := f.service.LatestRuns(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, ingestrun.TriggerManual, runs[0].Trigger)
	require.Equal(t, ingestrun.StatusCompleted, runs[0].Status)
}
