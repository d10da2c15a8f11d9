package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/riskibarqy/diamond-odds/internal/domain/game"
	"github.com/riskibarqy/diamond-odds/internal/domain/player"
	"github.com/riskibarqy/diamond-odds/internal/domain/playerstats"
	"github.com/riskibarqy/diamond-odds/internal/domain/team"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameRepository_FindOrCreateIsIdempotentUnderConcurrency(t *testing.T) {
	repo := NewGameRepository(nil)
	key := game.Key{HomeTeamID: 1, AwayTeamID: 2, StartTime: time.Date(2026, 5, 1, 23, 5, 0, 0, time.UTC)}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ids     = map[int64]struct{}{}
		created int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g, isNew, err := repo.FindOrCreate(context.Background(), key)
			assert.NoError(t, err)
			mu.Lock()
			ids[g.ID] = struct{}{}
			if isNew {
				created++
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	require.Len(t, ids, 1)
	require.Equal(t, 1, created)
}

func TestGameRepository_ListFinalByTeam(t *testing.T) {
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	repo := NewGameRepository([]game.Game{
		{HomeTeamID: 1, AwayTeamID: 2, StartTime: base.Add(-48 * time.Hour), Status: game.StatusFinal},
		{HomeTeamID: 3, AwayTeamID: 1, StartTime: base.Add(-24 * time.Hour), Status: game.StatusFinal},
		{HomeTeamID: 1, AwayTeamID: 4, StartTime: base.Add(-12 * time.Hour), Status: game.StatusScheduled},
		{HomeTeamID: 1, AwayTeamID: 5, StartTime: base.Add(time.Hour), Status: game.StatusFinal},
		{HomeTeamID: 6, AwayTeamID: 7, StartTime: base.Add(-time.Hour), Status: game.StatusFinal},
	})

	got, err := repo.ListFinalByTeam(context.Background(), 1, base, 20)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, int64(3), got[0].HomeTeamID)

	limited, err := repo.ListFinalByTeam(context.Background(), 1, base, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestTeamRepository_UpsertKeepsIDByExternalID(t *testing.T) {
	repo := NewTeamRepository(SeedTeams())
	ctx := context.Background()

	yankees, ok, err := repo.GetByName(ctx, "New York Yankees")
	require.NoError(t, err)
	require.True(t, ok)

	stored, err := repo.UpsertTeams(ctx, []team.Team{{ExternalID: 147, Name: "New York Yankees", Abbreviation: "NYY", City: "New York"}})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	require.Equal(t, yankees.ID, stored[0].ID)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 30)
}

func TestPlayerStatsRepository_SumsCurrentRosterOnly(t *testing.T) {
	players := NewPlayerRepository([]player.Player{
		{ID: 1, ExternalID: 100, Name: "A", TeamID: 10, Active: true},
		{ID: 2, ExternalID: 200, Name: "B", TeamID: 20, Active: true},
	})
	repo := NewPlayerStatsRepository(players, []playerstats.GameStat{
		{PlayerID: 1, GameID: 5, AtBats: 4, Hits: 2},
		{PlayerID: 1, GameID: 6, AtBats: 3, Hits: 1},
		{PlayerID: 2, GameID: 5, AtBats: 4, Hits: 4},
	})

	totals, err := repo.SumByTeamAndGames(context.Background(), 10, []int64{5})
	require.NoError(t, err)
	require.Equal(t, 4, totals.AtBats)
	require.Equal(t, 2, totals.Hits)
}
