package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/riskibarqy/diamond-odds/internal/domain/game"
	"github.com/riskibarqy/diamond-odds/internal/domain/playerstats"
	gamemock "github.com/riskibarqy/diamond-odds/internal/mocks/domain/game"
	playerstatsmock "github.com/riskibarqy/diamond-odds/internal/mocks/domain/playerstats"
	"github.com/stretchr/testify/mock"
)

func finalGames(teamID int64, n int, asOf time.Time) []game.Game {
	out := make([]game.Game, 0, n)
	for i := 0; i < n; i++ {
		home, away := 4, 2
		g := game.Game{
			ID:        int64(i + 1),
			StartTime: asOf.Add(-time.Duration(i+1) * 24 * time.Hour),
			Status:    game.StatusFinal,
			HomeScore: &home,
			AwayScore: &away,
		}
		if i%2 == 0 {
			g.HomeTeamID, g.AwayTeamID = teamID, 99
		} else {
			g.HomeTeamID, g.AwayTeamID = 99, teamID
		}
		out = append(out, g)
	}
	return out
}

func TestFeatureService_ComputeTeamFeatures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	games := gamemock.NewRepository(t)
	stats := playerstatsmock.NewRepository(t)

	recent := finalGames(7, 10, asOf)
	games.
		On("ListFinalByTeam", mock.Anything, int64(7), asOf, 20).
		Return(recent, nil).
		Once()
	stats.
		On("SumByTeamAndGames", mock.Anything, int64(7), mock.MatchedBy(func(ids []int64) bool { return len(ids) == 10 })).
		Return(playerstats.TeamTotals{AtBats: 340, Hits: 85, EarnedRuns: 36, InningsPitched: 81}, nil).
		Once()

	svc := NewFeatureService(games, stats, FeatureConfig{})
	got, err := svc.ComputeTeamFeatures(ctx, 7, asOf)
	if err != nil {
		t.Fatalf("compute features: %v", err)
	}
	if got.GamesUsed != 10 {
		t.Fatalf("games used: got %d", got.GamesUsed)
	}
	if math.Abs(got.BattingAvg-0.25) > 1e-9 {
		t.Fatalf("batting avg: got %v", got.BattingAvg)
	}
	if math.Abs(got.ERA-4.0) > 1e-9 {
		t.Fatalf("era: got %v", got.ERA)
	}
	// five home games at 4 runs, five away games at 2 runs
	if math.Abs(got.RunsPerGame-3.0) > 1e-9 {
		t.Fatalf("runs per game: got %v", got.RunsPerGame)
	}
}

func TestFeatureService_InsufficientDataBelowMinimum(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	games := gamemock.NewRepository(t)
	stats := playerstatsmock.NewRepository(t)
	games.
		On("ListFinalByTeam", mock.Anything, int64(7), asOf, 20).
		Return(finalGames(7, 9, asOf), nil).
		Once()

	svc := NewFeatureService(games, stats, FeatureConfig{})
	_, err := svc.ComputeTeamFeatures(context.Background(), 7, asOf)
	if !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestFeatureService_ZeroDenominators(t *testing.T) {
	t.Parallel()

	asOf := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	games := gamemock.NewRepository(t)
	stats := playerstatsmock.NewRepository(t)

	recent := finalGames(7, 12, asOf)
	for i := range recent {
		recent[i].HomeScore = nil
		recent[i].AwayScore = nil
	}
	games.On("ListFinalByTeam", mock.Anything, int64(7), asOf, 20).Return(recent, nil).Once()
	stats.On("SumByTeamAndGames", mock.Anything, int64(7), mock.Anything).Return(playerstats.TeamTotals{}, nil).Once()

	got, err := NewFeatureService(games, stats, FeatureConfig{}).ComputeTeamFeatures(context.Background(), 7, asOf)
	if err != nil {
		t.Fatalf("compute features: %v", err)
	}
	if got.BattingAvg != 0 || got.ERA != 0 || got.RunsPerGame != 0 {
		t.Fatalf("expected zero features, got %+v", got)
	}
}
