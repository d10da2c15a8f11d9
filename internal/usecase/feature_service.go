package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/diamond-odds/internal/domain/game"
	"github.com/riskibarqy/diamond-odds/internal/domain/playerstats"
	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultFeatureWindow   = 20
	defaultFeatureMinGames = 10
)

type FeatureConfig struct {
	// Window is how many recent final games feed the aggregates.
	Window int
	// MinGames below this count yields ErrInsufficientData.
	MinGames int
}

// TeamFeatures are rolling aggregates over a team's recent final games.
type TeamFeatures struct {
	TeamID      int64   `json:"team_id"`
	GamesUsed   int     `json:"games_used"`
	BattingAvg  float64 `json:"batting_avg"`
	ERA         float64 `json:"era"`
	RunsPerGame float64 `json:"runs_per_game"`
}

type gameHistoryReader interface {
	ListFinalByTeam(ctx context.Context, teamID int64, before time.Time, limit int) ([]game.Game, error)
}

// FeatureService reads games and player stats; it never writes.
type FeatureService struct {
	games gameHistoryReader
	stats playerstats.Repository
	cfg   FeatureConfig
}

func NewFeatureService(games gameHistoryReader, stats playerstats.Repository, cfg FeatureConfig) *FeatureService {
	if cfg.Window <= 0 {
		cfg.Window = defaultFeatureWindow
	}
	if cfg.MinGames <= 0 {
		cfg.MinGames = defaultFeatureMinGames
	}
	if cfg.MinGames > cfg.Window {
		cfg.MinGames = cfg.Window
	}
	return &FeatureService{games: games, stats: stats, cfg: cfg}
}

func (s *FeatureService) ComputeTeamFeatures(ctx context.Context, teamID int64, asOf time.Time) (TeamFeatures, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FeatureService.ComputeTeamFeatures", attribute.Int64(attrTeamID, teamID))
	defer span.End()

	if teamID <= 0 {
		return TeamFeatures{}, fmt.Errorf("%w: team id is required", ErrInvalidInput)
	}
	if asOf.IsZero() {
		asOf = time.Now()
	}

	recent, err := s.games.ListFinalByTeam(ctx, teamID, asOf.UTC(), s.cfg.Window)
	if err != nil {
		return TeamFeatures{}, fmt.Errorf("list recent games for team %d: %w", teamID, err)
	}
	if len(recent) < s.cfg.MinGames {
		return TeamFeatures{}, fmt.Errorf(
			"%w: team %d has %d final games before %s, need %d",
			ErrInsufficientData, teamID, len(recent), asOf.UTC().Format(time.RFC3339), s.cfg.MinGames,
		)
	}

	gameIDs := make([]int64, 0, len(recent))
	runs := 0
	for _, item := range recent {
		gameIDs = append(gameIDs, item.ID)
		runs += item.RunsFor(teamID)
	}

	totals, err := s.stats.SumByTeamAndGames(ctx, teamID, gameIDs)
	if err != nil {
		return TeamFeatures{}, fmt.Errorf("sum player stats for team %d: %w", teamID, err)
	}

	return TeamFeatures{
		TeamID:      teamID,
		GamesUsed:   len(recent),
		BattingAvg:  totals.BattingAverage(),
		ERA:         totals.ERA(),
		RunsPerGame: float64(runs) / float64(len(recent)),
	}, nil
}
