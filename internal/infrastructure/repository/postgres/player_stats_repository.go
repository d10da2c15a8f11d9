package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/diamond-odds/internal/domain/playerstats"
	qb "github.com/riskibarqy/diamond-odds/internal/platform/querybuilder"
)

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

func (r *PlayerStatsRepository) SumByTeamAndGames(ctx context.Context, teamID int64, gameIDs []int64) (playerstats.TeamTotals, error) {
	if len(gameIDs) == 0 {
		return playerstats.TeamTotals{}, nil
	}

	query, args, err := qb.Select(
		"COALESCE(SUM(s.at_bats), 0) AS at_bats",
		"COALESCE(SUM(s.hits), 0) AS hits",
		"COALESCE(SUM(s.earned_runs), 0) AS earned_runs",
		"COALESCE(SUM(s.innings_pitched), 0) AS innings_pitched",
	).From("player_game_stats s").
		Join("JOIN players p ON p.id = s.player_id").
		Where(
			qb.Eq("p.team_id", teamID),
			qb.In("s.game_id", int64sToAny(gameIDs)),
		).
		ToSQL()
	if err != nil {
		return playerstats.TeamTotals{}, fmt.Errorf("build sum team stats query: %w", err)
	}

	var row teamTotalsRow
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return playerstats.TeamTotals{}, fmt.Errorf("sum team stats team_id=%d: %w", teamID, err)
	}

	return playerstats.TeamTotals{
		AtBats:         row.AtBats,
		Hits:           row.Hits,
		EarnedRuns:     row.EarnedRuns,
		InningsPitched: row.InningsPitched,
	}, nil
}

func (r *PlayerStatsRepository) UpsertGameStats(ctx context.Context, items []playerstats.GameStat) error {
	if len(items) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx upsert player game stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, item := range items {
		query, args, err := qb.InsertModel("player_game_stats", playerGameStatInsertModel{
			PlayerID:           item.PlayerID,
			GameID:             item.GameID,
			AtBats:             item.AtBats,
			Hits:               item.Hits,
			Runs:               item.Runs,
			RBI:                item.RBI,
			HomeRuns:           item.HomeRuns,
			Strikeouts:         item.Strikeouts,
			Walks:              item.Walks,
			StolenBases:        item.StolenBases,
			PitchCount:         item.PitchCount,
			InningsPitched:     item.InningsPitched,
			EarnedRuns:         item.EarnedRuns,
			BattersFaced:       item.BattersFaced,
			HitsAllowed:        item.HitsAllowed,
			PitchingStrikeouts: item.PitchingStrikeouts,
		}, `ON CONFLICT (player_id, game_id)
DO UPDATE SET
    at_bats = EXCLUDED.at_bats,
    hits = EXCLUDED.hits,
    runs = EXCLUDED.runs,
    rbi = EXCLUDED.rbi,
    home_runs = EXCLUDED.home_runs,
    strikeouts = EXCLUDED.strikeouts,
    walks = EXCLUDED.walks,
    stolen_bases = EXCLUDED.stolen_bases,
    pitch_count = EXCLUDED.pitch_count,
    innings_pitched = EXCLUDED.innings_pitched,
    earned_runs = EXCLUDED.earned_runs,
    batters_faced = EXCLUDED.batters_faced,
    hits_allowed = EXCLUDED.hits_allowed,
    pitching_strikeouts = EXCLUDED.pitching_strikeouts,
    updated_at = NOW()`)
		if err != nil {
			return fmt.Errorf("build upsert player game stat query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("upsert player game stat player_id=%d game_id=%d: %w", item.PlayerID, item.GameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert player game stats tx: %w", err)
	}
	return nil
}
