package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/diamond-odds/internal/domain/game"
	qb "github.com/riskibarqy/diamond-odds/internal/platform/querybuilder"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

func (r *GameRepository) GetByID(ctx context.Context, id int64) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").Where(qb.Eq("id", id)).Limit(1).ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game by id query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by id: %w", err)
	}
	return gameFromRow(row), true, nil
}

// FindOrCreate selects by the unique matchup key and inserts when absent. A
// concurrent insert of the same key surfaces as a unique violation, after which
// the winner's row is read back.
func (r *GameRepository) FindOrCreate(ctx context.Context, key game.Key) (game.Game, bool, error) {
	key = key.Normalize()
	if err := key.Validate(); err != nil {
		return game.Game{}, false, fmt.Errorf("invalid game key: %w", err)
	}

	item, found, err := r.getByKey(ctx, key)
	if err != nil {
		return game.Game{}, false, err
	}
	if found {
		return item, false, nil
	}

	scheduled := game.NewScheduled(key)
	query, args, err := qb.InsertModel("games", gameInsertModel{
		HomeTeamID: scheduled.HomeTeamID,
		AwayTeamID: scheduled.AwayTeamID,
		StartTime:  scheduled.StartTime,
		Status:     string(scheduled.Status),
		Season:     scheduled.Season,
	}, "RETURNING *")
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build insert game query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if !isUniqueViolation(err) {
			return game.Game{}, false, fmt.Errorf("insert game %s: %w", key, err)
		}

		item, found, err := r.getByKey(ctx, key)
		if err != nil {
			return game.Game{}, false, err
		}
		if !found {
			return game.Game{}, false, fmt.Errorf("game %s missing after unique violation", key)
		}
		return item, false, nil
	}

	return gameFromRow(row), true, nil
}

func (r *GameRepository) getByKey(ctx context.Context, key game.Key) (game.Game, bool, error) {
	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("home_team_id", key.HomeTeamID),
			qb.Eq("away_team_id", key.AwayTeamID),
			qb.Eq("start_time", key.StartTime),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return game.Game{}, false, fmt.Errorf("build get game by key query: %w", err)
	}

	var row gameTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return game.Game{}, false, nil
		}
		return game.Game{}, false, fmt.Errorf("get game by key %s: %w", key, err)
	}
	return gameFromRow(row), true, nil
}

func (r *GameRepository) ListFinalByTeam(ctx context.Context, teamID int64, before time.Time, limit int) ([]game.Game, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := qb.Select("*").From("games").
		Where(
			qb.Eq("status", string(game.StatusFinal)),
			qb.Lt("start_time", before),
			qb.Or(qb.Eq("home_team_id", teamID), qb.Eq("away_team_id", teamID)),
		).
		OrderBy("start_time DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select final games by team query: %w", err)
	}

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select final games by team: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameFromRow(row))
	}
	return out, nil
}

func gameFromRow(row gameTableModel) game.Game {
	return game.Game{
		ID:         row.ID,
		ExternalID: row.ExternalID.Int64,
		HomeTeamID: row.HomeTeamID,
		AwayTeamID: row.AwayTeamID,
		StartTime:  row.StartTime.UTC(),
		Status:     game.Status(row.Status),
		HomeScore:  intPtr(row.HomeScore),
		AwayScore:  intPtr(row.AwayScore),
		Season:     row.Season,
		Venue:      row.Venue,
	}
}
