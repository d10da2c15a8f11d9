package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/diamond-odds/internal/domain/playerprop"
	qb "github.com/riskibarqy/diamond-odds/internal/platform/querybuilder"
)

type PlayerPropRepository struct {
	db *sqlx.DB
}

func NewPlayerPropRepository(db *sqlx.DB) *PlayerPropRepository {
	return &PlayerPropRepository{db: db}
}

// AppendMany inserts all props in one transaction; a single invalid row rejects the batch.
func (r *PlayerPropRepository) AppendMany(ctx context.Context, items []playerprop.Prop) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx append player props: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC()
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return 0, fmt.Errorf("invalid player prop: %w", err)
		}
		capturedAt := item.CapturedAt
		if capturedAt.IsZero() {
			capturedAt = now
		}

		query, args, err := qb.InsertModel("player_props", playerPropInsertModel{
			PlayerID:   item.PlayerID,
			GameID:     item.GameID,
			Sportsbook: item.Sportsbook,
			PropType:   item.PropType,
			Line:       item.Line,
			OverOdds:   nullableInt(item.OverOdds),
			UnderOdds:  nullableInt(item.UnderOdds),
			CycleID:    item.CycleID,
			CapturedAt: capturedAt,
		}, "")
		if err != nil {
			return 0, fmt.Errorf("build insert player prop query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return 0, fmt.Errorf("insert player prop player_id=%d type=%s: %w", item.PlayerID, item.PropType, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append player props tx: %w", err)
	}
	return len(items), nil
}

func (r *PlayerPropRepository) ListByGame(ctx context.Context, gameID int64) ([]playerprop.Prop, error) {
	query, args, err := qb.Select("*").From("player_props").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("captured_at DESC", "player_id", "prop_type", "line").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select player props by game query: %w", err)
	}

	var rows []playerPropTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select player props by game: %w", err)
	}

	out := make([]playerprop.Prop, 0, len(rows))
	for _, row := range rows {
		out = append(out, playerprop.Prop{
			ID:         row.ID,
			PlayerID:   row.PlayerID,
			GameID:     row.GameID,
			Sportsbook: row.Sportsbook,
			PropType:   row.PropType,
			Line:       row.Line,
			OverOdds:   intPtr(row.OverOdds),
			UnderOdds:  intPtr(row.UnderOdds),
			Result:     floatPtr(row.Result),
			HitOver:    boolPtr(row.HitOver),
			CycleID:    row.CycleID,
			CapturedAt: row.CapturedAt.UTC(),
		})
	}
	return out, nil
}
