package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/diamond-odds/internal/domain/line"
	qb "github.com/riskibarqy/diamond-odds/internal/platform/querybuilder"
)

type LineRepository struct {
	db *sqlx.DB
}

func NewLineRepository(db *sqlx.DB) *LineRepository {
	return &LineRepository{db: db}
}

func (r *LineRepository) Append(ctx context.Context, item line.Snapshot) (line.Snapshot, error) {
	if err := item.Validate(); err != nil {
		return line.Snapshot{}, fmt.Errorf("invalid line snapshot: %w", err)
	}
	if item.CapturedAt.IsZero() {
		item.CapturedAt = time.Now().UTC()
	}

	query, args, err := qb.InsertModel("line_snapshots", lineSnapshotInsertModel{
		GameID:         item.GameID,
		Sportsbook:     item.Sportsbook,
		CycleID:        item.CycleID,
		HomeMoneyline:  nullableInt(item.HomeMoneyline),
		AwayMoneyline:  nullableInt(item.AwayMoneyline),
		HomeSpread:     nullableFloat(item.HomeSpread),
		HomeSpreadOdds: nullableInt(item.HomeSpreadOdds),
		AwaySpread:     nullableFloat(item.AwaySpread),
		AwaySpreadOdds: nullableInt(item.AwaySpreadOdds),
		OverUnder:      nullableFloat(item.OverUnder),
		OverOdds:       nullableInt(item.OverOdds),
		UnderOdds:      nullableInt(item.UnderOdds),
		CapturedAt:     item.CapturedAt,
	}, "RETURNING id")
	if err != nil {
		return line.Snapshot{}, fmt.Errorf("build insert line snapshot query: %w", err)
	}

	if err := r.db.GetContext(ctx, &item.ID, query, args...); err != nil {
		return line.Snapshot{}, fmt.Errorf("insert line snapshot game_id=%d sportsbook=%s: %w", item.GameID, item.Sportsbook, err)
	}
	return item, nil
}

func (r *LineRepository) ListByGame(ctx context.Context, gameID int64, limit int) ([]line.Snapshot, error) {
	builder := qb.Select("*").From("line_snapshots").
		Where(qb.Eq("game_id", gameID)).
		OrderBy("captured_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select line snapshots by game query: %w", err)
	}

	var rows []lineSnapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select line snapshots by game: %w", err)
	}

	out := make([]line.Snapshot, 0, len(rows))
	for _, row := range rows {
		out = append(out, line.Snapshot{
			ID:         row.ID,
			GameID:     row.GameID,
			Sportsbook: row.Sportsbook,
			CycleID:    row.CycleID,
			Fields: line.Fields{
				HomeMoneyline:  intPtr(row.HomeMoneyline),
				AwayMoneyline:  intPtr(row.AwayMoneyline),
				HomeSpread:     floatPtr(row.HomeSpread),
				HomeSpreadOdds: intPtr(row.HomeSpreadOdds),
				AwaySpread:     floatPtr(row.AwaySpread),
				AwaySpreadOdds: intPtr(row.AwaySpreadOdds),
				OverUnder:      floatPtr(row.OverUnder),
				OverOdds:       intPtr(row.OverOdds),
				UnderOdds:      intPtr(row.UnderOdds),
			},
			CapturedAt: row.CapturedAt.UTC(),
		})
	}
	return out, nil
}
