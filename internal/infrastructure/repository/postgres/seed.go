package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/diamond-odds/internal/infrastructure/repository/memory"
)

// BootstrapSeed inserts the reference MLB teams when the teams table is empty,
// so odds can be resolved before the stats seeder has run.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM teams`); err != nil {
		return fmt.Errorf("count teams for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, t := range memory.SeedTeams() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO teams (external_id, name, abbreviation, city, division, league)
VALUES (:external_id, :name, :abbreviation, :city, :division, :league)
ON CONFLICT (external_id) DO NOTHING`, map[string]any{
			"external_id":  t.ExternalID,
			"name":         t.Name,
			"abbreviation": t.Abbreviation,
			"city":         t.City,
			"division":     t.Division,
			"league":       t.League,
		})
		if err != nil {
			return fmt.Errorf("bind seed team %s query: %w", t.Abbreviation, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed team %s: %w", t.Abbreviation, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
