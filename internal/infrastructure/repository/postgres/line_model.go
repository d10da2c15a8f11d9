package postgres

import (
	"database/sql"
	"time"
)

type lineSnapshotTableModel struct {
	ID             int64           `db:"id"`
	GameID         int64           `db:"game_id"`
	Sportsbook     string          `db:"sportsbook"`
	CycleID        string          `db:"cycle_id"`
	HomeMoneyline  sql.NullInt64   `db:"home_moneyline"`
	AwayMoneyline  sql.NullInt64   `db:"away_moneyline"`
	HomeSpread     sql.NullFloat64 `db:"home_spread"`
	HomeSpreadOdds sql.NullInt64   `db:"home_spread_odds"`
	AwaySpread     sql.NullFloat64 `db:"away_spread"`
	AwaySpreadOdds sql.NullInt64   `db:"away_spread_odds"`
	OverUnder      sql.NullFloat64 `db:"over_under"`
	OverOdds       sql.NullInt64   `db:"over_odds"`
	UnderOdds      sql.NullInt64   `db:"under_odds"`
	CapturedAt     time.Time       `db:"captured_at"`
}

type lineSnapshotInsertModel struct {
	GameID         int64           `db:"game_id"`
	Sportsbook     string          `db:"sportsbook"`
	CycleID        string          `db:"cycle_id"`
	HomeMoneyline  sql.NullInt64   `db:"home_moneyline"`
	AwayMoneyline  sql.NullInt64   `db:"away_moneyline"`
	HomeSpread     sql.NullFloat64 `db:"home_spread"`
	HomeSpreadOdds sql.NullInt64   `db:"home_spread_odds"`
	AwaySpread     sql.NullFloat64 `db:"away_spread"`
	AwaySpreadOdds sql.NullInt64   `db:"away_spread_odds"`
	OverUnder      sql.NullFloat64 `db:"over_under"`
	OverOdds       sql.NullInt64   `db:"over_odds"`
	UnderOdds      sql.NullInt64   `db:"under_odds"`
	CapturedAt     time.Time       `db:"captured_at"`
}
