package postgres

import (
	"database/sql"
	"time"
)

type playerPropTableModel struct {
	ID         int64           `db:"id"`
	PlayerID   int64           `db:"player_id"`
	GameID     int64           `db:"game_id"`
	Sportsbook string          `db:"sportsbook"`
	PropType   string          `db:"prop_type"`
	Line       float64         `db:"line"`
	OverOdds   sql.NullInt64   `db:"over_odds"`
	UnderOdds  sql.NullInt64   `db:"under_odds"`
	Result     sql.NullFloat64 `db:"result"`
	HitOver    sql.NullBool    `db:"hit_over"`
	CycleID    string          `db:"cycle_id"`
	CapturedAt time.Time       `db:"captured_at"`
}

type playerPropInsertModel struct {
	PlayerID   int64         `db:"player_id"`
	GameID     int64         `db:"game_id"`
	Sportsbook string        `db:"sportsbook"`
	PropType   string        `db:"prop_type"`
	Line       float64       `db:"line"`
	OverOdds   sql.NullInt64 `db:"over_odds"`
	UnderOdds  sql.NullInt64 `db:"under_odds"`
	CycleID    string        `db:"cycle_id"`
	CapturedAt time.Time     `db:"captured_at"`
}
