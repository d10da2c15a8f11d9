package postgres

import (
	"database/sql"
	"time"
)

type gameTableModel struct {
	ID         int64         `db:"id"`
	ExternalID sql.NullInt64 `db:"external_id"`
	HomeTeamID int64         `db:"home_team_id"`
	AwayTeamID int64         `db:"away_team_id"`
	StartTime  time.Time     `db:"start_time"`
	Status     string        `db:"status"`
	HomeScore  sql.NullInt64 `db:"home_score"`
	AwayScore  sql.NullInt64 `db:"away_score"`
	Season     int           `db:"season"`
	Venue      string        `db:"venue"`
	CreatedAt  time.Time     `db:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at"`
}

type gameInsertModel struct {
	HomeTeamID int64     `db:"home_team_id"`
	AwayTeamID int64     `db:"away_team_id"`
	StartTime  time.Time `db:"start_time"`
	Status     string    `db:"status"`
	Season     int       `db:"season"`
}
