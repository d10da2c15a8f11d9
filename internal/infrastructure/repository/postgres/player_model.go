package postgres

import "time"

type playerTableModel struct {
	ID         int64     `db:"id"`
	ExternalID int64     `db:"external_id"`
	TeamID     int64     `db:"team_id"`
	Name       string    `db:"name"`
	Position   string    `db:"position"`
	BatSide    string    `db:"bat_side"`
	ThrowSide  string    `db:"throw_side"`
	Active     bool      `db:"active"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type playerInsertModel struct {
	ExternalID int64  `db:"external_id"`
	TeamID     int64  `db:"team_id"`
	Name       string `db:"name"`
	Position   string `db:"position"`
	BatSide    string `db:"bat_side"`
	ThrowSide  string `db:"throw_side"`
	Active     bool   `db:"active"`
}
