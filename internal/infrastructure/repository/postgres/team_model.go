package postgres

import "time"

type teamTableModel struct {
	ID           int64     `db:"id"`
	ExternalID   int64     `db:"external_id"`
	Name         string    `db:"name"`
	Abbreviation string    `db:"abbreviation"`
	City         string    `db:"city"`
	Division     string    `db:"division"`
	League       string    `db:"league"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type teamInsertModel struct {
	ExternalID   int64  `db:"external_id"`
	Name         string `db:"name"`
	Abbreviation string `db:"abbreviation"`
	City         string `db:"city"`
	Division     string `db:"division"`
	League       string `db:"league"`
}
