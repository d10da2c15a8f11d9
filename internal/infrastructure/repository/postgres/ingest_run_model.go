package postgres

import "time"

type ingestRunTableModel struct {
	ID               int64     `db:"id"`
	CycleID          string    `db:"cycle_id"`
	Trigger          string    `db:"trigger"`
	Status           string    `db:"status"`
	GamesSeen        int       `db:"games_seen"`
	GamesProcessed   int       `db:"games_processed"`
	GamesSkipped     int       `db:"games_skipped"`
	SnapshotsWritten int       `db:"snapshots_written"`
	PropsWritten     int       `db:"props_written"`
	ErrorCount       int       `db:"error_count"`
	ErrorMessage     string    `db:"error_message"`
	TraceID          string    `db:"trace_id"`
	SpanID           string    `db:"span_id"`
	StartedAt        time.Time `db:"started_at"`
	FinishedAt       time.Time `db:"finished_at"`
}

type ingestRunInsertModel struct {
	CycleID          string    `db:"cycle_id"`
	Trigger          string    `db:"trigger"`
	Status           string    `db:"status"`
	GamesSeen        int       `db:"games_seen"`
	GamesProcessed   int       `db:"games_processed"`
	GamesSkipped     int       `db:"games_skipped"`
	SnapshotsWritten int       `db:"snapshots_written"`
	PropsWritten     int       `db:"props_written"`
	ErrorCount       int       `db:"error_count"`
	ErrorMessage     string    `db:"error_message"`
	TraceID          string    `db:"trace_id"`
	SpanID           string    `db:"span_id"`
	StartedAt        time.Time `db:"started_at"`
	FinishedAt       time.Time `db:"finished_at"`
}
