package ingestrun

import "time"

type Status string

const (
	StatusCompleted Status = "completed"
	// StatusPartial means the cycle finished but some games or bookmakers failed.
	StatusPartial Status = "partial"
	StatusFailed  Status = "failed"
)

type Trigger string

const (
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
	TriggerStartup  Trigger = "startup"
)

// Run is the audit row written for every ingestion cycle.
type Run struct {
	CycleID          string
	Trigger          Trigger
	Status           Status
	GamesSeen        int
	GamesProcessed   int
	GamesSkipped     int
	SnapshotsWritten int
	PropsWritten     int
	ErrorCount       int
	ErrorMessage     string
	StartedAt        time.Time
	FinishedAt       time.Time
	TraceID          string
	SpanID           string
}
