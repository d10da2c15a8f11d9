package rawdata

import "time"

// Payload is an upstream response archived verbatim for replay and debugging.
type Payload struct {
	Source      string
	EntityType  string
	EntityKey   string
	CycleID     string
	PayloadJSON string
	PayloadHash string
	FetchedAt   time.Time
}
