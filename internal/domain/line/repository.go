package line

import "context"

// Repository stores line snapshots. Rows are never updated in place.
type Repository interface {
	Append(ctx context.Context, item Snapshot) (Snapshot, error)
	// ListByGame returns the newest snapshots first.
	ListByGame(ctx context.Context, gameID int64, limit int) ([]Snapshot, error)
}
