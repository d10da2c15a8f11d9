package prediction

import "context"

type Repository interface {
	GetByGameID(ctx context.Context, gameID int64) (Prediction, bool, error)
	// Upsert inserts or replaces the prediction keyed by game id.
	Upsert(ctx context.Context, item Prediction) (Prediction, error)
}
