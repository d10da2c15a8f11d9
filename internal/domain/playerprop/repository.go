package playerprop

import "context"

type Repository interface {
	AppendMany(ctx context.Context, items []Prop) (int, error)
	ListByGame(ctx context.Context, gameID int64) ([]Prop, error)
}
