package player

import "context"

type Repository interface {
	ListByTeam(ctx context.Context, teamID int64) ([]Player, error)
	// GetByName returns the active player with this exact name, if any.
	GetByName(ctx context.Context, name string) (Player, bool, error)
	UpsertPlayers(ctx context.Context, items []Player) error
}
