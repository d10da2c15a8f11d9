package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	// GetByName matches the stored name exactly (case-sensitive).
	GetByName(ctx context.Context, name string) (Team, bool, error)
	UpsertTeams(ctx context.Context, items []Team) ([]Team, error)
}
