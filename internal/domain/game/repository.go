package game

import (
	"context"
	"time"
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (Game, bool, error)
	// FindOrCreate returns the game for key, inserting a scheduled game when none exists.
	// It is safe under concurrent callers: losers of an insert race get the winner's row.
	FindOrCreate(ctx context.Context, key Key) (Game, bool, error)
	// ListFinalByTeam lists final games the team played that started before the cutoff,
	// newest first.
	ListFinalByTeam(ctx context.Context, teamID int64, before time.Time, limit int) ([]Game, error)
}
