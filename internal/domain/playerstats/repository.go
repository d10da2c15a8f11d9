package playerstats

import "context"

type Repository interface {
	// SumByTeamAndGames aggregates stat lines of players currently on the team.
	SumByTeamAndGames(ctx context.Context, teamID int64, gameIDs []int64) (TeamTotals, error)
	UpsertGameStats(ctx context.Context, items []GameStat) error
}
