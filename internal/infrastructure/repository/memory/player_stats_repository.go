package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/diamond-odds/internal/domain/playerstats"
)

type playerTeamLookup interface {
	teamOf(playerID int64) (int64, bool)
}

type PlayerStatsRepository struct {
	mu      sync.RWMutex
	players playerTeamLookup
	stats   map[[2]int64]playerstats.GameStat
}

// NewPlayerStatsRepository attributes stat lines to teams through the player
// repository, matching the "current roster" semantics of the SQL store.
func NewPlayerStatsRepository(players *PlayerRepository, stats []playerstats.GameStat) *PlayerStatsRepository {
	r := &PlayerStatsRepository{
		players: players,
		stats:   make(map[[2]int64]playerstats.GameStat, len(stats)),
	}
	for _, s := range stats {
		r.stats[[2]int64{s.PlayerID, s.GameID}] = s
	}
	return r
}

func (r *PlayerStatsRepository) SumByTeamAndGames(_ context.Context, teamID int64, gameIDs []int64) (playerstats.TeamTotals, error) {
	games := make(map[int64]struct{}, len(gameIDs))
	for _, id := range gameIDs {
		games[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var totals playerstats.TeamTotals
	for _, s := range r.stats {
		if _, ok := games[s.GameID]; !ok {
			continue
		}
		if current, ok := r.players.teamOf(s.PlayerID); !ok || current != teamID {
			continue
		}
		totals.Add(s)
	}
	return totals, nil
}

func (r *PlayerStatsRepository) UpsertGameStats(_ context.Context, items []playerstats.GameStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range items {
		if s.PlayerID <= 0 || s.GameID <= 0 {
			continue
		}
		r.stats[[2]int64{s.PlayerID, s.GameID}] = s
	}
	return nil
}
