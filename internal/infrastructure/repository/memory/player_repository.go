package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/diamond-odds/internal/domain/player"
)

type PlayerRepository struct {
	mu      sync.RWMutex
	players map[int64]player.Player
	byExt   map[int64]int64
	nextID  int64
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	r := &PlayerRepository{
		players: make(map[int64]player.Player, len(players)),
		byExt:   make(map[int64]int64, len(players)),
	}
	for _, p := range players {
		r.put(p)
	}
	return r
}

func (r *PlayerRepository) ListByTeam(_ context.Context, teamID int64) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0)
	for _, p := range r.players {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *PlayerRepository) GetByName(_ context.Context, name string) (player.Player, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.players {
		if p.Active && p.Name == name {
			return p, true, nil
		}
	}
	return player.Player{}, false, nil
}

func (r *PlayerRepository) UpsertPlayers(_ context.Context, items []player.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range items {
		if p.ExternalID <= 0 || p.Name == "" {
			continue
		}
		r.put(p)
	}
	return nil
}

// teamOf reports the player's current team.
func (r *PlayerRepository) teamOf(playerID int64) (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.players[playerID]
	return p.TeamID, ok
}

func (r *PlayerRepository) put(p player.Player) {
	if existingID, ok := r.byExt[p.ExternalID]; ok && p.ExternalID > 0 {
		p.ID = existingID
	}
	if p.ID <= 0 {
		r.nextID++
		p.ID = r.nextID
	} else if p.ID > r.nextID {
		r.nextID = p.ID
	}
	r.players[p.ID] = p
	if p.ExternalID > 0 {
		r.byExt[p.ExternalID] = p.ID
	}
}
