package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/diamond-odds/internal/domain/game"
)

type GameRepository struct {
	mu     sync.RWMutex
	games  map[int64]game.Game
	byKey  map[game.Key]int64
	nextID int64
}

func NewGameRepository(games []game.Game) *GameRepository {
	r := &GameRepository{
		games: make(map[int64]game.Game, len(games)),
		byKey: make(map[game.Key]int64, len(games)),
	}
	for _, g := range games {
		if g.ID <= 0 {
			r.nextID++
			g.ID = r.nextID
		} else if g.ID > r.nextID {
			r.nextID = g.ID
		}
		g.StartTime = g.StartTime.UTC()
		r.games[g.ID] = g
		r.byKey[g.Key()] = g.ID
	}
	return r
}

func (r *GameRepository) GetByID(_ context.Context, id int64) (game.Game, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.games[id]
	return g, ok, nil
}

// FindOrCreate holds the write lock across lookup and insert, so concurrent
// callers with one key always observe a single game.
func (r *GameRepository) FindOrCreate(_ context.Context, key game.Key) (game.Game, bool, error) {
	key = key.Normalize()

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byKey[key]; ok {
		return r.games[id], false, nil
	}

	g := game.NewScheduled(key)
	r.nextID++
	g.ID = r.nextID
	r.games[g.ID] = g
	r.byKey[key] = g.ID
	return g, true, nil
}

func (r *GameRepository) ListFinalByTeam(_ context.Context, teamID int64, before time.Time, limit int) ([]game.Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]game.Game, 0)
	for _, g := range r.games {
		if g.Status != game.StatusFinal || !g.StartTime.Before(before) {
			continue
		}
		if _, ok := g.IsHome(teamID); !ok {
			continue
		}
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
