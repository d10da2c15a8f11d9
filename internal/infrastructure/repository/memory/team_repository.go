package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/riskibarqy/diamond-odds/internal/domain/team"
)

type TeamRepository struct {
	mu     sync.RWMutex
	teams  map[int64]team.Team
	byExt  map[int64]int64
	nextID int64
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	r := &TeamRepository{
		teams: make(map[int64]team.Team, len(teams)),
		byExt: make(map[int64]int64, len(teams)),
	}
	for _, item := range teams {
		r.put(item)
	}
	return r
}

func (r *TeamRepository) List(_ context.Context) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]team.Team, 0, len(r.teams))
	for _, item := range r.teams {
		out = append(out, item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *TeamRepository) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[id]
	return item, ok, nil
}

func (r *TeamRepository) GetByName(_ context.Context, name string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, item := range r.teams {
		if item.Name == name {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *TeamRepository) UpsertTeams(_ context.Context, items []team.Team) ([]team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]team.Team, 0, len(items))
	for _, item := range items {
		item.Name = strings.TrimSpace(item.Name)
		if item.ExternalID <= 0 || item.Name == "" {
			continue
		}
		out = append(out, r.put(item))
	}
	return out, nil
}

// put must be called with the write lock held (or during construction).
func (r *TeamRepository) put(item team.Team) team.Team {
	if existingID, ok := r.byExt[item.ExternalID]; ok && item.ExternalID > 0 {
		item.ID = existingID
	}
	if item.ID <= 0 {
		r.nextID++
		item.ID = r.nextID
	} else if item.ID > r.nextID {
		r.nextID = item.ID
	}
	r.teams[item.ID] = item
	if item.ExternalID > 0 {
		r.byExt[item.ExternalID] = item.ID
	}
	return item
}
