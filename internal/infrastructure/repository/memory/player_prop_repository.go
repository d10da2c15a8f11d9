package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/diamond-odds/internal/domain/playerprop"
)

type PlayerPropRepository struct {
	mu     sync.RWMutex
	items  []playerprop.Prop
	nextID int64
}

func NewPlayerPropRepository() *PlayerPropRepository {
	return &PlayerPropRepository{}
}

func (r *PlayerPropRepository) AppendMany(_ context.Context, items []playerprop.Prop) (int, error) {
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return 0, fmt.Errorf("append player prop: %w", err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		r.nextID++
		item.ID = r.nextID
		r.items = append(r.items, item)
	}
	return len(items), nil
}

func (r *PlayerPropRepository) ListByGame(_ context.Context, gameID int64) ([]playerprop.Prop, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerprop.Prop, 0)
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].GameID == gameID {
			out = append(out, r.items[i])
		}
	}
	return out, nil
}
