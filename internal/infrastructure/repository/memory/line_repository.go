package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/diamond-odds/internal/domain/line"
)

type LineRepository struct {
	mu     sync.RWMutex
	items  []line.Snapshot
	nextID int64
}

func NewLineRepository() *LineRepository {
	return &LineRepository{}
}

func (r *LineRepository) Append(_ context.Context, item line.Snapshot) (line.Snapshot, error) {
	if err := item.Validate(); err != nil {
		return line.Snapshot{}, fmt.Errorf("append line snapshot: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	item.ID = r.nextID
	r.items = append(r.items, item)
	return item, nil
}

func (r *LineRepository) ListByGame(_ context.Context, gameID int64, limit int) ([]line.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]line.Snapshot, 0)
	for _, item := range r.items {
		if item.GameID == gameID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CapturedAt.Equal(out[j].CapturedAt) {
			return out[i].CapturedAt.After(out[j].CapturedAt)
		}
		return out[i].ID > out[j].ID
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// All returns every stored snapshot in insertion order.
func (r *LineRepository) All() []line.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]line.Snapshot(nil), r.items...)
}
