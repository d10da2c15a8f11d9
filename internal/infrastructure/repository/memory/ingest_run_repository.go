package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/diamond-odds/internal/domain/ingestrun"
)

type IngestRunRepository struct {
	mu   sync.RWMutex
	runs []ingestrun.Run
}

func NewIngestRunRepository() *IngestRunRepository {
	return &IngestRunRepository{}
}

func (r *IngestRunRepository) Record(_ context.Context, run ingestrun.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs = append(r.runs, run)
	return nil
}

func (r *IngestRunRepository) ListRecent(_ context.Context, limit int) ([]ingestrun.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ingestrun.Run, 0, len(r.runs))
	for i := len(r.runs) - 1; i >= 0; i-- {
		out = append(out, r.runs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
