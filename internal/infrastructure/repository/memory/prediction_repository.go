package memory

import (
	"context"
	"sync"
	"time"

	"github.com/riskibarqy/diamond-odds/internal/domain/prediction"
)

type PredictionRepository struct {
	mu     sync.RWMutex
	byGame map[int64]prediction.Prediction
	nextID int64
	now    func() time.Time
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{byGame: make(map[int64]prediction.Prediction), now: time.Now}
}

func (r *PredictionRepository) GetByGameID(_ context.Context, gameID int64) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byGame[gameID]
	return item, ok, nil
}

func (r *PredictionRepository) Upsert(_ context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	if existing, ok := r.byGame[item.GameID]; ok {
		item.ID = existing.ID
		item.CreatedAt = existing.CreatedAt
	} else {
		r.nextID++
		item.ID = r.nextID
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	r.byGame[item.GameID] = item
	return item, nil
}
