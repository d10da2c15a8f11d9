package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/diamond-odds/internal/domain/prediction"
	qb "github.com/riskibarqy/diamond-odds/internal/platform/querybuilder"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) GetByGameID(ctx context.Context, gameID int64) (prediction.Prediction, bool, error) {
	query, args, err := qb.Select("*").From("predictions").Where(qb.Eq("game_id", gameID)).Limit(1).ToSQL()
	if err != nil {
		return prediction.Prediction{}, false, fmt.Errorf("build get prediction by game query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return prediction.Prediction{}, false, nil
		}
		return prediction.Prediction{}, false, fmt.Errorf("get prediction by game: %w", err)
	}
	return predictionFromRow(row), true, nil
}

func (r *PredictionRepository) Upsert(ctx context.Context, item prediction.Prediction) (prediction.Prediction, error) {
	query, args, err := qb.InsertModel("predictions", predictionInsertModel{
		GameID:             item.GameID,
		PredictedHomeScore: item.PredictedHomeScore,
		PredictedAwayScore: item.PredictedAwayScore,
		PredictedTotal:     item.PredictedTotal,
		ConfidenceScore:    item.ConfidenceScore,
		Model:              item.Model,
	}, `ON CONFLICT (game_id)
DO UPDATE SET
    predicted_home_score = EXCLUDED.predicted_home_score,
    predicted_away_score = EXCLUDED.predicted_away_score,
    predicted_total = EXCLUDED.predicted_total,
    confidence_score = EXCLUDED.confidence_score,
    model = EXCLUDED.model,
    updated_at = NOW()
RETURNING *`)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("build upsert prediction query: %w", err)
	}

	var row predictionTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction game_id=%d: %w", item.GameID, err)
	}
	return predictionFromRow(row), nil
}

func predictionFromRow(row predictionTableModel) prediction.Prediction {
	return prediction.Prediction{
		ID:     row.ID,
		GameID: row.GameID,
		Score: prediction.Score{
			PredictedHomeScore: row.PredictedHomeScore,
			PredictedAwayScore: row.PredictedAwayScore,
			PredictedTotal:     row.PredictedTotal,
			ConfidenceScore:    row.ConfidenceScore,
		},
		Model:     row.Model,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}
}
