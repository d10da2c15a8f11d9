package postgres

import "time"

type predictionTableModel struct {
	ID                 int64     `db:"id"`
	GameID             int64     `db:"game_id"`
	PredictedHomeScore float64   `db:"predicted_home_score"`
	PredictedAwayScore float64   `db:"predicted_away_score"`
	PredictedTotal     float64   `db:"predicted_total"`
	ConfidenceScore    float64   `db:"confidence_score"`
	Model              string    `db:"model"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type predictionInsertModel struct {
	GameID             int64   `db:"game_id"`
	PredictedHomeScore float64 `db:"predicted_home_score"`
	PredictedAwayScore float64 `db:"predicted_away_score"`
	PredictedTotal     float64 `db:"predicted_total"`
	ConfidenceScore    float64 `db:"confidence_score"`
	Model              string  `db:"model"`
}
