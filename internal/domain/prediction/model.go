package prediction

import (
	"context"
	"time"
)

// Features is the model input for one matchup. JSON keys are the scorer's contract.
type Features struct {
	HomeBattingAvg  float64 `json:"home_team_batting_avg"`
	HomeERA         float64 `json:"home_team_era"`
	HomeRunsPerGame float64 `json:"home_team_runs_per_game"`
	AwayBattingAvg  float64 `json:"away_team_batting_avg"`
	AwayERA         float64 `json:"away_team_era"`
	AwayRunsPerGame float64 `json:"away_team_runs_per_game"`
}

// Score is what the external model returns.
type Score struct {
	PredictedHomeScore float64 `json:"predicted_home_score"`
	PredictedAwayScore float64 `json:"predicted_away_score"`
	PredictedTotal     float64 `json:"predicted_total"`
	ConfidenceScore    float64 `json:"confidence_score"`
}

// Prediction is the stored result for a game; one per game.
type Prediction struct {
	ID     int64
	GameID int64
	Score
	Model     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Scorer runs the prediction model. Implementations must not retry.
type Scorer interface {
	Score(ctx context.Context, features Features) (Score, error)
}
