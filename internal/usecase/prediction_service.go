package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/riskibarqy/diamond-odds/internal/domain/game"
	"github.com/riskibarqy/diamond-odds/internal/domain/prediction"
	"github.com/riskibarqy/diamond-odds/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
)

const defaultPredictionModel = "basic_rf_v1"

type teamFeatureSource interface {
	ComputeTeamFeatures(ctx context.Context, teamID int64, asOf time.Time) (TeamFeatures, error)
}

type gameReader interface {
	GetByID(ctx context.Context, id int64) (game.Game, bool, error)
}

type PredictionService struct {
	games    gameReader
	features teamFeatureSource
	scorer   prediction.Scorer
	repo     prediction.Repository
	model    string
	logger   *logging.Logger
}

func NewPredictionService(
	games gameReader,
	features teamFeatureSource,
	scorer prediction.Scorer,
	repo prediction.Repository,
	model string,
	logger *logging.Logger,
) *PredictionService {
	if model == "" {
		model = defaultPredictionModel
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &PredictionService{
		games:    games,
		features: features,
		scorer:   scorer,
		repo:     repo,
		model:    model,
		logger:   logger.Named("prediction"),
	}
}

func (s *PredictionService) Get(ctx context.Context, gameID int64) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Get", gameIDAttr(gameID))
	defer span.End()

	if gameID <= 0 {
		return prediction.Prediction{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	item, ok, err := s.repo.GetByGameID(ctx, gameID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get prediction for game %d: %w", gameID, err)
	}
	if !ok {
		return prediction.Prediction{}, fmt.Errorf("%w: prediction for game %d", ErrNotFound, gameID)
	}
	return item, nil
}

// Generate scores a game from both teams' features as of its start time and
// stores the result. A scorer failure leaves any previous prediction untouched.
func (s *PredictionService) Generate(ctx context.Context, gameID int64) (prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Generate", gameIDAttr(gameID))
	defer span.End()

	if gameID <= 0 {
		return prediction.Prediction{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	if s.scorer == nil {
		return prediction.Prediction{}, fmt.Errorf("%w: scorer is not configured", ErrDependencyUnavailable)
	}

	item, ok, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("get game %d: %w", gameID, err)
	}
	if !ok {
		return prediction.Prediction{}, fmt.Errorf("%w: game %d", ErrNotFound, gameID)
	}

	features, err := s.matchupFeatures(ctx, item)
	if err != nil {
		return prediction.Prediction{}, err
	}

	score, err := s.scorer.Score(ctx, features)
	if err != nil {
		s.logger.WarnContext(ctx, "scorer failed", "game_id", gameID, "error", err)
		if stderrors.Is(err, ErrScorerFailed) {
			return prediction.Prediction{}, err
		}
		return prediction.Prediction{}, fmt.Errorf("%w: %v", ErrScorerFailed, err)
	}

	saved, err := s.repo.Upsert(ctx, prediction.Prediction{
		GameID: gameID,
		Score:  score,
		Model:  s.model,
	})
	if err != nil {
		return prediction.Prediction{}, fmt.Errorf("upsert prediction for game %d: %w", gameID, err)
	}

	s.logger.InfoContext(ctx, "prediction generated",
		"game_id", gameID,
		"model", s.model,
		"predicted_total", score.PredictedTotal,
		"confidence_score", score.ConfidenceScore,
	)
	return saved, nil
}

func (s *PredictionService) matchupFeatures(ctx context.Context, item game.Game) (prediction.Features, error) {
	var home, away TeamFeatures

	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		var err error
		home, err = s.features.ComputeTeamFeatures(ctx, item.HomeTeamID, item.StartTime)
		if err != nil {
			return fmt.Errorf("home team features: %w", err)
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		var err error
		away, err = s.features.ComputeTeamFeatures(ctx, item.AwayTeamID, item.StartTime)
		if err != nil {
			return fmt.Errorf("away team features: %w", err)
		}
		return nil
	})
	if err := p.Wait(); err != nil {
		return prediction.Features{}, err
	}

	return prediction.Features{
		HomeBattingAvg:  home.BattingAvg,
		HomeERA:         home.ERA,
		HomeRunsPerGame: home.RunsPerGame,
		AwayBattingAvg:  away.BattingAvg,
		AwayERA:         away.ERA,
		AwayRunsPerGame: away.RunsPerGame,
	}, nil
}
