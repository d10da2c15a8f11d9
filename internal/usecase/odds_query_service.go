package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/diamond-odds/internal/domain/game"
	"github.com/riskibarqy/diamond-odds/internal/domain/line"
	"github.com/riskibarqy/diamond-odds/internal/domain/playerprop"
)

const (
	defaultLineLimit = 50
	maxLineLimit     = 500
)

// OddsQueryService serves stored lines and props for one game.
type OddsQueryService struct {
	games    gameReader
	lineRepo line.Repository
	propRepo playerprop.Repository
}

func NewOddsQueryService(games gameReader, lineRepo line.Repository, propRepo playerprop.Repository) *OddsQueryService {
	return &OddsQueryService{games: games, lineRepo: lineRepo, propRepo: propRepo}
}

// ListLines returns the game's snapshots, newest first.
func (s *OddsQueryService) ListLines(ctx context.Context, gameID int64, limit int) (game.Game, []line.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsQueryService.ListLines", gameIDAttr(gameID))
	defer span.End()

	item, err := s.requireGame(ctx, gameID)
	if err != nil {
		return game.Game{}, nil, err
	}

	switch {
	case limit <= 0:
		limit = defaultLineLimit
	case limit > maxLineLimit:
		limit = maxLineLimit
	}

	items, err := s.lineRepo.ListByGame(ctx, gameID, limit)
	if err != nil {
		return game.Game{}, nil, fmt.Errorf("list lines for game %d: %w", gameID, err)
	}
	return item, items, nil
}

func (s *OddsQueryService) ListProps(ctx context.Context, gameID int64) ([]playerprop.Prop, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OddsQueryService.ListProps", gameIDAttr(gameID))
	defer span.End()

	if _, err := s.requireGame(ctx, gameID); err != nil {
		return nil, err
	}
	if s.propRepo == nil {
		return []playerprop.Prop{}, nil
	}

	items, err := s.propRepo.ListByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("list props for game %d: %w", gameID, err)
	}
	return items, nil
}

func (s *OddsQueryService) requireGame(ctx context.Context, gameID int64) (game.Game, error) {
	if gameID <= 0 {
		return game.Game{}, fmt.Errorf("%w: game id is required", ErrInvalidInput)
	}
	item, ok, err := s.games.GetByID(ctx, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("get game %d: %w", gameID, err)
	}
	if !ok {
		return game.Game{}, fmt.Errorf("%w: game %d", ErrNotFound, gameID)
	}
	return item, nil
}
