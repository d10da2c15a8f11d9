package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/diamond-odds/internal/domain/game"
	"github.com/riskibarqy/diamond-odds/internal/domain/team"
	"github.com/riskibarqy/diamond-odds/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type ResolverConfig struct {
	// FuzzyMatch enables the normalized matcher after the exact one.
	FuzzyMatch bool
	// Aliases maps feed names to canonical team names; tried last.
	Aliases map[string]string
}

// EntityResolver maps feed names and start times onto canonical teams and games.
type EntityResolver struct {
	matchers []TeamMatcher
	gameRepo game.Repository
	logger   *logging.Logger
}

func NewEntityResolver(teamRepo teamNameReader, gameRepo game.Repository, cfg ResolverConfig, logger *logging.Logger) *EntityResolver {
	matchers := []TeamMatcher{NewExactTeamMatcher(teamRepo)}
	if cfg.FuzzyMatch {
		matchers = append(matchers, NewNormalizedTeamMatcher(teamRepo))
	}
	if len(cfg.Aliases) > 0 {
		matchers = append(matchers, NewAliasTeamMatcher(teamRepo, cfg.Aliases))
	}
	return NewEntityResolverWithMatchers(gameRepo, logger, matchers...)
}

// NewEntityResolverWithMatchers builds a resolver with an explicit matcher chain.
func NewEntityResolverWithMatchers(gameRepo game.Repository, logger *logging.Logger, matchers ...TeamMatcher) *EntityResolver {
	if logger == nil {
		logger = logging.Default()
	}
	return &EntityResolver{
		matchers: matchers,
		gameRepo: gameRepo,
		logger:   logger.Named("resolver"),
	}
}

// ResolveTeam returns ErrTeamNotFound when no matcher recognises the name.
func (r *EntityResolver) ResolveTeam(ctx context.Context, externalName string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntityResolver.ResolveTeam", attribute.String(attrTeamName, externalName))
	defer span.End()

	if strings.TrimSpace(externalName) == "" {
		return team.Team{}, fmt.Errorf("%w: empty team name", ErrTeamNotFound)
	}

	for _, matcher := range r.matchers {
		item, ok, err := matcher.Match(ctx, externalName)
		if err != nil {
			return team.Team{}, fmt.Errorf("match team %q with %s matcher: %w", externalName, matcher.Name(), err)
		}
		if ok {
			if matcher.Name() != "exact" {
				r.logger.DebugContext(ctx, "team resolved by fallback matcher",
					"team", externalName,
					"matcher", matcher.Name(),
					"team_id", item.ID,
				)
			}
			return item, nil
		}
	}

	return team.Team{}, fmt.Errorf("%w: %q", ErrTeamNotFound, externalName)
}

// ResolveGame finds the game for the (home, away, start) triple, creating a
// scheduled game when none exists.
func (r *EntityResolver) ResolveGame(ctx context.Context, homeTeamID, awayTeamID int64, startTime time.Time) (game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EntityResolver.ResolveGame")
	defer span.End()

	key := game.Key{HomeTeamID: homeTeamID, AwayTeamID: awayTeamID, StartTime: startTime}.Normalize()
	if err := key.Validate(); err != nil {
		return game.Game{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	item, created, err := r.gameRepo.FindOrCreate(ctx, key)
	if err != nil {
		return game.Game{}, fmt.Errorf("find or create game %s: %w", key, err)
	}
	if created {
		r.logger.InfoContext(ctx, "game created from odds feed",
			"game_id", item.ID,
			"home_team_id", homeTeamID,
			"away_team_id", awayTeamID,
			"start_time", key.StartTime,
		)
	}
	return item, nil
}
