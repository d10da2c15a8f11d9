package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/diamond-odds/internal/domain/player"
	"github.com/riskibarqy/diamond-odds/internal/domain/team"
	"github.com/riskibarqy/diamond-odds/internal/platform/logging"
)

const defaultSeedMaxWorkers = 8

type ExternalMLBTeam struct {
	ExternalID   int64
	Name         string
	Abbreviation string
	TeamName     string
	City         string
	Division     string
	League       string
}

type ExternalMLBPerson struct {
	ExternalID int64
	FullName   string
	Position   string
	BatSide    string
	ThrowSide  string
}

// MLBStatsProvider is the reference-data source used for seeding teams and rosters.
type MLBStatsProvider interface {
	ListTeams(ctx context.Context) ([]ExternalMLBTeam, error)
	ListActiveRoster(ctx context.Context, teamExternalID int64) ([]int64, error)
	GetPerson(ctx context.Context, personID int64) (ExternalMLBPerson, error)
}

type teamSeedWriter interface {
	UpsertTeams(ctx context.Context, items []team.Team) ([]team.Team, error)
}

type playerSeedWriter interface {
	UpsertPlayers(ctx context.Context, items []player.Player) error
}

type SeedResult struct {
	Teams          int `json:"teams"`
	Players        int `json:"players"`
	FailedRosters  int `json:"failed_rosters"`
	FailedPlayers  int `json:"failed_players"`
	SkippedPlayers int `json:"skipped_players"`
}

// SeedService loads MLB teams and active rosters. Rerunning it updates rows in place.
type SeedService struct {
	provider   MLBStatsProvider
	teamRepo   teamSeedWriter
	playerRepo playerSeedWriter
	maxWorkers int
	logger     *logging.Logger
}

func NewSeedService(provider MLBStatsProvider, teamRepo teamSeedWriter, playerRepo playerSeedWriter, maxWorkers int, logger *logging.Logger) *SeedService {
	if maxWorkers <= 0 {
		maxWorkers = defaultSeedMaxWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SeedService{
		provider:   provider,
		teamRepo:   teamRepo,
		playerRepo: playerRepo,
		maxWorkers: maxWorkers,
		logger:     logger.Named("seed"),
	}
}

func (s *SeedService) Seed(ctx context.Context) (SeedResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeedService.Seed")
	defer span.End()

	externalTeams, err := s.provider.ListTeams(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("list mlb teams: %w", err)
	}

	teams := make([]team.Team, 0, len(externalTeams))
	for _, ext := range externalTeams {
		item := team.Team{
			ExternalID:   ext.ExternalID,
			Name:         strings.TrimSpace(ext.Name),
			Abbreviation: firstNonEmpty(ext.Abbreviation, ext.TeamName),
			City:         strings.TrimSpace(ext.City),
			Division:     strings.TrimSpace(ext.Division),
			League:       strings.TrimSpace(ext.League),
		}
		if err := item.Validate(); err != nil {
			s.logger.WarnContext(ctx, "skip invalid team", "external_id", ext.ExternalID, "error", err)
			continue
		}
		teams = append(teams, item)
	}
	if len(teams) == 0 {
		return SeedResult{}, fmt.Errorf("%w: mlb stats returned no usable teams", ErrDependencyUnavailable)
	}

	stored, err := s.teamRepo.UpsertTeams(ctx, teams)
	if err != nil {
		return SeedResult{}, fmt.Errorf("upsert teams: %w", err)
	}
	s.logger.InfoContext(ctx, "teams seeded", "count", len(stored))

	result := SeedResult{Teams: len(stored)}
	pool, err := ants.NewPool(s.maxWorkers)
	if err != nil {
		return SeedResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	for _, item := range stored {
		players, failed, skipped, err := s.seedRoster(ctx, pool, item)
		result.FailedPlayers += failed
		result.SkippedPlayers += skipped
		if err != nil {
			result.FailedRosters++
			s.logger.WarnContext(ctx, "seed roster failed", "team", item.Name, "error", err)
			continue
		}
		result.Players += players
	}

	s.logger.InfoContext(ctx, "seeding finished",
		"teams", result.Teams,
		"players", result.Players,
		"failed_rosters", result.FailedRosters,
		"failed_players", result.FailedPlayers,
	)
	return result, nil
}

func (s *SeedService) seedRoster(ctx context.Context, pool *ants.Pool, item team.Team) (int, int, int, error) {
	personIDs, err := s.provider.ListActiveRoster(ctx, item.ExternalID)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("list roster: %w", err)
	}
	if len(personIDs) == 0 {
		return 0, 0, 0, nil
	}

	var (
		mu      sync.Mutex
		players = make([]player.Player, 0, len(personIDs))
		failed  atomic.Int32
		skipped atomic.Int32
		workers sync.WaitGroup
	)
	for _, personID := range personIDs {
		personID := personID
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			person, err := s.provider.GetPerson(ctx, personID)
			if err != nil {
				failed.Add(1)
				s.logger.WarnContext(ctx, "fetch player failed", "person_id", personID, "team", item.Name, "error", err)
				return
			}
			p := player.Player{
				ExternalID: person.ExternalID,
				Name:       strings.TrimSpace(person.FullName),
				Position:   person.Position,
				BatSide:    person.BatSide,
				ThrowSide:  person.ThrowSide,
				TeamID:     item.ID,
				Active:     true,
			}
			if err := p.Validate(); err != nil {
				skipped.Add(1)
				return
			}
			mu.Lock()
			players = append(players, p)
			mu.Unlock()
		}); err != nil {
			workers.Done()
			workers.Wait()
			return 0, int(failed.Load()), int(skipped.Load()), fmt.Errorf("submit player fetch: %w", err)
		}
	}
	workers.Wait()

	if len(players) == 0 {
		return 0, int(failed.Load()), int(skipped.Load()), nil
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ExternalID < players[j].ExternalID })
	if err := s.playerRepo.UpsertPlayers(ctx, players); err != nil {
		return 0, int(failed.Load()), int(skipped.Load()), fmt.Errorf("upsert players: %w", err)
	}
	return len(players), int(failed.Load()), int(skipped.Load()), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
