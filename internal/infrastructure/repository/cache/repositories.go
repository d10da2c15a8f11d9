package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/riskibarqy/diamond-odds/internal/domain/team"
	basecache "github.com/riskibarqy/diamond-odds/internal/platform/cache"
)

// TeamRepository caches team reads for the resolver. Missing names are cached
// too, so an unknown feed name costs one lookup per TTL.
type TeamRepository struct {
	next   team.Repository
	list   *basecache.Store[[]team.Team]
	lookup *basecache.Store[cachedTeam]
}

type cachedTeam struct {
	value  team.Team
	exists bool
}

func NewTeamRepository(next team.Repository, ttl time.Duration) *TeamRepository {
	return &TeamRepository{
		next:   next,
		list:   basecache.NewStore[[]team.Team](ttl),
		lookup: basecache.NewStore[cachedTeam](ttl),
	}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	items, err := r.list.GetOrLoad(ctx, "team:list", func(ctx context.Context) ([]team.Team, error) {
		items, err := r.next.List(ctx)
		if err != nil {
			return nil, err
		}
		return append([]team.Team(nil), items...), nil
	})
	if err != nil {
		return nil, err
	}
	return append([]team.Team(nil), items...), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	key := "team:id:" + strconv.FormatInt(id, 10)
	cached, err := r.lookup.GetOrLoad(ctx, key, func(ctx context.Context) (cachedTeam, error) {
		item, exists, err := r.next.GetByID(ctx, id)
		if err != nil {
			return cachedTeam{}, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) GetByName(ctx context.Context, name string) (team.Team, bool, error) {
	key := "team:name:" + name
	cached, err := r.lookup.GetOrLoad(ctx, key, func(ctx context.Context) (cachedTeam, error) {
		item, exists, err := r.next.GetByName(ctx, name)
		if err != nil {
			return cachedTeam{}, err
		}
		return cachedTeam{value: item, exists: exists}, nil
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cached.value, cached.exists, nil
}

func (r *TeamRepository) UpsertTeams(ctx context.Context, items []team.Team) ([]team.Team, error) {
	stored, err := r.next.UpsertTeams(ctx, items)
	if err != nil {
		return nil, err
	}
	r.list.DeletePrefix(ctx, "team:")
	r.lookup.DeletePrefix(ctx, "team:")
	return stored, nil
}
