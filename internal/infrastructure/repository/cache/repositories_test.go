package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/diamond-odds/internal/domain/team"
	"github.com/stretchr/testify/require"
)

type countingTeamRepo struct {
	byName map[string]team.Team
	calls  int
	err    error
}

func (r *countingTeamRepo) List(context.Context) ([]team.Team, error) {
	r.calls++
	out := make([]team.Team, 0, len(r.byName))
	for _, item := range r.byName {
		out = append(out, item)
	}
	return out, r.err
}

func (r *countingTeamRepo) GetByID(_ context.Context, id int64) (team.Team, bool, error) {
	r.calls++
	for _, item := range r.byName {
		if item.ID == id {
			return item, true, nil
		}
	}
	return team.Team{}, false, r.err
}

func (r *countingTeamRepo) GetByName(_ context.Context, name string) (team.Team, bool, error) {
	r.calls++
	if r.err != nil {
		return team.Team{}, false, r.err
	}
	item, ok := r.byName[name]
	return item, ok, nil
}

func (r *countingTeamRepo) UpsertTeams(_ context.Context, items []team.Team) ([]team.Team, error) {
	for _, item := range items {
		r.byName[item.Name] = item
	}
	return items, nil
}

func TestTeamRepository_CachesHitsAndMisses(t *testing.T) {
	next := &countingTeamRepo{byName: map[string]team.Team{"Boston Red Sox": {ID: 2, Name: "Boston Red Sox"}}}
	repo := NewTeamRepository(next, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		item, ok, err := repo.GetByName(ctx, "Boston Red Sox")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, int64(2), item.ID)

		_, ok, err = repo.GetByName(ctx, "Boston Red Socks")
		require.NoError(t, err)
		require.False(t, ok)
	}
	require.Equal(t, 2, next.calls)
}

func TestTeamRepository_UpsertInvalidates(t *testing.T) {
	next := &countingTeamRepo{byName: map[string]team.Team{}}
	repo := NewTeamRepository(next, time.Minute)
	ctx := context.Background()

	_, ok, err := repo.GetByName(ctx, "Athletics")
	require.NoError(t, err)
	require.False(t, ok)

	_, err = repo.UpsertTeams(ctx, []team.Team{{ID: 9, ExternalID: 133, Name: "Athletics"}})
	require.NoError(t, err)

	item, ok, err := repo.GetByName(ctx, "Athletics")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(9), item.ID)
}

func TestTeamRepository_ErrorsAreNotCached(t *testing.T) {
	next := &countingTeamRepo{byName: map[string]team.Team{}, err: errors.New("db down")}
	repo := NewTeamRepository(next, time.Minute)
	ctx := context.Background()

	_, _, err := repo.GetByName(ctx, "New York Yankees")
	require.Error(t, err)
	_, _, err = repo.GetByName(ctx, "New York Yankees")
	require.Error(t, err)
	require.Equal(t, 2, next.calls)
}
