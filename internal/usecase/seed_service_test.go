package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/diamond-odds/internal/infrastructure/repository/memory"
	"github.com/stretchr/testify/require"
)

type fakeMLBStats struct {
	teams   []ExternalMLBTeam
	rosters map[int64][]int64
	people  map[int64]ExternalMLBPerson
}

func (f fakeMLBStats) ListTeams(context.Context) ([]ExternalMLBTeam, error) {
	return f.teams, nil
}

func (f fakeMLBStats) ListActiveRoster(_ context.Context, teamExternalID int64) ([]int64, error) {
	roster, ok := f.rosters[teamExternalID]
	if !ok {
		return nil, errors.New("roster unavailable")
	}
	return roster, nil
}

func (f fakeMLBStats) GetPerson(_ context.Context, personID int64) (ExternalMLBPerson, error) {
	p, ok := f.people[personID]
	if !ok {
		return ExternalMLBPerson{}, errors.New("person not found")
	}
	return p, nil
}

func TestSeedService_SeedsTeamsAndRosters(t *testing.T) {
	t.Parallel()

	provider := fakeMLBStats{
		teams: []ExternalMLBTeam{
			{ExternalID: 147, Name: "New York Yankees", Abbreviation: "NYY", City: "Bronx", Division: "American League East", League: "American League"},
			{ExternalID: 111, Name: "Boston Red Sox", TeamName: "Red Sox", City: "Boston"},
			{ExternalID: 0, Name: "Broken"},
		},
		rosters: map[int64][]int64{
			147: {592450, 543037, 999},
		},
		people: map[int64]ExternalMLBPerson{
			592450: {ExternalID: 592450, FullName: "Aaron Judge", Position: "RF", BatSide: "R", ThrowSide: "R"},
			543037: {ExternalID: 543037, FullName: "Gerrit Cole", Position: "P", BatSide: "R", ThrowSide: "R"},
		},
	}
	teams := memory.NewTeamRepository(nil)
	players := memory.NewPlayerRepository(nil)

	result, err := NewSeedService(provider, teams, players, 2, nil).Seed(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, result.Teams)
	require.Equal(t, 2, result.Players)
	require.Equal(t, 1, result.FailedPlayers)
	require.Equal(t, 1, result.FailedRosters)

	redSox, ok, err := teams.GetByName(context.Background(), "Boston Red Sox")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Red Sox", redSox.Abbreviation)

	judge, ok, err := players.GetByName(context.Background(), "Aaron Judge")
	require.NoError(t, err)
	require.True(t, ok)
	yankees, _, _ := teams.GetByName(context.Background(), "New York Yankees")
	require.Equal(t, yankees.ID, judge.TeamID)
}

func TestSeedService_NoUsableTeams(t *testing.T) {
	t.Parallel()

	_, err := NewSeedService(fakeMLBStats{}, memory.NewTeamRepository(nil), memory.NewPlayerRepository(nil), 1, nil).Seed(context.Background())
	require.ErrorIs(t, err, ErrDependencyUnavailable)
}
