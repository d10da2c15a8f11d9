package game

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusScheduled  Status = "scheduled"
	StatusInProgress Status = "in_progress"
	StatusFinal      Status = "final"
)

func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusInProgress, StatusFinal:
		return true
	default:
		return false
	}
}

// Key is the natural identity of a game. At most one game exists per key.
type Key struct {
	HomeTeamID int64
	AwayTeamID int64
	StartTime  time.Time
}

// Normalize truncates the start time to whole seconds in UTC so feeds that
// disagree on sub-second precision or zone still map to one game.
func (k Key) Normalize() Key {
	k.StartTime = k.StartTime.UTC().Truncate(time.Second)
	return k
}

func (k Key) Validate() error {
	if k.HomeTeamID <= 0 || k.AwayTeamID <= 0 {
		return fmt.Errorf("home and away team ids are required")
	}
	if k.HomeTeamID == k.AwayTeamID {
		return fmt.Errorf("home and away team must differ")
	}
	if k.StartTime.IsZero() {
		return fmt.Errorf("start time is required")
	}
	return nil
}

func (k Key) String() string {
	return fmt.Sprintf("%d@%d:%s", k.AwayTeamID, k.HomeTeamID, k.StartTime.UTC().Format(time.RFC3339))
}

type Game struct {
	ID         int64
	ExternalID int64
	HomeTeamID int64
	AwayTeamID int64
	StartTime  time.Time
	Status     Status
	HomeScore  *int
	AwayScore  *int
	Season     int
	Venue      string
}

func (g Game) Key() Key {
	return Key{HomeTeamID: g.HomeTeamID, AwayTeamID: g.AwayTeamID, StartTime: g.StartTime}.Normalize()
}

// IsHome reports whether teamID played at home. ok is false when the team did not play.
func (g Game) IsHome(teamID int64) (home bool, ok bool) {
	switch teamID {
	case g.HomeTeamID:
		return true, true
	case g.AwayTeamID:
		return false, true
	default:
		return false, false
	}
}

// RunsFor returns the team's side score, treating a missing score as zero.
func (g Game) RunsFor(teamID int64) int {
	home, ok := g.IsHome(teamID)
	if !ok {
		return 0
	}
	score := g.AwayScore
	if home {
		score = g.HomeScore
	}
	if score == nil {
		return 0
	}
	return *score
}

// NewScheduled builds the row inserted when a feed first mentions a game.
func NewScheduled(key Key) Game {
	key = key.Normalize()
	return Game{
		HomeTeamID: key.HomeTeamID,
		AwayTeamID: key.AwayTeamID,
		StartTime:  key.StartTime,
		Status:     StatusScheduled,
		Season:     key.StartTime.Year(),
	}
}
