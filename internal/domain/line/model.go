package line

import (
	"fmt"
	"strings"
	"time"
)

// Fields is one bookmaker's normalized view of a game. Prices are signed
// American odds; nil means the market or side was absent from the feed.
type Fields struct {
	HomeMoneyline  *int
	AwayMoneyline  *int
	HomeSpread     *float64
	HomeSpreadOdds *int
	AwaySpread     *float64
	AwaySpreadOdds *int
	OverUnder      *float64
	OverOdds       *int
	UnderOdds      *int
}

// Empty reports whether no market produced a value.
func (f Fields) Empty() bool {
	return f.HomeMoneyline == nil && f.AwayMoneyline == nil &&
		f.HomeSpread == nil && f.HomeSpreadOdds == nil &&
		f.AwaySpread == nil && f.AwaySpreadOdds == nil &&
		f.OverUnder == nil && f.OverOdds == nil && f.UnderOdds == nil
}

// Snapshot is an append-only record of one bookmaker's lines for one game in one cycle.
type Snapshot struct {
	ID         int64
	GameID     int64
	Sportsbook string
	CycleID    string
	Fields
	CapturedAt time.Time
}

func (s Snapshot) Validate() error {
	if s.GameID <= 0 {
		return fmt.Errorf("snapshot game id is required")
	}
	if strings.TrimSpace(s.Sportsbook) == "" {
		return fmt.Errorf("snapshot sportsbook is required")
	}
	if strings.TrimSpace(s.CycleID) == "" {
		return fmt.Errorf("snapshot cycle id is required")
	}
	return nil
}
