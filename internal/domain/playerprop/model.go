package playerprop

import (
	"fmt"
	"strings"
	"time"
)

// Prop is a pre-game player over/under line. Result and HitOver are filled
// after the game by settlement, which is outside ingestion.
type Prop struct {
	ID         int64
	PlayerID   int64
	GameID     int64
	Sportsbook string
	PropType   string
	Line       float64
	OverOdds   *int
	UnderOdds  *int
	Result     *float64
	HitOver    *bool
	CycleID    string
	CapturedAt time.Time
}

func (p Prop) Validate() error {
	if p.PlayerID <= 0 || p.GameID <= 0 {
		return fmt.Errorf("prop player id and game id are required")
	}
	if strings.TrimSpace(p.Sportsbook) == "" || strings.TrimSpace(p.PropType) == "" {
		return fmt.Errorf("prop sportsbook and type are required")
	}
	return nil
}
