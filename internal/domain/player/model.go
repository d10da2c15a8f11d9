package player

import "fmt"

type Player struct {
	ID         int64
	ExternalID int64
	Name       string
	Position   string
	BatSide    string
	ThrowSide  string
	TeamID     int64
	Active     bool
}

func (p Player) Validate() error {
	if p.ExternalID <= 0 {
		return fmt.Errorf("player external id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.TeamID <= 0 {
		return fmt.Errorf("player team id is required")
	}

	return nil
}
