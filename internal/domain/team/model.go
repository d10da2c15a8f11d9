package team

import "fmt"

// Team is an MLB club. Name is the canonical full name odds providers use, e.g. "New York Yankees".
type Team struct {
	ID           int64
	ExternalID   int64
	Name         string
	Abbreviation string
	City         string
	Division     string
	League       string
}

func (t Team) Validate() error {
	if t.ExternalID <= 0 {
		return fmt.Errorf("team external id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
