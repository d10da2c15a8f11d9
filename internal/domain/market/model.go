package market

import (
	"math"
	"strings"
)

// Market keys as sent by the odds feed.
const (
	KeyHeadToHead = "h2h"
	KeySpreads    = "spreads"
	KeyTotals     = "totals"

	OutcomeOver  = "Over"
	OutcomeUnder = "Under"
)

// Outcome is one priced selection inside a market. Description carries the
// player name for prop markets.
type Outcome struct {
	Name        string
	Description string
	Price       *float64
	Point       *float64
}

type Market struct {
	Key      string
	Outcomes []Outcome
}

// Bookmaker is one sportsbook block of a feed event.
type Bookmaker struct {
	Key     string
	Title   string
	Markets []Market
}

// IsPropKey reports whether key is a player prop market (batter_hits, pitcher_strikeouts, ...).
func IsPropKey(key string) bool {
	return strings.HasPrefix(key, "batter_") || strings.HasPrefix(key, "pitcher_")
}

// americanOdds rounds a feed price to a signed American integer.
func americanOdds(price *float64) *int {
	if price == nil || math.IsNaN(*price) || math.IsInf(*price, 0) {
		return nil
	}
	v := int(math.Round(*price))
	return &v
}

func copyPoint(point *float64) *float64 {
	if point == nil || math.IsNaN(*point) || math.IsInf(*point, 0) {
		return nil
	}
	v := *point
	return &v
}
