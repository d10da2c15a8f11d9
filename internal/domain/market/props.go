package market

import (
	"sort"
	"strings"
)

// PropLine is one player's over/under line in one prop market.
type PropLine struct {
	PlayerName string
	PropType   string
	Line       float64
	OverOdds   *int
	UnderOdds  *int
}

type propKey struct {
	player   string
	propType string
	line     float64
}

// NormalizeProps pairs Over/Under outcomes of batter_* and pitcher_* markets
// by (player, market, line). Outcomes without a player name or line are dropped.
func NormalizeProps(markets []Market) []PropLine {
	byKey := make(map[propKey]*PropLine)
	order := make([]propKey, 0)

	for _, m := range markets {
		if !IsPropKey(m.Key) {
			continue
		}
		for _, o := range m.Outcomes {
			playerName := strings.TrimSpace(o.Description)
			point := copyPoint(o.Point)
			if playerName == "" || point == nil {
				continue
			}

			key := propKey{player: playerName, propType: m.Key, line: *point}
			item, ok := byKey[key]
			if !ok {
				item = &PropLine{PlayerName: playerName, PropType: m.Key, Line: *point}
				byKey[key] = item
				order = append(order, key)
			}

			switch o.Name {
			case OutcomeOver:
				if item.OverOdds == nil {
					item.OverOdds = americanOdds(o.Price)
				}
			case OutcomeUnder:
				if item.UnderOdds == nil {
					item.UnderOdds = americanOdds(o.Price)
				}
			}
		}
	}

	out := make([]PropLine, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].PlayerName != out[j].PlayerName {
			return out[i].PlayerName < out[j].PlayerName
		}
		if out[i].PropType != out[j].PropType {
			return out[i].PropType < out[j].PropType
		}
		return out[i].Line < out[j].Line
	})
	return out
}
