package market

import (
	"strings"

	"github.com/riskibarqy/diamond-odds/internal/domain/line"
)

// Result is the normalized view of one bookmaker block.
type Result struct {
	Sportsbook string
	Fields     line.Fields
	Props      []PropLine
	// Ignored lists market keys that were neither game lines nor props.
	Ignored []string
}

// NormalizeBookmaker normalizes game lines and player props of one bookmaker block.
func NormalizeBookmaker(b Bookmaker, homeTeam string) Result {
	snapshot := Normalize(b.Key, homeTeam, b.Markets)
	res := Result{
		Sportsbook: snapshot.Sportsbook,
		Fields:     snapshot.Fields,
		Props:      NormalizeProps(b.Markets),
	}
	for _, m := range b.Markets {
		switch {
		case m.Key == KeyHeadToHead, m.Key == KeySpreads, m.Key == KeyTotals, IsPropKey(m.Key):
		default:
			res.Ignored = append(res.Ignored, m.Key)
		}
	}
	return res
}

// Normalize folds h2h, spreads and totals markets into an unsaved snapshot for
// bookmakerKey. Missing markets, outcomes, prices or points leave the matching
// fields nil; unknown market keys are skipped. It never fails. Game, cycle and
// capture time are left for the caller.
func Normalize(bookmakerKey, homeTeam string, markets []Market) line.Snapshot {
	return line.Snapshot{
		Sportsbook: strings.TrimSpace(bookmakerKey),
		Fields:     normalizeFields(homeTeam, markets),
	}
}

func normalizeFields(homeTeam string, markets []Market) line.Fields {
	var out line.Fields
	seen := make(map[string]bool, len(markets))
	for _, m := range markets {
		// A feed repeating a market key keeps the first block.
		if seen[m.Key] {
			continue
		}
		switch m.Key {
		case KeyHeadToHead:
			applyHeadToHead(&out, homeTeam, m.Outcomes)
		case KeySpreads:
			applySpreads(&out, homeTeam, m.Outcomes)
		case KeyTotals:
			applyTotals(&out, m.Outcomes)
		default:
			continue
		}
		seen[m.Key] = true
	}
	return out
}

// The outcome named after the home team is home; the first other outcome is away.
func applyHeadToHead(out *line.Fields, homeTeam string, outcomes []Outcome) {
	var homeSet, awaySet bool
	for _, o := range outcomes {
		if o.Name == homeTeam {
			if !homeSet {
				out.HomeMoneyline = americanOdds(o.Price)
				homeSet = true
			}
			continue
		}
		if !awaySet {
			out.AwayMoneyline = americanOdds(o.Price)
			awaySet = true
		}
	}
}

func applySpreads(out *line.Fields, homeTeam string, outcomes []Outcome) {
	var homeSet, awaySet bool
	for _, o := range outcomes {
		if o.Name == homeTeam {
			if !homeSet {
				out.HomeSpread = copyPoint(o.Point)
				out.HomeSpreadOdds = americanOdds(o.Price)
				homeSet = true
			}
			continue
		}
		if !awaySet {
			out.AwaySpread = copyPoint(o.Point)
			out.AwaySpreadOdds = americanOdds(o.Price)
			awaySet = true
		}
	}
}

// Both sides of a total share one line, taken from the first outcome.
func applyTotals(out *line.Fields, outcomes []Outcome) {
	if len(outcomes) == 0 {
		return
	}
	out.OverUnder = copyPoint(outcomes[0].Point)

	var overSet, underSet bool
	for _, o := range outcomes {
		if o.Name == OutcomeOver {
			if !overSet {
				out.OverOdds = americanOdds(o.Price)
				overSet = true
			}
			continue
		}
		if !underSet {
			out.UnderOdds = americanOdds(o.Price)
			underSet = true
		}
	}
}
