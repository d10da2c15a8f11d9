package playerstats

// GameStat is one player's box-score line for one game.
type GameStat struct {
	PlayerID           int64
	GameID             int64
	AtBats             int
	Hits               int
	Runs               int
	RBI                int
	HomeRuns           int
	Strikeouts         int
	Walks              int
	StolenBases        int
	PitchCount         int
	InningsPitched     float64
	EarnedRuns         int
	BattersFaced       int
	HitsAllowed        int
	PitchingStrikeouts int
}

// TeamTotals sums the stat lines of a team's current roster over a set of games.
type TeamTotals struct {
	AtBats         int
	Hits           int
	EarnedRuns     int
	InningsPitched float64
}

func (t *TeamTotals) Add(stat GameStat) {
	t.AtBats += stat.AtBats
	t.Hits += stat.Hits
	t.EarnedRuns += stat.EarnedRuns
	t.InningsPitched += stat.InningsPitched
}

// BattingAverage is hits per at-bat, zero without at-bats.
func (t TeamTotals) BattingAverage() float64 {
	if t.AtBats <= 0 {
		return 0
	}
	return float64(t.Hits) / float64(t.AtBats)
}

// ERA is earned runs per nine innings, zero without innings pitched.
func (t TeamTotals) ERA() float64 {
	if t.InningsPitched <= 0 {
		return 0
	}
	return float64(t.EarnedRuns) / t.InningsPitched * 9
}
