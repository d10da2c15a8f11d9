package postgres

type playerGameStatInsertModel struct {
	PlayerID           int64   `db:"player_id"`
	GameID             int64   `db:"game_id"`
	AtBats             int     `db:"at_bats"`
	Hits               int     `db:"hits"`
	Runs               int     `db:"runs"`
	RBI                int     `db:"rbi"`
	HomeRuns           int     `db:"home_runs"`
	Strikeouts         int     `db:"strikeouts"`
	Walks              int     `db:"walks"`
	StolenBases        int     `db:"stolen_bases"`
	PitchCount         int     `db:"pitch_count"`
	InningsPitched     float64 `db:"innings_pitched"`
	EarnedRuns         int     `db:"earned_runs"`
	BattersFaced       int     `db:"batters_faced"`
	HitsAllowed        int     `db:"hits_allowed"`
	PitchingStrikeouts int     `db:"pitching_strikeouts"`
}

type teamTotalsRow struct {
	AtBats         int     `db:"at_bats"`
	Hits           int     `db:"hits"`
	EarnedRuns     int     `db:"earned_runs"`
	InningsPitched float64 `db:"innings_pitched"`
}
