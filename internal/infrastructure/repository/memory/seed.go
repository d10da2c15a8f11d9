package memory

import "github.com/riskibarqy/diamond-odds/internal/domain/team"

const (
	divisionALEast    = "American League East"
	divisionALCentral = "American League Central"
	divisionALWest    = "American League West"
	divisionNLEast    = "National League East"
	divisionNLCentral = "National League Central"
	divisionNLWest    = "National League West"

	leagueAL = "American League"
	leagueNL = "National League"
)

// SeedTeams returns the 30 MLB clubs keyed by MLB Stats API id, named the way
// odds feeds name them. Used when STORAGE_DRIVER=memory.
func SeedTeams() []team.Team {
	return []team.Team{
		{ExternalID: 110, Name: "Baltimore Orioles", Abbreviation: "BAL", City: "Baltimore", Division: divisionALEast, League: leagueAL},
		{ExternalID: 111, Name: "Boston Red Sox", Abbreviation: "BOS", City: "Boston", Division: divisionALEast, League: leagueAL},
		{ExternalID: 147, Name: "New York Yankees", Abbreviation: "NYY", City: "Bronx", Division: divisionALEast, League: leagueAL},
		{ExternalID: 139, Name: "Tampa Bay Rays", Abbreviation: "TB", City: "St. Petersburg", Division: divisionALEast, League: leagueAL},
		{ExternalID: 141, Name: "Toronto Blue Jays", Abbreviation: "TOR", City: "Toronto", Division: divisionALEast, League: leagueAL},

		{ExternalID: 145, Name: "Chicago White Sox", Abbreviation: "CWS", City: "Chicago", Division: divisionALCentral, League: leagueAL},
		{ExternalID: 114, Name: "Cleveland Guardians", Abbreviation: "CLE", City: "Cleveland", Division: divisionALCentral, League: leagueAL},
		{ExternalID: 116, Name: "Detroit Tigers", Abbreviation: "DET", City: "Detroit", Division: divisionALCentral, League: leagueAL},
		{ExternalID: 118, Name: "Kansas City Royals", Abbreviation: "KC", City: "Kansas City", Division: divisionALCentral, League: leagueAL},
		{ExternalID: 142, Name: "Minnesota Twins", Abbreviation: "MIN", City: "Minneapolis", Division: divisionALCentral, League: leagueAL},

		{ExternalID: 117, Name: "Houston Astros", Abbreviation: "HOU", City: "Houston", Division: divisionALWest, League: leagueAL},
		{ExternalID: 108, Name: "Los Angeles Angels", Abbreviation: "LAA", City: "Anaheim", Division: divisionALWest, League: leagueAL},
		{ExternalID: 133, Name: "Oakland Athletics", Abbreviation: "ATH", City: "Sacramento", Division: divisionALWest, League: leagueAL},
		{ExternalID: 136, Name: "Seattle Mariners", Abbreviation: "SEA", City: "Seattle", Division: divisionALWest, League: leagueAL},
		{ExternalID: 140, Name: "Texas Rangers", Abbreviation: "TEX", City: "Arlington", Division: divisionALWest, League: leagueAL},

		{ExternalID: 144, Name: "Atlanta Braves", Abbreviation: "ATL", City: "Atlanta", Division: divisionNLEast, League: leagueNL},
		{ExternalID: 146, Name: "Miami Marlins", Abbreviation: "MIA", City: "Miami", Division: divisionNLEast, League: leagueNL},
		{ExternalID: 121, Name: "New York Mets", Abbreviation: "NYM", City: "Flushing", Division: divisionNLEast, League: leagueNL},
		{ExternalID: 143, Name: "Philadelphia Phillies", Abbreviation: "PHI", City: "Philadelphia", Division: divisionNLEast, League: leagueNL},
		{ExternalID: 120, Name: "Washington Nationals", Abbreviation: "WSH", City: "Washington", Division: divisionNLEast, League: leagueNL},

		{ExternalID: 112, Name: "Chicago Cubs", Abbreviation: "CHC", City: "Chicago", Division: divisionNLCentral, League: leagueNL},
		{ExternalID: 113, Name: "Cincinnati Reds", Abbreviation: "CIN", City: "Cincinnati", Division: divisionNLCentral, League: leagueNL},
		{ExternalID: 158, Name: "Milwaukee Brewers", Abbreviation: "MIL", City: "Milwaukee", Division: divisionNLCentral, League: leagueNL},
		{ExternalID: 134, Name: "Pittsburgh Pirates", Abbreviation: "PIT", City: "Pittsburgh", Division: divisionNLCentral, League: leagueNL},
		{ExternalID: 138, Name: "St. Louis Cardinals", Abbreviation: "STL", City: "St. Louis", Division: divisionNLCentral, League: leagueNL},

		{ExternalID: 109, Name: "Arizona Diamondbacks", Abbreviation: "AZ", City: "Phoenix", Division: divisionNLWest, League: leagueNL},
		{ExternalID: 115, Name: "Colorado Rockies", Abbreviation: "COL", City: "Denver", Division: divisionNLWest, League: leagueNL},
		{ExternalID: 119, Name: "Los Angeles Dodgers", Abbreviation: "LAD", City: "Los Angeles", Division: divisionNLWest, League: leagueNL},
		{ExternalID: 135, Name: "San Diego Padres", Abbreviation: "SD", City: "San Diego", Division: divisionNLWest, League: leagueNL},
		{ExternalID: 137, Name: "San Francisco Giants", Abbreviation: "SF", City: "San Francisco", Division: divisionNLWest, League: leagueNL},
	}
}
