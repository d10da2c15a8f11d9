package market

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeProps_PairsOverAndUnder(t *testing.T) {
	markets := []Market{
		{Key: KeyHeadToHead, Outcomes: []Outcome{{Name: "Home", Price: f64(-110)}}},
		{Key: "pitcher_strikeouts", Outcomes: []Outcome{
			{Name: "Over", Description: "Gerrit Cole", Price: f64(-125), Point: f64(7.5)},
			{Name: "Under", Description: "Gerrit Cole", Price: f64(105), Point: f64(7.5)},
		}},
		{Key: "batter_hits", Outcomes: []Outcome{
			{Name: "Over", Description: "Aaron Judge", Price: f64(-150), Point: f64(0.5)},
			{Name: "Under", Description: "Aaron Judge", Price: f64(120), Point: f64(0.5)},
			{Name: "Over", Description: "Aaron Judge", Price: f64(210), Point: f64(1.5)},
		}},
	}

	got := NormalizeProps(markets)
	require.Len(t, got, 3)

	require.Equal(t, "Aaron Judge", got[0].PlayerName)
	require.Equal(t, "batter_hits", got[0].PropType)
	require.Equal(t, 0.5, got[0].Line)
	require.Equal(t, -150, *got[0].OverOdds)
	require.Equal(t, 120, *got[0].UnderOdds)

	require.Equal(t, 1.5, got[1].Line)
	require.Equal(t, 210, *got[1].OverOdds)
	require.Nil(t, got[1].UnderOdds)

	require.Equal(t, "Gerrit Cole", got[2].PlayerName)
	require.Equal(t, "pitcher_strikeouts", got[2].PropType)
}

func TestNormalizeProps_DropsOutcomesWithoutPlayerOrLine(t *testing.T) {
	got := NormalizeProps([]Market{{Key: "batter_home_runs", Outcomes: []Outcome{
		{Name: "Over", Price: f64(300), Point: f64(0.5)},
		{Name: "Over", Description: "Juan Soto", Price: f64(320)},
	}}})
	require.Empty(t, got)
}

func TestIsPropKey(t *testing.T) {
	require.True(t, IsPropKey("batter_total_bases"))
	require.True(t, IsPropKey("pitcher_outs"))
	require.False(t, IsPropKey("totals"))
	require.False(t, IsPropKey("h2h"))
}
