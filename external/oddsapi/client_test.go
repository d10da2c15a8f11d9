package oddsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/diamond-odds/internal/domain/market"
	"github.com/riskibarqy/diamond-odds/internal/platform/resilience"
	"github.com/riskibarqy/diamond-odds/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const oddsFixture = `[
  {
    "id": "e912304de2b2ce35b473ce2ecd3d1502",
    "sport_key": "baseball_mlb",
    "commence_time": "2026-07-04T23:05:00Z",
    "home_team": "New York Yankees",
    "away_team": "Boston Red Sox",
    "bookmakers": [
      {
        "key": "draftkings",
        "title": "DraftKings",
        "last_update": "2026-07-04T18:00:00Z",
        "markets": [
          {"key": "h2h", "outcomes": [
            {"name": "Boston Red Sox", "price": 130},
            {"name": "New York Yankees", "price": -150}
          ]},
          {"key": "totals", "outcomes": [
            {"name": "Over", "price": -110, "point": 8.5},
            {"name": "Under", "price": -105, "point": 8.5}
          ]}
        ]
      }
    ]
  },
  {
    "id": "bad-time",
    "commence_time": "tomorrow",
    "home_team": "Chicago Cubs",
    "away_team": "Milwaukee Brewers",
    "bookmakers": []
  }
]`

func newTestClient(t *testing.T, handler http.HandlerFunc, mutate func(*ClientConfig)) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := ClientConfig{
		BaseURL:      srv.URL,
		APIKey:       "secret-key",
		Timeout:      2 * time.Second,
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 5,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg)
}

func TestFetchOdds_DecodesEventsAndQuota(t *testing.T) {
	var gotPath, gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("x-requests-remaining", "480")
		w.Header().Set("x-requests-used", "20")
		_, _ = w.Write([]byte(oddsFixture))
	}, nil)

	snapshot, err := client.FetchOdds(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/sports/baseball_mlb/odds", gotPath)
	assert.Contains(t, gotQuery, "apiKey=secret-key")
	assert.Contains(t, gotQuery, "oddsFormat=american")
	assert.Contains(t, gotQuery, "regions=us")
	assert.Equal(t, "480", snapshot.RequestsRemaining)
	assert.Equal(t, "20", snapshot.RequestsUsed)
	assert.NotEmpty(t, snapshot.Raw)

	require.Len(t, snapshot.Events, 2)
	event := snapshot.Events[0]
	assert.Equal(t, "New York Yankees", event.HomeTeam)
	assert.Equal(t, "Boston Red Sox", event.AwayTeam)
	assert.Equal(t, time.Date(2026, 7, 4, 23, 5, 0, 0, time.UTC), event.CommenceTime)
	require.Len(t, event.Bookmakers, 1)
	require.Len(t, event.Bookmakers[0].Markets, 2)

	h2h := event.Bookmakers[0].Markets[0]
	assert.Equal(t, market.KeyHeadToHead, h2h.Key)
	require.NotNil(t, h2h.Outcomes[1].Price)
	assert.Equal(t, -150.0, *h2h.Outcomes[1].Price)
	assert.Nil(t, h2h.Outcomes[1].Point)

	totals := event.Bookmakers[0].Markets[1]
	require.NotNil(t, totals.Outcomes[0].Point)
	assert.Equal(t, 8.5, *totals.Outcomes[0].Point)

	assert.True(t, snapshot.Events[1].CommenceTime.IsZero())
}

func TestFetchOdds_RetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}, nil)

	snapshot, err := client.FetchOdds(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snapshot.Events)
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchOdds_DoesNotRetryClientError(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid api key"}`))
	}, nil)

	_, err := client.FetchOdds(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=401")
	assert.NotContains(t, err.Error(), "secret-key")
	assert.Equal(t, int32(1), calls.Load())
}

func TestFetchOdds_CircuitOpensAfterTransientFailures(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}, func(cfg *ClientConfig) {
		cfg.MaxRetries = 0
		cfg.CircuitBreaker.FailureThreshold = 2
	})

	for i := 0; i < 2; i++ {
		_, err := client.FetchOdds(context.Background())
		require.Error(t, err)
	}

	_, err := client.FetchOdds(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrDependencyUnavailable))
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetchOdds_MalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"not":"an array"`))
	}, nil)

	_, err := client.FetchOdds(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode odds payload")
}

const mixedQualityFixture = `[
  {
    "id": "nyy-bos",
    "commence_time": "2026-07-04T23:05:00Z",
    "home_team": "New York Yankees",
    "away_team": "Boston Red Sox",
    "bookmakers": [
      {"key": "draftkings", "title": "DraftKings", "markets": [
        {"key": "h2h", "outcomes": [
          {"name": "Boston Red Sox", "price": 130},
          {"name": "New York Yankees", "price": -150}
        ]}
      ]},
      {"key": "badbook", "title": "Bad Book", "markets": [
        {"key": "h2h", "outcomes": [{"name": "New York Yankees", "price": "-150"}]}
      ]},
      {"key": "fanduel", "title": "FanDuel", "markets": [
        {"key": "h2h", "outcomes": {"name": "New York Yankees", "price": -145}},
        {"key": "totals", "outcomes": [
          {"name": "Over", "price": -110, "point": 8.5},
          {"name": "Under", "price": -110, "point": 8.5}
        ]}
      ]},
      {"key": 42, "markets": "none"}
    ]
  },
  {"id": 7, "home_team": "Chicago Cubs", "away_team": ["Milwaukee Brewers"]},
  {
    "id": "lad-sf",
    "commence_time": "2026-07-05T02:10:00Z",
    "home_team": "Los Angeles Dodgers",
    "away_team": "San Francisco Giants",
    "bookmakers": [
      {"key": "draftkings", "markets": [
        {"key": "h2h", "outcomes": [
          {"name": "San Francisco Giants", "price": 140},
          {"name": "Los Angeles Dodgers", "price": -165}
        ]}
      ]}
    ]
  }
]`

func TestFetchOdds_MalformedBlocksDoNotFailFetch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(mixedQualityFixture))
	}, nil)

	snapshot, err := client.FetchOdds(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Events, 3)

	first := snapshot.Events[0]
	assert.Empty(t, first.DecodeError)
	require.Len(t, first.Bookmakers, 2)
	assert.Equal(t, "draftkings", first.Bookmakers[0].Key)
	require.Len(t, first.Bookmakers[0].Markets, 1)
	require.NotNil(t, first.Bookmakers[0].Markets[0].Outcomes[1].Price)
	assert.Equal(t, -150.0, *first.Bookmakers[0].Markets[0].Outcomes[1].Price)

	fanduel := first.Bookmakers[1]
	assert.Equal(t, "fanduel", fanduel.Key)
	require.Len(t, fanduel.Markets, 1)
	assert.Equal(t, market.KeyTotals, fanduel.Markets[0].Key)

	require.Len(t, first.Malformed, 3)
	assert.Equal(t, "badbook", first.Malformed[0].Bookmaker)
	assert.Empty(t, first.Malformed[0].Market)
	assert.Contains(t, first.Malformed[0].Reason, "decode bookmaker")
	assert.Equal(t, "fanduel", first.Malformed[1].Bookmaker)
	assert.Equal(t, market.KeyHeadToHead, first.Malformed[1].Market)
	assert.Contains(t, first.Malformed[1].Reason, "decode market")
	assert.Empty(t, first.Malformed[2].Bookmaker)

	broken := snapshot.Events[1]
	assert.Contains(t, broken.DecodeError, "decode event")
	assert.Equal(t, "Chicago Cubs", broken.HomeTeam)
	assert.Empty(t, broken.ID)
	assert.Empty(t, broken.AwayTeam)

	last := snapshot.Events[2]
	assert.Empty(t, last.DecodeError)
	assert.Empty(t, last.Malformed)
	require.Len(t, last.Bookmakers, 1)
	assert.Equal(t, "Los Angeles Dodgers", last.HomeTeam)
}

func TestFetchOdds_RequiresAPIKey(t *testing.T) {
	client := NewClient(ClientConfig{})
	_, err := client.FetchOdds(context.Background())
	require.Error(t, err)
}

func TestRedaction(t *testing.T) {
	redacted := redactAPIURL("https://api.the-odds-api.com/v4/sports/baseball_mlb/odds?apiKey=abc123&regions=us")
	assert.NotContains(t, redacted, "abc123")
	assert.Contains(t, redacted, "apiKey=REDACTED")

	text := sanitizeSensitiveText(`dial tcp: lookup host?apiKey=abc123 failed`, "")
	assert.Equal(t, "dial tcp: lookup host?apiKey=REDACTED failed", text)
	assert.Equal(t, "token REDACTED leaked", sanitizeSensitiveText("token abc123 leaked", "abc123"))
}

func TestAbbreviateBody(t *testing.T) {
	long := strings.Repeat("x", 300)
	assert.Len(t, abbreviateBody([]byte(long)), 243)
	assert.Equal(t, "short", abbreviateBody([]byte("  short \n")))
}
