package mlbstats

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var flaky atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/teams", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("sportId"))
		_, _ = w.Write([]byte(`{"teams":[
			{"id":147,"name":"New York Yankees","abbreviation":"NYY","teamName":"Yankees","locationName":"Bronx","division":{"name":"American League East"},"league":{"name":"American League"}},
			{"id":0,"name":"Broken"}
		]}`))
	})
	mux.HandleFunc("/teams/147/roster", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "active", r.URL.Query().Get("rosterType"))
		_, _ = w.Write([]byte(`{"roster":[{"person":{"id":592450,"fullName":"Aaron Judge"}},{"person":{"id":0}}]}`))
	})
	mux.HandleFunc("/people/592450", func(w http.ResponseWriter, _ *http.Request) {
		if flaky.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"people":[{"id":592450,"fullName":"Aaron Judge","primaryPosition":{"abbreviation":"RF"},"batSide":{"code":"R"},"pitchHand":{"code":"R"}}]}`))
	})
	mux.HandleFunc("/people/1", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, &flaky
}

func TestClient_ListTeams(t *testing.T) {
	srv, _ := newTestServer(t)
	client := NewClient(ClientConfig{BaseURL: srv.URL, HTTPClient: srv.Client()})

	teams, err := client.ListTeams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, int64(147), teams[0].ExternalID)
	assert.Equal(t, "NYY", teams[0].Abbreviation)
	assert.Equal(t, "Bronx", teams[0].City)
	assert.Equal(t, "American League East", teams[0].Division)
}

func TestClient_ListActiveRoster(t *testing.T) {
	srv, _ := newTestServer(t)
	client := NewClient(ClientConfig{BaseURL: srv.URL, HTTPClient: srv.Client()})

	ids, err := client.ListActiveRoster(context.Background(), 147)
	require.NoError(t, err)
	assert.Equal(t, []int64{592450}, ids)

	_, err = client.ListActiveRoster(context.Background(), 0)
	require.Error(t, err)
}

func TestClient_GetPersonRetriesTransientStatus(t *testing.T) {
	srv, flaky := newTestServer(t)
	client := NewClient(ClientConfig{BaseURL: srv.URL, HTTPClient: srv.Client(), MaxRetries: 1})

	person, err := client.GetPerson(context.Background(), 592450)
	require.NoError(t, err)
	assert.Equal(t, int32(2), flaky.Load())
	assert.Equal(t, "Aaron Judge", person.FullName)
	assert.Equal(t, "RF", person.Position)
	assert.Equal(t, "R", person.BatSide)
	assert.Equal(t, "R", person.ThrowSide)
}

func TestClient_GetPersonNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	client := NewClient(ClientConfig{BaseURL: srv.URL, HTTPClient: srv.Client(), MaxRetries: 3})

	_, err := client.GetPerson(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status=404")
}
