package mlbstats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/diamond-odds/internal/platform/logging"
	"github.com/riskibarqy/diamond-odds/internal/usecase"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultBaseURL = "https://statsapi.mlb.com/api/v1"
	mlbSportID     = "1"
	maxBodyBytes   = 4 << 20
)

var errMLBStatsTransient = crerr.New("mlb stats transient failure")

type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	Logger     *logging.Logger
}

// Client reads team and roster reference data from the public MLB Stats API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	logger     *logging.Logger
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		maxRetries: max(cfg.MaxRetries, 0),
		logger:     logger,
	}
}

func (c *Client) ListTeams(ctx context.Context) ([]usecase.ExternalMLBTeam, error) {
	var payload teamsEnvelope
	if err := c.getJSON(ctx, "/teams?sportId="+mlbSportID, &payload); err != nil {
		return nil, crerr.Wrap(err, "list mlb teams")
	}

	out := make([]usecase.ExternalMLBTeam, 0, len(payload.Teams))
	for _, item := range payload.Teams {
		if item.ID <= 0 || strings.TrimSpace(item.Name) == "" {
			continue
		}
		out = append(out, usecase.ExternalMLBTeam{
			ExternalID:   item.ID,
			Name:         strings.TrimSpace(item.Name),
			Abbreviation: strings.TrimSpace(item.Abbreviation),
			TeamName:     strings.TrimSpace(item.TeamName),
			City:         strings.TrimSpace(item.LocationName),
			Division:     strings.TrimSpace(item.Division.Name),
			League:       strings.TrimSpace(item.League.Name),
		})
	}
	return out, nil
}

func (c *Client) ListActiveRoster(ctx context.Context, teamExternalID int64) ([]int64, error) {
	if teamExternalID <= 0 {
		return nil, fmt.Errorf("team external id must be greater than zero")
	}

	var payload rosterEnvelope
	path := "/teams/" + strconv.FormatInt(teamExternalID, 10) + "/roster?rosterType=active"
	if err := c.getJSON(ctx, path, &payload); err != nil {
		return nil, crerr.Wrapf(err, "list active roster team_id=%d", teamExternalID)
	}

	out := make([]int64, 0, len(payload.Roster))
	for _, entry := range payload.Roster {
		if entry.Person.ID > 0 {
			out = append(out, entry.Person.ID)
		}
	}
	return out, nil
}

func (c *Client) GetPerson(ctx context.Context, personID int64) (usecase.ExternalMLBPerson, error) {
	var payload peopleEnvelope
	if err := c.getJSON(ctx, "/people/"+strconv.FormatInt(personID, 10), &payload); err != nil {
		return usecase.ExternalMLBPerson{}, crerr.Wrapf(err, "get person id=%d", personID)
	}
	if len(payload.People) == 0 {
		return usecase.ExternalMLBPerson{}, crerr.Newf("person id=%d not found", personID)
	}

	p := payload.People[0]
	return usecase.ExternalMLBPerson{
		ExternalID: p.ID,
		FullName:   strings.TrimSpace(p.FullName),
		Position:   strings.TrimSpace(p.PrimaryPosition.Abbreviation),
		BatSide:    strings.TrimSpace(p.BatSide.Code),
		ThrowSide:  strings.TrimSpace(p.PitchHand.Code),
	}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		raw, err := c.get(ctx, path)
		if err == nil {
			if err := sonic.Unmarshal(raw, target); err != nil {
				return crerr.Wrap(err, "decode mlb stats payload")
			}
			return nil
		}
		lastErr = err
		if !crerr.Is(err, errMLBStatsTransient) || attempt == c.maxRetries {
			break
		}

		timer := time.NewTimer(time.Duration(attempt+1) * 500 * time.Millisecond)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "mlb stats request failed", "path", path, "error", lastErr)
	return lastErr
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: send request: %v", errMLBStatsTransient, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", errMLBStatsTransient, err)
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: status=%d", errMLBStatsTransient, resp.StatusCode)
	}
	if resp.StatusCode/100 != 2 {
		return nil, crerr.Newf("mlb stats status=%d", resp.StatusCode)
	}
	return raw, nil
}

type namedRef struct {
	Name string `json:"name"`
}

type codeRef struct {
	Code string `json:"code"`
}

type teamsEnvelope struct {
	Teams []struct {
		ID           int64    `json:"id"`
		Name         string   `json:"name"`
		Abbreviation string   `json:"abbreviation"`
		TeamName     string   `json:"teamName"`
		LocationName string   `json:"locationName"`
		Division     namedRef `json:"division"`
		League       namedRef `json:"league"`
	} `json:"teams"`
}

type rosterEnvelope struct {
	Roster []struct {
		Person struct {
			ID       int64  `json:"id"`
			FullName string `json:"fullName"`
		} `json:"person"`
	} `json:"roster"`
}

type peopleEnvelope struct {
	People []struct {
		ID              int64  `json:"id"`
		FullName        string `json:"fullName"`
		PrimaryPosition struct {
			Abbreviation string `json:"abbreviation"`
		} `json:"primaryPosition"`
		BatSide   codeRef `json:"batSide"`
		PitchHand codeRef `json:"pitchHand"`
	} `json:"people"`
}
