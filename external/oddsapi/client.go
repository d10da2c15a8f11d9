package oddsapi

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/diamond-odds/internal/domain/market"
	"github.com/riskibarqy/diamond-odds/internal/platform/logging"
	"github.com/riskibarqy/diamond-odds/internal/platform/resilience"
	"github.com/riskibarqy/diamond-odds/internal/usecase"
	"github.com/valyala/fasthttp"
)

const (
	defaultBaseURL      = "https://api.the-odds-api.com/v4"
	defaultSport        = "baseball_mlb"
	defaultRegions      = "us"
	defaultMarkets      = "h2h,spreads,totals"
	defaultOddsFormat   = "american"
	defaultTimeout      = 20 * time.Second
	defaultRetryBackoff = time.Second
	maxResponseBytes    = 8 << 20
)

var (
	apiKeyParamRegex    = regexp.MustCompile(`apiKey=[^&\s"']+`)
	errOddsAPITransient = crerr.New("odds api transient failure")
)

type ClientConfig struct {
	HTTPClient *fasthttp.Client
	BaseURL    string
	APIKey     string
	Sport      string
	Regions    string
	Markets    string
	// Bookmakers optionally restricts the feed to these keys (comma separated).
	Bookmakers     string
	Timeout        time.Duration
	MaxRetries     int
	RetryBackoff   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client fetches whole-market MLB odds snapshots from The Odds API v4.
type Client struct {
	httpClient   *fasthttp.Client
	baseURL      string
	apiKey       string
	sport        string
	regions      string
	markets      string
	bookmakers   string
	timeout      time.Duration
	maxRetries   int
	retryBackoff time.Duration
	logger       *logging.Logger
	breaker      *resilience.CircuitBreaker
	flight       resilience.SingleFlight[oddsResponse]
}

type oddsResponse struct {
	body      []byte
	remaining string
	used      string
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "diamond-odds",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxResponseBytes,
		}
	}
	backoff := cfg.RetryBackoff
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		sport:        firstNonEmpty(cfg.Sport, defaultSport),
		regions:      firstNonEmpty(cfg.Regions, defaultRegions),
		markets:      firstNonEmpty(cfg.Markets, defaultMarkets),
		bookmakers:   strings.TrimSpace(cfg.Bookmakers),
		timeout:      timeout,
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: backoff,
		logger:       logger,
		breaker:      resilience.NewCircuitBreaker(cfg.CircuitBreaker),
	}
}

func (c *Client) FetchOdds(ctx context.Context) (usecase.ExternalOddsSnapshot, error) {
	if c.apiKey == "" {
		return usecase.ExternalOddsSnapshot{}, crerr.New("odds api key is not configured")
	}

	fullURL := c.oddsURL()
	var resp oddsResponse
	err := c.breaker.Execute(func() error {
		out, err, _ := c.flight.Do(fullURL, func() (oddsResponse, error) {
			return c.executeRequest(ctx, fullURL)
		})
		resp = out
		return err
	}, isCircuitFailure)
	if err != nil {
		if stderrors.Is(err, resilience.ErrCircuitOpen) {
			c.logger.WarnContext(ctx, "odds api circuit breaker rejected request", "state", c.breaker.State())
			return usecase.ExternalOddsSnapshot{}, fmt.Errorf("%w: odds provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
		return usecase.ExternalOddsSnapshot{}, err
	}

	// Only the top-level array is strict; events and bookmakers decode one by one.
	var rawEvents []json.RawMessage
	if err := sonic.Unmarshal(resp.body, &rawEvents); err != nil {
		return usecase.ExternalOddsSnapshot{}, crerr.Wrap(err, "decode odds payload")
	}

	out := usecase.ExternalOddsSnapshot{
		Events:            make([]usecase.ExternalOddsEvent, 0, len(rawEvents)),
		Raw:               resp.body,
		RequestsRemaining: resp.remaining,
		RequestsUsed:      resp.used,
		FetchedAt:         time.Now().UTC(),
	}
	for idx, raw := range rawEvents {
		event := decodeEvent(raw)
		if event.DecodeError != "" {
			c.logger.WarnContext(ctx, "malformed odds event", "index", idx, "event_id", event.ID, "error", event.DecodeError)
		}
		out.Events = append(out.Events, event)
	}
	return out, nil
}

func (c *Client) oddsURL() string {
	values := url.Values{}
	values.Set("apiKey", c.apiKey)
	values.Set("regions", c.regions)
	values.Set("markets", c.markets)
	values.Set("oddsFormat", defaultOddsFormat)
	if c.bookmakers != "" {
		values.Set("bookmakers", c.bookmakers)
	}
	return c.baseURL + "/sports/" + url.PathEscape(c.sport) + "/odds?" + values.Encode()
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) (oddsResponse, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return oddsResponse{}, err
		}

		resp, retryable, err := c.do(ctx, fullURL)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !retryable || attempt == c.maxRetries {
			break
		}

		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return oddsResponse{}, ctx.Err()
		case <-timer.C:
		}
	}

	c.logger.WarnContext(ctx, "odds api request failed", "url", redactAPIURL(fullURL), "error", lastErr)
	return oddsResponse{}, lastErr
}

func (c *Client) do(ctx context.Context, fullURL string) (oddsResponse, bool, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(fullURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(c.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}

	if err := c.httpClient.DoDeadline(req, resp, deadline); err != nil {
		return oddsResponse{}, true, fmt.Errorf("%w: send request: %s", errOddsAPITransient, sanitizeSensitiveText(err.Error(), c.apiKey))
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	if status < 200 || status >= 300 {
		if isRetryableStatus(status) {
			return oddsResponse{}, true, fmt.Errorf("%w: provider status=%d body=%s", errOddsAPITransient, status, abbreviateBody(body))
		}
		return oddsResponse{}, false, fmt.Errorf("provider status=%d body=%s", status, abbreviateBody(body))
	}

	return oddsResponse{
		body:      body,
		remaining: string(resp.Header.Peek("X-Requests-Remaining")),
		used:      string(resp.Header.Peek("X-Requests-Used")),
	}, false, nil
}

type eventPayload struct {
	ID           string            `json:"id"`
	SportKey     string            `json:"sport_key"`
	CommenceTime string            `json:"commence_time"`
	HomeTeam     string            `json:"home_team"`
	AwayTeam     string            `json:"away_team"`
	Bookmakers   []json.RawMessage `json:"bookmakers"`
}

// eventHeader salvages whatever identity fields a broken event still has.
type eventHeader struct {
	ID       json.RawMessage `json:"id"`
	HomeTeam json.RawMessage `json:"home_team"`
	AwayTeam json.RawMessage `json:"away_team"`
}

type bookmakerPayload struct {
	Key        string            `json:"key"`
	Title      string            `json:"title"`
	LastUpdate string            `json:"last_update"`
	Markets    []json.RawMessage `json:"markets"`
}

type marketPayload struct {
	Key      string           `json:"key"`
	Outcomes []outcomePayload `json:"outcomes"`
}

type outcomePayload struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	Point       *float64 `json:"point"`
}

// decodeEvent never fails: a broken event comes back with DecodeError set, a
// broken bookmaker or market is dropped and listed in Malformed.
func decodeEvent(raw json.RawMessage) usecase.ExternalOddsEvent {
	var payload eventPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		var header eventHeader
		_ = sonic.Unmarshal(raw, &header)
		return usecase.ExternalOddsEvent{
			ID:          rawString(header.ID),
			HomeTeam:    rawString(header.HomeTeam),
			AwayTeam:    rawString(header.AwayTeam),
			DecodeError: "decode event: " + err.Error(),
		}
	}
	return payload.toExternal()
}

// toExternal keeps a malformed commence time as zero; event validation rejects it later.
func (e eventPayload) toExternal() usecase.ExternalOddsEvent {
	out := usecase.ExternalOddsEvent{
		ID:         strings.TrimSpace(e.ID),
		HomeTeam:   strings.TrimSpace(e.HomeTeam),
		AwayTeam:   strings.TrimSpace(e.AwayTeam),
		Bookmakers: make([]market.Bookmaker, 0, len(e.Bookmakers)),
	}
	if parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(e.CommenceTime)); err == nil {
		out.CommenceTime = parsed.UTC()
	}

	for _, raw := range e.Bookmakers {
		var b bookmakerPayload
		if err := sonic.Unmarshal(raw, &b); err != nil {
			var key struct {
				Key json.RawMessage `json:"key"`
			}
			_ = sonic.Unmarshal(raw, &key)
			out.Malformed = append(out.Malformed, usecase.MalformedBlock{
				Bookmaker: rawString(key.Key),
				Reason:    "decode bookmaker: " + err.Error(),
			})
			continue
		}

		bookmaker := market.Bookmaker{
			Key:     strings.TrimSpace(b.Key),
			Title:   strings.TrimSpace(b.Title),
			Markets: make([]market.Market, 0, len(b.Markets)),
		}
		for _, rawMarket := range b.Markets {
			var m marketPayload
			if err := sonic.Unmarshal(rawMarket, &m); err != nil {
				var key struct {
					Key json.RawMessage `json:"key"`
				}
				_ = sonic.Unmarshal(rawMarket, &key)
				out.Malformed = append(out.Malformed, usecase.MalformedBlock{
					Bookmaker: bookmaker.Key,
					Market:    rawString(key.Key),
					Reason:    "decode market: " + err.Error(),
				})
				continue
			}
			mk := market.Market{Key: strings.TrimSpace(m.Key), Outcomes: make([]market.Outcome, 0, len(m.Outcomes))}
			for _, o := range m.Outcomes {
				mk.Outcomes = append(mk.Outcomes, market.Outcome{
					Name:        o.Name,
					Description: o.Description,
					Price:       o.Price,
					Point:       o.Point,
				})
			}
			bookmaker.Markets = append(bookmaker.Markets, mk)
		}
		out.Bookmakers = append(out.Bookmakers, bookmaker)
	}
	return out
}

// rawString returns the trimmed value of a JSON string, or "" for anything else.
func rawString(raw json.RawMessage) string {
	var value string
	if len(raw) == 0 || sonic.Unmarshal(raw, &value) != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

func isCircuitFailure(err error) bool {
	return err != nil && stderrors.Is(err, errOddsAPITransient)
}

func isRetryableStatus(code int) bool {
	return code == fasthttp.StatusTooManyRequests || code >= fasthttp.StatusInternalServerError
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return apiKeyParamRegex.ReplaceAllString(value, "apiKey=REDACTED")
}

func redactAPIURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return apiKeyParamRegex.ReplaceAllString(rawURL, "apiKey=REDACTED")
	}
	query := parsed.Query()
	if query.Has("apiKey") {
		query.Set("apiKey", "REDACTED")
		parsed.RawQuery = query.Encode()
	}
	return parsed.String()
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
