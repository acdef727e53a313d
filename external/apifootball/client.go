package apifootball

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/riskibarqy/player-rating/internal/domain/squadcache"
	"github.com/riskibarqy/player-rating/internal/platform/logging"
	"github.com/riskibarqy/player-rating/internal/platform/resilience"
	"github.com/riskibarqy/player-rating/internal/usecase"
)

const (
	defaultBaseURL = "https://v3.football.api-sports.io"
	apiKeyHeader   = "x-apisports-key"
	maxBodyBytes   = 4 << 20
)

var errAPIFootballTransient = crerr.New("api-football transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	RatePerMinute  int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
	// RetryBackoff is the base delay between attempts, multiplied by the
	// attempt number. Defaults to one second.
	RetryBackoff time.Duration
}

// Client reads team rosters from API-Football v3.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	maxRetries   int
	retryBackoff time.Duration
	limiter      *rate.Limiter
	logger       *logging.Logger
	breaker      *resilience.Breaker
	flight       singleflight.Group
}

var _ squadcache.Provider = (*Client)(nil)

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
		httpClient.Timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RatePerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RatePerMinute)), 1)
	}

	retryBackoff := cfg.RetryBackoff
	if retryBackoff <= 0 {
		retryBackoff = time.Second
	}

	return &Client{
		httpClient:   httpClient,
		baseURL:      baseURL,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		maxRetries:   max(cfg.MaxRetries, 0),
		retryBackoff: retryBackoff,
		limiter:      limiter,
		logger:       logger,
		breaker:      resilience.NewBreaker("api-football", cfg.CircuitBreaker, isCircuitFailure, logger),
	}
}

// FetchCurrentSquad reads GET /players/squads?team=ID.
func (c *Client) FetchCurrentSquad(ctx context.Context, externalTeamID int64) ([]squadcache.PlayerSummary, error) {
	if externalTeamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload squadsEnvelope
	query := map[string]string{"team": strconv.FormatInt(externalTeamID, 10)}
	if err := c.doJSON(ctx, "/players/squads", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch squad team_id=%d: %w", externalTeamID, err)
	}
	if err := payload.apiError(); err != nil {
		return nil, fmt.Errorf("fetch squad team_id=%d: %w", externalTeamID, err)
	}
	if len(payload.Response) == 0 {
		return []squadcache.PlayerSummary{}, nil
	}

	out := make([]squadcache.PlayerSummary, 0, len(payload.Response[0].Players))
	for _, item := range payload.Response[0].Players {
		out = append(out, squadcache.PlayerSummary{
			Name:     item.Name,
			Age:      item.Age,
			Number:   item.Number,
			Position: item.Position,
			PhotoURL: item.Photo,
		})
	}
	return out, nil
}

// FetchSeasonPlayers reads the first page of GET /players?team=ID&season=S.
// Shirt numbers are not part of this payload.
func (c *Client) FetchSeasonPlayers(ctx context.Context, externalTeamID int64, season int) ([]squadcache.PlayerSummary, error) {
	if externalTeamID <= 0 {
		return nil, fmt.Errorf("%w: team id must be greater than zero", usecase.ErrInvalidInput)
	}
	if season <= 0 {
		return nil, fmt.Errorf("%w: season must be greater than zero", usecase.ErrInvalidInput)
	}

	var payload playersEnvelope
	query := map[string]string{
		"team":   strconv.FormatInt(externalTeamID, 10),
		"season": strconv.Itoa(season),
	}
	if err := c.doJSON(ctx, "/players", query, &payload); err != nil {
		return nil, fmt.Errorf("fetch season players team_id=%d season=%d: %w", externalTeamID, season, err)
	}
	if err := payload.apiError(); err != nil {
		return nil, fmt.Errorf("fetch season players team_id=%d season=%d: %w", externalTeamID, season, err)
	}

	out := make([]squadcache.PlayerSummary, 0, len(payload.Response))
	for _, item := range payload.Response {
		position := ""
		if len(item.Statistics) > 0 {
			position = item.Statistics[0].Games.Position
		}
		out = append(out, squadcache.PlayerSummary{
			Name:     item.Player.Name,
			Age:      item.Player.Age,
			Position: position,
			PhotoURL: item.Player.Photo,
		})
	}
	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}
	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		return resilience.Execute(c.breaker, func() ([]byte, error) {
			return c.executeRequest(ctx, fullURL)
		})
	})
	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.logger.WarnContext(ctx, "api-football circuit breaker rejected request", "state", c.breaker.State())
		return fmt.Errorf("%w: football data provider is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}
	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}
	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("wait for rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set(apiKeyHeader, c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Wrapf(errAPIFootballTransient, "send request: %s", sanitizeSensitiveText(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errAPIFootballTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = crerr.Wrapf(errAPIFootballTransient, "provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, fmt.Errorf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
			}
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt == c.maxRetries {
			break
		}
		timer := time.NewTimer(time.Duration(attempt+1) * c.retryBackoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "api-football request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

func isCircuitFailure(err error) bool {
	return err != nil && crerr.Is(err, errAPIFootballTransient)
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func sanitizeSensitiveText(value, apiKey string) string {
	value = strings.TrimSpace(value)
	if value != "" && apiKey != "" {
		value = strings.ReplaceAll(value, apiKey, "REDACTED")
	}
	return value
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
