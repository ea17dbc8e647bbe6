package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"aocbot/internal/models"
	"aocbot/internal/pkg"

	"github.com/gojek/heimdall/v7/httpclient"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const (
	DefaultAocBaseURL   = "https://adventofcode.com"
	DefaultAocUserAgent = "aocbot (+https://github.com/aocbot/aocbot)"
	DefaultAocTimeout   = 10 * time.Second

	maxLeaderboardBody = 16 << 20
)

type AocConfig struct {
	BaseURL       string
	Session       string
	LeaderboardID string
	UserAgent     string
	Timeout       time.Duration
	Now           func() time.Time
}

// AocClient talks to adventofcode.com. It makes exactly one attempt per call
// and never follows redirects, since the redirect target carries the reason a
// private leaderboard was refused.
type AocClient struct {
	config AocConfig
	client *httpclient.Client
}

func NewAocClient(config AocConfig, logger *zap.Logger) *AocClient {
	if config.BaseURL == "" {
		config.BaseURL = DefaultAocBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.UserAgent == "" {
		config.UserAgent = DefaultAocUserAgent
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultAocTimeout
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	doer := &http.Client{
		Timeout: config.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	client := httpclient.NewClient(
		httpclient.WithHTTPClient(doer),
		httpclient.WithRetryCount(0),
	)
	client.AddPlugin(&upstreamPlugin{logger: logger})

	return &AocClient{config, client}
}

func (c *AocClient) BaseURL() string {
	return c.config.BaseURL
}

func (c *AocClient) LeaderboardURL(event string) string {
	return fmt.Sprintf("%s/%s/leaderboard/private/view/%s", c.config.BaseURL, event, c.config.LeaderboardID)
}

func (c *AocClient) FetchLeaderboard(ctx context.Context, event string) (*models.Leaderboard, error) {
	res, err := c.do(ctx, http.MethodGet, c.LeaderboardURL(event)+".json")
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if err := CheckResponse(res.StatusCode, res.Header.Get("Location")).Err(); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxLeaderboardBody))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("read leaderboard %s: %w", event, err)
	}

	lb, err := models.ParseLeaderboard(body)
	if err != nil {
		return nil, err
	}
	if lb.Event != event {
		return nil, fmt.Errorf("%w: asked for event %s, got %s", models.ErrInvalidLeaderboard, event, lb.Event)
	}
	return lb, nil
}

// VerifyLogin checks that the session can view the private leaderboard of the
// current event without downloading it.
func (c *AocClient) VerifyLogin(ctx context.Context) error {
	res, err := c.do(ctx, http.MethodHead, c.LeaderboardURL(pkg.CurrentEvent(c.config.Now())))
	if err != nil {
		return err
	}
	defer res.Body.Close()

	return CheckResponse(res.StatusCode, res.Header.Get("Location")).Err()
}

func (c *AocClient) do(ctx context.Context, method, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.AddCookie(&http.Cookie{Name: "session", Value: c.config.Session})

	timer := prometheus.NewTimer(upstreamRequestDuration.WithLabelValues(method))
	defer timer.ObserveDuration()

	res, err := c.client.Do(req)
	if err != nil {
		// heimdall folds transport errors into a multi error, so cancellation
		// has to be read back from the context.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	return res, nil
}
