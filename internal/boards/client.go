// Package boards crawls job boards (Greenhouse, Lever, LinkedIn, Indeed)
// into the shared posting model. Board HTML and APIs are flaky, so every
// fetch is best-effort: callers get an empty result rather than an error
// for anything short of a local failure.
package boards

import (
	"context"
	"encoding/json"
	"io"
	"math/rand"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultUserAgent = "job-copilot/1.0 (+https://github.com/AlbertoRoca96/job-copilot)"

	// browserUserAgent is sent to boards that refuse non-browser clients.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
		"(KHTML, like Gecko) Chrome/125.0 Safari/537.36"

	maxRetries     = 4
	backoffInitial = 600 * time.Millisecond
)

// sleep is swapped out in tests.
var sleep = time.Sleep

// Client is the shared fetcher for all board crawlers: one retry/backoff
// policy, one politeness delay, one user agent.
type Client struct {
	ctx        context.Context
	logger     *zap.Logger
	HTTPClient *http.Client
	UserAgent  string
}

// NewClient returns a Client with the default timeout and user agent.
func NewClient(ctx context.Context, logger *zap.Logger) *Client {
	return &Client{
		ctx:    ctx,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		UserAgent: defaultUserAgent,
	}
}

// GetText fetches a URL and returns its body, or "" on any failure.
func (c *Client) GetText(url string) string {
	return c.getText(url, c.UserAgent)
}

// GetBrowserText fetches a URL with a browser user agent. LinkedIn and
// Indeed serve empty shells to bot agents.
func (c *Client) GetBrowserText(url string) string {
	return c.getText(url, browserUserAgent)
}

// GetJSON fetches a URL and decodes its JSON body into out. Returns false
// on any failure.
func (c *Client) GetJSON(url string, out any) bool {
	body := c.getText(url, c.UserAgent)
	if body == "" {
		return false
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		c.logger.Debug("board response is not valid json", zap.String("url", url), zap.Error(err))
		return false
	}
	return true
}

func (c *Client) getText(url, userAgent string) string {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.Debug("build board request", zap.String("url", url), zap.Error(err))
		return ""
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/json;q=0.9,*/*;q=0.8")

	backoff := backoffInitial
	for attempt := 0; ; attempt++ {
		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			c.logger.Debug("board request failed", zap.String("url", url), zap.Error(err))
			return ""
		}

		if retryableStatus(resp.StatusCode) && attempt < maxRetries {
			resp.Body.Close()
			c.logger.Debug("retrying board request",
				zap.String("url", url),
				zap.Int("status", resp.StatusCode),
				zap.Int("attempt", attempt+1),
			)
			sleep(backoff)
			backoff *= 2
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 400 {
			c.logger.Debug("board request rejected", zap.String("url", url), zap.Int("status", resp.StatusCode))
			return ""
		}
		if readErr != nil {
			c.logger.Debug("read board response", zap.String("url", url), zap.Error(readErr))
			return ""
		}

		sleepJitter()
		return string(body)
	}
}

func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// sleepJitter pauses between requests so boards don't rate limit us.
func sleepJitter() {
	min, max := 120, 380
	sleep(time.Duration(min+rand.Intn(max-min)) * time.Millisecond)
}
