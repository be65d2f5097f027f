// Package supabase is a minimal REST client for the profiles, boards and
// jobs tables. It speaks PostgREST conventions directly: query-string
// filters, Prefer headers, bulk upserts with on_conflict.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/jobcopilot/jobcopilot/internal/job"
	"github.com/jobcopilot/jobcopilot/internal/profile"
)

const (
	contentType = "application/json"

	// upsertChunk keeps bulk payloads small enough for the REST gateway.
	upsertChunk = 500
)

// Client talks to one Supabase project with the service-role key.
type Client struct {
	ctx        context.Context
	key        string
	logger     *zap.Logger
	HTTPClient *http.Client
	BaseURL    string
}

// New creates a Client for the project at baseURL.
func New(ctx context.Context, logger *zap.Logger, baseURL, serviceKey string) *Client {
	return &Client{
		ctx:     ctx,
		key:     serviceKey,
		logger:  logger,
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Board is one row of the crawl registry.
type Board struct {
	Source string `json:"source"`
	Slug   string `json:"slug"`
}

// jobRow is the persisted shape of a posting.
type jobRow struct {
	UserID      string         `json:"user_id"`
	Source      string         `json:"source"`
	SourceSlug  string         `json:"source_slug,omitempty"`
	URL         string         `json:"url"`
	URLHash     string         `json:"url_hash"`
	Title       string         `json:"title"`
	Company     string         `json:"company,omitempty"`
	Location    string         `json:"location,omitempty"`
	Description string         `json:"description,omitempty"`
	PostedAt    string         `json:"posted_at,omitempty"`
	Meta        map[string]any `json:"meta"`
}

// Profile fetches the user's profile row. A missing row yields an empty
// profile, not an error, matching the tolerance of everything downstream.
func (c *Client) Profile(userID string) (*profile.Profile, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/profiles?id=eq.%s&select=*", c.BaseURL, url.QueryEscape(userID))

	var rows []map[string]any
	if err := c.get(endpoint, &rows); err != nil {
		return nil, fmt.Errorf("fetch profile: %w", err)
	}
	if len(rows) == 0 {
		c.logger.Warn("no profile row for user", zap.String("user_id", userID))
		return profile.FromMap(nil), nil
	}
	return profile.FromMap(rows[0]), nil
}

// PatchProfile updates the given profile fields in place. Used by the
// resume parser to push mined skills and contact details.
func (c *Client) PatchProfile(userID string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	endpoint := fmt.Sprintf("%s/rest/v1/profiles?id=eq.%s", c.BaseURL, url.QueryEscape(userID))
	if err := c.send(http.MethodPatch, endpoint, fields, "return=minimal"); err != nil {
		return fmt.Errorf("patch profile: %w", err)
	}
	return nil
}

// Boards returns the enabled crawl registry rows.
func (c *Client) Boards() ([]Board, error) {
	endpoint := c.BaseURL + "/rest/v1/boards?enabled=eq.true&select=source,slug"

	var rows []map[string]any
	if err := c.get(endpoint, &rows); err != nil {
		return nil, fmt.Errorf("fetch boards: %w", err)
	}

	var boards []Board
	if err := mapstructure.Decode(rows, &boards); err != nil {
		return nil, fmt.Errorf("decode boards: %w", err)
	}
	return boards, nil
}

// UpdateBoardStatus records the outcome of crawling one board. Failures
// here are logged, not returned: status bookkeeping must never abort a
// crawl.
func (c *Client) UpdateBoardStatus(source, slug, status, errMsg string) {
	endpoint := fmt.Sprintf("%s/rest/v1/boards?source=eq.%s&slug=eq.%s",
		c.BaseURL, url.QueryEscape(source), url.QueryEscape(slug))

	payload := map[string]any{
		"status":          status,
		"error":           nil,
		"last_crawled_at": time.Now().UTC().Format(time.RFC3339),
	}
	if errMsg != "" {
		payload["error"] = errMsg
	}

	if err := c.send(http.MethodPatch, endpoint, payload, "return=minimal"); err != nil {
		c.logger.Warn("update board status failed",
			zap.String("source", source),
			zap.String("slug", slug),
			zap.Error(err),
		)
	}
}

// UpsertJobs bulk-writes postings for the user, chunked, with
// merge-duplicates resolution on (user_id, url_hash).
func (c *Client) UpsertJobs(userID string, jobs *job.Jobs) error {
	if jobs.Len() == 0 {
		return nil
	}

	rows := make([]jobRow, 0, jobs.Len())
	for _, j := range jobs.Items {
		row := jobRow{
			UserID:      userID,
			Source:      j.Source,
			URL:         j.URL,
			URLHash:     j.URLHash(),
			Title:       j.Title,
			Company:     j.Company,
			Location:    j.Location,
			Description: j.Description,
			PostedAt:    j.PostedAt,
			Meta:        j.Extras,
		}
		if row.Meta == nil {
			row.Meta = map[string]any{}
		}
		// Company-scoped boards use the company field as their slug.
		if j.Source == "greenhouse" || j.Source == "lever" {
			row.SourceSlug = j.Company
		}
		rows = append(rows, row)
	}

	endpoint := c.BaseURL + "/rest/v1/jobs?on_conflict=user_id,url_hash"
	for start := 0; start < len(rows); start += upsertChunk {
		end := start + upsertChunk
		if end > len(rows) {
			end = len(rows)
		}
		if err := c.send(http.MethodPost, endpoint, rows[start:end], "resolution=merge-duplicates"); err != nil {
			return fmt.Errorf("upsert jobs [%d:%d]: %w", start, end, err)
		}
	}

	c.logger.Info("upserted jobs", zap.String("user_id", userID), zap.Int("count", len(rows)))
	return nil
}

func (c *Client) get(endpoint string, out any) error {
	req, err := http.NewRequestWithContext(c.ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, "")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bad status: %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) send(method, endpoint string, payload any, prefer string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(c.ctx, method, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	c.setHeaders(req, prefer)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bad status: %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, prefer string) {
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", contentType)
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
}
