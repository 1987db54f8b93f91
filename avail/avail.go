/*
Package avail sources absence intervals from a task-tracking workspace
instead of an HR export.

PURPOSE:

	Searches a workspace's completed availability tasks (vacation / not-able-
	to-work sections), pages through the search API, and yields the same
	tagged per-person interval map the roster loader produces.

PAGINATION:

	The search endpoint has no page token; the client cursors forward on the
	created_at of the last task of each page and stops when a page collapses
	to a single already-seen task. Results are de-duplicated by task gid.

RATE LIMITING:

	The search API allows 60 requests per minute. A token-bucket limiter is
	awaited before every request so long backfills pace themselves instead of
	tripping the quota.

SEE ALSO:
  - roster/timeoff.go: the CSV-based alternative source and interval tagging
*/
package avail

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/warp/effort-engine/generic"
	"github.com/warp/effort-engine/roster"
	"github.com/warp/effort-engine/synth"
)

const (
	defaultBaseURL = "https://app.asana.com/api/1.0"
	pageSize       = 100
	searchPerMin   = 60
)

// Client queries one workspace's availability tasks.
type Client struct {
	baseURL    string
	token      string
	workspace  string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *zap.Logger
}

// Option customizes a Client.
type Option func(*Client)

func WithBaseURL(u string) Option          { return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") } }
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }
func WithLogger(l *zap.Logger) Option      { return func(c *Client) { c.log = l } }

// NewClient builds a client for one workspace.
func NewClient(token, workspace string, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		token:      token,
		workspace:  workspace,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(time.Minute/searchPerMin), 1),
		log:        zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type task struct {
	GID       string `json:"gid"`
	CreatedAt string `json:"created_at"`
	StartOn   string `json:"start_on"`
	DueOn     string `json:"due_on"`
	DueAt     string `json:"due_at"`
	Assignee  *struct {
		Email string `json:"email"`
	} `json:"assignee"`
}

// SearchParams scope an interval search.
type SearchParams struct {
	Boundary generic.Period

	// Projects and Sections are comma-separated gid lists narrowing the
	// search to the availability project's vacation sections.
	Projects string
	Sections string
}

// Intervals pages through the workspace search and returns tagged absence
// intervals grouped per lowercased assignee email. Tasks without an
// assignee email or starting after the boundary end are dropped.
func (c *Client) Intervals(ctx context.Context, params SearchParams) (map[string][]synth.Interval, error) {
	tasks, err := c.searchAll(ctx, params)
	if err != nil {
		return nil, err
	}

	before := params.Boundary.End.String()
	out := make(map[string][]synth.Interval)
	for _, t := range tasks {
		if t.Assignee == nil || t.Assignee.Email == "" {
			continue
		}
		start := firstNonEmpty(t.StartOn, t.DueAt, t.DueOn)
		end := firstNonEmpty(t.DueAt, t.DueOn)
		if start == "" || end == "" {
			continue
		}
		// Date-string comparison is safe: both sides are YYYY-MM-DD prefixed.
		if firstNonEmpty(t.StartOn, t.DueOn) > before {
			continue
		}
		iv, err := roster.TagInterval(start, end)
		if err != nil {
			c.log.Warn("skipping malformed availability task",
				zap.String("gid", t.GID), zap.Error(err))
			continue
		}
		email := strings.ToLower(t.Assignee.Email)
		out[email] = append(out[email], iv)
	}
	return out, nil
}

// searchAll cursors through the search endpoint until a page collapses to a
// single repeated task.
func (c *Client) searchAll(ctx context.Context, params SearchParams) ([]task, error) {
	var (
		all       []task
		seen      = make(map[string]bool)
		createdAt string
		lastGID   string
	)
	for {
		page, err := c.searchPage(ctx, params, createdAt)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		last := page[len(page)-1]
		if len(page) == 1 && last.GID == lastGID {
			break
		}
		createdAt = last.CreatedAt
		lastGID = last.GID
		for _, t := range page {
			if !seen[t.GID] {
				seen[t.GID] = true
				all = append(all, t)
			}
		}
	}
	return all, nil
}

func (c *Client) searchPage(ctx context.Context, params SearchParams, createdAfter string) ([]task, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("completed", "true")
	q.Set("is_subtask", "false")
	q.Set("sort_by", "created_at")
	q.Set("sort_ascending", "true")
	q.Set("opt_fields", "assignee.email,start_on,due_on,due_at,created_at")
	q.Set("limit", fmt.Sprint(pageSize))
	q.Set("due_on.after", params.Boundary.Start.String())
	if params.Projects != "" {
		q.Set("projects.all", params.Projects)
	}
	if params.Sections != "" {
		q.Set("sections.any", params.Sections)
	}
	if createdAfter != "" {
		q.Set("created_at.after", createdAfter)
	}

	u := fmt.Sprintf("%s/workspaces/%s/tasks/search?%s", c.baseURL, c.workspace, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("availability search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("availability search returned %d: %s", resp.StatusCode, string(raw))
	}

	var body struct {
		Data []task `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return body.Data, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
