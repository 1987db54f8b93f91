/*
Package track talks to the time-tracking service's HTTP API.

PURPOSE:

	Resolves workspace/project/user names to IDs, fetches stored time entries
	through the reports search endpoint, and applies adjustments (scaling a
	stored entry's duration, or deleting it) with bounded retry on rate
	limiting.

ERROR MODEL:
  - Lookup failures (unknown workspace/project/user) are fatal: the caller
    gets a named sentinel error carrying the failed identifier.
  - HTTP 429 on a single entry's update/delete retries up to 5 times with a
    fixed delay; after exhaustion the entry is skipped with a logged message.
  - Any other non-success status on a single entry logs and skips it.
  - Non-JSON response bodies are tolerated: the payload is treated as absent
    and the HTTP status drives control flow.

SEE ALSO:
  - entries.go: the adjust/delete operations over fetched entries
*/
package track

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	defaultAPIBase     = "https://api.track.toggl.com/api/v9/"
	defaultReportsBase = "https://api.track.toggl.com/reports/api/v3/"

	userAgent = "effort-engine"
)

// Client is the tracking-service HTTP client.
type Client struct {
	apiBase     string
	reportsBase string
	token       string
	httpClient  *http.Client
	log         *zap.Logger

	// sleep is swapped out in tests so retry backoff doesn't wall-clock.
	sleep func(context.Context, time.Duration) error
}

// Option customizes a Client.
type Option func(*Client)

func WithBaseURLs(api, reports string) Option {
	return func(c *Client) { c.apiBase, c.reportsBase = api, reports }
}
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.httpClient = h } }
func WithLogger(l *zap.Logger) Option      { return func(c *Client) { c.log = l } }

// New builds a client authenticating with the given API token.
func New(token string, opts ...Option) *Client {
	c := &Client{
		apiBase:     defaultAPIBase,
		reportsBase: defaultReportsBase,
		token:       token,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		log:         zap.NewNop(),
		sleep:       sleepCtx,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// do performs one API call and returns the raw body plus status. A body that
// fails to decode as JSON is returned as nil data without error; callers
// branch on status.
func (c *Client) do(ctx context.Context, method, base, path string, payload any) (json.RawMessage, int, error) {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, base+path, body)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.token + ":api_token"))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("call tracking API: %w", err)
	}
	defer resp.Body.Close()

	var data json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		// Tolerated: empty or non-JSON body, status carries the outcome.
		data = nil
	}
	return data, resp.StatusCode, nil
}

// =============================================================================
// LOOKUPS - name -> ID resolution
// =============================================================================

// WorkspaceID resolves a workspace name.
func (c *Client) WorkspaceID(ctx context.Context, name string) (int64, error) {
	data, status, err := c.do(ctx, http.MethodGet, c.apiBase, "workspaces", nil)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, &StatusError{Operation: "list workspaces", Status: status}
	}
	var workspaces []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &workspaces); err != nil {
		return 0, fmt.Errorf("decode workspaces: %w", err)
	}
	for _, w := range workspaces {
		if w.Name == name {
			return w.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrWorkspaceNotFound, name)
}

// ProjectID resolves a project name within a workspace.
func (c *Client) ProjectID(ctx context.Context, workspaceID int64, name string) (int64, error) {
	path := fmt.Sprintf("workspaces/%d/projects", workspaceID)
	data, status, err := c.do(ctx, http.MethodGet, c.apiBase, path, nil)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, &StatusError{Operation: "list projects", Status: status}
	}
	var projects []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &projects); err != nil {
		return 0, fmt.Errorf("decode projects: %w", err)
	}
	for _, p := range projects {
		if p.Name == name {
			return p.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrProjectNotFound, name)
}

// UserID resolves a user email within a workspace.
func (c *Client) UserID(ctx context.Context, workspaceID int64, email string) (int64, error) {
	path := fmt.Sprintf("workspaces/%d/users", workspaceID)
	data, status, err := c.do(ctx, http.MethodGet, c.apiBase, path, nil)
	if err != nil {
		return 0, err
	}
	if status != http.StatusOK {
		return 0, &StatusError{Operation: "list users", Status: status}
	}
	var users []struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(data, &users); err != nil {
		return 0, fmt.Errorf("decode users: %w", err)
	}
	for _, u := range users {
		if u.Email == email {
			return u.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUserNotFound, email)
}

// =============================================================================
// ENTRY SEARCH
// =============================================================================

// Entry is one stored time entry.
type Entry struct {
	ID      int64  `json:"id"`
	Start   string `json:"start"`
	Seconds int64  `json:"seconds"`
}

// SearchEntries fetches the user's entries for the project within the date
// boundary via the reports search endpoint.
func (c *Client) SearchEntries(ctx context.Context, workspaceID, projectID, userID int64, since, until string) ([]Entry, error) {
	path := fmt.Sprintf("workspace/%d/search/time_entries", workspaceID)
	payload := map[string]any{
		"start_date":  since,
		"end_date":    until,
		"page_size":   2000,
		"project_ids": []int64{projectID},
		"user_ids":    []int64{userID},
	}
	data, status, err := c.do(ctx, http.MethodPost, c.reportsBase, path, payload)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &StatusError{Operation: "search time entries", Status: status}
	}
	var groups []struct {
		TimeEntries []Entry `json:"time_entries"`
	}
	if err := json.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("decode time entries: %w", err)
	}
	var entries []Entry
	for _, g := range groups {
		entries = append(entries, g.TimeEntries...)
	}
	return entries, nil
}
