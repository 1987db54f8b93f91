package track

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// ENTRY MUTATIONS - adjust and delete with bounded 429 retry
// =============================================================================

const (
	maxAttempts = 5
	adjustDelay = 3 * time.Second
	deleteDelay = 5 * time.Second
)

// AdjustEntry scales one stored entry's duration by factor and re-stamps its
// end as start + original duration, formatted in the working zone. A 429
// retries up to maxAttempts with a fixed delay; any other failure logs and
// abandons this entry without failing the run.
func (c *Client) AdjustEntry(ctx context.Context, workspaceID int64, e Entry, factor float64, loc *time.Location) error {
	start, err := time.Parse(time.RFC3339, e.Start)
	if err != nil {
		return fmt.Errorf("entry %d: invalid start %q: %w", e.ID, e.Start, err)
	}
	stop := start.Add(time.Duration(e.Seconds) * time.Second).In(loc).Format(time.RFC3339)

	payload := map[string]any{
		"duration": int64(factor * float64(e.Seconds)),
		"start":    e.Start,
		"stop":     stop,
	}
	path := fmt.Sprintf("workspaces/%d/time_entries/%d", workspaceID, e.ID)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		_, status, err := c.do(ctx, http.MethodPost, c.apiBase, path, payload)
		if err != nil {
			return err
		}
		switch {
		case status == http.StatusOK:
			return nil
		case status == http.StatusTooManyRequests:
			c.log.Warn("rate limited", zap.Int64("entry", e.ID))
			if err := c.sleep(ctx, adjustDelay); err != nil {
				return err
			}
		default:
			c.log.Error("failed to update entry",
				zap.Int64("entry", e.ID), zap.Int("status", status))
			return nil
		}
	}
	c.log.Error("giving up on entry after repeated rate limiting", zap.Int64("entry", e.ID))
	return nil
}

// DeleteEntry removes one stored entry, with the same retry/skip behavior as
// AdjustEntry but a longer delay.
func (c *Client) DeleteEntry(ctx context.Context, workspaceID int64, e Entry) error {
	path := fmt.Sprintf("workspaces/%d/time_entries/%d", workspaceID, e.ID)

	for attempt := 0; attempt < maxAttempts; attempt++ {
		_, status, err := c.do(ctx, http.MethodDelete, c.apiBase, path, nil)
		if err != nil {
			return err
		}
		switch {
		case status == http.StatusOK:
			return nil
		case status == http.StatusTooManyRequests:
			c.log.Warn("rate limited", zap.Int64("entry", e.ID))
			if err := c.sleep(ctx, deleteDelay); err != nil {
				return err
			}
		default:
			c.log.Error("failed to delete entry",
				zap.Int64("entry", e.ID), zap.Int("status", status))
			return nil
		}
	}
	c.log.Error("giving up on entry after repeated rate limiting", zap.Int64("entry", e.ID))
	return nil
}

// =============================================================================
// HIGH-LEVEL OPERATIONS
// =============================================================================

// EffortParams scope an adjust or delete run.
type EffortParams struct {
	Workspace string
	Project   string
	User      string

	// Since/Until are the inclusive date boundary, YYYY-MM-DD.
	Since string
	Until string
}

// resolve turns the configured names into IDs and fetches matching entries.
func (c *Client) resolve(ctx context.Context, p EffortParams) (int64, []Entry, error) {
	c.log.Info("resolving workspace", zap.String("name", p.Workspace))
	workspaceID, err := c.WorkspaceID(ctx, p.Workspace)
	if err != nil {
		return 0, nil, err
	}
	c.log.Info("resolving project", zap.String("name", p.Project))
	projectID, err := c.ProjectID(ctx, workspaceID, p.Project)
	if err != nil {
		return 0, nil, err
	}
	c.log.Info("resolving user", zap.String("email", p.User))
	userID, err := c.UserID(ctx, workspaceID, p.User)
	if err != nil {
		return 0, nil, err
	}
	entries, err := c.SearchEntries(ctx, workspaceID, projectID, userID, p.Since, p.Until)
	if err != nil {
		return 0, nil, err
	}
	c.log.Info("loaded time entries", zap.Int("count", len(entries)))
	return workspaceID, entries, nil
}

// AdjustEffort scales every matching stored entry's duration by
// percent/100, sequentially.
func (c *Client) AdjustEffort(ctx context.Context, p EffortParams, percent float64, loc *time.Location) error {
	workspaceID, entries, err := c.resolve(ctx, p)
	if err != nil {
		return err
	}
	factor := percent / 100.0
	for _, e := range entries {
		if err := c.AdjustEntry(ctx, workspaceID, e, factor, loc); err != nil {
			return err
		}
	}
	return nil
}

// DeleteEffort removes every matching stored entry, sequentially.
func (c *Client) DeleteEffort(ctx context.Context, p EffortParams) error {
	workspaceID, entries, err := c.resolve(ctx, p)
	if err != nil {
		return err
	}
	for i, e := range entries {
		c.log.Info("deleting entry", zap.Int("index", i+1), zap.Int("total", len(entries)))
		if err := c.DeleteEntry(ctx, workspaceID, e); err != nil {
			return err
		}
	}
	return nil
}
