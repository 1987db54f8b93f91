package avail

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/warp/effort-engine/generic"
	"github.com/warp/effort-engine/synth"
)

func boundary2023() generic.Period {
	return generic.Period{
		Start: generic.NewTimePoint(2023, time.January, 1),
		End:   generic.NewTimePoint(2023, time.December, 31),
	}
}

func taskJSON(gid, createdAt, email, startOn, dueOn, dueAt string) map[string]any {
	t := map[string]any{"gid": gid, "created_at": createdAt}
	if email != "" {
		t["assignee"] = map[string]any{"email": email}
	}
	if startOn != "" {
		t["start_on"] = startOn
	}
	if dueOn != "" {
		t["due_on"] = dueOn
	}
	if dueAt != "" {
		t["due_at"] = dueAt
	}
	return t
}

func newTestClient(srv *httptest.Server) *Client {
	c := NewClient("token", "ws-1", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	c.limiter = rate.NewLimiter(rate.Inf, 0)
	return c
}

func TestIntervals_PaginatesAndTags(t *testing.T) {
	// Page 1: a ranged vacation and a timed event. Page 2: the repeated
	// cursor task, signalling the end.
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		require.Equal(t, "/workspaces/ws-1/tasks/search", r.URL.Path)
		assert.Equal(t, "Bearer token", r.Header.Get("Authorization"))
		q := r.URL.Query()
		assert.Equal(t, "true", q.Get("completed"))
		assert.Equal(t, "2023-01-01", q.Get("due_on.after"))

		var data []map[string]any
		switch q.Get("created_at.after") {
		case "":
			data = []map[string]any{
				taskJSON("t1", "2023-02-01T00:00:00Z", "Ada@Example.com", "2023-06-01", "2023-06-05", ""),
				taskJSON("t2", "2023-02-02T00:00:00Z", "ada@example.com", "", "2023-06-08", "2023-06-08T17:00"),
			}
		case "2023-02-02T00:00:00Z":
			data = []map[string]any{
				taskJSON("t2", "2023-02-02T00:00:00Z", "ada@example.com", "", "2023-06-08", "2023-06-08T17:00"),
			}
		default:
			t.Fatalf("unexpected cursor %q", q.Get("created_at.after"))
		}
		json.NewEncoder(w).Encode(map[string]any{"data": data})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	got, err := c.Intervals(context.Background(), SearchParams{Boundary: boundary2023()})
	require.NoError(t, err)
	assert.Equal(t, 2, requests)

	intervals := got["ada@example.com"]
	require.Len(t, intervals, 2, "cursor task must be de-duplicated")

	assert.Equal(t, synth.FullDayVacation, intervals[0].Kind)
	assert.Equal(t, "2023-06-01", intervals[0].Start.String())
	assert.Equal(t, "2023-06-05", intervals[0].End.String())

	assert.Equal(t, synth.PartialDayEvent, intervals[1].Kind)
	assert.Equal(t, "2023-06-08", intervals[1].End.String())
}

func TestIntervals_DropsUnusableTasks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("created_at.after") != "" {
			// Repeat the cursor task to terminate pagination.
			json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
				taskJSON("t3", "2023-02-03T00:00:00Z", "ada@example.com", "2024-06-01", "2024-06-01", ""),
			}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
			// No assignee: dropped.
			taskJSON("t1", "2023-02-01T00:00:00Z", "", "2023-06-01", "2023-06-01", ""),
			// Starts after the boundary end: dropped.
			taskJSON("t3", "2023-02-03T00:00:00Z", "ada@example.com", "2024-06-01", "2024-06-01", ""),
		}})
	}))
	defer srv.Close()

	c := newTestClient(srv)
	got, err := c.Intervals(context.Background(), SearchParams{Boundary: boundary2023()})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestIntervals_SearchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"quota"}]}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.Intervals(context.Background(), SearchParams{Boundary: boundary2023()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), fmt.Sprint(http.StatusTooManyRequests))
}
