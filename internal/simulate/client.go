package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const pollInterval = 50 * time.Millisecond

// client talks to the classplay JSON API.
type client struct {
	http    *http.Client
	baseURL string
	replay  bool
	settle  time.Duration
	stats   *Stats
}

func newClient(cfg *Config, stats *Stats) *client {
	return &client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		replay:  cfg.Replay,
		settle:  cfg.Settle,
		stats:   stats,
	}
}

func (c *client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *client) health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *client) catalog(ctx context.Context) (catalog, error) {
	var cat catalog
	err := c.do(ctx, http.MethodGet, "/api/catalog", nil, &cat)
	return cat, err
}

func (c *client) create(ctx context.Context, kind string) (view, error) {
	var v view
	err := c.do(ctx, http.MethodPost, "/api/sessions", map[string]string{"kind": kind}, &v)
	if err == nil {
		c.stats.Sessions.Add(1)
	}
	return v, err
}

func (c *client) get(ctx context.Context, id string) (view, error) {
	var v view
	err := c.do(ctx, http.MethodGet, "/api/sessions/"+id, nil, &v)
	return v, err
}

func (c *client) close(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/sessions/"+id, nil, nil)
}

// act posts a with a fresh action id. With replay on, the same action is
// posted a second time and must come back flagged as a duplicate.
func (c *client) act(ctx context.Context, id string, a action) (view, error) {
	a.ActionID = uuid.NewString()
	var v view
	if err := c.do(ctx, http.MethodPost, "/api/sessions/"+id+"/actions", a, &v); err != nil {
		c.stats.Rejected.Add(1)
		return v, err
	}
	c.stats.Actions.Add(1)

	if c.replay {
		var again view
		if err := c.do(ctx, http.MethodPost, "/api/sessions/"+id+"/actions", a, &again); err != nil {
			return v, fmt.Errorf("replay %s: %w", a.Type, err)
		}
		if !again.Duplicate {
			return v, fmt.Errorf("replay %s: %w", a.Type, ErrNotDeduplicated)
		}
		c.stats.Duplicates.Add(1)
	}
	return v, nil
}

// await polls the session until cond holds or wait elapses.
func (c *client) await(ctx context.Context, id string, wait time.Duration, cond func(view) bool) (view, error) {
	deadline := time.Now().Add(wait)
	for {
		v, err := c.get(ctx, id)
		if err != nil {
			return v, err
		}
		if cond(v) {
			return v, nil
		}
		if time.Now().After(deadline) {
			return v, fmt.Errorf("%w: session %s in phase %q", ErrTimeout, id, v.State.Phase)
		}
		select {
		case <-ctx.Done():
			return v, ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
