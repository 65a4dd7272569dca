// ABOUTME: HTTP gateway for the hosted backend's profiles/weights tables.
// ABOUTME: Thin row CRUD plus the precomputed leaderboard view and a liveness probe.
package remote

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

	"github.com/harperreed/weighin/internal/models"
)

const (
	restPath     = "/rest/v1/"
	dataTimeout  = 10 * time.Second
	probeTimeout = 3 * time.Second
)

// Error is a non-success response from the backend, carrying whatever
// payload it sent back.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("remote backend: %s (status %d)", e.Message, e.Status)
}

// Client issues CRUD requests against the backend's REST surface.
// It never retries; failure policy lives in the hybrid service.
type Client struct {
	baseURL string
	apiKey  string
	hc      *http.Client
	probeHC *http.Client
	// streaming responses must not be killed by the data timeout
	streamHC *http.Client
}

// NewClient creates a gateway for the backend at baseURL.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		hc:       &http.Client{Timeout: dataTimeout},
		probeHC:  &http.Client{Timeout: probeTimeout},
		streamHC: &http.Client{},
	}
}

// FetchLeaderboard reads the backend's precomputed leaderboard view.
// Ranking fields are trusted as returned, not recomputed.
func (c *Client) FetchLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	q := url.Values{"select": {"*"}}
	if err := c.do(ctx, http.MethodGet, "leaderboard", q, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FetchWeightHistory reads one profile's weight entries, newest first.
func (c *Client) FetchWeightHistory(ctx context.Context, profileID string) ([]models.WeightEntry, error) {
	var entries []models.WeightEntry
	q := url.Values{
		"select":     {"*"},
		"profile_id": {"eq." + profileID},
		"order":      {"recorded_at.desc"},
	}
	if err := c.do(ctx, http.MethodGet, "weights", q, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// InsertProfile creates a profile row and returns it with its
// backend-issued identifier.
func (c *Client) InsertProfile(ctx context.Context, name string, baseline, goal float64) (*models.Profile, error) {
	body := []map[string]any{{
		"name":            strings.TrimSpace(name),
		"baseline_weight": baseline,
		"goal_weight":     goal,
	}}
	return insertOne[models.Profile](ctx, c, "profiles", body)
}

// InsertWeight creates a weight row. A zero recordedAt defaults to now.
func (c *Client) InsertWeight(ctx context.Context, profileID string, weight float64, recordedAt time.Time) (*models.WeightEntry, error) {
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	body := []map[string]any{{
		"profile_id":     profileID,
		"current_weight": weight,
		"recorded_at":    recordedAt.Format(time.RFC3339),
	}}
	return insertOne[models.WeightEntry](ctx, c, "weights", body)
}

// UpdateProfile patches the set fields of one profile row.
func (c *Client) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.Profile, error) {
	return updateOne[models.Profile](ctx, c, "profiles", id, upd)
}

// UpdateWeight patches the set fields of one weight row.
func (c *Client) UpdateWeight(ctx context.Context, id string, upd models.WeightUpdate) (*models.WeightEntry, error) {
	return updateOne[models.WeightEntry](ctx, c, "weights", id, upd)
}

// DeleteProfile removes a profile row and its weight rows. Weights go
// first so the backend's foreign key never dangles.
func (c *Client) DeleteProfile(ctx context.Context, id string) error {
	q := url.Values{"profile_id": {"eq." + id}}
	if err := c.do(ctx, http.MethodDelete, "weights", q, nil, nil); err != nil {
		return err
	}
	q = url.Values{"id": {"eq." + id}}
	return c.do(ctx, http.MethodDelete, "profiles", q, nil, nil)
}

// DeleteWeight removes one weight row.
func (c *Client) DeleteWeight(ctx context.Context, id string) error {
	q := url.Values{"id": {"eq." + id}}
	return c.do(ctx, http.MethodDelete, "weights", q, nil, nil)
}

// ProbeLiveness reports whether the backend answers a lightweight
// request. It never returns an error; any failure means offline.
func (c *Client) ProbeLiveness(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+restPath, nil)
	if err != nil {
		return false
	}
	c.setAuth(req)
	resp, err := c.probeHC.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < http.StatusBadRequest
}

func insertOne[T any](ctx context.Context, c *Client, table string, body any) (*T, error) {
	var rows []T
	if err := c.do(ctx, http.MethodPost, table, nil, body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &Error{Status: http.StatusOK, Message: "insert returned no row"}
	}
	return &rows[0], nil
}

func updateOne[T any](ctx context.Context, c *Client, table, id string, upd any) (*T, error) {
	var rows []T
	q := url.Values{"id": {"eq." + id}}
	if err := c.do(ctx, http.MethodPatch, table, q, upd, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, &Error{Status: http.StatusNotFound, Message: "no row matched id " + id}
	}
	return &rows[0], nil
}

// do performs one request. Non-2xx responses become *Error with the
// backend's payload as the message.
func (c *Client) do(ctx context.Context, method, table string, query url.Values, body, out any) error {
	u := c.baseURL + restPath + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	c.setAuth(req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method == http.MethodPost || method == http.MethodPatch {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := strings.TrimSpace(string(payload))
		if msg == "" {
			msg = resp.Status
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", table, err)
	}
	return nil
}

func (c *Client) setAuth(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}
