// ABOUTME: Tests for the remote gateway against a stub HTTP backend.
// ABOUTME: Covers request shapes, error mapping, probe, and the change feed.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harperreed/weighin/internal/models"
)

func TestInsertProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rest/v1/profiles" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("apikey"); got != "test-key" {
			t.Errorf("apikey header = %q", got)
		}
		if got := r.Header.Get("Prefer"); got != "return=representation" {
			t.Errorf("Prefer header = %q", got)
		}

		var rows []map[string]any
		if err := json.NewDecoder(r.Body).Decode(&rows); err != nil || len(rows) != 1 {
			t.Fatalf("bad insert body: %v (%d rows)", err, len(rows))
		}
		if rows[0]["name"] != "Alex" {
			t.Errorf("name = %v, want Alex (trimmed)", rows[0]["name"])
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"id":"abc-123","name":"Alex","baseline_weight":90,"goal_weight":80,"created_at":"2026-01-01T00:00:00Z"}]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key")
	p, err := c.InsertProfile(context.Background(), "  Alex ", 90, 80)
	if err != nil {
		t.Fatalf("InsertProfile failed: %v", err)
	}
	if p.ID != "abc-123" {
		t.Errorf("ID = %q, want backend-issued abc-123", p.ID)
	}
}

func TestInsertWeightDefaultsDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rows []map[string]any
		_ = json.NewDecoder(r.Body).Decode(&rows)
		if rows[0]["recorded_at"] == "" || rows[0]["recorded_at"] == nil {
			t.Error("recorded_at not defaulted")
		}
		fmt.Fprint(w, `[{"id":"w-1","profile_id":"p-1","current_weight":85,"recorded_at":"2026-01-01T00:00:00Z"}]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	w, err := c.InsertWeight(context.Background(), "p-1", 85, time.Time{})
	if err != nil {
		t.Fatalf("InsertWeight failed: %v", err)
	}
	if w.ID != "w-1" {
		t.Errorf("ID = %q", w.ID)
	}
}

func TestUpdateProfileSendsOnlySetFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s, want PATCH", r.Method)
		}
		if got := r.URL.Query().Get("id"); got != "eq.p-1" {
			t.Errorf("id filter = %q", got)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body) != 1 || body["goal_weight"] != 78.0 {
			t.Errorf("patch body = %v, want only goal_weight", body)
		}
		fmt.Fprint(w, `[{"id":"p-1","name":"Alex","baseline_weight":90,"goal_weight":78,"created_at":"2026-01-01T00:00:00Z"}]`)
	}))
	defer srv.Close()

	goal := 78.0
	c := NewClient(srv.URL, "k")
	p, err := c.UpdateProfile(context.Background(), "p-1", models.ProfileUpdate{GoalWeight: &goal})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if p.GoalWeight != 78 {
		t.Errorf("GoalWeight = %v", p.GoalWeight)
	}
}

func TestUpdateNoMatchIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	v := 80.0
	c := NewClient(srv.URL, "k")
	if _, err := c.UpdateWeight(context.Background(), "missing", models.WeightUpdate{CurrentWeight: &v}); err == nil {
		t.Fatal("expected error for empty match")
	}
}

func TestDeleteProfileRemovesWeightsFirst(t *testing.T) {
	var order []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, r.URL.Path+"?"+r.URL.RawQuery)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	if err := c.DeleteProfile(context.Background(), "p-1"); err != nil {
		t.Fatalf("DeleteProfile failed: %v", err)
	}
	if len(order) != 2 {
		t.Fatalf("expected 2 requests, got %v", order)
	}
	if order[0] != "/rest/v1/weights?profile_id=eq.p-1" {
		t.Errorf("first request = %s, want weights delete", order[0])
	}
	if order[1] != "/rest/v1/profiles?id=eq.p-1" {
		t.Errorf("second request = %s, want profile delete", order[1])
	}
}

func TestFetchWeightHistoryQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("profile_id") != "eq.p-1" || q.Get("order") != "recorded_at.desc" {
			t.Errorf("query = %v", q)
		}
		fmt.Fprint(w, `[{"id":"w-1","profile_id":"p-1","current_weight":85,"recorded_at":"2026-01-02T00:00:00Z"}]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	entries, err := c.FetchWeightHistory(context.Background(), "p-1")
	if err != nil {
		t.Fatalf("FetchWeightHistory failed: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "w-1" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestErrorCarriesBackendPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message":"duplicate key"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	_, err := c.InsertProfile(context.Background(), "Alex", 90, 80)
	var remoteErr *Error
	if !errors.As(err, &remoteErr) {
		t.Fatalf("err = %v, want *Error", err)
	}
	if remoteErr.Status != http.StatusConflict {
		t.Errorf("Status = %d", remoteErr.Status)
	}
	if remoteErr.Message != `{"message":"duplicate key"}` {
		t.Errorf("Message = %q", remoteErr.Message)
	}
}

func TestProbeLiveness(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead || r.URL.Path != "/rest/v1/" {
			t.Errorf("probe request = %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "k")
	if !c.ProbeLiveness(context.Background()) {
		t.Error("probe false for healthy backend")
	}

	status.Store(http.StatusInternalServerError)
	if c.ProbeLiveness(context.Background()) {
		t.Error("probe true for failing backend")
	}

	srv.Close()
	if c.ProbeLiveness(context.Background()) {
		t.Error("probe true for unreachable backend")
	}
}

func TestSubscribeDeliversChanges(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/realtime/v1/changes" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fl := w.(http.Flusher)
		fmt.Fprint(w, "data: {\"table\":\"weights\",\"event\":\"insert\"}\n\n")
		fl.Flush()
		fmt.Fprint(w, "data: {\"table\":\"profiles\",\"event\":\"delete\"}\n\n")
		fl.Flush()
		<-r.Context().Done()
	}))
	defer srv.Close()

	changes := make(chan Change, 2)
	c := NewClient(srv.URL, "k")
	sub, err := c.Subscribe(context.Background(), func(ch Change) { changes <- ch })
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Close()

	for _, want := range []Change{{Table: "weights", Event: "insert"}, {Table: "profiles", Event: "delete"}} {
		select {
		case got := <-changes:
			if got != want {
				t.Errorf("change = %+v, want %+v", got, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for change")
		}
	}
}

func TestSubscribeRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "bad-key")
	if _, err := c.Subscribe(context.Background(), func(Change) {}); err == nil {
		t.Fatal("expected error for rejected subscription")
	}
}
