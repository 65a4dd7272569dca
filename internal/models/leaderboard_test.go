// ABOUTME: Tests for leaderboard derivation.
// ABOUTME: Covers progress math, degenerate goals, ranking stability.
package models

import (
	"testing"
	"time"
)

func TestDeriveLeaderboardProgress(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	profiles := []Profile{
		{ID: "p1", Name: "Alex", BaselineWeight: 80, GoalWeight: 70, CreatedAt: created},
	}
	weights := []WeightEntry{
		{ID: "w1", ProfileID: "p1", CurrentWeight: 78, RecordedAt: created.AddDate(0, 0, 1)},
		{ID: "w2", ProfileID: "p1", CurrentWeight: 75, RecordedAt: created.AddDate(0, 0, 5)},
		{ID: "w3", ProfileID: "p1", CurrentWeight: 76, RecordedAt: created.AddDate(0, 0, 3)},
	}

	entries := DeriveLeaderboard(profiles, weights)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}

	e := entries[0]
	if e.CurrentWeight != 75 {
		t.Errorf("CurrentWeight = %v, want 75 (latest by recorded_at)", e.CurrentWeight)
	}
	if e.WeightLost != 5 {
		t.Errorf("WeightLost = %v, want 5", e.WeightLost)
	}
	if e.PercentageToGoal != 50 {
		t.Errorf("PercentageToGoal = %v, want 50", e.PercentageToGoal)
	}
	if !e.LastRecorded.Equal(created.AddDate(0, 0, 5)) {
		t.Errorf("LastRecorded = %v, want most recent entry time", e.LastRecorded)
	}
}

func TestDeriveLeaderboardDegenerateGoal(t *testing.T) {
	profiles := []Profile{
		{ID: "p1", Name: "Sam", BaselineWeight: 80, GoalWeight: 80, CreatedAt: time.Now()},
	}
	weights := []WeightEntry{
		{ID: "w1", ProfileID: "p1", CurrentWeight: 70, RecordedAt: time.Now()},
	}

	entries := DeriveLeaderboard(profiles, weights)
	if got := entries[0].PercentageToGoal; got != 0 {
		t.Errorf("PercentageToGoal = %v, want 0 for baseline == goal", got)
	}
}

func TestDeriveLeaderboardNoEntries(t *testing.T) {
	created := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	profiles := []Profile{
		{ID: "p1", Name: "Kim", BaselineWeight: 90, GoalWeight: 80, CreatedAt: created},
	}

	entries := DeriveLeaderboard(profiles, nil)
	e := entries[0]
	if e.CurrentWeight != 90 {
		t.Errorf("CurrentWeight = %v, want baseline 90", e.CurrentWeight)
	}
	if e.WeightLost != 0 {
		t.Errorf("WeightLost = %v, want 0", e.WeightLost)
	}
	if e.PercentageToGoal != 0 {
		t.Errorf("PercentageToGoal = %v, want 0", e.PercentageToGoal)
	}
	if !e.LastRecorded.Equal(created) {
		t.Errorf("LastRecorded = %v, want profile created_at", e.LastRecorded)
	}
}

func TestDeriveLeaderboardRanking(t *testing.T) {
	now := time.Now()
	profiles := []Profile{
		{ID: "a", Name: "A", BaselineWeight: 100, GoalWeight: 90, CreatedAt: now},
		{ID: "b", Name: "B", BaselineWeight: 100, GoalWeight: 90, CreatedAt: now},
		{ID: "c", Name: "C", BaselineWeight: 100, GoalWeight: 90, CreatedAt: now},
	}
	weights := []WeightEntry{
		{ID: "w1", ProfileID: "a", CurrentWeight: 97, RecordedAt: now}, // 30%
		{ID: "w2", ProfileID: "b", CurrentWeight: 92, RecordedAt: now}, // 80%
		{ID: "w3", ProfileID: "c", CurrentWeight: 97, RecordedAt: now}, // 30%, ties with a
	}

	entries := DeriveLeaderboard(profiles, weights)
	order := []string{entries[0].ID, entries[1].ID, entries[2].ID}
	want := []string{"b", "a", "c"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("rank order = %v, want %v (descending, ties stable)", order, want)
		}
	}
}

func TestDeriveLeaderboardDeterministic(t *testing.T) {
	now := time.Now()
	profiles := []Profile{
		{ID: "a", BaselineWeight: 100, GoalWeight: 90, CreatedAt: now},
		{ID: "b", BaselineWeight: 100, GoalWeight: 90, CreatedAt: now},
	}
	weights := []WeightEntry{
		{ID: "w1", ProfileID: "a", CurrentWeight: 95, RecordedAt: now},
		{ID: "w2", ProfileID: "b", CurrentWeight: 95, RecordedAt: now},
	}

	first := DeriveLeaderboard(profiles, weights)
	second := DeriveLeaderboard(profiles, weights)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("derivation not idempotent at index %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestDeriveLeaderboardRounding(t *testing.T) {
	now := time.Now()
	profiles := []Profile{
		{ID: "p", BaselineWeight: 90, GoalWeight: 80, CreatedAt: now},
	}
	weights := []WeightEntry{
		// lost 3.333...kg of 10kg -> 33.33%
		{ID: "w", ProfileID: "p", CurrentWeight: 86.66667, RecordedAt: now},
	}

	entries := DeriveLeaderboard(profiles, weights)
	if got := entries[0].PercentageToGoal; got != 33.33 {
		t.Errorf("PercentageToGoal = %v, want 33.33 (two-decimal rounding)", got)
	}
}

func TestLeaderboardEntryProfile(t *testing.T) {
	now := time.Now()
	e := LeaderboardEntry{
		ID: "p1", Name: "Alex", BaselineWeight: 90, GoalWeight: 80,
		CurrentWeight: 85, WeightLost: 5, PercentageToGoal: 50,
		CreatedAt: now,
	}
	p := e.Profile()
	if p.ID != "p1" || p.Name != "Alex" || p.BaselineWeight != 90 || p.GoalWeight != 80 || !p.CreatedAt.Equal(now) {
		t.Errorf("Profile() = %+v, want profile fields from entry", p)
	}
}
