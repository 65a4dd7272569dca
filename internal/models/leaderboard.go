// ABOUTME: Leaderboard derivation from profiles and weight entries.
// ABOUTME: Pure computation, identical for local and remote data.
package models

import (
	"math"
	"sort"
	"time"
)

// LeaderboardEntry combines a profile with its most recent weight and
// computed progress. When online the backend's leaderboard view returns
// the same shape precomputed.
type LeaderboardEntry struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	BaselineWeight   float64   `json:"baseline_weight"`
	GoalWeight       float64   `json:"goal_weight"`
	CurrentWeight    float64   `json:"current_weight"`
	WeightLost       float64   `json:"weight_lost"`
	PercentageToGoal float64   `json:"percentage_to_goal"`
	LastRecorded     time.Time `json:"last_recorded"`
	CreatedAt        time.Time `json:"created_at"`
}

// Profile returns the profile fields embedded in the entry. Used to
// snapshot a remotely-fetched leaderboard into the local store.
func (e LeaderboardEntry) Profile() Profile {
	return Profile{
		ID:             e.ID,
		Name:           e.Name,
		BaselineWeight: e.BaselineWeight,
		GoalWeight:     e.GoalWeight,
		CreatedAt:      e.CreatedAt,
	}
}

// DeriveLeaderboard ranks profiles by progress toward their goal.
//
// For each profile the entry with the latest RecordedAt supplies the
// current weight; a profile with no entries sits at its baseline with
// LastRecorded falling back to CreatedAt. Progress is
// lost/(baseline-goal)*100, rounded to two decimals, and defined as 0
// for a degenerate goal (baseline == goal). The sort is stable and
// descending, so ties keep input order and repeated derivation over
// unchanged input yields identical output.
//
// Progress is not clamped to [0,100] here; clamping is a display concern.
func DeriveLeaderboard(profiles []Profile, weights []WeightEntry) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(profiles))
	for _, p := range profiles {
		var latest *WeightEntry
		for i := range weights {
			w := &weights[i]
			if w.ProfileID != p.ID {
				continue
			}
			if latest == nil || w.RecordedAt.After(latest.RecordedAt) {
				latest = w
			}
		}

		current := p.BaselineWeight
		last := p.CreatedAt
		if latest != nil {
			current = latest.CurrentWeight
			last = latest.RecordedAt
		}

		lost := p.BaselineWeight - current
		pct := 0.0
		if p.BaselineWeight != p.GoalWeight {
			pct = round2(lost * 100 / (p.BaselineWeight - p.GoalWeight))
		}

		entries = append(entries, LeaderboardEntry{
			ID:               p.ID,
			Name:             p.Name,
			BaselineWeight:   p.BaselineWeight,
			GoalWeight:       p.GoalWeight,
			CurrentWeight:    current,
			WeightLost:       lost,
			PercentageToGoal: pct,
			LastRecorded:     last,
			CreatedAt:        p.CreatedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].PercentageToGoal > entries[j].PercentageToGoal
	})
	return entries
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
