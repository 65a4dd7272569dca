// ABOUTME: WeightEntry model for individual weigh-in measurements.
// ABOUTME: Field names mirror the remote backend's weights table.
package models

import "time"

// WeightEntry is one timestamped measurement belonging to a profile.
type WeightEntry struct {
	ID            string    `json:"id"`
	ProfileID     string    `json:"profile_id"`
	CurrentWeight float64   `json:"current_weight"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// NewLocalWeight creates a weight entry with a locally-issued identifier.
// A zero recordedAt defaults to the current time.
func NewLocalWeight(profileID string, weight float64, recordedAt time.Time) *WeightEntry {
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}
	return &WeightEntry{
		ID:            NewLocalID(),
		ProfileID:     profileID,
		CurrentWeight: weight,
		RecordedAt:    recordedAt,
	}
}

// WeightUpdate carries the fields of a partial weight-entry update.
// Nil means "leave unchanged".
type WeightUpdate struct {
	CurrentWeight *float64   `json:"current_weight,omitempty"`
	RecordedAt    *time.Time `json:"recorded_at,omitempty"`
}

// IsZero reports whether no fields are set.
func (u WeightUpdate) IsZero() bool {
	return u.CurrentWeight == nil && u.RecordedAt == nil
}

// Apply merges the set fields into w.
func (u WeightUpdate) Apply(w *WeightEntry) {
	if u.CurrentWeight != nil {
		w.CurrentWeight = *u.CurrentWeight
	}
	if u.RecordedAt != nil {
		w.RecordedAt = *u.RecordedAt
	}
}
