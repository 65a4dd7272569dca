// ABOUTME: Profile model for weigh-in participants.
// ABOUTME: Field names mirror the remote backend's profiles table.
package models

import (
	"strings"
	"time"
)

// Profile is a tracked participant with a starting and goal weight.
type Profile struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	BaselineWeight float64   `json:"baseline_weight"`
	GoalWeight     float64   `json:"goal_weight"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewLocalProfile creates a profile with a locally-issued identifier.
// Used when the record is born in the local store rather than the backend.
func NewLocalProfile(name string, baseline, goal float64) *Profile {
	return &Profile{
		ID:             NewLocalID(),
		Name:           strings.TrimSpace(name),
		BaselineWeight: baseline,
		GoalWeight:     goal,
		CreatedAt:      time.Now().UTC(),
	}
}

// ProfileUpdate carries the fields of a partial profile update.
// Nil means "leave unchanged". The struct marshals to a PATCH body
// containing only the set fields.
type ProfileUpdate struct {
	Name           *string  `json:"name,omitempty"`
	BaselineWeight *float64 `json:"baseline_weight,omitempty"`
	GoalWeight     *float64 `json:"goal_weight,omitempty"`
}

// IsZero reports whether no fields are set.
func (u ProfileUpdate) IsZero() bool {
	return u.Name == nil && u.BaselineWeight == nil && u.GoalWeight == nil
}

// Apply merges the set fields into p.
func (u ProfileUpdate) Apply(p *Profile) {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.BaselineWeight != nil {
		p.BaselineWeight = *u.BaselineWeight
	}
	if u.GoalWeight != nil {
		p.GoalWeight = *u.GoalWeight
	}
}
