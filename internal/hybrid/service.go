// ABOUTME: Hybrid data service, the sole read/write entry point.
// ABOUTME: Decides online/offline per call, replicates writes, falls back transparently.
package hybrid

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/harperreed/weighin/internal/models"
	"github.com/harperreed/weighin/internal/remote"
)

// ErrNotFound reports an update or delete that targeted a record the
// active store does not have.
var ErrNotFound = errors.New("not found")

// Gateway is the remote side of the service.
type Gateway interface {
	ProbeLiveness(ctx context.Context) bool
	FetchLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error)
	FetchWeightHistory(ctx context.Context, profileID string) ([]models.WeightEntry, error)
	InsertProfile(ctx context.Context, name string, baseline, goal float64) (*models.Profile, error)
	InsertWeight(ctx context.Context, profileID string, weight float64, recordedAt time.Time) (*models.WeightEntry, error)
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.Profile, error)
	UpdateWeight(ctx context.Context, id string, upd models.WeightUpdate) (*models.WeightEntry, error)
	DeleteProfile(ctx context.Context, id string) error
	DeleteWeight(ctx context.Context, id string) error
	Subscribe(ctx context.Context, onChange func(remote.Change)) (io.Closer, error)
}

// Store is the local side of the service.
type Store interface {
	AddProfile(name string, baseline, goal float64) (*models.Profile, error)
	AddWeight(profileID string, weight float64, recordedAt time.Time) (*models.WeightEntry, error)
	UpdateProfile(id string, upd models.ProfileUpdate) (bool, error)
	UpdateWeight(id string, upd models.WeightUpdate) (bool, error)
	DeleteProfile(id string) (bool, error)
	DeleteWeight(id string) (bool, error)
	WeightHistory(profileID string) ([]models.WeightEntry, error)
	Leaderboard() ([]models.LeaderboardEntry, error)
	SaveProfiles(profiles []models.Profile) error
}

// Option configures a Service.
type Option func(*Service)

// WithForcedOffline starts the service with the manual offline latch set.
func WithForcedOffline(forced bool) Option {
	return func(s *Service) { s.forced = forced }
}

// WithReplicationErrorHook routes swallowed replication failures to fn
// instead of the default slog warning.
func WithReplicationErrorHook(fn func(op string, err error)) Option {
	return func(s *Service) { s.onReplicationError = fn }
}

// Service owns the online/offline decision and keeps the two stores
// loosely in sync. Construct one per process and share it.
type Service struct {
	remote Gateway
	local  Store

	mu     sync.Mutex
	online bool
	forced bool

	onReplicationError func(op string, err error)
}

// New creates a Service over the given gateway and local store.
func New(gw Gateway, store Store, opts ...Option) *Service {
	s := &Service{remote: gw, local: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.onReplicationError == nil {
		s.onReplicationError = func(op string, err error) {
			slog.Warn("local replication failed", "op", op, "err", err)
		}
	}
	return s
}

// Online reports the mode chosen by the most recent operation.
func (s *Service) Online() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.online
}

// ForcedOffline reports whether the manual offline latch is set.
func (s *Service) ForcedOffline() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.forced
}

// SwitchMode sets or clears the manual offline latch and flips the mode
// immediately. While latched, the liveness probe is never consulted.
// Switching back online does not migrate writes accumulated locally;
// reconciliation is manual, via export and import.
func (s *Service) SwitchMode(useLocal bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forced = useLocal
	s.online = !useLocal
}

// refreshMode decides the mode for one operation. The forced latch wins
// unconditionally; otherwise the probe runs fresh, never cached.
func (s *Service) refreshMode(ctx context.Context) bool {
	online := false
	s.mu.Lock()
	forced := s.forced
	s.mu.Unlock()

	if !forced {
		online = s.remote.ProbeLiveness(ctx)
	}

	s.mu.Lock()
	s.online = online
	s.mu.Unlock()
	return online
}

// goOffline records a mid-call remote failure.
func (s *Service) goOffline() {
	s.mu.Lock()
	s.online = false
	s.mu.Unlock()
}

// replicate runs a best-effort local write after a successful remote
// one. Failures go to the hook; the remote write is already
// authoritative.
func (s *Service) replicate(op string, fn func() error) {
	if err := fn(); err != nil {
		s.onReplicationError(op, err)
	}
}

// FetchLeaderboard returns the ranked leaderboard. Online reads trust
// the backend's precomputed view and snapshot its profiles locally so a
// later offline session has a recent baseline.
func (s *Service) FetchLeaderboard(ctx context.Context) ([]models.LeaderboardEntry, error) {
	if !s.refreshMode(ctx) {
		return s.local.Leaderboard()
	}

	entries, err := s.remote.FetchLeaderboard(ctx)
	if err != nil {
		s.goOffline()
		return s.local.Leaderboard()
	}

	if len(entries) > 0 {
		profiles := make([]models.Profile, len(entries))
		for i, e := range entries {
			profiles[i] = e.Profile()
		}
		s.replicate("snapshot profiles", func() error {
			return s.local.SaveProfiles(profiles)
		})
	}
	return entries, nil
}

// FetchWeightHistory returns one profile's entries, newest first.
func (s *Service) FetchWeightHistory(ctx context.Context, profileID string) ([]models.WeightEntry, error) {
	if !s.refreshMode(ctx) {
		return s.local.WeightHistory(profileID)
	}

	entries, err := s.remote.FetchWeightHistory(ctx, profileID)
	if err != nil {
		s.goOffline()
		return s.local.WeightHistory(profileID)
	}
	return entries, nil
}

// AddProfile creates a participant. A remote failure falls back to the
// local store; the returned record then carries a locally-prefixed ID
// instead of a backend-issued one.
func (s *Service) AddProfile(ctx context.Context, name string, baseline, goal float64) (*models.Profile, error) {
	if !s.refreshMode(ctx) {
		return s.local.AddProfile(name, baseline, goal)
	}

	p, err := s.remote.InsertProfile(ctx, name, baseline, goal)
	if err != nil {
		s.goOffline()
		return s.local.AddProfile(name, baseline, goal)
	}

	s.replicate("add profile", func() error {
		_, err := s.local.AddProfile(name, baseline, goal)
		return err
	})
	return p, nil
}

// AddWeight logs a measurement for a profile. A zero recordedAt
// defaults to now, shared by both stores.
func (s *Service) AddWeight(ctx context.Context, profileID string, weight float64, recordedAt time.Time) (*models.WeightEntry, error) {
	if recordedAt.IsZero() {
		recordedAt = time.Now().UTC()
	}

	if !s.refreshMode(ctx) {
		return s.local.AddWeight(profileID, weight, recordedAt)
	}

	w, err := s.remote.InsertWeight(ctx, profileID, weight, recordedAt)
	if err != nil {
		s.goOffline()
		return s.local.AddWeight(profileID, weight, recordedAt)
	}

	s.replicate("add weight", func() error {
		_, err := s.local.AddWeight(profileID, weight, recordedAt)
		return err
	})
	return w, nil
}

// UpdateProfile applies a partial update to a participant.
func (s *Service) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) error {
	if !s.refreshMode(ctx) {
		ok, err := s.local.UpdateProfile(id, upd)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("profile %s: %w", id, ErrNotFound)
		}
		return nil
	}

	if _, err := s.remote.UpdateProfile(ctx, id, upd); err != nil {
		s.goOffline()
		ok, localErr := s.local.UpdateProfile(id, upd)
		if localErr != nil {
			return localErr
		}
		if !ok {
			// fallback found nothing either; surface the remote failure
			return err
		}
		return nil
	}

	s.replicate("update profile", func() error {
		_, err := s.local.UpdateProfile(id, upd)
		return err
	})
	return nil
}

// UpdateWeight applies a partial update to a measurement.
func (s *Service) UpdateWeight(ctx context.Context, id string, upd models.WeightUpdate) error {
	if !s.refreshMode(ctx) {
		ok, err := s.local.UpdateWeight(id, upd)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("weight entry %s: %w", id, ErrNotFound)
		}
		return nil
	}

	if _, err := s.remote.UpdateWeight(ctx, id, upd); err != nil {
		s.goOffline()
		ok, localErr := s.local.UpdateWeight(id, upd)
		if localErr != nil {
			return localErr
		}
		if !ok {
			return err
		}
		return nil
	}

	s.replicate("update weight", func() error {
		_, err := s.local.UpdateWeight(id, upd)
		return err
	})
	return nil
}

// DeleteProfile removes a participant and every measurement they own.
func (s *Service) DeleteProfile(ctx context.Context, id string) error {
	if !s.refreshMode(ctx) {
		ok, err := s.local.DeleteProfile(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("profile %s: %w", id, ErrNotFound)
		}
		return nil
	}

	if err := s.remote.DeleteProfile(ctx, id); err != nil {
		s.goOffline()
		ok, localErr := s.local.DeleteProfile(id)
		if localErr != nil {
			return localErr
		}
		if !ok {
			return err
		}
		return nil
	}

	s.replicate("delete profile", func() error {
		_, err := s.local.DeleteProfile(id)
		return err
	})
	return nil
}

// DeleteWeight removes one measurement.
func (s *Service) DeleteWeight(ctx context.Context, id string) error {
	if !s.refreshMode(ctx) {
		ok, err := s.local.DeleteWeight(id)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("weight entry %s: %w", id, ErrNotFound)
		}
		return nil
	}

	if err := s.remote.DeleteWeight(ctx, id); err != nil {
		s.goOffline()
		ok, localErr := s.local.DeleteWeight(id)
		if localErr != nil {
			return localErr
		}
		if !ok {
			return err
		}
		return nil
	}

	s.replicate("delete weight", func() error {
		_, err := s.local.DeleteWeight(id)
		return err
	})
	return nil
}

// Subscribe opens the backend change feed. There is no offline
// equivalent; callers get an error when the backend is unreachable.
func (s *Service) Subscribe(ctx context.Context, onChange func(remote.Change)) (io.Closer, error) {
	if !s.refreshMode(ctx) {
		return nil, errors.New("change feed unavailable offline")
	}
	return s.remote.Subscribe(ctx, onChange)
}
