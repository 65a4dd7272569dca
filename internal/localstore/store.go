// ABOUTME: Badger-backed local store for profiles and weight entries.
// ABOUTME: Collections live whole under single keys and are rewritten on every mutation.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v3"

	"github.com/harperreed/weighin/internal/models"
)

const (
	keyProfiles = "weighin:profiles"
	keyWeights  = "weighin:weights"
	keyLastSync = "weighin:last_sync"
)

// Store is the local persistent store. Not safe for use from multiple
// processes; a mutex serializes access within one.
type Store struct {
	db *badger.DB
	mu sync.Mutex
}

// Open opens or creates the store under dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	// A CLI process exits right after the write; the weigh-in has to be
	// on disk by then.
	opts.SyncWrites = true

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// ListProfiles returns the full profile collection.
func (s *Store) ListProfiles() ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadProfiles()
}

// ListWeights returns the full weight-entry collection.
func (s *Store) ListWeights() ([]models.WeightEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadWeights()
}

// WeightHistory returns the entries for one profile, newest first.
func (s *Store) WeightHistory(profileID string) ([]models.WeightEntry, error) {
	weights, err := s.ListWeights()
	if err != nil {
		return nil, err
	}
	var history []models.WeightEntry
	for _, w := range weights {
		if w.ProfileID == profileID {
			history = append(history, w)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].RecordedAt.After(history[j].RecordedAt)
	})
	return history, nil
}

// AddProfile appends a new profile with a locally-issued ID.
func (s *Store) AddProfile(name string, baseline, goal float64) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.loadProfiles()
	if err != nil {
		return nil, err
	}
	p := models.NewLocalProfile(name, baseline, goal)
	profiles = append(profiles, *p)
	if err := s.saveCollections(profiles, nil); err != nil {
		return nil, err
	}
	return p, nil
}

// AddWeight appends a new weight entry with a locally-issued ID.
// A zero recordedAt defaults to now.
func (s *Store) AddWeight(profileID string, weight float64, recordedAt time.Time) (*models.WeightEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	weights, err := s.loadWeights()
	if err != nil {
		return nil, err
	}
	w := models.NewLocalWeight(profileID, weight, recordedAt)
	weights = append(weights, *w)
	if err := s.saveCollections(nil, weights); err != nil {
		return nil, err
	}
	return w, nil
}

// UpdateProfile merges the set fields into the matching profile.
// Returns false if no profile has the given ID.
func (s *Store) UpdateProfile(id string, upd models.ProfileUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.loadProfiles()
	if err != nil {
		return false, err
	}
	idx := -1
	for i := range profiles {
		if profiles[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}
	upd.Apply(&profiles[idx])
	return true, s.saveCollections(profiles, nil)
}

// UpdateWeight merges the set fields into the matching weight entry.
// Returns false if no entry has the given ID.
func (s *Store) UpdateWeight(id string, upd models.WeightUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	weights, err := s.loadWeights()
	if err != nil {
		return false, err
	}
	idx := -1
	for i := range weights {
		if weights[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}
	upd.Apply(&weights[idx])
	return true, s.saveCollections(nil, weights)
}

// DeleteProfile removes a profile and every weight entry it owns, in one
// write. Returns false if the profile did not exist.
func (s *Store) DeleteProfile(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.loadProfiles()
	if err != nil {
		return false, err
	}
	kept := profiles[:0]
	for _, p := range profiles {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(profiles) {
		return false, nil
	}

	weights, err := s.loadWeights()
	if err != nil {
		return false, err
	}
	keptWeights := weights[:0]
	for _, w := range weights {
		if w.ProfileID != id {
			keptWeights = append(keptWeights, w)
		}
	}

	return true, s.saveCollections(kept, keptWeights)
}

// DeleteWeight removes one weight entry. Returns false if not found.
func (s *Store) DeleteWeight(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	weights, err := s.loadWeights()
	if err != nil {
		return false, err
	}
	kept := weights[:0]
	for _, w := range weights {
		if w.ID != id {
			kept = append(kept, w)
		}
	}
	if len(kept) == len(weights) {
		return false, nil
	}
	return true, s.saveCollections(nil, kept)
}

// Leaderboard derives the ranked leaderboard from the current collections.
func (s *Store) Leaderboard() ([]models.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles, err := s.loadProfiles()
	if err != nil {
		return nil, err
	}
	weights, err := s.loadWeights()
	if err != nil {
		return nil, err
	}
	return models.DeriveLeaderboard(profiles, weights), nil
}

// SaveProfiles overwrites the profile collection. Used to snapshot a
// remotely-fetched leaderboard for later offline sessions.
func (s *Store) SaveProfiles(profiles []models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveCollections(profiles, nil)
}

// ReplaceAll overwrites both collections in one write. Used by import.
func (s *Store) ReplaceAll(profiles []models.Profile, weights []models.WeightEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profiles == nil {
		profiles = []models.Profile{}
	}
	if weights == nil {
		weights = []models.WeightEntry{}
	}
	return s.saveCollections(profiles, weights)
}

// ClearAll erases both collections and the last-sync marker.
func (s *Store) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range []string{keyProfiles, keyWeights, keyLastSync} {
			if err := txn.Delete([]byte(key)); err != nil {
				return fmt.Errorf("clear %s: %w", key, err)
			}
		}
		return nil
	})
}

// LastSync returns when a collection was last written, or the zero time
// if nothing has been stored yet.
func (s *Store) LastSync() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ts time.Time
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyLastSync))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			parsed, err := time.Parse(time.RFC3339, string(val))
			if err != nil {
				return fmt.Errorf("invalid last-sync timestamp: %w", err)
			}
			ts = parsed
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return time.Time{}, nil
	}
	return ts, err
}

func (s *Store) loadProfiles() ([]models.Profile, error) {
	var profiles []models.Profile
	if err := s.load(keyProfiles, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *Store) loadWeights() ([]models.WeightEntry, error) {
	var weights []models.WeightEntry
	if err := s.load(keyWeights, &weights); err != nil {
		return nil, err
	}
	return weights, nil
}

func (s *Store) load(key string, out any) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, out)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}
	return nil
}

// saveCollections writes the given collections and refreshes the
// last-sync marker in a single transaction. Nil collections are left
// untouched; pass an empty slice to store an empty collection.
func (s *Store) saveCollections(profiles []models.Profile, weights []models.WeightEntry) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if profiles != nil {
			data, err := json.Marshal(profiles)
			if err != nil {
				return fmt.Errorf("marshal profiles: %w", err)
			}
			if err := txn.Set([]byte(keyProfiles), data); err != nil {
				return fmt.Errorf("write profiles: %w", err)
			}
		}
		if weights != nil {
			data, err := json.Marshal(weights)
			if err != nil {
				return fmt.Errorf("marshal weights: %w", err)
			}
			if err := txn.Set([]byte(keyWeights), data); err != nil {
				return fmt.Errorf("write weights: %w", err)
			}
		}
		stamp := time.Now().UTC().Format(time.RFC3339)
		if err := txn.Set([]byte(keyLastSync), []byte(stamp)); err != nil {
			return fmt.Errorf("write last-sync: %w", err)
		}
		return nil
	})
}
