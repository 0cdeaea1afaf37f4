// Package ownership tracks which reservation IDs this system created. The
// portal exposes no owner field, so the set is the only record of what the
// auto-end engine is allowed to touch.
package ownership

import (
	"context"
	"log/slog"
	"sort"
	"sync"
)

// Repository persists the set keyed by entry identity.
type Repository interface {
	Load(ctx context.Context, entryID string) ([]int64, error)
	Save(ctx context.Context, entryID string, ids []int64) error
}

// Store serializes all mutations under its own lock, distinct from the
// auto-end engine's end lock: user-driven creates and timer-driven ends race
// independently of the end operation itself.
type Store struct {
	repo    Repository
	entryID string
	log     *slog.Logger

	mu  sync.Mutex
	ids map[int64]struct{}
}

func NewStore(repo Repository, entryID string, log *slog.Logger) *Store {
	return &Store{
		repo:    repo,
		entryID: entryID,
		log:     log,
		ids:     make(map[int64]struct{}),
	}
}

// Load replaces the in-memory set with the persisted one. Non-positive IDs
// are dropped.
func (s *Store) Load(ctx context.Context) error {
	ids, err := s.repo.Load(ctx, s.entryID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if id > 0 {
			s.ids[id] = struct{}{}
		}
	}
	return nil
}

// Add records a reservation created by this system and persists the set.
func (s *Store) Add(ctx context.Context, id int64) error {
	if id <= 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return nil
	}
	s.ids[id] = struct{}{}
	return s.saveLocked(ctx)
}

// Remove deletes the given IDs and persists once for the whole batch.
func (s *Store) Remove(ctx context.Context, ids ...int64) error {
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := false
	for _, id := range ids {
		if _, ok := s.ids[id]; ok {
			delete(s.ids, id)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.saveLocked(ctx)
}

func (s *Store) Contains(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

// IDs returns a sorted copy of the set.
func (s *Store) IDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// PruneTo intersects the set with the live reservation IDs and persists only
// when it shrank. Self-heals drift when a reservation disappears by any
// means (ended by us, by the user, or by timeout).
func (s *Store) PruneTo(ctx context.Context, live map[int64]struct{}) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for id := range s.ids {
		if _, ok := live[id]; !ok {
			delete(s.ids, id)
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	return true, s.saveLocked(ctx)
}

func (s *Store) sortedLocked() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s *Store) saveLocked(ctx context.Context) error {
	return s.repo.Save(ctx, s.entryID, s.sortedLocked())
}
