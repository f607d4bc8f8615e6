package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/pkg/metrics"
)

// MemoryStore is an in-memory Store. Each mutation checks and updates a
// roster under one write lock, so concurrent signups of the same email
// cannot both succeed.
type MemoryStore struct {
	mu              sync.RWMutex
	activities      map[string]*model.Activity
	seed            []model.Activity
	enforceCapacity bool
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store seeded with DefaultActivities unless
// WithActivities says otherwise.
func NewMemoryStore(_ context.Context, opts ...Option) *MemoryStore {
	s := &MemoryStore{seed: DefaultActivities()}
	for _, opt := range opts {
		opt(s)
	}

	s.activities = make(map[string]*model.Activity, len(s.seed))
	for _, a := range s.seed {
		c := a.Clone()
		s.activities[c.Name] = &c
		metrics.UpdateActivityParticipants(c.Name, len(c.Participants), c.MaxParticipants)
	}
	s.seed = nil

	return s
}

// List returns a deep copy of every activity.
func (s *MemoryStore) List(_ context.Context) (model.Catalog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(model.Catalog, len(s.activities))
	for name, a := range s.activities {
		out[name] = a.Clone()
	}
	return out, nil
}

// Get returns a copy of one activity.
func (s *MemoryStore) Get(_ context.Context, name string) (model.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.activities[name]
	if !ok {
		return model.Activity{}, ErrActivityNotFound
	}
	return a.Clone(), nil
}

// Signup appends email to the roster. Capacity is only checked when the
// store was built WithCapacityEnforcement(true).
func (s *MemoryStore) Signup(_ context.Context, name, email string) (model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return model.Activity{}, ErrActivityNotFound
	}
	if a.Has(email) {
		return model.Activity{}, ErrAlreadySignedUp
	}
	if s.enforceCapacity && a.Full() {
		return model.Activity{}, ErrActivityFull
	}

	a.Participants = append(a.Participants, email)
	metrics.UpdateActivityParticipants(a.Name, len(a.Participants), a.MaxParticipants)
	return a.Clone(), nil
}

// Unregister removes the first occurrence of email from the roster.
func (s *MemoryStore) Unregister(_ context.Context, name, email string) (model.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.activities[name]
	if !ok {
		return model.Activity{}, ErrActivityNotFound
	}
	idx := slices.Index(a.Participants, email)
	if idx < 0 {
		return model.Activity{}, ErrNotSignedUp
	}

	a.Participants = slices.Delete(a.Participants, idx, idx+1)
	metrics.UpdateActivityParticipants(a.Name, len(a.Participants), a.MaxParticipants)
	return a.Clone(), nil
}

// Count returns the number of activities.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities)
}
