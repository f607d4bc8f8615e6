package repository

import "github.com/okian/mergington/internal/domain/model"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithActivities replaces the seeded catalog.
func WithActivities(activities ...model.Activity) Option {
	return func(s *MemoryStore) {
		s.seed = activities
	}
}

// WithCapacityEnforcement makes Signup fail with ErrActivityFull once
// an activity reaches max_participants.
func WithCapacityEnforcement(enforce bool) Option {
	return func(s *MemoryStore) {
		s.enforceCapacity = enforce
	}
}
