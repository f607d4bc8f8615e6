package audit

import "github.com/okian/mergington/internal/domain/model"

// Option applies a configuration option to the Journal.
type Option func(*Journal)

// WithCapacity sets how many events the journal retains.
func WithCapacity(capacity int) Option {
	return func(j *Journal) {
		if capacity > 0 {
			j.events = make([]model.RosterEvent, capacity)
		}
	}
}
