// Package audit keeps a bounded, in-memory history of roster events.
package audit

import (
	"context"
	"sync"

	"github.com/okian/mergington/internal/domain/model"
)

const defaultCapacity = 500

// Journal is a fixed-size ring of roster events. Once full, the oldest
// event is overwritten.
type Journal struct {
	mu     sync.RWMutex
	events []model.RosterEvent
	next   int // slot the next event goes to
	size   int
}

// NewJournal creates a journal holding at most capacity events.
func NewJournal(opts ...Option) *Journal {
	j := &Journal{events: make([]model.RosterEvent, defaultCapacity)}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Record appends ev, evicting the oldest event when the journal is full.
func (j *Journal) Record(_ context.Context, ev model.RosterEvent) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.events[j.next] = ev
	j.next = (j.next + 1) % len(j.events)
	if j.size < len(j.events) {
		j.size++
	}
	return nil
}

// Recent returns up to n events, newest first.
func (j *Journal) Recent(_ context.Context, n int) []model.RosterEvent {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if n > j.size {
		n = j.size
	}
	if n <= 0 {
		return []model.RosterEvent{}
	}
	out := make([]model.RosterEvent, 0, n)
	idx := j.next
	for i := 0; i < n; i++ {
		idx = (idx - 1 + len(j.events)) % len(j.events)
		out = append(out, j.events[idx])
	}
	return out
}

// Len returns the number of retained events.
func (j *Journal) Len() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.size
}

// Capacity returns the maximum number of retained events.
func (j *Journal) Capacity() int {
	return len(j.events)
}
