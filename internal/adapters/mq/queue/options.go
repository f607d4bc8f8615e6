package queue

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of pending events.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// WithDropHandler registers a callback invoked with the reason for every refused event.
func WithDropHandler(fn func(e Event, reason string)) Option {
	return func(q *InMemoryQueue) {
		q.onDrop = fn
	}
}
