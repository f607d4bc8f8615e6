package worker

import (
	"github.com/okian/mergington/pkg/logger"
)

// Option configures an audit worker.
type Option func(*InMemoryWorker)

// WithName labels the worker in roster event logs, e.g. "worker-0".
func WithName(name string) Option {
	return func(w *InMemoryWorker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger replaces the default "audit" named logger.
func WithLogger(logger logger.Logger) Option {
	return func(w *InMemoryWorker) {
		if logger != nil {
			w.logger = logger
		}
	}
}
