package service

import (
	"time"

	"github.com/okian/mergington/internal/adapters/repository"
	"github.com/okian/mergington/internal/adapters/session"
	"github.com/okian/mergington/internal/domain/credentials"
	"github.com/okian/mergington/internal/domain/token"
	"github.com/okian/mergington/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCredentials sets the teachers allowed to log in.
func WithCredentials(creds *credentials.Set) Option {
	return func(s *Service) {
		if creds != nil {
			s.creds = creds
		}
	}
}

// WithActivityStore replaces the seeded in-memory activity store.
func WithActivityStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.activities = store
		}
	}
}

// WithSessionStore replaces the in-memory session store.
func WithSessionStore(store session.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.sessions = store
		}
	}
}

// WithCapacityEnforcement rejects signups to full activities. It only applies
// to the default activity store.
func WithCapacityEnforcement(enforce bool) Option {
	return func(s *Service) {
		s.enforceCapacity = enforce
	}
}

// WithSessionTTL makes sessions expire after ttl. Zero means never.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl >= 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithAuditQueueSize sets the audit queue capacity.
func WithAuditQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.auditQueueSize = size
		}
	}
}

// WithAuditWorkers sets how many goroutines drain the audit queue.
func WithAuditWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.auditWorkers = count
		}
	}
}

// WithJournalSize sets how many audit events are retained.
func WithJournalSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.journalSize = size
		}
	}
}

// WithTokenGenerator overrides token.Generate.
func WithTokenGenerator(gen token.Generator) Option {
	return func(s *Service) {
		if gen != nil {
			s.tokens = gen
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithJanitorInterval sets how often expired sessions are swept.
func WithJanitorInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.janitorInterval = d
		}
	}
}
