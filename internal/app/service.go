// Package service implements the roster operations behind the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/mergington/internal/adapters/mq/queue"
	"github.com/okian/mergington/internal/adapters/mq/worker"
	"github.com/okian/mergington/internal/adapters/repository"
	"github.com/okian/mergington/internal/adapters/session"
	"github.com/okian/mergington/internal/domain/audit"
	"github.com/okian/mergington/internal/domain/credentials"
	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/internal/domain/token"
	"github.com/okian/mergington/internal/domain/types"
	"github.com/okian/mergington/pkg/logger"
	"github.com/okian/mergington/pkg/metrics"
)

const (
	defaultAuditQueueSize  = 1024
	defaultAuditWorkers    = 2
	defaultJournalSize     = 500
	defaultJanitorInterval = time.Minute
)

// Mutation outcomes reported to metrics.
const (
	outcomeOK          = "ok"
	outcomeNotFound    = "not_found"
	outcomeDuplicate   = "duplicate"
	outcomeFull        = "full"
	outcomeNotSignedUp = "not_signed_up"
	outcomeError       = "error"
)

// Service owns the activity and session stores, the teacher credentials and
// the audit pipeline.
type Service struct {
	mu sync.RWMutex

	activities repository.Store
	sessions   session.Store
	creds      *credentials.Set
	tokens     token.Generator
	now        func() time.Time

	auditQueue *queue.InMemoryQueue
	pool       *worker.Pool
	journal    *audit.Journal

	enforceCapacity bool
	sessionTTL      time.Duration
	auditQueueSize  int
	auditWorkers    int
	journalSize     int
	janitorInterval time.Duration

	started bool
	stopCh  chan struct{}

	logger logger.Logger
}

// New builds a service. Roster and auth operations work right away; audit
// events are only drained after Start.
func New(ctx context.Context, opts ...Option) *Service {
	s := &Service{
		tokens:          token.Generate,
		now:             time.Now,
		auditQueueSize:  defaultAuditQueueSize,
		auditWorkers:    defaultAuditWorkers,
		journalSize:     defaultJournalSize,
		janitorInterval: defaultJanitorInterval,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.creds == nil {
		s.creds = credentials.New()
	}
	if s.activities == nil {
		s.activities = repository.NewMemoryStore(ctx,
			repository.WithCapacityEnforcement(s.enforceCapacity),
		)
	}
	if s.sessions == nil {
		s.sessions = session.NewMemoryStore(session.WithClock(s.now))
	}

	s.journal = audit.NewJournal(audit.WithCapacity(s.journalSize))
	s.auditQueue = queue.NewInMemoryQueue(
		queue.WithCapacity(s.auditQueueSize),
		queue.WithDropHandler(func(e queue.Event, reason string) {
			s.logger.Warn(context.Background(), "audit event dropped",
				logger.String("event_id", e.ID),
				logger.String("kind", string(e.Kind)),
				logger.String("reason", reason),
			)
		}),
	)

	return s
}

// Start launches the audit workers and the session janitor.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.auditQueue.IsClosed() {
		return errors.New("service cannot be restarted after Stop")
	}

	s.pool = worker.NewPool(s.auditWorkers, s.auditQueue, s.journal)
	// Workers outlive ctx; Stop closes the queue and they exit once it drains.
	s.pool.Start(context.WithoutCancel(ctx))

	s.stopCh = make(chan struct{})
	go s.janitor(ctx, s.stopCh)

	s.started = true
	s.logger.Info(ctx, "roster service started",
		logger.Int("activities", s.activities.Count(ctx)),
		logger.Int("teachers", s.creds.Len()),
		logger.Int("auditWorkers", s.auditWorkers),
		logger.Int("auditQueueSize", s.auditQueueSize),
		logger.Bool("enforceCapacity", s.enforceCapacity),
	)
	return nil
}

// Stop drains the audit queue and stops background goroutines.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info(ctx, "stopping roster service...")
	close(s.stopCh)
	err := s.pool.Shutdown(ctx)

	s.started = false
	s.logger.Info(ctx, "roster service stopped", logger.Int("auditJournalSize", s.journal.Len()))
	return err
}

func (s *Service) janitor(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(s.janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			n, err := s.sessions.Count(ctx)
			if err != nil {
				s.logger.Warn(ctx, "session sweep failed", logger.Error(err))
				continue
			}
			metrics.UpdateActiveSessions(n)
		}
	}
}

// ListActivities returns a deep copy of every activity.
func (s *Service) ListActivities(ctx context.Context) (model.Catalog, error) {
	return s.activities.List(ctx)
}

// GetActivity returns one activity by exact name.
func (s *Service) GetActivity(ctx context.Context, name string) (model.Activity, error) {
	return s.activities.Get(ctx, name)
}

// Login checks the teacher credentials and issues a new session.
func (s *Service) Login(ctx context.Context, username, password string) (model.Session, error) {
	if !s.creds.Verify(username, password) {
		metrics.RecordLoginAttempt("failure")
		s.logger.Warn(ctx, "login failed", logger.String("username", username))
		return model.Session{}, ErrInvalidCredentials
	}

	tok, err := s.tokens()
	if err != nil {
		metrics.RecordLoginAttempt("error")
		return model.Session{}, fmt.Errorf("issue token: %w", err)
	}

	now := s.now()
	sess := model.Session{Token: tok, Username: username, CreatedAt: now}
	if s.sessionTTL > 0 {
		sess.ExpiresAt = now.Add(s.sessionTTL)
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		metrics.RecordLoginAttempt("error")
		return model.Session{}, fmt.Errorf("store session: %w", err)
	}

	metrics.RecordLoginAttempt("success")
	s.refreshSessionGauge(ctx)
	s.logger.Info(ctx, "teacher logged in", logger.String("username", username))
	s.emit(ctx, model.EventLogin, username, "", "")
	return sess, nil
}

// Logout revokes the session for tok and returns the teacher's username.
func (s *Service) Logout(ctx context.Context, tok string) (string, error) {
	sess, err := s.sessions.Revoke(ctx, tok)
	if errors.Is(err, session.ErrNotFound) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("revoke session: %w", err)
	}

	s.refreshSessionGauge(ctx)
	s.logger.Info(ctx, "teacher logged out", logger.String("username", sess.Username))
	s.emit(ctx, model.EventLogout, sess.Username, "", "")
	return sess.Username, nil
}

// ParseBearer extracts the token from an Authorization header value. The
// header must be exactly two whitespace-separated fields, the first being
// "bearer" in any case.
func ParseBearer(header string) (string, error) {
	fields := strings.Fields(header)
	if len(fields) != 2 || !strings.EqualFold(fields[0], "bearer") {
		return "", ErrMissingToken
	}
	return fields[1], nil
}

// Authenticate resolves a token to its live session.
func (s *Service) Authenticate(ctx context.Context, tok string) (model.Session, error) {
	sess, err := s.sessions.Lookup(ctx, tok)
	if errors.Is(err, session.ErrNotFound) {
		return model.Session{}, ErrInvalidToken
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("lookup session: %w", err)
	}
	return sess, nil
}

// RequireTeacher authenticates an Authorization header value.
func (s *Service) RequireTeacher(ctx context.Context, header string) (model.Session, error) {
	tok, err := ParseBearer(header)
	if err != nil {
		return model.Session{}, err
	}
	return s.Authenticate(ctx, tok)
}

// Signup adds email to the roster of activity on behalf of teacher.
func (s *Service) Signup(ctx context.Context, activity, email, teacher string) (string, error) {
	if _, err := s.activities.Signup(ctx, activity, email); err != nil {
		metrics.RecordRosterMutation(string(model.EventSignup), mutationOutcome(err))
		return "", err
	}

	metrics.RecordRosterMutation(string(model.EventSignup), outcomeOK)
	s.logger.Info(ctx, "student signed up",
		logger.String("activity", activity),
		logger.String("email", email),
		logger.String("teacher", teacher),
	)
	s.emit(ctx, model.EventSignup, teacher, activity, email)
	return fmt.Sprintf("Signed up %s for %s", email, activity), nil
}

// Unregister removes email from the roster of activity on behalf of teacher.
func (s *Service) Unregister(ctx context.Context, activity, email, teacher string) (string, error) {
	if _, err := s.activities.Unregister(ctx, activity, email); err != nil {
		metrics.RecordRosterMutation(string(model.EventUnregister), mutationOutcome(err))
		return "", err
	}

	metrics.RecordRosterMutation(string(model.EventUnregister), outcomeOK)
	s.logger.Info(ctx, "student unregistered",
		logger.String("activity", activity),
		logger.String("email", email),
		logger.String("teacher", teacher),
	)
	s.emit(ctx, model.EventUnregister, teacher, activity, email)
	return fmt.Sprintf("Unregistered %s from %s", email, activity), nil
}

// RecentEvents returns up to limit audit events, newest first.
func (s *Service) RecentEvents(ctx context.Context, limit int) []model.RosterEvent {
	return s.journal.Recent(ctx, limit)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) (types.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	catalog, err := s.activities.List(ctx)
	if err != nil {
		return types.Stats{}, err
	}
	sessions, err := s.sessions.Count(ctx)
	if err != nil {
		return types.Stats{}, err
	}

	stats := types.Stats{
		Activities:       len(catalog),
		Sessions:         sessions,
		AuditQueueLength: s.auditQueue.Len(ctx),
		AuditJournalSize: s.journal.Len(),
		Started:          s.started,
	}
	for _, a := range catalog {
		stats.Participants += len(a.Participants)
	}
	if s.started {
		stats.WorkerCount = s.pool.Size()
	}

	metrics.UpdateActiveSessions(sessions)
	return stats, nil
}

func (s *Service) emit(ctx context.Context, kind model.EventKind, teacher, activity, email string) {
	s.auditQueue.Enqueue(context.WithoutCancel(ctx), model.RosterEvent{
		ID:       uuid.NewString(),
		Kind:     kind,
		Teacher:  teacher,
		Activity: activity,
		Email:    email,
		At:       s.now().UTC(),
	})
}

func (s *Service) refreshSessionGauge(ctx context.Context) {
	if n, err := s.sessions.Count(ctx); err == nil {
		metrics.UpdateActiveSessions(n)
	}
}

func mutationOutcome(err error) string {
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		return outcomeNotFound
	case errors.Is(err, repository.ErrAlreadySignedUp):
		return outcomeDuplicate
	case errors.Is(err, repository.ErrActivityFull):
		return outcomeFull
	case errors.Is(err, repository.ErrNotSignedUp):
		return outcomeNotSignedUp
	default:
		return outcomeError
	}
}
