package session

import (
	"context"
	"sync"
	"time"

	"github.com/okian/mergington/internal/domain/model"
)

// MemoryStore is a process-local Store. Expired sessions are dropped lazily
// on lookup and count.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]model.Session
	now      func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]model.Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create stores the session. An existing session with the same token is replaced.
func (s *MemoryStore) Create(_ context.Context, sess model.Session) error {
	if sess.Token == "" {
		return ErrEmptyToken
	}
	if sess.Expired(s.now()) {
		return ErrExpired
	}
	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()
	return nil
}

// Lookup returns the session for token if it is still live.
func (s *MemoryStore) Lookup(_ context.Context, token string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return model.Session{}, ErrNotFound
	}
	if sess.Expired(s.now()) {
		delete(s.sessions, token)
		return model.Session{}, ErrNotFound
	}
	return sess, nil
}

// Revoke deletes the session for token.
func (s *MemoryStore) Revoke(_ context.Context, token string) (model.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return model.Session{}, ErrNotFound
	}
	delete(s.sessions, token)
	if sess.Expired(s.now()) {
		return model.Session{}, ErrNotFound
	}
	return sess, nil
}

// Count returns the number of live sessions.
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, token)
		}
	}
	return len(s.sessions), nil
}
