package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okian/mergington/internal/domain/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, model.Session{Token: "tok-1", Username: "mrodriguez", CreatedAt: time.Now()}))

	got, err := s.Lookup(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "mrodriguez", got.Username)

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	revoked, err := s.Revoke(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "mrodriguez", revoked.Username)

	_, err = s.Lookup(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Revoke(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrNotFound)

	n, _ = s.Count(ctx)
	assert.Zero(t, n)
}

func TestMemoryStore_TokensAreIndependent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Create(ctx, model.Session{Token: "a", Username: "mrodriguez"}))
	require.NoError(t, s.Create(ctx, model.Session{Token: "b", Username: "mrodriguez"}))

	_, err := s.Revoke(ctx, "a")
	require.NoError(t, err)

	got, err := s.Lookup(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "mrodriguez", got.Username)
}

func TestMemoryStore_EmptyToken(t *testing.T) {
	s := NewMemoryStore()
	assert.ErrorIs(t, s.Create(context.Background(), model.Session{Username: "x"}), ErrEmptyToken)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(WithClock(clock.Now))

	require.NoError(t, s.Create(ctx, model.Session{
		Token:     "short",
		Username:  "jchen",
		CreatedAt: clock.Now(),
		ExpiresAt: clock.Now().Add(time.Minute),
	}))
	require.NoError(t, s.Create(ctx, model.Session{Token: "forever", Username: "jchen", CreatedAt: clock.Now()}))

	_, err := s.Lookup(ctx, "short")
	require.NoError(t, err)

	clock.Advance(time.Minute)

	_, err = s.Lookup(ctx, "short")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Lookup(ctx, "forever")
	assert.NoError(t, err)

	n, _ := s.Count(ctx)
	assert.Equal(t, 1, n)
}

func TestMemoryStore_CreateExpired(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(WithClock(clock.Now))

	err := s.Create(ctx, model.Session{Token: "stale", Username: "jchen", ExpiresAt: clock.Now().Add(-time.Second)})
	assert.ErrorIs(t, err, ErrExpired)

	n, _ := s.Count(ctx)
	assert.Equal(t, 0, n)
}

func TestMemoryStore_RevokeExpired(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)}
	s := NewMemoryStore(WithClock(clock.Now))

	require.NoError(t, s.Create(ctx, model.Session{Token: "t", Username: "jchen", ExpiresAt: clock.Now().Add(time.Second)}))
	clock.Advance(time.Hour)

	_, err := s.Revoke(ctx, "t")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_ConcurrentRevoke(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Create(ctx, model.Session{Token: "shared", Username: "mrodriguez"}))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.Revoke(ctx, "shared"); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
}
