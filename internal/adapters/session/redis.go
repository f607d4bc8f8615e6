package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/mergington/internal/domain/model"
)

// DefaultKeyPrefix namespaces session keys in a shared redis.
const DefaultKeyPrefix = "mergington:session:"

// RedisStore keeps sessions in redis so several processes share them.
// Expiry is delegated to redis key TTLs.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

type redisSession struct {
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// NewRedisClient parses url, connects and pings.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// NewRedisStore wraps an existing client. The client lifecycle stays with the caller.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: DefaultKeyPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *RedisStore) key(token string) string {
	return s.prefix + token
}

// Create stores the session with a TTL matching ExpiresAt.
func (s *RedisStore) Create(ctx context.Context, sess model.Session) error {
	if sess.Token == "" {
		return ErrEmptyToken
	}

	var ttl time.Duration
	if !sess.ExpiresAt.IsZero() {
		ttl = time.Until(sess.ExpiresAt)
		if ttl <= 0 {
			return ErrExpired
		}
	}

	payload, err := json.Marshal(redisSession{
		Username:  sess.Username,
		CreatedAt: sess.CreatedAt,
		ExpiresAt: sess.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.client.Set(ctx, s.key(sess.Token), payload, ttl).Err()
}

// Lookup reads the session for token.
func (s *RedisStore) Lookup(ctx context.Context, token string) (model.Session, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	return s.decode(token, raw, err)
}

// Revoke atomically reads and deletes the session with GETDEL.
func (s *RedisStore) Revoke(ctx context.Context, token string) (model.Session, error) {
	raw, err := s.client.GetDel(ctx, s.key(token)).Bytes()
	return s.decode(token, raw, err)
}

// Count scans the key namespace. It is O(live sessions) and meant for stats.
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.prefix+"*", 100).Result()
		if err != nil {
			return 0, fmt.Errorf("scan sessions: %w", err)
		}
		total += len(keys)
		cursor = next
		if cursor == 0 {
			return total, nil
		}
	}
}

func (s *RedisStore) decode(token string, raw []byte, err error) (model.Session, error) {
	if errors.Is(err, redis.Nil) {
		return model.Session{}, ErrNotFound
	}
	if err != nil {
		return model.Session{}, fmt.Errorf("read session: %w", err)
	}

	var rs redisSession
	if err := json.Unmarshal(raw, &rs); err != nil {
		return model.Session{}, fmt.Errorf("decode session: %w", err)
	}
	return model.Session{
		Token:     token,
		Username:  rs.Username,
		CreatedAt: rs.CreatedAt,
		ExpiresAt: rs.ExpiresAt,
	}, nil
}
