package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a Redis implementation of the NonceStore interface. It keeps
// nonce state coherent across multiple instances sharing one Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore creates a new Redis nonce store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		prefix: "gamelan:nonce:",
	}
}

// Issue creates a 128-bit random nonce and stores it with a server-side TTL
func (s *RedisStore) Issue(ctx context.Context) (string, error) {
	nonce, err := generateNonce()
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, s.prefix+nonce, "1", s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store nonce: %w", err)
	}

	return nonce, nil
}

// Consume removes the nonce and reports whether it existed. GETDEL makes the
// check-and-delete a single atomic operation; expiry is enforced by the key
// TTL, so an expired nonce is simply absent.
func (s *RedisStore) Consume(ctx context.Context, nonce string) (bool, error) {
	_, err := s.client.GetDel(ctx, s.prefix+nonce).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume nonce: %w", err)
	}
	return true, nil
}

// Sweep is a no-op: Redis expires nonce keys on its own
func (s *RedisStore) Sweep(_ context.Context) error {
	return nil
}
