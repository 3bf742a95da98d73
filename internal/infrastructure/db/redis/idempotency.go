package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultIdempotencyTTL = 24 * time.Hour

// IdempotencyStore maps an Idempotency-Key to the transaction it created.
// Key format: idem:tx:<username>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. Non-positive ttl falls back to 24h.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Lookup reports the transaction id remembered for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, username, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, s.key(username, key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	return id, true, nil
}

// Remember records transactionID for key until the TTL elapses. An existing
// mapping is never overwritten.
func (s *IdempotencyStore) Remember(ctx context.Context, username, key, transactionID string) error {
	if err := s.client.SetNX(ctx, s.key(username, key), transactionID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(username, key string) string {
	return fmt.Sprintf("idem:tx:%s:%s", username, key)
}
