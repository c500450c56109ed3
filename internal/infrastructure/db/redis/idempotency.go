package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	pendingTTL            = time.Minute
	pendingMarker         = "pending"
)

// IdempotencyStore remembers which book a create request produced, so that a
// retried POST with the same Idempotency-Key does not insert a second row.
// Key format: idempotency:books:<key>, holding "pending" or the book id.
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. A non-positive ttl falls back to 24h.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Claim reserves key with a pending marker. The marker expires after
// pendingTTL so a crashed request does not hold the key for the full ttl.
func (s *IdempotencyStore) Claim(ctx context.Context, key string) (bool, int64, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), pendingMarker, pendingTTL).Result()
	if err != nil {
		return false, 0, fmt.Errorf("idempotency claim: %w", err)
	}
	if ok {
		return true, 0, nil
	}

	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) || val == pendingMarker {
		// expired between SETNX and GET counts as in flight too
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("idempotency claim: %w", err)
	}
	id, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return false, 0, fmt.Errorf("idempotency claim: bad value %q: %w", val, err)
	}
	return false, id, nil
}

// Complete stores bookID under key for the full ttl.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, bookID int64) error {
	if err := s.client.Set(ctx, s.key(key), bookID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release removes key so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(key string) string {
	return "idempotency:books:" + key
}
