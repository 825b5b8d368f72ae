package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	pendingMarker         = "pending"
)

// IdempotencyStore maps Idempotency-Key headers to reservation ids.
// Key format: mentoring:idem:reservation:<user_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore. A default TTL applies when ttl <= 0.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Acquire claims key with SETNX. A key that is claimed but not completed
// yields domain.ErrRequestInProgress.
func (s *IdempotencyStore) Acquire(ctx context.Context, key string) (string, bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), pendingMarker, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency acquire: %w", err)
	}
	if ok {
		return "", true, nil
	}

	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		// Released between SETNX and GET; let the caller retry the claim.
		return "", false, domain.ErrRequestInProgress
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	if val == pendingMarker {
		return "", false, domain.ErrRequestInProgress
	}
	return val, false, nil
}

// Complete stores the reservation id produced under key.
func (s *IdempotencyStore) Complete(ctx context.Context, key, reservationID string) error {
	return s.client.Set(ctx, s.key(key), reservationID, s.ttl).Err()
}

// Release drops a claim so the request can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.key(key)).Err()
}

func (s *IdempotencyStore) key(k string) string {
	return key("idem", "reservation", k)
}
