package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

const dedupTTL = time.Hour

// DedupChecker provides activity deduplication backed by Redis.
// Key format: mentoring:activity:<reservation_id>:<kind>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this activity has already been recorded.
func (d *DedupChecker) IsDuplicate(ctx context.Context, reservationID string, kind domain.ActivityKind) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(reservationID, kind)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this activity has been recorded (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, reservationID string, kind domain.ActivityKind) error {
	return d.client.Set(ctx, d.key(reservationID, kind), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(reservationID string, kind domain.ActivityKind) string {
	return key("activity", reservationID, string(kind))
}
