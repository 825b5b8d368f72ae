package redis

import (
	"testing"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

func TestKeys(t *testing.T) {
	idem := NewIdempotencyStore(nil, 0)
	if got := idem.key("u1:abc"); got != "mentoring:idem:reservation:u1:abc" {
		t.Errorf("idempotency key: got %q", got)
	}
	if idem.ttl != defaultIdempotencyTTL {
		t.Errorf("expected default ttl, got %v", idem.ttl)
	}

	dedup := NewDedupChecker(nil)
	if got := dedup.key("r1", domain.ActivityCanceled); got != "mentoring:activity:r1:canceled" {
		t.Errorf("dedup key: got %q", got)
	}
}
