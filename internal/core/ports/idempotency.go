package ports

import "context"

// IdempotencyStore remembers which reservation an Idempotency-Key produced.
type IdempotencyStore interface {
	// Acquire claims key. When the key was already completed, existingID is
	// the stored reservation id. When it is claimed but not completed, both
	// return values are zero and domain.ErrRequestInProgress is returned.
	Acquire(ctx context.Context, key string) (existingID string, acquired bool, err error)
	Complete(ctx context.Context, key, reservationID string) error
	Release(ctx context.Context, key string) error
}
