package ports

import (
	"context"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

// OfferingRepository persists bookable services and owns their seat counter.
type OfferingRepository interface {
	Create(ctx context.Context, o *domain.Offering) error
	FindByID(ctx context.Context, id string) (*domain.Offering, error)
	List(ctx context.Context) ([]*domain.Offering, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Offering, error)
	Update(ctx context.Context, o *domain.Offering) error
	Delete(ctx context.Context, id string) error

	// TryDecrementSeats takes one place in a single conditional update that
	// only matches when at least one place is left and the offering is not
	// archived. The status flips to not-available in the same write when the
	// count reaches zero. ok is false when nothing was taken.
	TryDecrementSeats(ctx context.Context, id string) (remaining int, ok bool, err error)

	// RestoreSeat gives one place back, flipping not-available to available.
	RestoreSeat(ctx context.Context, id string) (int, error)
}
