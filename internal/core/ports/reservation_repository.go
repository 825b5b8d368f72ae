package ports

import (
	"context"
	"time"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

// ReservationRepository defines persistence operations for reservations.
type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	FindByID(ctx context.Context, id string) (*domain.Reservation, error)
	List(ctx context.Context) ([]*domain.Reservation, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Reservation, error)
	ListByOfferings(ctx context.Context, offeringIDs []string) ([]*domain.Reservation, error)

	// TransitionStatus moves the reservation from one status to another only
	// if it is still in from. Returns domain.ErrInvalidTransition otherwise.
	TransitionStatus(ctx context.Context, id string, from, to domain.ReservationStatus, at time.Time) (*domain.Reservation, error)
}

// Transactor runs fn as one atomic unit of work. Repository calls made with
// the context passed to fn take part in the transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
