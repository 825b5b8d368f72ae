package ports

import (
	"context"
	"time"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

// CreateReservationInput carries the booking and payment card fields.
// The CVV is validated at the boundary and never persisted.
type CreateReservationInput struct {
	UserID          string
	OfferingID      string
	ReservationDate time.Time
	CardHolderName  string
	CardNumber      string
	CardExpiry      string
	IdempotencyKey  string
}

// BookerSummary is the joined view of the reserving identity.
type BookerSummary struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// OfferingSummary is the joined view of the reserved service.
type OfferingSummary struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// ReservationView is a reservation joined with its booker and service.
// A nil summary means the referenced record no longer exists.
type ReservationView struct {
	domain.Reservation
	User     *BookerSummary   `json:"user"`
	Offering *OfferingSummary `json:"service"`

	// SeatsLeft is the place count observed by the operation, -1 when unknown.
	SeatsLeft int `json:"-"`
	// Replayed is true when the view was served from an idempotency key.
	Replayed bool `json:"-"`
}

// ReservationService drives the reservation lifecycle.
type ReservationService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateReservationInput) (*ReservationView, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.ReservationStatus) (*ReservationView, error)
	Get(ctx context.Context, actor domain.Actor, id string) (*ReservationView, error)
	List(ctx context.Context) ([]*ReservationView, error)
	ListForUser(ctx context.Context, actor domain.Actor, userID string) ([]*ReservationView, error)
	ListForMentor(ctx context.Context, actor domain.Actor, mentorID string) ([]*ReservationView, error)
}
