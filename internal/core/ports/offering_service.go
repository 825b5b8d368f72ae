package ports

import (
	"context"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

// CreateOfferingInput carries a new bookable service.
type CreateOfferingInput struct {
	Title          string
	Description    string
	Duration       int
	Price          float64
	NumberOfPlaces int
	Status         domain.OfferingStatus // optional
	CategoryID     string
	Image          string
}

// UpdateOfferingInput is a partial update. Nil fields are left untouched.
type UpdateOfferingInput struct {
	Title          *string
	Description    *string
	Duration       *int
	Price          *float64
	NumberOfPlaces *int
	Status         *domain.OfferingStatus
	CategoryID     *string
	Image          *string
}

type OfferingService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateOfferingInput) (*domain.Offering, error)
	Get(ctx context.Context, id string) (*domain.Offering, error)
	List(ctx context.Context) ([]*domain.Offering, error)
	ListByMentor(ctx context.Context, mentorID string) ([]*domain.Offering, error)
	Update(ctx context.Context, actor domain.Actor, id string, input UpdateOfferingInput) (*domain.Offering, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}
