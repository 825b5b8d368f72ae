package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
	"github.com/mentorhub/mentoring-api/internal/core/ports"
)

// OfferingService manages the bookable services published by mentors.
type OfferingService struct {
	repo       ports.OfferingRepository
	categories ports.CategoryRepository
	log        zerolog.Logger
	now        func() time.Time
}

func NewOfferingService(repo ports.OfferingRepository, categories ports.CategoryRepository, log zerolog.Logger) *OfferingService {
	return &OfferingService{repo: repo, categories: categories, log: log, now: time.Now}
}

// Create publishes a new offering owned by actor.
func (s *OfferingService) Create(ctx context.Context, actor domain.Actor, in ports.CreateOfferingInput) (*domain.Offering, error) {
	status := in.Status
	if status == "" {
		status = domain.OfferingAvailable
	}
	now := s.now().UTC()
	o := &domain.Offering{
		Title:          strings.TrimSpace(in.Title),
		Description:    in.Description,
		Status:         status,
		Image:          in.Image,
		Price:          in.Price,
		Duration:       in.Duration,
		NumberOfPlaces: in.NumberOfPlaces,
		OwnerID:        actor.ID,
		CategoryID:     in.CategoryID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := validateOffering(o); err != nil {
		return nil, err
	}
	if o.NumberOfPlaces < 1 {
		return nil, fmt.Errorf("%w: numberOfPlaces must be at least 1", domain.ErrInvalidInput)
	}
	if _, err := s.categories.FindByID(ctx, o.CategoryID); err != nil {
		return nil, err
	}
	o.SyncStatus()

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	s.log.Info().Str("service_id", o.ID).Str("owner_id", actor.ID).Msg("service created")
	return o, nil
}

func (s *OfferingService) Get(ctx context.Context, id string) (*domain.Offering, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *OfferingService) List(ctx context.Context) ([]*domain.Offering, error) {
	return s.repo.List(ctx)
}

func (s *OfferingService) ListByMentor(ctx context.Context, mentorID string) ([]*domain.Offering, error) {
	return s.repo.ListByOwner(ctx, mentorID)
}

// Update applies a partial update. Only the owning mentor may change an
// offering; the seat count and status are reconciled afterwards.
func (s *OfferingService) Update(ctx context.Context, actor domain.Actor, id string, in ports.UpdateOfferingInput) (*domain.Offering, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.OwnerID != actor.ID {
		return nil, domain.ErrForbidden
	}

	if in.Title != nil {
		o.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		o.Description = *in.Description
	}
	if in.Duration != nil {
		o.Duration = *in.Duration
	}
	if in.Price != nil {
		o.Price = *in.Price
	}
	if in.NumberOfPlaces != nil {
		o.NumberOfPlaces = *in.NumberOfPlaces
	}
	if in.Status != nil {
		o.Status = *in.Status
	}
	if in.Image != nil {
		o.Image = *in.Image
	}
	if in.CategoryID != nil && *in.CategoryID != o.CategoryID {
		if _, err := s.categories.FindByID(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		o.CategoryID = *in.CategoryID
	}
	if err := validateOffering(o); err != nil {
		return nil, err
	}
	o.SyncStatus()
	o.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *OfferingService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if o.OwnerID != actor.ID {
		return domain.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func validateOffering(o *domain.Offering) error {
	switch {
	case o.Title == "" || len(o.Title) > maxTitleLength:
		return fmt.Errorf("%w: title", domain.ErrInvalidInput)
	case o.Duration < 1:
		return fmt.Errorf("%w: duration must be positive", domain.ErrInvalidInput)
	case o.Price <= 0:
		return fmt.Errorf("%w: price must be positive", domain.ErrInvalidInput)
	case o.NumberOfPlaces < 0:
		return fmt.Errorf("%w: numberOfPlaces must not be negative", domain.ErrInvalidInput)
	case !o.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, o.Status)
	case o.CategoryID == "":
		return fmt.Errorf("%w: categoryId", domain.ErrInvalidInput)
	}
	return nil
}
