package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
	"github.com/mentorhub/mentoring-api/internal/core/ports"
)

// ReservationService is the reservation engine: card checks, seat inventory
// and the pending -> confirmed | canceled state machine.
type ReservationService struct {
	users        ports.UserRepository
	offerings    ports.OfferingRepository
	reservations ports.ReservationRepository
	tx           ports.Transactor
	idempotency  ports.IdempotencyStore
	activity     ports.ActivityPublisher
	log          zerolog.Logger
	now          func() time.Time
}

// NewReservationService wires the engine. idempotency and activity may be nil.
func NewReservationService(
	users ports.UserRepository,
	offerings ports.OfferingRepository,
	reservations ports.ReservationRepository,
	tx ports.Transactor,
	idempotency ports.IdempotencyStore,
	activity ports.ActivityPublisher,
	log zerolog.Logger,
) *ReservationService {
	if activity == nil {
		activity = noopPublisher{}
	}
	return &ReservationService{
		users:        users,
		offerings:    offerings,
		reservations: reservations,
		tx:           tx,
		idempotency:  idempotency,
		activity:     activity,
		log:          log,
		now:          time.Now,
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(domain.ActivityEvent) {}

// Create books one place of an offering for in.UserID, who must be the actor.
// With an idempotency key, a completed earlier request is replayed instead.
func (s *ReservationService) Create(ctx context.Context, actor domain.Actor, in ports.CreateReservationInput) (*ports.ReservationView, error) {
	if actor.ID != in.UserID {
		return nil, domain.ErrForbidden
	}

	key := ""
	if in.IdempotencyKey != "" && s.idempotency != nil {
		key = in.UserID + ":" + in.IdempotencyKey
		existingID, acquired, err := s.idempotency.Acquire(ctx, key)
		switch {
		case errors.Is(err, domain.ErrRequestInProgress):
			return nil, err
		case err != nil:
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency store unavailable, processing anyway")
			key = ""
		case !acquired:
			return s.replay(ctx, existingID, in.IdempotencyKey)
		}
	}

	view, err := s.create(ctx, in)
	if key != "" {
		if err != nil {
			if relErr := s.idempotency.Release(ctx, key); relErr != nil {
				s.log.Warn().Err(relErr).Str("idempotency_key", in.IdempotencyKey).Msg("failed to release idempotency key")
			}
		} else if cErr := s.idempotency.Complete(ctx, key, view.ID); cErr != nil {
			s.log.Warn().Err(cErr).Str("idempotency_key", in.IdempotencyKey).Msg("failed to complete idempotency key")
		}
	}
	return view, err
}

func (s *ReservationService) replay(ctx context.Context, reservationID, idemKey string) (*ports.ReservationView, error) {
	r, err := s.reservations.FindByID(ctx, reservationID)
	if err != nil {
		return nil, fmt.Errorf("idempotent replay: %w", err)
	}
	view, err := s.view(ctx, r, newJoinCache())
	if err != nil {
		return nil, err
	}
	view.Replayed = true
	s.log.Info().Str("idempotency_key", idemKey).Str("reservation_id", r.ID).Msg("idempotent replay")
	return view, nil
}

func (s *ReservationService) create(ctx context.Context, in ports.CreateReservationInput) (*ports.ReservationView, error) {
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	offering, err := s.offerings.FindByID(ctx, in.OfferingID)
	if err != nil {
		return nil, err
	}
	if !offering.Bookable() {
		return nil, domain.ErrNoAvailability
	}

	if !domain.LuhnValid(in.CardNumber) {
		return nil, domain.ErrInvalidCard
	}
	expired, err := domain.CardExpired(in.CardExpiry, s.now())
	if err != nil {
		return nil, err
	}
	if expired {
		return nil, domain.ErrCardExpired
	}

	now := s.now().UTC()
	r := &domain.Reservation{
		ReservationDate: in.ReservationDate,
		CardHolderName:  in.CardHolderName,
		CardNumber:      domain.MaskCardNumber(in.CardNumber),
		CardExpiry:      in.CardExpiry,
		Status:          domain.ReservationPending,
		UserID:          user.ID,
		OfferingID:      offering.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	var remaining int
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		left, ok, err := s.offerings.TryDecrementSeats(ctx, offering.ID)
		if err != nil {
			return fmt.Errorf("decrement seats: %w", err)
		}
		if !ok {
			return domain.ErrNoAvailability
		}
		remaining = left
		if err := s.reservations.Create(ctx, r); err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("reservation_id", r.ID).
		Str("service_id", offering.ID).
		Int("seats_left", remaining).
		Msg("reservation created")
	s.activity.Publish(domain.ActivityEvent{
		ReservationID: r.ID,
		OfferingID:    offering.ID,
		ActorID:       user.ID,
		Kind:          domain.ActivityCreated,
		SeatsLeft:     remaining,
		OccurredAt:    now,
	})

	return &ports.ReservationView{
		Reservation: *r,
		User:        bookerSummary(user),
		Offering:    offeringSummary(offering),
		SeatsLeft:   remaining,
	}, nil
}

// UpdateStatus applies a status transition requested by actor. The owning
// mentor may only confirm; the booker may only cancel. Canceling returns the
// place to the offering in the same transaction.
func (s *ReservationService) UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.ReservationStatus) (*ports.ReservationView, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}

	r, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	offering, err := s.offerings.FindByID(ctx, r.OfferingID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	isOwner := actor.Role == domain.RoleMentor && offering != nil && offering.OwnerID == actor.ID
	isBooker := r.UserID == actor.ID
	if !isOwner && !isBooker {
		return nil, domain.ErrForbidden
	}
	if r.Status != domain.ReservationPending {
		return nil, fmt.Errorf("%w: reservation is %s", domain.ErrInvalidTransition, r.Status)
	}
	if isOwner && status != domain.ReservationConfirmed {
		return nil, domain.ErrForbidden
	}
	if !isOwner && status != domain.ReservationCanceled {
		return nil, domain.ErrForbidden
	}

	now := s.now().UTC()
	seatsLeft := -1
	var updated *domain.Reservation
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.reservations.TransitionStatus(ctx, r.ID, domain.ReservationPending, status, now)
		if err != nil {
			return err
		}
		if status != domain.ReservationCanceled {
			return nil
		}
		if offering == nil {
			s.log.Warn().Str("reservation_id", r.ID).Str("service_id", r.OfferingID).Msg("service gone, seat not restored")
			return nil
		}
		left, err := s.offerings.RestoreSeat(ctx, offering.ID)
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Warn().Str("reservation_id", r.ID).Str("service_id", offering.ID).Msg("service gone, seat not restored")
			return nil
		}
		if err != nil {
			return fmt.Errorf("restore seat: %w", err)
		}
		seatsLeft = left
		offering.NumberOfPlaces = left
		offering.SyncStatus()
		return nil
	})
	if err != nil {
		return nil, err
	}

	kind := domain.ActivityConfirmed
	if status == domain.ReservationCanceled {
		kind = domain.ActivityCanceled
	}
	s.log.Info().Str("reservation_id", r.ID).Str("status", string(status)).Str("actor_id", actor.ID).Msg("reservation status updated")
	s.activity.Publish(domain.ActivityEvent{
		ReservationID: r.ID,
		OfferingID:    r.OfferingID,
		ActorID:       actor.ID,
		Kind:          kind,
		SeatsLeft:     seatsLeft,
		OccurredAt:    now,
	})

	cache := newJoinCache()
	cache.offerings[r.OfferingID] = offeringSummary(offering)
	view, err := s.view(ctx, updated, cache)
	if err != nil {
		return nil, err
	}
	view.SeatsLeft = seatsLeft
	return view, nil
}

// Get returns a reservation to its booker, the owning mentor or an admin.
func (s *ReservationService) Get(ctx context.Context, actor domain.Actor, id string) (*ports.ReservationView, error) {
	r, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && r.UserID != actor.ID {
		offering, err := s.offerings.FindByID(ctx, r.OfferingID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if offering == nil || offering.OwnerID != actor.ID {
			return nil, domain.ErrForbidden
		}
	}
	return s.view(ctx, r, newJoinCache())
}

func (s *ReservationService) List(ctx context.Context) ([]*ports.ReservationView, error) {
	rs, err := s.reservations.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, rs)
}

func (s *ReservationService) ListForUser(ctx context.Context, actor domain.Actor, userID string) ([]*ports.ReservationView, error) {
	if actor.ID != userID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	rs, err := s.reservations.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, rs)
}

// ListForMentor returns the reservations made on the mentor's offerings.
func (s *ReservationService) ListForMentor(ctx context.Context, actor domain.Actor, mentorID string) ([]*ports.ReservationView, error) {
	if actor.ID != mentorID && !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	offerings, err := s.offerings.ListByOwner(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if len(offerings) == 0 {
		return []*ports.ReservationView{}, nil
	}

	cache := newJoinCache()
	ids := make([]string, 0, len(offerings))
	for _, o := range offerings {
		ids = append(ids, o.ID)
		cache.offerings[o.ID] = offeringSummary(o)
	}
	rs, err := s.reservations.ListByOfferings(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*ports.ReservationView, 0, len(rs))
	for _, r := range rs {
		v, err := s.view(ctx, r, cache)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// joinCache memoises summaries while building several views. A nil entry
// records a reference that no longer resolves.
type joinCache struct {
	users     map[string]*ports.BookerSummary
	offerings map[string]*ports.OfferingSummary
}

func newJoinCache() *joinCache {
	return &joinCache{
		users:     make(map[string]*ports.BookerSummary),
		offerings: make(map[string]*ports.OfferingSummary),
	}
}

func (s *ReservationService) views(ctx context.Context, rs []*domain.Reservation) ([]*ports.ReservationView, error) {
	cache := newJoinCache()
	out := make([]*ports.ReservationView, 0, len(rs))
	for _, r := range rs {
		v, err := s.view(ctx, r, cache)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// view joins r with its booker and offering. Dangling references render as nil.
func (s *ReservationService) view(ctx context.Context, r *domain.Reservation, cache *joinCache) (*ports.ReservationView, error) {
	booker, ok := cache.users[r.UserID]
	if !ok {
		u, err := s.users.FindByID(ctx, r.UserID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		booker = bookerSummary(u)
		cache.users[r.UserID] = booker
	}

	offering, ok := cache.offerings[r.OfferingID]
	if !ok {
		o, err := s.offerings.FindByID(ctx, r.OfferingID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		offering = offeringSummary(o)
		cache.offerings[r.OfferingID] = offering
	}

	return &ports.ReservationView{Reservation: *r, User: booker, Offering: offering, SeatsLeft: -1}, nil
}

func bookerSummary(u *domain.User) *ports.BookerSummary {
	if u == nil {
		return nil
	}
	return &ports.BookerSummary{ID: u.ID, FullName: u.FullName, Email: u.Email}
}

func offeringSummary(o *domain.Offering) *ports.OfferingSummary {
	if o == nil {
		return nil
	}
	return &ports.OfferingSummary{ID: o.ID, Title: o.Title, Price: o.Price, Description: o.Description}
}
