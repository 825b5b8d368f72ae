package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
	"github.com/mentorhub/mentoring-api/internal/core/ports"
)

// ActivityDedup abstracts the duplicate check for activity events (Redis).
type ActivityDedup interface {
	IsDuplicate(ctx context.Context, reservationID string, kind domain.ActivityKind) (bool, error)
	Mark(ctx context.Context, reservationID string, kind domain.ActivityKind) error
}

type activityRecorder struct {
	repo  ports.ActivityRepository
	dedup ActivityDedup
	log   zerolog.Logger
}

// NewActivityRecorder returns an ActivityRecorder. dedup may be nil.
func NewActivityRecorder(repo ports.ActivityRepository, dedup ActivityDedup, log zerolog.Logger) ports.ActivityRecorder {
	return &activityRecorder{repo: repo, dedup: dedup, log: log}
}

// Record deduplicates and persists a single activity event.
func (s *activityRecorder) Record(ctx context.Context, ev domain.ActivityEvent) error {
	if s.dedup != nil {
		isDup, err := s.dedup.IsDuplicate(ctx, ev.ReservationID, ev.Kind)
		if err != nil {
			s.log.Warn().Err(err).Str("reservation_id", ev.ReservationID).Msg("dedup check failed, recording anyway")
		} else if isDup {
			s.log.Debug().Str("reservation_id", ev.ReservationID).Str("kind", string(ev.Kind)).Msg("duplicate activity skipped")
			return nil
		}
	}

	if err := s.repo.Insert(ctx, &ev); err != nil {
		return fmt.Errorf("record activity: %w", err)
	}

	if s.dedup != nil {
		if err := s.dedup.Mark(ctx, ev.ReservationID, ev.Kind); err != nil {
			s.log.Warn().Err(err).Str("reservation_id", ev.ReservationID).Msg("failed to set dedup key")
		}
	}

	s.log.Debug().
		Str("reservation_id", ev.ReservationID).
		Str("service_id", ev.OfferingID).
		Str("kind", string(ev.Kind)).
		Msg("activity recorded")
	return nil
}
