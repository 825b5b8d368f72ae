package ports

import (
	"context"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

// ActivityPublisher hands reservation activity off for asynchronous recording.
// Publish must not block the caller.
type ActivityPublisher interface {
	Publish(event domain.ActivityEvent)
}

// ActivityRepository persists the reservation activity trail.
type ActivityRepository interface {
	Insert(ctx context.Context, event *domain.ActivityEvent) error
}

// ActivityRecorder processes one activity event.
type ActivityRecorder interface {
	Record(ctx context.Context, event domain.ActivityEvent) error
}
