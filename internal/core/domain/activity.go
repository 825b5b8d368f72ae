package domain

import "time"

// ActivityKind names what happened to a reservation.
type ActivityKind string

const (
	ActivityCreated   ActivityKind = "created"
	ActivityConfirmed ActivityKind = "confirmed"
	ActivityCanceled  ActivityKind = "canceled"
)

// ActivityEvent is an audit record of a reservation lifecycle step.
type ActivityEvent struct {
	ReservationID string
	OfferingID    string
	ActorID       string
	Kind          ActivityKind
	SeatsLeft     int
	OccurredAt    time.Time
}
