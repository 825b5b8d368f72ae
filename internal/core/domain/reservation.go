package domain

import "time"

// ReservationStatus represents the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCanceled  ReservationStatus = "canceled"
)

// validTransitions defines the allowed state machine transitions.
// Confirmed and canceled are terminal.
var validTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationPending: {ReservationConfirmed, ReservationCanceled},
}

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCanceled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s ReservationStatus) Terminal() bool {
	return len(validTransitions[s]) == 0
}

// Reservation books one place of an offering for a user.
// CardNumber only ever holds the masked form.
type Reservation struct {
	ID              string            `json:"id"`
	ReservationDate time.Time         `json:"reservationDate"`
	CardHolderName  string            `json:"cardHolderName"`
	CardNumber      string            `json:"cardNumber"`
	CardExpiry      string            `json:"cardExpiry"`
	Status          ReservationStatus `json:"status"`
	UserID          string            `json:"userId"`
	OfferingID      string            `json:"serviceId"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}
