package domain

import "time"

// OfferingStatus is the advertised state of a bookable service.
type OfferingStatus string

const (
	OfferingAvailable    OfferingStatus = "available"
	OfferingNotAvailable OfferingStatus = "not-available"
	OfferingArchived     OfferingStatus = "archived"
)

// Valid reports whether s is a known offering status.
func (s OfferingStatus) Valid() bool {
	switch s {
	case OfferingAvailable, OfferingNotAvailable, OfferingArchived:
		return true
	}
	return false
}

// Offering is a bookable mentoring service with a finite number of places.
//
// NumberOfPlaces == 0 implies Status == OfferingNotAvailable, and a count of
// one or more never leaves the status at OfferingNotAvailable.
type Offering struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	Status         OfferingStatus `json:"status"`
	Image          string         `json:"serviceImage,omitempty"`
	Price          float64        `json:"price"`
	Duration       int            `json:"duration"`
	NumberOfPlaces int            `json:"numberOfPlaces"`
	OwnerID        string         `json:"userId"`
	CategoryID     string         `json:"categoryId"`
	CreatedAt      time.Time      `json:"createdAt"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// SyncStatus re-establishes the link between the seat count and the status.
func (o *Offering) SyncStatus() {
	switch {
	case o.NumberOfPlaces <= 0:
		o.NumberOfPlaces = 0
		o.Status = OfferingNotAvailable
	case o.Status == OfferingNotAvailable || o.Status == "":
		o.Status = OfferingAvailable
	}
}

// Bookable reports whether a reservation may be attempted against o.
func (o *Offering) Bookable() bool {
	return o.NumberOfPlaces > 0 && o.Status != OfferingArchived
}
