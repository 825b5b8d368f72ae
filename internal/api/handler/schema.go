package handler

import (
	"time"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Email        string `json:"email"        validate:"required,email,max=250"`
	Password     string `json:"password"     validate:"required,min=8,max=72"`
	FullName     string `json:"fullName"     validate:"required,max=100"`
	Username     string `json:"username"     validate:"omitempty,max=50"`
	ProfileImage string `json:"profileImage" validate:"omitempty,max=255"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

// --- Users ---

type updateProfileRequest struct {
	Username     *string `json:"username"     validate:"omitempty,max=50"`
	FullName     *string `json:"fullName"     validate:"omitempty,min=1,max=100"`
	Password     *string `json:"password"     validate:"omitempty,min=8,max=72"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,max=255"`
}

type changeRoleRequest struct {
	NewRole string `json:"newRole" validate:"required,oneof=admin normal-user mentor"`
}

type mentorResponse struct {
	ID           string `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Username     string `json:"username,omitempty"`
	ProfileImage string `json:"profileImage,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Categories ---

type createCategoryRequest struct {
	Title string `json:"title" validate:"required,max=100"`
}

// --- Services ---

type createOfferingRequest struct {
	Title          string  `json:"title"          validate:"required,max=100"`
	Description    string  `json:"description"    validate:"required"`
	Duration       int     `json:"duration"       validate:"required,min=1"`
	Price          float64 `json:"price"          validate:"required,gt=0"`
	NumberOfPlaces int     `json:"numberOfPlaces" validate:"required,min=1"`
	Status         string  `json:"status"         validate:"omitempty,oneof=available not-available archived"`
	CategoryID     string  `json:"categoryId"     validate:"required"`
	Image          string  `json:"serviceImage"   validate:"omitempty,max=255"`
}

type updateOfferingRequest struct {
	Title          *string  `json:"title"          validate:"omitempty,min=1,max=100"`
	Description    *string  `json:"description"`
	Duration       *int     `json:"duration"       validate:"omitempty,min=1"`
	Price          *float64 `json:"price"          validate:"omitempty,gt=0"`
	NumberOfPlaces *int     `json:"numberOfPlaces" validate:"omitempty,min=0"`
	Status         *string  `json:"status"         validate:"omitempty,oneof=available not-available archived"`
	CategoryID     *string  `json:"categoryId"     validate:"omitempty,min=1"`
	Image          *string  `json:"serviceImage"   validate:"omitempty,max=255"`
}

// --- Reservations ---

type createReservationRequest struct {
	ReservationDate time.Time `json:"reservationDate" validate:"required"`
	CardHolderName  string    `json:"cardHolderName"  validate:"required,max=100"`
	CardNumber      string    `json:"cardNumber"      validate:"required,min=12,max=23"`
	CardExpiry      string    `json:"cardExpiry"      validate:"required,card_expiry"`
	CardCVV         string    `json:"cardCVV"         validate:"required,numeric,min=3,max=4"`
}

type updateReservationStatusRequest struct {
	Status domain.ReservationStatus `json:"status" validate:"required,oneof=pending confirmed canceled"`
}
