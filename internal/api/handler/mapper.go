package handler

import (
	"github.com/mentorhub/mentoring-api/internal/core/domain"
	"github.com/mentorhub/mentoring-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		Email:        req.Email,
		Password:     req.Password,
		FullName:     req.FullName,
		Username:     req.Username,
		ProfileImage: req.ProfileImage,
	}
}

func toCreateOfferingInput(req createOfferingRequest) ports.CreateOfferingInput {
	return ports.CreateOfferingInput{
		Title:          req.Title,
		Description:    req.Description,
		Duration:       req.Duration,
		Price:          req.Price,
		NumberOfPlaces: req.NumberOfPlaces,
		Status:         domain.OfferingStatus(req.Status),
		CategoryID:     req.CategoryID,
		Image:          req.Image,
	}
}

func toUpdateOfferingInput(req updateOfferingRequest) ports.UpdateOfferingInput {
	in := ports.UpdateOfferingInput{
		Title:          req.Title,
		Description:    req.Description,
		Duration:       req.Duration,
		Price:          req.Price,
		NumberOfPlaces: req.NumberOfPlaces,
		CategoryID:     req.CategoryID,
		Image:          req.Image,
	}
	if req.Status != nil {
		s := domain.OfferingStatus(*req.Status)
		in.Status = &s
	}
	return in
}

func toCreateReservationInput(req createReservationRequest, userID, offeringID, idempotencyKey string) ports.CreateReservationInput {
	return ports.CreateReservationInput{
		UserID:          userID,
		OfferingID:      offeringID,
		ReservationDate: req.ReservationDate,
		CardHolderName:  req.CardHolderName,
		CardNumber:      req.CardNumber,
		CardExpiry:      req.CardExpiry,
		IdempotencyKey:  idempotencyKey,
	}
}

// --- Service output → Response ---

func toMentorResponses(in []ports.MentorSummary) []mentorResponse {
	out := make([]mentorResponse, 0, len(in))
	for _, m := range in {
		out = append(out, mentorResponse{
			ID:           m.ID,
			FullName:     m.FullName,
			Email:        m.Email,
			Username:     m.Username,
			ProfileImage: m.ProfileImage,
		})
	}
	return out
}
