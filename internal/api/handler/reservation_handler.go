package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mentorhub/mentoring-api/internal/api/metrics"
	"github.com/mentorhub/mentoring-api/internal/core/domain"
	"github.com/mentorhub/mentoring-api/internal/core/ports"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

// ReservationHandler handles HTTP requests for the reservation lifecycle.
type ReservationHandler struct {
	service ports.ReservationService
}

func NewReservationHandler(service ports.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: service}
}

// Create books one place of a service.
//
// @Summary      Reserve a service
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        userId           path      string                    true   "Booking user ID"
// @Param        serviceId        path      string                    true   "Service ID"
// @Param        Idempotency-Key  header    string                    false  "Idempotency key to prevent duplicate bookings"
// @Param        body             body      createReservationRequest  true   "Booking and card details"
// @Success      201              {object}  ports.ReservationView
// @Success      200              {object}  ports.ReservationView  "Replayed idempotent request"
// @Failure      400              {object}  errorResponse
// @Failure      401              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Router       /reservations/{userId}/{serviceId} [post]
func (h *ReservationHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req createReservationRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.ReservationErrorsTotal.WithLabelValues("create", "validation").Inc()
		return err
	}

	in := toCreateReservationInput(req, c.Param("userId"), c.Param("serviceId"), c.Request().Header.Get(headerIdempotencyKey))
	view, err := h.service.Create(c.Request().Context(), actor, in)
	if err != nil {
		return reservationError("create", err)
	}

	metrics.ReservationsCreatedTotal.WithLabelValues(strconv.FormatBool(view.Replayed)).Inc()
	if view.Replayed {
		c.Response().Header().Set(headerReplayed, "true")
		return c.JSON(http.StatusOK, view)
	}
	if view.SeatsLeft >= 0 {
		metrics.SeatsRemaining.WithLabelValues(view.OfferingID).Set(float64(view.SeatsLeft))
	}
	return c.JSON(http.StatusCreated, view)
}

// UpdateStatus confirms (owning mentor) or cancels (booker) a pending reservation.
//
// @Summary      Change reservation status
// @Tags         reservations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      string                          true  "Reservation ID"
// @Param        userId    path      string                          true  "Acting user ID"
// @Param        userRole  path      string                          true  "Acting user role"
// @Param        body      body      updateReservationStatusRequest  true  "New status"
// @Success      200       {object}  ports.ReservationView
// @Failure      400       {object}  errorResponse
// @Failure      401       {object}  errorResponse
// @Router       /reservations/{id}/status/{userId}/{userRole} [patch]
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if c.Param("userId") != actor.ID || domain.Role(c.Param("userRole")) != actor.Role {
		return reservationError("update_status", domain.ErrForbidden)
	}
	var req updateReservationStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.ReservationErrorsTotal.WithLabelValues("update_status", "validation").Inc()
		return err
	}

	view, err := h.service.UpdateStatus(c.Request().Context(), actor, c.Param("id"), req.Status)
	if err != nil {
		return reservationError("update_status", err)
	}

	metrics.ReservationTransitionsTotal.WithLabelValues(string(view.Status)).Inc()
	if view.SeatsLeft >= 0 {
		metrics.SeatsRemaining.WithLabelValues(view.OfferingID).Set(float64(view.SeatsLeft))
	}
	return c.JSON(http.StatusOK, view)
}

// List godoc
// @Summary      List all reservations
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   ports.ReservationView
// @Failure      403  {object}  errorResponse
// @Router       /reservations [get]
func (h *ReservationHandler) List(c echo.Context) error {
	views, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// Get godoc
// @Summary      Get a reservation
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Reservation ID"
// @Success      200  {object}  ports.ReservationView
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /reservations/{id} [get]
func (h *ReservationHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	view, err := h.service.Get(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// ListForUser godoc
// @Summary      List a user's reservations
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        userId  path      string  true  "User ID"
// @Success      200     {array}   ports.ReservationView
// @Failure      403     {object}  errorResponse
// @Router       /reservations/user/{userId} [get]
func (h *ReservationHandler) ListForUser(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	views, err := h.service.ListForUser(c.Request().Context(), actor, c.Param("userId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// ListForMentor godoc
// @Summary      List reservations on a mentor's services
// @Tags         reservations
// @Produce      json
// @Security     BearerAuth
// @Param        mentorId  path      string  true  "Mentor ID"
// @Success      200       {array}   ports.ReservationView
// @Failure      403       {object}  errorResponse
// @Router       /reservations/mentor/{mentorId} [get]
func (h *ReservationHandler) ListForMentor(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	views, err := h.service.ListForMentor(c.Request().Context(), actor, c.Param("mentorId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, views)
}

// reservationReasons lists the business failures the reservation write
// endpoints report as 400, with their metric label.
var reservationReasons = []struct {
	err    error
	reason string
}{
	{domain.ErrNotFound, "not_found"},
	{domain.ErrForbidden, "forbidden"},
	{domain.ErrInvalidInput, "invalid_input"},
	{domain.ErrInvalidCard, "invalid_card"},
	{domain.ErrCardExpired, "card_expired"},
	{domain.ErrNoAvailability, "no_availability"},
	{domain.ErrInvalidTransition, "invalid_transition"},
}

func reservationError(op string, err error) error {
	for _, r := range reservationReasons {
		if errors.Is(err, r.err) {
			metrics.ReservationErrorsTotal.WithLabelValues(op, r.reason).Inc()
			return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
		}
	}
	if errors.Is(err, domain.ErrRequestInProgress) {
		metrics.ReservationErrorsTotal.WithLabelValues(op, "in_progress").Inc()
	}
	return err
}
