package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mentorhub/mentoring-api/internal/core/ports"
)

// OfferingHandler serves the bookable services published by mentors.
type OfferingHandler struct {
	service ports.OfferingService
}

func NewOfferingHandler(service ports.OfferingService) *OfferingHandler {
	return &OfferingHandler{service: service}
}

// Create godoc
// @Summary      Publish a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOfferingRequest  true  "Service"
// @Success      201   {object}  domain.Offering
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /services [post]
func (h *OfferingHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req createOfferingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	o, err := h.service.Create(c.Request().Context(), actor, toCreateOfferingInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, o)
}

// List godoc
// @Summary      List services
// @Tags         services
// @Produce      json
// @Success      200  {array}  domain.Offering
// @Router       /services [get]
func (h *OfferingHandler) List(c echo.Context) error {
	offerings, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offerings)
}

// Get godoc
// @Summary      Get a service
// @Tags         services
// @Produce      json
// @Param        id   path      string  true  "Service ID"
// @Success      200  {object}  domain.Offering
// @Failure      404  {object}  errorResponse
// @Router       /services/{id} [get]
func (h *OfferingHandler) Get(c echo.Context) error {
	o, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}

// ListByMentor godoc
// @Summary      List a mentor's services
// @Tags         services
// @Produce      json
// @Param        mentorId  path     string  true  "Mentor ID"
// @Success      200       {array}  domain.Offering
// @Router       /services/mentor/{mentorId} [get]
func (h *OfferingHandler) ListByMentor(c echo.Context) error {
	offerings, err := h.service.ListByMentor(c.Request().Context(), c.Param("mentorId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, offerings)
}

// Update godoc
// @Summary      Update a service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Service ID"
// @Param        body  body      updateOfferingRequest  true  "Changes"
// @Success      200   {object}  domain.Offering
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /services/{id} [put]
func (h *OfferingHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	var req updateOfferingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	o, err := h.service.Update(c.Request().Context(), actor, c.Param("id"), toUpdateOfferingInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, o)
}

// Delete godoc
// @Summary      Delete a service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /services/{id} [delete]
func (h *OfferingHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "service deleted"})
}
