package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mentorhub/mentoring-api/internal/api/middleware"
	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

// ctxActor extracts the actor injected by the role gate. Its absence means
// the route was registered without the gate.
func ctxActor(c echo.Context) (domain.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return actor, nil
}

// bindAndValidate decodes the request body into req and runs struct validation.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
