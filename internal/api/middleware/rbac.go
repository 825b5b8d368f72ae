package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mentorhub/mentoring-api/internal/api/metrics"
	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

// RBAC enforces role-based access control on the actor set by Authenticate.
// An empty role list denies every request.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFrom(c)
			if !ok {
				return unauthenticated("missing authentication")
			}
			if _, ok := allowed[actor.Role]; !ok {
				metrics.GateDenialsTotal.WithLabelValues("forbidden").Inc()
				return echo.NewHTTPError(http.StatusForbidden, "forbidden").SetInternal(domain.ErrForbidden)
			}
			return next(c)
		}
	}
}
