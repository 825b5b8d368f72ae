package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
	"github.com/mentorhub/mentoring-api/internal/core/ports"
)

// Gate is the per-route role gate: authentication followed by a role check.
type Gate struct {
	authenticate echo.MiddlewareFunc
}

func NewGate(verifier ports.TokenVerifier, users UserFinder) *Gate {
	return &Gate{authenticate: Authenticate(verifier, users)}
}

// Require admits requests whose actor currently holds one of roles.
func (g *Gate) Require(roles ...domain.Role) echo.MiddlewareFunc {
	check := RBAC(roles...)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return g.authenticate(check(next))
	}
}
