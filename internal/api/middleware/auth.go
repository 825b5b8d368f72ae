package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mentorhub/mentoring-api/internal/api/metrics"
	"github.com/mentorhub/mentoring-api/internal/core/domain"
	"github.com/mentorhub/mentoring-api/internal/core/ports"
)

const actorKey = "actor"

// UserFinder resolves the identity behind a token.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Authenticate verifies the bearer token, re-reads the identity from the
// credential store and injects the actor, with its current stored role, into
// the context.
func Authenticate(verifier ports.TokenVerifier, users UserFinder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return unauthenticated("missing or malformed authorization header")
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				return unauthenticated("invalid token")
			}

			user, err := users.FindByID(c.Request().Context(), claims.UserID)
			if errors.Is(err, domain.ErrNotFound) {
				return unauthenticated("user no longer exists")
			}
			if err != nil {
				return err
			}

			c.Set(actorKey, domain.Actor{ID: user.ID, Role: user.Role})
			return next(c)
		}
	}
}

// bearerToken accepts exactly "Bearer <token>".
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" || token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// ActorFrom returns the actor injected by Authenticate.
func ActorFrom(c echo.Context) (domain.Actor, bool) {
	actor, ok := c.Get(actorKey).(domain.Actor)
	return actor, ok && actor.ID != ""
}

func unauthenticated(msg string) error {
	metrics.GateDenialsTotal.WithLabelValues("unauthenticated").Inc()
	return echo.NewHTTPError(http.StatusUnauthorized, msg).SetInternal(domain.ErrUnauthenticated)
}
