package ports

import (
	"context"
	"time"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Email        string
	Password     string
	FullName     string
	Username     string
	ProfileImage string
}

// TokenClaims is the decoded payload of a session token.
type TokenClaims struct {
	UserID    string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenVerifier validates session tokens.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// AuthService registers identities and issues session tokens.
type AuthService interface {
	TokenVerifier
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, error)
}
