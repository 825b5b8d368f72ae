package ports

import (
	"context"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

// UserRepository is the credential store.
type UserRepository interface {
	// Create persists a new identity. Returns domain.ErrDuplicateIdentity when
	// the email is already registered.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
	// Update overwrites the mutable profile fields and the role.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
