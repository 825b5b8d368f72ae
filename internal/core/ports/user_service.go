package ports

import (
	"context"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

// UpdateProfileInput holds the self-service profile changes. Nil fields are left untouched.
type UpdateProfileInput struct {
	Username     *string
	FullName     *string
	Password     *string
	ProfileImage *string
}

// MentorSummary is the public view of a mentor.
type MentorSummary struct {
	ID           string
	FullName     string
	Email        string
	Username     string
	ProfileImage string
}

// UserService manages identities after registration.
type UserService interface {
	Current(ctx context.Context, actor domain.Actor) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	ListMentors(ctx context.Context) ([]MentorSummary, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, input UpdateProfileInput) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.User, error)
}
