package service

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
	"github.com/mentorhub/mentoring-api/internal/core/ports"
)

const userImageDir = "/images/users"

// UserService implements self-service and admin identity management.
type UserService struct {
	repo              ports.UserRepository
	passwordMinLength int
	log               zerolog.Logger
	now               func() time.Time
}

func NewUserService(repo ports.UserRepository, cfg AuthConfig, log zerolog.Logger) *UserService {
	cfg = cfg.withDefaults()
	return &UserService{repo: repo, passwordMinLength: cfg.PasswordMinLength, log: log, now: time.Now}
}

func (s *UserService) Current(ctx context.Context, actor domain.Actor) (*domain.User, error) {
	return s.repo.FindByID(ctx, actor.ID)
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) ListMentors(ctx context.Context) ([]ports.MentorSummary, error) {
	users, err := s.repo.ListByRole(ctx, domain.RoleMentor)
	if err != nil {
		return nil, err
	}
	out := make([]ports.MentorSummary, 0, len(users))
	for _, u := range users {
		out = append(out, ports.MentorSummary{
			ID:           u.ID,
			FullName:     u.FullName,
			Email:        u.Email,
			Username:     u.Username,
			ProfileImage: u.ProfileImage,
		})
	}
	return out, nil
}

// UpdateProfile applies the non-nil fields of input to the actor's own record.
// A new password is re-hashed.
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.Actor, in ports.UpdateProfileInput) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.FullName != nil {
		if strings.TrimSpace(*in.FullName) == "" {
			return nil, fmt.Errorf("%w: fullName", domain.ErrInvalidInput)
		}
		user.FullName = *in.FullName
	}
	if in.Password != nil {
		if err := validatePassword(*in.Password, s.passwordMinLength); err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("update profile: hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if in.ProfileImage != nil {
		user.ProfileImage = imagePath(*in.ProfileImage)
	}
	user.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes an identity. Only the identity itself or an admin may do so.
// Records referencing the identity are left in place.
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if actor.ID != id && !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("user_id", id).Str("actor_id", actor.ID).Msg("user deleted")
	return nil
}

func (s *UserService) ChangeRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	user.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", id).Str("role", string(role)).Msg("user role changed")
	return user, nil
}

// imagePath maps an uploaded file name to its public path.
func imagePath(name string) string {
	if name == "" || strings.HasPrefix(name, userImageDir+"/") {
		return name
	}
	return path.Join(userImageDir, path.Base(name))
}
