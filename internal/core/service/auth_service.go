package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
	"github.com/mentorhub/mentoring-api/internal/core/ports"
)

const (
	bcryptCost               = 10
	defaultTokenTTL          = 24 * time.Hour
	defaultEmailMaxLength    = 250
	defaultPasswordMinLength = 8
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// AuthConfig holds the signing secret and credential limits handed to the
// auth service at construction.
type AuthConfig struct {
	Secret            string
	TokenTTL          time.Duration
	EmailMaxLength    int
	PasswordMinLength int
}

func (c AuthConfig) withDefaults() AuthConfig {
	if c.TokenTTL <= 0 {
		c.TokenTTL = defaultTokenTTL
	}
	if c.EmailMaxLength <= 0 {
		c.EmailMaxLength = defaultEmailMaxLength
	}
	if c.PasswordMinLength <= 0 {
		c.PasswordMinLength = defaultPasswordMinLength
	}
	return c
}

// sessionClaims is the signed token payload. The subject is the user id.
type sessionClaims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// AuthService implements registration, login and token verification.
type AuthService struct {
	repo ports.UserRepository
	cfg  AuthConfig
	log  zerolog.Logger
	now  func() time.Time
}

func NewAuthService(repo ports.UserRepository, cfg AuthConfig, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, cfg: cfg.withDefaults(), log: log, now: time.Now}
}

func validatePassword(password string, minLength int) error {
	if len(password) < minLength {
		return fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minLength)
	}
	if len(password) > maxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", domain.ErrInvalidInput, maxPasswordBytes)
	}
	return nil
}

// Register creates a normal-user identity with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if in.Email == "" || len(in.Email) > s.cfg.EmailMaxLength || !strings.Contains(in.Email, "@") {
		return nil, fmt.Errorf("%w: email", domain.ErrInvalidInput)
	}
	if err := validatePassword(in.Password, s.cfg.PasswordMinLength); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.FullName) == "" {
		return nil, fmt.Errorf("%w: fullName", domain.ErrInvalidInput)
	}

	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, domain.ErrDuplicateIdentity
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := s.now().UTC()
	user := &domain.User{
		Username:     in.Username,
		FullName:     in.FullName,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleNormalUser,
		ProfileImage: in.ProfileImage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, nil
}

// Login checks the credentials and returns a signed session token. Unknown
// email and wrong password fail with the same error.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", fmt.Errorf("login: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	return s.generateToken(user)
}

// Verify validates the signature and expiry of token and returns its payload.
func (s *AuthService) Verify(token string) (*ports.TokenClaims, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(s.cfg.Secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrInvalidToken)
	}

	out := &ports.TokenClaims{UserID: claims.Subject, Role: claims.Role}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func (s *AuthService) generateToken(user *domain.User) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.TokenTTL)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.cfg.Secret))
}
