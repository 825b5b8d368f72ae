package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
	"github.com/mentorhub/mentoring-api/internal/core/ports"
)

type stubAuthService struct {
	registerErr error
	loginErr    error
	registered  []ports.RegisterInput
}

func (s *stubAuthService) Register(_ context.Context, in ports.RegisterInput) (*domain.User, error) {
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	s.registered = append(s.registered, in)
	return &domain.User{ID: "u1", Email: in.Email, FullName: in.FullName, PasswordHash: "hash", Role: domain.RoleNormalUser}, nil
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (string, error) {
	if s.loginErr != nil {
		return "", s.loginErr
	}
	return "signed.token.value", nil
}

func (s *stubAuthService) Verify(string) (*ports.TokenClaims, error) {
	return nil, domain.ErrInvalidToken
}

const registerBody = `{"email":"alice@example.com","password":"password123","fullName":"Alice"}`

func TestAuthHandler_Register_Created(t *testing.T) {
	svc := &stubAuthService{}
	c, rec, e := newContext(http.MethodPost, "/users/auth/register", registerBody, nil)

	run(t, e, c, NewAuthHandler(svc).Register)

	expectStatus(t, rec, http.StatusCreated)
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, leaked := body["passwordHash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
	if body["email"] != "alice@example.com" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	svc := &stubAuthService{}
	c, rec, e := newContext(http.MethodPost, "/users/auth/register", `{"email":"nope","password":"short"}`, nil)

	run(t, e, c, NewAuthHandler(svc).Register)

	expectStatus(t, rec, http.StatusBadRequest)
	if len(svc.registered) != 0 {
		t.Fatalf("service must not be called on invalid input")
	}
}

func TestAuthHandler_Login(t *testing.T) {
	c, rec, e := newContext(http.MethodPost, "/users/auth/login", `{"email":"alice@example.com","password":"password123"}`, nil)

	run(t, e, c, NewAuthHandler(&stubAuthService{}).Login)

	expectStatus(t, rec, http.StatusOK)
	var body loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.AccessToken != "signed.token.value" {
		t.Fatalf("unexpected token %q", body.AccessToken)
	}
}

func TestAuthHandler_Register_RejectsOverlongPassword(t *testing.T) {
	svc := &stubAuthService{}
	body := `{"email":"alice@example.com","password":"` + strings.Repeat("p", 80) + `","fullName":"Alice"}`
	c, rec, e := newContext(http.MethodPost, "/users/auth/register", body, nil)

	run(t, e, c, NewAuthHandler(svc).Register)

	expectStatus(t, rec, http.StatusBadRequest)
	if len(svc.registered) != 0 {
		t.Fatalf("service must not be called for an over-long password")
	}
}
