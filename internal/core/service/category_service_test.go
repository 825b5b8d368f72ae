package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

func TestCategoryService_Create(t *testing.T) {
	svc := NewCategoryService(newStubCategoryRepo())
	admin := domain.Actor{ID: "admin-1", Role: domain.RoleAdmin}

	c, err := svc.Create(context.Background(), admin, "  Career coaching ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Title != "Career coaching" || c.OwnerID != "admin-1" || c.ID == "" {
		t.Fatalf("unexpected category: %+v", c)
	}

	got, err := svc.Get(context.Background(), c.ID)
	if err != nil || got.Title != c.Title {
		t.Fatalf("get after create: %+v, %v", got, err)
	}
}

func TestCategoryService_Create_InvalidTitle(t *testing.T) {
	svc := NewCategoryService(newStubCategoryRepo())
	for _, title := range []string{"", "   ", strings.Repeat("x", maxTitleLength+1)} {
		if _, err := svc.Create(context.Background(), domain.Actor{ID: "a"}, title); !errors.Is(err, domain.ErrInvalidInput) {
			t.Errorf("title %q: expected ErrInvalidInput, got %v", title, err)
		}
	}
}

func TestCategoryService_Get_NotFound(t *testing.T) {
	svc := NewCategoryService(newStubCategoryRepo())
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
