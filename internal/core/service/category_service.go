package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
	"github.com/mentorhub/mentoring-api/internal/core/ports"
)

const maxTitleLength = 100

type CategoryService struct {
	repo ports.CategoryRepository
	now  func() time.Time
}

func NewCategoryService(repo ports.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo, now: time.Now}
}

func (s *CategoryService) Create(ctx context.Context, actor domain.Actor, title string) (*domain.Category, error) {
	title = strings.TrimSpace(title)
	if title == "" || len(title) > maxTitleLength {
		return nil, fmt.Errorf("%w: title", domain.ErrInvalidInput)
	}
	now := s.now().UTC()
	c := &domain.Category{Title: title, OwnerID: actor.ID, CreatedAt: now, UpdatedAt: now}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}
