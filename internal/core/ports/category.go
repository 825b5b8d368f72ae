package ports

import (
	"context"

	"github.com/mentorhub/mentoring-api/internal/core/domain"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}

type CategoryService interface {
	Create(ctx context.Context, actor domain.Actor, title string) (*domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]*domain.Category, error)
}
