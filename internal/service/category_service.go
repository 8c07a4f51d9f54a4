package service

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/taskhive/taskhive/internal/domain"
	"github.com/taskhive/taskhive/internal/repository"
)

// CategoryService manages shared categories. Mutations require an
// authenticated caller but categories carry no owner, so there is no
// ownership check here.
type CategoryService struct {
	categories repository.CategoryRepository
	node       *snowflake.Node
	logger     *zap.Logger
}

func NewCategoryService(categories repository.CategoryRepository, node *snowflake.Node, logger *zap.Logger) *CategoryService {
	return &CategoryService{categories: categories, node: node, logger: logger}
}

func (s *CategoryService) Create(ctx context.Context, name string) (domain.Category, error) {
	category := domain.Category{
		ID:   s.node.Generate().Int64(),
		Name: name,
	}
	created, err := s.categories.Create(ctx, category)
	if err != nil {
		return domain.Category{}, domain.ErrTransient("Database unavailable")
	}
	return created, nil
}

func (s *CategoryService) Get(ctx context.Context, id int64) (domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Category{}, domain.ErrNotFound("Category not found")
		}
		return domain.Category{}, domain.ErrTransient("Database unavailable")
	}
	return category, nil
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, domain.ErrTransient("Database unavailable")
	}
	return categories, nil
}

func (s *CategoryService) Update(ctx context.Context, id int64, name string) (domain.Category, error) {
	updated, err := s.categories.Update(ctx, domain.Category{ID: id, Name: name})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Category{}, domain.ErrNotFound("Category not found")
		}
		return domain.Category{}, domain.ErrTransient("Database unavailable")
	}
	return updated, nil
}

func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.ErrNotFound("Category not found")
		}
		return domain.ErrTransient("Database unavailable")
	}
	return nil
}
