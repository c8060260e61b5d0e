package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/icepoint/backend/internal/domain/catalog"
	"github.com/icepoint/backend/internal/domain/shared"
)

// CategoryService manages storefront categories
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, logger: logger}
}

// List returns every category
func (s *CategoryService) List(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		views = append(views, ToCategoryResponse(&categories[i]))
	}
	return views, nil
}

// Get returns one category by id
func (s *CategoryService) Get(ctx context.Context, id int64) (*CategoryResponse, error) {
	c, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, req CreateCategoryRequest) (*CategoryResponse, error) {
	c, err := catalog.NewCategory(req.Name, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("category created", zap.Int64("category_id", c.ID), zap.String("name", c.Name))
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// Update applies a partial update to a category
func (s *CategoryService) Update(ctx context.Context, id int64, req UpdateCategoryRequest) (*CategoryResponse, error) {
	c, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewValidationError("Category name cannot be empty")
		}
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.Active != nil {
		c.SetActive(*req.Active)
	}

	if err := s.categoryRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCategoryResponse(c)
	return &resp, nil
}

// Delete removes a category. Its products are kept and detached.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewNotFoundError("Category not found")
		}
		return err
	}
	return nil
}

func (s *CategoryService) findCategory(ctx context.Context, id int64) (*catalog.Category, error) {
	c, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Category not found")
		}
		return nil, err
	}
	return c, nil
}
