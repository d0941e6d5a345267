package service

import (
	"context"
	"errors"
	"strings"

	"comercio/internal/dto"
	"comercio/internal/model"
	"comercio/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryService interface {
	Create(ctx context.Context, owner uuid.UUID, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	List(ctx context.Context, owner uuid.UUID) ([]dto.CategoryResponse, error)
	Update(ctx context.Context, owner, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error)
	Deactivate(ctx context.Context, owner, id uuid.UUID) error
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) Create(ctx context.Context, owner uuid.UUID, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	c := &model.Category{
		Name:      strings.ToLower(strings.TrimSpace(req.Name)),
		Display:   req.Display,
		Color:     req.Color,
		Icon:      req.Icon,
		SortOrder: req.SortOrder,
		Active:    true,
		CreatedBy: owner,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrDuplicateEntry
		}
		return nil, err
	}
	return categoryToResponse(c), nil
}

func (s *categoryService) List(ctx context.Context, owner uuid.UUID) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.List(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, *categoryToResponse(&categories[i]))
	}
	return out, nil
}

func (s *categoryService) Update(ctx context.Context, owner, id uuid.UUID, req dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		c.Name = strings.ToLower(strings.TrimSpace(*req.Name))
	}
	if req.Display != nil {
		c.Display = *req.Display
	}
	if req.Color != nil {
		c.Color = req.Color
	}
	if req.Icon != nil {
		c.Icon = req.Icon
	}
	if req.SortOrder != nil {
		c.SortOrder = *req.SortOrder
	}
	if req.Active != nil {
		c.Active = *req.Active
	}

	if err := s.repo.Update(ctx, c); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrDuplicateEntry
		}
		return nil, err
	}
	return categoryToResponse(c), nil
}

// Deactivate hides the category from future lookups. Existing products keep
// their category string; it simply stops validating for new writes.
func (s *categoryService) Deactivate(ctx context.Context, owner, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, owner, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	return s.repo.SoftDelete(ctx, owner, id)
}

func categoryToResponse(c *model.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Display:   c.Display,
		Color:     c.Color,
		Icon:      c.Icon,
		SortOrder: c.SortOrder,
		Active:    c.Active,
	}
}
