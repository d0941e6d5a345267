package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comercio/internal/dto"
	"comercio/internal/model"
	"comercio/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ProductService defines the business logic contract for inventory items.
type ProductService interface {
	Create(ctx context.Context, owner uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error)
	Get(ctx context.Context, owner, id uuid.UUID) (*dto.ProductResponse, error)
	List(ctx context.Context, owner uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Update(ctx context.Context, owner, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Deactivate(ctx context.Context, owner, id uuid.UUID) error
	Reactivate(ctx context.Context, owner, id uuid.UUID) error
	AdjustStock(ctx context.Context, owner, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error)
}

type productService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	movementRepo repository.StockMovementRepository
}

func NewProductService(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	movementRepo repository.StockMovementRepository,
) ProductService {
	return &productService{repo: repo, categoryRepo: categoryRepo, movementRepo: movementRepo}
}

// validateCategory checks the free-text category name against the live
// category table — a lookup-validated tagged string, not a schema enum.
func (s *productService) validateCategory(ctx context.Context, owner uuid.UUID, name string) error {
	_, err := s.categoryRepo.FindByName(ctx, owner, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: %s", ErrCategoryNotFound, name)
		}
		return err
	}
	return nil
}

func (s *productService) Create(ctx context.Context, owner uuid.UUID, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := s.validateCategory(ctx, owner, req.Category); err != nil {
		return nil, err
	}

	unit := req.Unit
	if unit == "" {
		unit = "unit"
	}
	p := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Cost:        req.Cost,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		Unit:        unit,
		Barcode:     req.Barcode,
		ImageURL:    req.ImageURL,
		Active:      true,
		CreatedBy:   owner,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Get(ctx context.Context, owner, id uuid.UUID) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) List(ctx context.Context, owner uuid.UUID, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	products, total, err := s.repo.List(ctx, owner, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, *productToResponse(&products[i]))
	}
	return &dto.ProductListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *productService) Update(ctx context.Context, owner, id uuid.UUID, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if req.Category != nil {
		if err := s.validateCategory(ctx, owner, *req.Category); err != nil {
			return nil, err
		}
		p.Category = *req.Category
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Price != nil {
		p.Price = *req.Price
	}
	if req.Cost != nil {
		p.Cost = *req.Cost
	}
	if req.MinStock != nil {
		p.MinStock = *req.MinStock
	}
	if req.Unit != nil {
		p.Unit = *req.Unit
	}
	if req.Barcode != nil {
		p.Barcode = req.Barcode
	}
	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return productToResponse(p), nil
}

func (s *productService) Deactivate(ctx context.Context, owner, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, owner, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return err
	}
	return s.repo.SoftDelete(ctx, owner, id)
}

func (s *productService) Reactivate(ctx context.Context, owner, id uuid.UUID) error {
	return s.repo.Reactivate(ctx, owner, id)
}

// AdjustStock applies a signed manual correction and records the audit
// movement. Corrections may not take stock below zero.
func (s *productService) AdjustStock(ctx context.Context, owner, id uuid.UUID, req dto.AdjustStockRequest) (*dto.ProductResponse, error) {
	p, err := s.repo.FindByID(ctx, owner, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	if req.Delta < 0 {
		ok, err := s.repo.DecrementStock(ctx, owner, id, -req.Delta)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, p.Name)
		}
	} else {
		if err := s.repo.AdjustStock(ctx, owner, id, req.Delta); err != nil {
			return nil, err
		}
	}

	mov := &model.StockMovement{
		ProductID:   id,
		Type:        "manual_adjust",
		Quantity:    req.Delta,
		StockBefore: p.Stock,
		StockAfter:  p.Stock + req.Delta,
		Reason:      req.Reason,
		CreatedBy:   owner,
	}
	if err := s.movementRepo.Create(ctx, mov); err != nil {
		log.Warn().Err(err).Str("product_id", id.String()).Msg("failed to record manual stock movement")
	}

	p.Stock += req.Delta
	return productToResponse(p), nil
}

func productToResponse(p *model.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Cost:        p.Cost,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Unit:        p.Unit,
		Barcode:     p.Barcode,
		ImageURL:    p.ImageURL,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
