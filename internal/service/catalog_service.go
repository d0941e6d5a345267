package service

import (
	"context"
	"encoding/json"
	"time"

	"comercio/internal/dto"
	"comercio/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const catalogCacheTTL = 60 * time.Second

// CatalogService serves the public unauthenticated product catalog. Items are
// a restricted projection: no cost, no exact stock, no owner internals.
type CatalogService interface {
	List(ctx context.Context, owner uuid.UUID) ([]dto.CatalogItem, error)
}

type catalogService struct {
	productRepo repository.ProductRepository
	rdb         *redis.Client
}

func NewCatalogService(productRepo repository.ProductRepository, rdb *redis.Client) CatalogService {
	return &catalogService{productRepo: productRepo, rdb: rdb}
}

func (s *catalogService) List(ctx context.Context, owner uuid.UUID) ([]dto.CatalogItem, error) {
	cacheKey := "catalog:" + owner.String()

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var items []dto.CatalogItem
			if err := json.Unmarshal([]byte(cached), &items); err == nil {
				return items, nil
			}
		}
	}

	products, err := s.productRepo.ListActiveForCatalog(ctx, owner)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CatalogItem, 0, len(products))
	for i := range products {
		p := &products[i]
		items = append(items, dto.CatalogItem{
			Name:      p.Name,
			Category:  p.Category,
			Price:     p.Price,
			Unit:      p.Unit,
			ImageURL:  p.ImageURL,
			Available: p.Stock > 0,
		})
	}

	if s.rdb != nil {
		if encoded, err := json.Marshal(items); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, encoded, catalogCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("catalog: cache write failed")
			}
		}
	}
	return items, nil
}
