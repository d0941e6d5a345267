package worker

// low_stock_cron.go
// Background goroutine that periodically scans for products at or below their
// reorder threshold and enqueues an alert email to the owning user. Redis
// SETNX keys deduplicate alerts so a product below threshold does not page the
// owner on every tick.

import (
	"context"
	"time"

	"comercio/internal/infra"
	"comercio/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const lowStockDedupTTL = 24 * time.Hour

// LowStockCronConfig holds all dependencies for the scan goroutine.
type LowStockCronConfig struct {
	ProductRepo repository.ProductRepository
	UserRepo    repository.UserRepository
	Dispatcher  *Dispatcher
	CB          *infra.CircuitBreaker
	RDB         *redis.Client
	Interval    time.Duration
}

// StartLowStockCron launches a background goroutine that ticks on the
// configured interval and enqueues alerts for products below min stock.
// It respects the context for graceful shutdown.
func StartLowStockCron(ctx context.Context, cfg LowStockCronConfig) {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(cfg.Interval)
		defer ticker.Stop()

		log.Info().Dur("interval", cfg.Interval).Msg("low_stock_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("low_stock_cron: shutting down")
				return
			case <-ticker.C:
				scanLowStock(ctx, cfg)
			}
		}
	}()
}

func scanLowStock(ctx context.Context, cfg LowStockCronConfig) {
	// If the SMTP breaker is open there is no point queueing more email.
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("low_stock_cron: circuit breaker is open, skipping tick")
		return
	}

	products, err := cfg.ProductRepo.ListBelowMinStock(ctx)
	if err != nil {
		log.Error().Err(err).Msg("low_stock_cron: failed to query products")
		return
	}
	if len(products) == 0 {
		return
	}

	for i := range products {
		p := &products[i]

		// Dedup: only the first tick that sees the product below threshold
		// enqueues an alert; the key expires after lowStockDedupTTL.
		ok, err := cfg.RDB.SetNX(ctx, "lowstock:"+p.ID.String(), 1, lowStockDedupTTL).Result()
		if err != nil || !ok {
			continue
		}

		owner, err := cfg.UserRepo.FindByID(ctx, p.CreatedBy)
		if err != nil || owner.Email == nil || *owner.Email == "" {
			continue
		}

		payload := LowStockAlertPayload{
			ProductID:   p.ID.String(),
			ProductName: p.Name,
			Stock:       p.Stock,
			MinStock:    p.MinStock,
			OwnerEmail:  *owner.Email,
		}
		if err := cfg.Dispatcher.EnqueueLowStockAlert(ctx, payload); err != nil {
			log.Warn().Err(err).Str("product_id", p.ID.String()).Msg("low_stock_cron: enqueue failed")
		}
	}
}
