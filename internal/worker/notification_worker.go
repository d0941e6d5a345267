package worker

// notification_worker.go
// Processes notification jobs from QueueNotifications: sale receipts to the
// client and low-stock alerts to the owner. Sends through the SMTP circuit
// breaker with exponential backoff (max 3 attempts); exhausted jobs land in
// the DLQ.

import (
	"context"
	"encoding/json"
	"fmt"

	"comercio/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const notifyMaxAttempts = 3

// NotificationWorker delivers outbound emails for async jobs.
type NotificationWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
	rdb    *redis.Client
}

func NewNotificationWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker, rdb *redis.Client) *NotificationWorker {
	return &NotificationWorker{mailer: mailer, cb: cb, rdb: rdb}
}

// Registry returns the job-type handler map for the worker pool.
func (w *NotificationWorker) Registry() Registry {
	return Registry{
		"sale_notification": w.processSaleNotification,
		"low_stock_alert":   w.processLowStockAlert,
	}
}

func (w *NotificationWorker) processSaleNotification(ctx context.Context, raw json.RawMessage) {
	var payload SaleNotificationPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid sale payload")
		return
	}

	subject := fmt.Sprintf("Receipt — sale #%d", payload.SaleNumber)
	body := fmt.Sprintf("Thank you for your purchase.\nSale #%d\nTotal: $%s\n",
		payload.SaleNumber, payload.Total.StringFixed(2))

	w.deliver(ctx, "sale_notification", raw, payload.ClientEmail, subject, body)
}

func (w *NotificationWorker) processLowStockAlert(ctx context.Context, raw json.RawMessage) {
	var payload LowStockAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid low-stock payload")
		return
	}

	subject := fmt.Sprintf("Low stock: %s", payload.ProductName)
	body := fmt.Sprintf("Product %q is down to %d units (reorder threshold %d).\n",
		payload.ProductName, payload.Stock, payload.MinStock)

	w.deliver(ctx, "low_stock_alert", raw, payload.OwnerEmail, subject, body)
}

// deliver sends one email through the circuit breaker with bounded retries.
// Exhausted attempts move the job to the DLQ; nothing propagates back to the
// request path.
func (w *NotificationWorker) deliver(ctx context.Context, jobType string, raw json.RawMessage, to, subject, body string) {
	err := withRetry(ctx, notifyMaxAttempts, func(attempt int) error {
		sendErr := w.cb.Execute(func() error {
			return w.mailer.Send(to, subject, body)
		})
		if sendErr != nil {
			log.Warn().Err(sendErr).
				Int("attempt", attempt+1).
				Str("to", to).
				Msg("notification_worker: send attempt failed")
		}
		return sendErr
	})
	if err != nil {
		SendToDLQ(ctx, w.rdb, QueueNotifications, jobType, raw, err.Error(), notifyMaxAttempts)
		return
	}
	log.Info().Str("to", to).Str("type", jobType).Msg("notification delivered")
}
