package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	return mr, redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestDispatcher_EnqueueSaleNotification(t *testing.T) {
	_, rdb := newTestRedis(t)
	d := NewDispatcher(rdb)

	err := d.EnqueueSaleNotification(context.Background(), SaleNotificationPayload{
		SaleID:      "abc",
		SaleNumber:  42,
		ClientEmail: "client@example.com",
		Total:       decimal.NewFromInt(180),
	})
	require.NoError(t, err)

	raw, err := rdb.RPop(context.Background(), QueueNotifications).Result()
	require.NoError(t, err)

	var job Job
	require.NoError(t, json.Unmarshal([]byte(raw), &job))
	assert.Equal(t, "sale_notification", job.Type)

	var payload SaleNotificationPayload
	require.NoError(t, json.Unmarshal(job.Payload, &payload))
	assert.Equal(t, 42, payload.SaleNumber)
	assert.Equal(t, "client@example.com", payload.ClientEmail)
}

func TestProcessJob_DispatchesToHandler(t *testing.T) {
	_, rdb := newTestRedis(t)

	var got json.RawMessage
	registry := Registry{
		"sale_notification": func(_ context.Context, payload json.RawMessage) {
			got = payload
		},
	}

	job, _ := json.Marshal(Job{Type: "sale_notification", Payload: json.RawMessage(`{"sale_id":"x"}`)})
	processJob(context.Background(), rdb, registry, QueueNotifications, string(job))

	assert.JSONEq(t, `{"sale_id":"x"}`, string(got))
}

func TestProcessJob_UnknownTypeGoesToDLQ(t *testing.T) {
	_, rdb := newTestRedis(t)

	job, _ := json.Marshal(Job{Type: "mystery", Payload: json.RawMessage(`{}`)})
	processJob(context.Background(), rdb, Registry{}, QueueNotifications, string(job))

	raw, err := rdb.RPop(context.Background(), DLQPrefix+QueueNotifications).Result()
	require.NoError(t, err)

	var entry DLQEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	assert.Equal(t, "mystery", entry.JobType)
	assert.Equal(t, QueueNotifications, entry.OriginalQueue)
	assert.Equal(t, "no handler registered", entry.Reason)
}

func TestWithRetry_SucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), 3, func(int) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestWithRetry_Exhausted(t *testing.T) {
	attempts := 0
	err := withRetry(context.Background(), 2, func(int) error {
		attempts++
		return errors.New("permanent")
	})
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestWithRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, 3, func(int) error {
		return errors.New("always fails")
	})
	assert.ErrorIs(t, err, context.Canceled)
}
