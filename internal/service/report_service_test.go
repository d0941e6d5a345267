package service_test

import (
	"context"
	"testing"
	"time"

	"comercio/internal/dto"
	"comercio/internal/repository"
	"comercio/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReportRepo struct {
	salesTotal    decimal.Decimal
	salesCount    int64
	expensesTotal decimal.Decimal
	debt          decimal.Decimal
	profit        decimal.Decimal
	byMethod      []dto.MethodBreakdown
	topProducts   []dto.TopProduct
	dailySales    []repository.DayAmount
	dailyExpenses []repository.DayAmount
	calls         int
}

func (r *stubReportRepo) SalesTotals(_ context.Context, _ uuid.UUID, _, _ string) (decimal.Decimal, int64, error) {
	r.calls++
	return r.salesTotal, r.salesCount, nil
}

func (r *stubReportRepo) ExpensesTotal(_ context.Context, _ uuid.UUID, _, _ string) (decimal.Decimal, error) {
	return r.expensesTotal, nil
}

func (r *stubReportRepo) OutstandingDebt(_ context.Context, _ uuid.UUID) (decimal.Decimal, error) {
	return r.debt, nil
}

func (r *stubReportRepo) EstimatedProfit(_ context.Context, _ uuid.UUID, _, _ string) (decimal.Decimal, error) {
	return r.profit, nil
}

func (r *stubReportRepo) ByMethod(_ context.Context, _ uuid.UUID, _, _ string) ([]dto.MethodBreakdown, error) {
	return r.byMethod, nil
}

func (r *stubReportRepo) TopProducts(_ context.Context, _ uuid.UUID, _, _ string, _ int) ([]dto.TopProduct, error) {
	return r.topProducts, nil
}

func (r *stubReportRepo) DailySales(_ context.Context, _ uuid.UUID, _, _ string) ([]repository.DayAmount, error) {
	return r.dailySales, nil
}

func (r *stubReportRepo) DailyExpenses(_ context.Context, _ uuid.UUID, _, _ string) ([]repository.DayAmount, error) {
	return r.dailyExpenses, nil
}

var _ repository.ReportRepository = (*stubReportRepo)(nil)

func TestReport_SummaryAggregates(t *testing.T) {
	repo := &stubReportRepo{
		salesTotal:    decimal.NewFromInt(1000),
		salesCount:    12,
		expensesTotal: decimal.NewFromInt(400),
		debt:          decimal.NewFromInt(150),
		profit:        decimal.NewFromInt(320),
		dailySales: []repository.DayAmount{
			{Day: "2026-08-01", Amount: decimal.NewFromInt(600)},
			{Day: "2026-08-02", Amount: decimal.NewFromInt(400)},
		},
		dailyExpenses: []repository.DayAmount{
			{Day: "2026-08-02", Amount: decimal.NewFromInt(250)},
			{Day: "2026-08-03", Amount: decimal.NewFromInt(150)},
		},
	}
	svc := service.NewReportService(repo, nil)

	resp, err := svc.Summary(context.Background(), uuid.New(), dto.ReportFilter{From: "2026-08-01", To: "2026-08-31"})
	require.NoError(t, err)

	assert.Equal(t, "600", resp.Net.String())
	assert.Equal(t, int64(12), resp.SalesCount)
	assert.Equal(t, "150", resp.OutstandingDebt.String())

	// Daily trend merges both series, zero-filling missing sides, in day order.
	require.Len(t, resp.DailyTrend, 3)
	assert.Equal(t, "2026-08-01", resp.DailyTrend[0].Day)
	assert.True(t, resp.DailyTrend[0].Expenses.IsZero())
	assert.Equal(t, "2026-08-02", resp.DailyTrend[1].Day)
	assert.Equal(t, "400", resp.DailyTrend[1].Sales.String())
	assert.Equal(t, "250", resp.DailyTrend[1].Expenses.String())
	assert.Equal(t, "2026-08-03", resp.DailyTrend[2].Day)
	assert.True(t, resp.DailyTrend[2].Sales.IsZero())
}

func TestReport_SummaryCached(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	repo := &stubReportRepo{salesTotal: decimal.NewFromInt(500), salesCount: 3}
	svc := service.NewReportService(repo, rdb)
	owner := uuid.New()
	filter := dto.ReportFilter{From: "2026-08-01", To: "2026-08-31"}

	first, err := svc.Summary(context.Background(), owner, filter)
	require.NoError(t, err)

	// Second call inside the TTL window is served from Redis.
	second, err := svc.Summary(context.Background(), owner, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first.SalesTotal.String(), second.SalesTotal.String())

	// Expiry forces a recompute.
	mr.FastForward(2 * time.Minute)
	_, err = svc.Summary(context.Background(), owner, filter)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestCatalog_PublicProjection(t *testing.T) {
	productRepo := newStubProductRepo()
	owner := uuid.New()
	inStock := seedProduct(productRepo, owner, "Honey jar", 60, 8)
	soldOut := seedProduct(productRepo, owner, "Candles", 15, 0)
	hidden := seedProduct(productRepo, owner, "Retired", 5, 3)
	hidden.Active = false

	svc := service.NewCatalogService(productRepo, nil)
	items, err := svc.List(context.Background(), owner)
	require.NoError(t, err)

	require.Len(t, items, 2)
	byName := map[string]bool{}
	for _, item := range items {
		byName[item.Name] = item.Available
	}
	assert.True(t, byName[inStock.Name])
	assert.False(t, byName[soldOut.Name]) // listed but flagged unavailable
	_, listed := byName[hidden.Name]
	assert.False(t, listed)
}
