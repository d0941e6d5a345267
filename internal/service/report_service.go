package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"comercio/internal/dto"
	"comercio/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const (
	summaryCacheTTL  = 60 * time.Second
	topProductsLimit = 10
)

// ReportService computes the read-only financial summary for a date range.
// Results are cached in Redis for a short window; a sale created inside the
// window will not show until the cache expires.
type ReportService interface {
	Summary(ctx context.Context, owner uuid.UUID, filter dto.ReportFilter) (*dto.SummaryResponse, error)
}

type reportService struct {
	repo repository.ReportRepository
	rdb  *redis.Client
}

func NewReportService(repo repository.ReportRepository, rdb *redis.Client) ReportService {
	return &reportService{repo: repo, rdb: rdb}
}

func (s *reportService) Summary(ctx context.Context, owner uuid.UUID, filter dto.ReportFilter) (*dto.SummaryResponse, error) {
	cacheKey := fmt.Sprintf("report:summary:%s:%s:%s", owner, filter.From, filter.To)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp dto.SummaryResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
		}
	}

	resp, err := s.buildSummary(ctx, owner, filter)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if encoded, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, encoded, summaryCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("report: cache write failed")
			}
		}
	}
	return resp, nil
}

func (s *reportService) buildSummary(ctx context.Context, owner uuid.UUID, filter dto.ReportFilter) (*dto.SummaryResponse, error) {
	salesTotal, salesCount, err := s.repo.SalesTotals(ctx, owner, filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	expensesTotal, err := s.repo.ExpensesTotal(ctx, owner, filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	debt, err := s.repo.OutstandingDebt(ctx, owner)
	if err != nil {
		return nil, err
	}
	profit, err := s.repo.EstimatedProfit(ctx, owner, filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	byMethod, err := s.repo.ByMethod(ctx, owner, filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	topProducts, err := s.repo.TopProducts(ctx, owner, filter.From, filter.To, topProductsLimit)
	if err != nil {
		return nil, err
	}
	dailySales, err := s.repo.DailySales(ctx, owner, filter.From, filter.To)
	if err != nil {
		return nil, err
	}
	dailyExpenses, err := s.repo.DailyExpenses(ctx, owner, filter.From, filter.To)
	if err != nil {
		return nil, err
	}

	if byMethod == nil {
		byMethod = []dto.MethodBreakdown{}
	}
	if topProducts == nil {
		topProducts = []dto.TopProduct{}
	}

	return &dto.SummaryResponse{
		From:            filter.From,
		To:              filter.To,
		SalesTotal:      salesTotal,
		SalesCount:      salesCount,
		ExpensesTotal:   expensesTotal,
		Net:             salesTotal.Sub(expensesTotal),
		EstimatedProfit: profit,
		OutstandingDebt: debt,
		ByMethod:        byMethod,
		TopProducts:     topProducts,
		DailyTrend:      mergeDailyTrend(dailySales, dailyExpenses),
	}, nil
}

// mergeDailyTrend zips the per-day sales and expense series into one ordered
// trend. Days present in only one series get a zero in the other.
func mergeDailyTrend(sales, expenses []repository.DayAmount) []dto.DailyPoint {
	byDay := make(map[string]*dto.DailyPoint)
	var order []string

	for _, row := range sales {
		byDay[row.Day] = &dto.DailyPoint{Day: row.Day, Sales: row.Amount, Expenses: decimal.Zero}
		order = append(order, row.Day)
	}
	for _, row := range expenses {
		if p, ok := byDay[row.Day]; ok {
			p.Expenses = row.Amount
			continue
		}
		byDay[row.Day] = &dto.DailyPoint{Day: row.Day, Sales: decimal.Zero, Expenses: row.Amount}
		order = insertSorted(order, row.Day)
	}

	out := make([]dto.DailyPoint, 0, len(order))
	for _, day := range order {
		out = append(out, *byDay[day])
	}
	return out
}

// insertSorted keeps the day list in ascending order; YYYY-MM-DD strings sort
// lexicographically.
func insertSorted(days []string, day string) []string {
	for i, d := range days {
		if day < d {
			days = append(days, "")
			copy(days[i+1:], days[i:])
			days[i] = day
			return days
		}
	}
	return append(days, day)
}
