package dto

import "github.com/shopspring/decimal"

// ReportFilter bounds every aggregation to a date range, inclusive.
type ReportFilter struct {
	From string `form:"from" validate:"required,datetime=2006-01-02"`
	To   string `form:"to"   validate:"required,datetime=2006-01-02"`
}

type MethodBreakdown struct {
	Method string          `json:"method"`
	Total  decimal.Decimal `json:"total"`
	Count  int64           `json:"count"`
}

type TopProduct struct {
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int64           `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type DailyPoint struct {
	Day      string          `json:"day"` // YYYY-MM-DD
	Sales    decimal.Decimal `json:"sales"`
	Expenses decimal.Decimal `json:"expenses"`
}

// SummaryResponse is the read-only financial summary for a date range.
// EstimatedProfit is computed against *current* product costs, not the cost at
// sale time, so historical figures shift when costs are edited.
type SummaryResponse struct {
	From            string            `json:"from"`
	To              string            `json:"to"`
	SalesTotal      decimal.Decimal   `json:"salesTotal"`
	SalesCount      int64             `json:"salesCount"`
	ExpensesTotal   decimal.Decimal   `json:"expensesTotal"`
	Net             decimal.Decimal   `json:"net"`
	EstimatedProfit decimal.Decimal   `json:"estimatedProfit"`
	OutstandingDebt decimal.Decimal   `json:"outstandingDebt"`
	ByMethod        []MethodBreakdown `json:"byMethod"`
	TopProducts     []TopProduct      `json:"topProducts"`
	DailyTrend      []DailyPoint      `json:"dailyTrend"`
}
