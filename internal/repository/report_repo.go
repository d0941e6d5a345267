package repository

import (
	"context"

	"comercio/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DayAmount is one day's aggregated amount, used by the trend queries.
type DayAmount struct {
	Day    string          `gorm:"column:day"`
	Amount decimal.Decimal `gorm:"column:amount"`
}

// ReportRepository runs the read-only aggregation queries behind the report
// endpoints. No method here has write side effects.
type ReportRepository interface {
	SalesTotals(ctx context.Context, owner uuid.UUID, from, to string) (decimal.Decimal, int64, error)
	ExpensesTotal(ctx context.Context, owner uuid.UUID, from, to string) (decimal.Decimal, error)
	OutstandingDebt(ctx context.Context, owner uuid.UUID) (decimal.Decimal, error)
	// EstimatedProfit joins sale items against *current* product costs; edits
	// to a product's cost shift historical profit figures.
	EstimatedProfit(ctx context.Context, owner uuid.UUID, from, to string) (decimal.Decimal, error)
	ByMethod(ctx context.Context, owner uuid.UUID, from, to string) ([]dto.MethodBreakdown, error)
	TopProducts(ctx context.Context, owner uuid.UUID, from, to string, limit int) ([]dto.TopProduct, error)
	DailySales(ctx context.Context, owner uuid.UUID, from, to string) ([]DayAmount, error)
	DailyExpenses(ctx context.Context, owner uuid.UUID, from, to string) ([]DayAmount, error)
}

type reportRepo struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository { return &reportRepo{db: db} }

func (r *reportRepo) SalesTotals(ctx context.Context, owner uuid.UUID, from, to string) (decimal.Decimal, int64, error) {
	var row struct {
		Total decimal.Decimal
		Count int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(total), 0) AS total, COUNT(*) AS count
		FROM sales
		WHERE created_by = ? AND DATE(created_at) BETWEEN ? AND ?`,
		owner, from, to).Scan(&row).Error
	return row.Total, row.Count, err
}

func (r *reportRepo) ExpensesTotal(ctx context.Context, owner uuid.UUID, from, to string) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(amount), 0) AS total
		FROM expenses
		WHERE created_by = ? AND status <> 'cancelled'
		  AND DATE(created_at) BETWEEN ? AND ?`,
		owner, from, to).Scan(&row).Error
	return row.Total, err
}

func (r *reportRepo) OutstandingDebt(ctx context.Context, owner uuid.UUID) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(debt_amount), 0) AS total
		FROM sales
		WHERE created_by = ? AND status = 'debt'`,
		owner).Scan(&row).Error
	return row.Total, err
}

func (r *reportRepo) EstimatedProfit(ctx context.Context, owner uuid.UUID, from, to string) (decimal.Decimal, error) {
	var row struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(si.quantity * (si.unit_price - p.cost)), 0) AS total
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN products p ON p.id = si.product_id
		WHERE s.created_by = ? AND DATE(s.created_at) BETWEEN ? AND ?`,
		owner, from, to).Scan(&row).Error
	return row.Total, err
}

func (r *reportRepo) ByMethod(ctx context.Context, owner uuid.UUID, from, to string) ([]dto.MethodBreakdown, error) {
	var rows []dto.MethodBreakdown
	err := r.db.WithContext(ctx).Raw(`
		SELECT payment_method AS method, COALESCE(SUM(total), 0) AS total, COUNT(*) AS count
		FROM sales
		WHERE created_by = ? AND DATE(created_at) BETWEEN ? AND ?
		GROUP BY payment_method
		ORDER BY total DESC`,
		owner, from, to).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) TopProducts(ctx context.Context, owner uuid.UUID, from, to string, limit int) ([]dto.TopProduct, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []dto.TopProduct
	err := r.db.WithContext(ctx).Raw(`
		SELECT si.product_id AS product_id,
		       si.product_name AS product_name,
		       SUM(si.quantity) AS quantity,
		       COALESCE(SUM(si.line_total), 0) AS revenue
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.created_by = ? AND DATE(s.created_at) BETWEEN ? AND ?
		GROUP BY si.product_id, si.product_name
		ORDER BY revenue DESC
		LIMIT ?`,
		owner, from, to, limit).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) DailySales(ctx context.Context, owner uuid.UUID, from, to string) ([]DayAmount, error) {
	var rows []DayAmount
	err := r.db.WithContext(ctx).Raw(`
		SELECT TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS day, COALESCE(SUM(total), 0) AS amount
		FROM sales
		WHERE created_by = ? AND DATE(created_at) BETWEEN ? AND ?
		GROUP BY DATE(created_at)
		ORDER BY day ASC`,
		owner, from, to).Scan(&rows).Error
	return rows, err
}

func (r *reportRepo) DailyExpenses(ctx context.Context, owner uuid.UUID, from, to string) ([]DayAmount, error) {
	var rows []DayAmount
	err := r.db.WithContext(ctx).Raw(`
		SELECT TO_CHAR(DATE(created_at), 'YYYY-MM-DD') AS day, COALESCE(SUM(amount), 0) AS amount
		FROM expenses
		WHERE created_by = ? AND status <> 'cancelled'
		  AND DATE(created_at) BETWEEN ? AND ?
		GROUP BY DATE(created_at)
		ORDER BY day ASC`,
		owner, from, to).Scan(&rows).Error
	return rows, err
}
