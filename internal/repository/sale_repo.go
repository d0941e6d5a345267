package repository

import (
	"context"

	"comercio/internal/dto"
	"comercio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleRepository interface {
	Create(ctx context.Context, s *model.Sale) error
	FindByID(ctx context.Context, owner, id uuid.UUID) (*model.Sale, error)
	// Update persists the mutable payment fields (paid/debt/status/method).
	// Line items are immutable and never rewritten.
	Update(ctx context.Context, s *model.Sale) error
	NextNumber(ctx context.Context) (int, error)
	List(ctx context.Context, owner uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error)
	CreatePayment(ctx context.Context, p *model.SalePayment) error
}

type saleRepo struct{ db *gorm.DB }

func NewSaleRepository(db *gorm.DB) SaleRepository { return &saleRepo{db: db} }

func (r *saleRepo) Create(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *saleRepo) FindByID(ctx context.Context, owner, id uuid.UUID) (*model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Items").Preload("Payments").
		Where("id = ? AND created_by = ?", id, owner).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *saleRepo) Update(ctx context.Context, s *model.Sale) error {
	return r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("id = ?", s.ID).
		Updates(map[string]interface{}{
			"status":         s.Status,
			"payment_method": s.PaymentMethod,
			"paid_amount":    s.PaidAmount,
			"debt_amount":    s.DebtAmount,
		}).Error
}

func (r *saleRepo) NextNumber(ctx context.Context) (int, error) {
	// Uses a PostgreSQL sequence for atomic sale number generation
	var num int
	err := r.db.WithContext(ctx).Raw("SELECT nextval('sales_number_seq')").Scan(&num).Error
	return num, err
}

func (r *saleRepo) List(ctx context.Context, owner uuid.UUID, filter dto.SaleFilter) ([]model.Sale, int64, error) {
	var sales []model.Sale
	var total int64
	offset := (filter.Page - 1) * filter.Limit

	q := r.db.WithContext(ctx).Model(&model.Sale{}).Where("created_by = ?", owner)

	if filter.Status != "" && filter.Status != "all" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Type != "" && filter.Type != "all" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.From != "" {
		q = q.Where("DATE(created_at) >= ?", filter.From)
	}
	if filter.To != "" {
		q = q.Where("DATE(created_at) <= ?", filter.To)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items").
		Order("created_at DESC").
		Offset(offset).Limit(filter.Limit).
		Find(&sales).Error

	return sales, total, err
}

func (r *saleRepo) CreatePayment(ctx context.Context, p *model.SalePayment) error {
	return r.db.WithContext(ctx).Create(p).Error
}
