package repository

import (
	"context"

	"comercio/internal/dto"
	"comercio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClientRepository and SupplierRepository share one contract shape; the two
// tables are structurally identical contact records.

type ClientRepository interface {
	Create(ctx context.Context, c *model.Client) error
	FindByID(ctx context.Context, owner, id uuid.UUID) (*model.Client, error)
	List(ctx context.Context, owner uuid.UUID, filter dto.ContactFilter) ([]model.Client, int64, error)
	Update(ctx context.Context, c *model.Client) error
	SoftDelete(ctx context.Context, owner, id uuid.UUID) error
}

type SupplierRepository interface {
	Create(ctx context.Context, s *model.Supplier) error
	FindByID(ctx context.Context, owner, id uuid.UUID) (*model.Supplier, error)
	List(ctx context.Context, owner uuid.UUID, filter dto.ContactFilter) ([]model.Supplier, int64, error)
	Update(ctx context.Context, s *model.Supplier) error
	SoftDelete(ctx context.Context, owner, id uuid.UUID) error
}

type clientRepo struct{ db *gorm.DB }

func NewClientRepository(db *gorm.DB) ClientRepository { return &clientRepo{db: db} }

func (r *clientRepo) Create(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *clientRepo) FindByID(ctx context.Context, owner, id uuid.UUID) (*model.Client, error) {
	var c model.Client
	err := r.db.WithContext(ctx).Where("id = ? AND created_by = ?", id, owner).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clientRepo) List(ctx context.Context, owner uuid.UUID, filter dto.ContactFilter) ([]model.Client, int64, error) {
	var clients []model.Client
	var total int64

	q := contactQuery(r.db.WithContext(ctx).Model(&model.Client{}), owner, filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&clients).Error
	return clients, total, err
}

func (r *clientRepo) Update(ctx context.Context, c *model.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *clientRepo) SoftDelete(ctx context.Context, owner, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Client{}).
		Where("id = ? AND created_by = ?", id, owner).
		Update("active", false).Error
}

type supplierRepo struct{ db *gorm.DB }

func NewSupplierRepository(db *gorm.DB) SupplierRepository { return &supplierRepo{db: db} }

func (r *supplierRepo) Create(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *supplierRepo) FindByID(ctx context.Context, owner, id uuid.UUID) (*model.Supplier, error) {
	var s model.Supplier
	err := r.db.WithContext(ctx).Where("id = ? AND created_by = ?", id, owner).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *supplierRepo) List(ctx context.Context, owner uuid.UUID, filter dto.ContactFilter) ([]model.Supplier, int64, error) {
	var suppliers []model.Supplier
	var total int64

	q := contactQuery(r.db.WithContext(ctx).Model(&model.Supplier{}), owner, filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&suppliers).Error
	return suppliers, total, err
}

func (r *supplierRepo) Update(ctx context.Context, s *model.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *supplierRepo) SoftDelete(ctx context.Context, owner, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Supplier{}).
		Where("id = ? AND created_by = ?", id, owner).
		Update("active", false).Error
}

func contactQuery(q *gorm.DB, owner uuid.UUID, filter dto.ContactFilter) *gorm.DB {
	q = q.Where("created_by = ?", owner)
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
	default:
		q = q.Where("active = true")
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	return q
}
