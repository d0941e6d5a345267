package repository

import (
	"context"

	"comercio/internal/dto"
	"comercio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
//
// Every method is scoped to the owning user: a product is only visible to the
// user that created it.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, owner, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, owner uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error)
	ListActiveForCatalog(ctx context.Context, owner uuid.UUID) ([]model.Product, error)
	ListBelowMinStock(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, p *model.Product) error
	SoftDelete(ctx context.Context, owner, id uuid.UUID) error
	Reactivate(ctx context.Context, owner, id uuid.UUID) error

	// DecrementStock applies an atomic conditional decrement:
	// UPDATE products SET stock = stock - qty WHERE id = ? AND stock >= qty.
	// Returns false (and no error) when the guard fails, i.e. insufficient stock.
	DecrementStock(ctx context.Context, owner, id uuid.UUID, qty int) (bool, error)

	// AdjustStock increments or decrements stock by a signed delta with no guard.
	// Used by compensation replays and manual corrections.
	AdjustStock(ctx context.Context, owner, id uuid.UUID, delta int) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, owner, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ? AND created_by = ?", id, owner).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context, owner uuid.UUID, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("created_by = ?", owner)

	// Active filter: "false" = inactive, "all" = everything, default = active only
	switch filter.Active {
	case "false":
		q = q.Where("active = false")
	case "all":
		// no filter
	default:
		q = q.Where("active = true")
	}

	if filter.Barcode != "" {
		q = q.Where("barcode = ?", filter.Barcode)
	}
	if filter.Name != "" {
		q = q.Where("name ILIKE ?", "%"+filter.Name+"%")
	}
	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}
	if filter.LowStock {
		q = q.Where("stock <= min_stock")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) ListActiveForCatalog(ctx context.Context, owner uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND active = true", owner).
		Order("category ASC, name ASC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) ListBelowMinStock(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("active = true AND stock <= min_stock").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SoftDelete(ctx context.Context, owner, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND created_by = ?", id, owner).
		Update("active", false).Error
}

func (r *productRepo) Reactivate(ctx context.Context, owner, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND created_by = ?", id, owner).
		Update("active", true).Error
}

func (r *productRepo) DecrementStock(ctx context.Context, owner, id uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND created_by = ? AND stock >= ?", id, owner, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *productRepo) AdjustStock(ctx context.Context, owner, id uuid.UUID, delta int) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ? AND created_by = ?", id, owner).
		Update("stock", gorm.Expr("stock + ?", delta)).Error
}
