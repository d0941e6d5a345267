package repository

import (
	"context"

	"comercio/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	FindByID(ctx context.Context, owner, id uuid.UUID) (*model.Category, error)
	FindByName(ctx context.Context, owner uuid.UUID, name string) (*model.Category, error)
	List(ctx context.Context, owner uuid.UUID) ([]model.Category, error)
	Update(ctx context.Context, c *model.Category) error
	SoftDelete(ctx context.Context, owner, id uuid.UUID) error
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepo{db: db} }

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepo) FindByID(ctx context.Context, owner, id uuid.UUID) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Where("id = ? AND created_by = ?", id, owner).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) FindByName(ctx context.Context, owner uuid.UUID, name string) (*model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND name = ? AND active = true", owner, name).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) List(ctx context.Context, owner uuid.UUID) ([]model.Category, error) {
	var categories []model.Category
	err := r.db.WithContext(ctx).
		Where("created_by = ? AND active = true", owner).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepo) Update(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoryRepo) SoftDelete(ctx context.Context, owner, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ? AND created_by = ?", id, owner).
		Update("active", false).Error
}
