package repository

import (
	"context"

	"shopapi/internal/model"

	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	TakenSlugs(ctx context.Context, base string) ([]string, error)
	FindBySlug(ctx context.Context, slug string) (*model.Category, error)
	// ListWithSubcategories orders categories and their subcategories by name.
	ListWithSubcategories(ctx context.Context) ([]model.Category, error)
	// DeleteBySlug cascades to subcategories and products.
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryRepo struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepo{db: db} }

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepo) TakenSlugs(ctx context.Context, base string) ([]string, error) {
	return takenSlugs(ctx, r.db, &model.Category{}, base)
}

func (r *categoryRepo) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) ListWithSubcategories(ctx context.Context) ([]model.Category, error) {
	var list []model.Category
	err := r.db.WithContext(ctx).
		Preload("Subcategories", func(db *gorm.DB) *gorm.DB { return db.Order("name asc, id asc") }).
		Order("name asc, id asc").
		Find(&list).Error
	return list, err
}

func (r *categoryRepo) DeleteBySlug(ctx context.Context, slug string) error {
	return deleteBySlug(ctx, r.db, &model.Category{}, slug)
}
