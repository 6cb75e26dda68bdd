package repository

import (
	"context"

	"shopapi/internal/model"

	"gorm.io/gorm"
)

type SubcategoryRepository interface {
	Create(ctx context.Context, s *model.Subcategory) error
	TakenSlugs(ctx context.Context, base string) ([]string, error)
	FindBySlug(ctx context.Context, slug string) (*model.Subcategory, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type subcategoryRepo struct{ db *gorm.DB }

func NewSubcategoryRepository(db *gorm.DB) SubcategoryRepository {
	return &subcategoryRepo{db: db}
}

func (r *subcategoryRepo) Create(ctx context.Context, s *model.Subcategory) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *subcategoryRepo) TakenSlugs(ctx context.Context, base string) ([]string, error) {
	return takenSlugs(ctx, r.db, &model.Subcategory{}, base)
}

func (r *subcategoryRepo) FindBySlug(ctx context.Context, slug string) (*model.Subcategory, error) {
	var s model.Subcategory
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *subcategoryRepo) DeleteBySlug(ctx context.Context, slug string) error {
	return deleteBySlug(ctx, r.db, &model.Subcategory{}, slug)
}
