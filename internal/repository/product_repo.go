package repository

import (
	"context"

	"shopapi/internal/model"

	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	TakenSlugs(ctx context.Context, base string) ([]string, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	// List preloads category and subcategory and orders by name.
	List(ctx context.Context) ([]model.Product, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Omit("Category", "Subcategory").Create(p).Error
}

func (r *productRepo) TakenSlugs(ctx context.Context, base string) ([]string, error) {
	return takenSlugs(ctx, r.db, &model.Product{}, base)
}

func (r *productRepo) FindBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) List(ctx context.Context) ([]model.Product, error) {
	var list []model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Subcategory").
		Order("name asc, id asc").
		Find(&list).Error
	return list, err
}

func (r *productRepo) DeleteBySlug(ctx context.Context, slug string) error {
	return deleteBySlug(ctx, r.db, &model.Product{}, slug)
}
