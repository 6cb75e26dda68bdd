package dto

import "github.com/shopspring/decimal"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CreateCategoryRequest struct {
	Name  string  `json:"name"  validate:"required,max=100"`
	Image *string `json:"image" validate:"omitempty,max=255"`
}

type CreateSubcategoryRequest struct {
	Name         string  `json:"name"          validate:"required,max=100"`
	CategorySlug string  `json:"category_slug" validate:"required"`
	Image        *string `json:"image"         validate:"omitempty,max=255"`
}

type CreateProductRequest struct {
	Name            string          `json:"name"             validate:"required,max=200"`
	Price           decimal.Decimal `json:"price"            validate:"gte=0,lt=100000000"`
	CategorySlug    string          `json:"category_slug"    validate:"required"`
	SubcategorySlug string          `json:"subcategory_slug" validate:"required"`
	Image           *string         `json:"image"            validate:"omitempty,max=255"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type SubcategoryResponse struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Slug  string  `json:"slug"`
	Image *string `json:"image"`
}

type CategoryResponse struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"`
	Slug          string                `json:"slug"`
	Image         *string               `json:"image"`
	Subcategories []SubcategoryResponse `json:"subcategories"`
}

// ProductResponse flattens the parent names and lists the small, medium and
// large variant URLs (empty when the product has no source image).
type ProductResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	Price       string   `json:"price"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory"`
	Image       *string  `json:"image"`
	Images      []string `json:"images"`
}
