package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category is the top level of the catalog. Deleting it removes its
// subcategories and products.
type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(100);not null"`
	Slug      string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Image     *string   `gorm:"type:varchar(255)"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Subcategories []Subcategory `gorm:"constraint:OnDelete:CASCADE"`
}

type Subcategory struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"type:varchar(100);not null"`
	Slug       string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Image      *string   `gorm:"type:varchar(255)"`
	CategoryID uuid.UUID `gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Category *Category `gorm:"constraint:OnDelete:CASCADE"`
}

// Product belongs to one category and one subcategory. Image holds the
// source path; sized variants are rendered on demand by the image service.
type Product struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string          `gorm:"type:varchar(200);index;not null"`
	Slug          string          `gorm:"type:varchar(255);uniqueIndex;not null"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0;check:chk_products_price,price >= 0"`
	Image         *string         `gorm:"type:varchar(255)"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	SubcategoryID uuid.UUID       `gorm:"type:uuid;index;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category    *Category    `gorm:"constraint:OnDelete:CASCADE"`
	Subcategory *Subcategory `gorm:"constraint:OnDelete:CASCADE"`
}
