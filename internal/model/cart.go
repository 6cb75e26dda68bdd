package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is created lazily, one per user (unique user_id).
type Cart struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	User  *User      `gorm:"constraint:OnDelete:CASCADE"`
	Items []CartItem `gorm:"constraint:OnDelete:CASCADE"`
}

// CartItem is one product line in a cart. The (cart_id, product_id) pair is
// unique at the database level.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CartID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_items_cart_product;index"`
	Quantity  int       `gorm:"not null;default:1;check:chk_cart_items_quantity,quantity > 0"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product `gorm:"constraint:OnDelete:CASCADE"`
}

// TotalPrice is price × quantity; zero when the product is not loaded.
func (i CartItem) TotalPrice() decimal.Decimal {
	if i.Product == nil {
		return decimal.Zero
	}
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
