package dto

import "time"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CartItemRequest adds a product or overwrites its quantity. Quantity is a
// pointer so a missing value and zero report different messages.
type CartItemRequest struct {
	ProductSlug string `json:"product_slug" validate:"required"`
	Quantity    *int   `json:"quantity"     validate:"required,min=1,max=2147483647"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CartItemResponse struct {
	ID           string `json:"id"`
	ProductSlug  string `json:"product_slug"`
	ProductName  string `json:"product_name"`
	ProductPrice string `json:"product_price"`
	Quantity     int    `json:"quantity"`
	TotalPrice   string `json:"total_price"`
}

type CartResponse struct {
	ID         string             `json:"id"`
	Items      []CartItemResponse `json:"items"`
	TotalItems int                `json:"total_items"`
	TotalPrice string             `json:"total_price"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

type CartMutationResponse struct {
	Message string        `json:"message"`
	Cart    *CartResponse `json:"cart"`
}

type DetailResponse struct {
	Detail string `json:"detail"`
}
