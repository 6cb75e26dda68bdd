package service

import (
	"context"
	"errors"

	"shopapi/internal/dto"
	"shopapi/internal/model"
	"shopapi/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartService operates on the cart of the user passed in; there is no
// implicit current user.
type CartService interface {
	// Get returns the user's cart, creating an empty one on first access.
	Get(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error)
	// AddOrUpdateItem sets the line for the product to exactly the requested
	// quantity. created is true when the line did not exist before.
	AddOrUpdateItem(ctx context.Context, userID uuid.UUID, req dto.CartItemRequest) (cart *dto.CartResponse, created bool, err error)
	RemoveItem(ctx context.Context, userID uuid.UUID, productSlug string) (*dto.CartResponse, error)
	// Clear fails with ErrCartEmpty when there is nothing to remove.
	Clear(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	repo     repository.CartRepository
	products repository.ProductRepository
}

func NewCartService(repo repository.CartRepository, products repository.ProductRepository) CartService {
	return &cartService{repo: repo, products: products}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

func cartToResponse(c *model.Cart) *dto.CartResponse {
	resp := &dto.CartResponse{
		ID:        c.ID.String(),
		Items:     make([]dto.CartItemResponse, 0, len(c.Items)),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	total := decimal.Zero
	for _, it := range c.Items {
		line := it.TotalPrice()
		item := dto.CartItemResponse{
			ID:         it.ID.String(),
			Quantity:   it.Quantity,
			TotalPrice: line.StringFixed(2),
		}
		if it.Product != nil {
			item.ProductSlug = it.Product.Slug
			item.ProductName = it.Product.Name
			item.ProductPrice = it.Product.Price.StringFixed(2)
		}
		resp.Items = append(resp.Items, item)
		resp.TotalItems += it.Quantity
		total = total.Add(line)
	}
	resp.TotalPrice = total.StringFixed(2)
	return resp
}

func (s *cartService) snapshot(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error) {
	c, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return cartToResponse(c), nil
}

func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*dto.CartResponse, error) {
	if err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		_, err := s.repo.GetOrCreateTx(ctx, tx, userID)
		return err
	}); err != nil {
		return nil, err
	}
	return s.snapshot(ctx, userID)
}

func (s *cartService) AddOrUpdateItem(ctx context.Context, userID uuid.UUID, req dto.CartItemRequest) (*dto.CartResponse, bool, error) {
	if req.Quantity == nil {
		return nil, false, fieldErr("quantity", "This field is required.")
	}
	if *req.Quantity < 1 {
		return nil, false, fieldErr("quantity", "Ensure this value is greater than or equal to 1.")
	}

	product, err := s.products.FindBySlug(ctx, req.ProductSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fieldErr("product_slug", "Product with this slug does not exist.")
		}
		return nil, false, err
	}

	// Cart creation and the item upsert commit together.
	var created bool
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		cart, err := s.repo.GetOrCreateTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		created, err = s.repo.UpsertItemTx(ctx, tx, cart.ID, product.ID, *req.Quantity)
		if err != nil {
			return err
		}
		return s.repo.TouchTx(ctx, tx, cart.ID)
	})
	if txErr != nil {
		return nil, false, txErr
	}

	log.Debug().
		Str("user_id", userID.String()).
		Str("product", product.Slug).
		Int("quantity", *req.Quantity).
		Bool("created", created).
		Msg("cart item upserted")

	resp, err := s.snapshot(ctx, userID)
	if err != nil {
		return nil, false, err
	}
	return resp, created, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, productSlug string) (*dto.CartResponse, error) {
	cart, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	if err := s.repo.RemoveItemBySlug(ctx, cart.ID, productSlug); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return s.snapshot(ctx, userID)
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	cart, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartEmpty
		}
		return err
	}
	n, err := s.repo.ClearItems(ctx, cart.ID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCartEmpty
	}
	log.Debug().Str("user_id", userID.String()).Int64("items", n).Msg("cart cleared")
	return nil
}
