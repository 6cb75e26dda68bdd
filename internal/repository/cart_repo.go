package repository

import (
	"context"
	"time"

	"shopapi/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CartRepository persists carts and their line items. Methods taking tx run
// on it when non-nil so the service can group them in one transaction.
type CartRepository interface {
	// GetOrCreateTx relies on the unique user_id index, not on a prior read.
	GetOrCreateTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*model.Cart, error)
	// UpsertItemTx inserts the line or overwrites its quantity, reporting
	// whether the row was newly created.
	UpsertItemTx(ctx context.Context, tx *gorm.DB, cartID, productID uuid.UUID, quantity int) (bool, error)
	TouchTx(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error

	// FindByUserID preloads items (oldest first) with their products.
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error)
	// RemoveItemBySlug returns gorm.ErrRecordNotFound when no line matched.
	RemoveItemBySlug(ctx context.Context, cartID uuid.UUID, productSlug string) error
	// ClearItems returns the number of deleted lines.
	ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error)

	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type cartRepo struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) CartRepository { return &cartRepo{db: db} }

func (r *cartRepo) DB() *gorm.DB { return r.db }

func (r *cartRepo) GetOrCreateTx(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*model.Cart, error) {
	db := conn(r.db, tx).WithContext(ctx)
	err := db.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&model.Cart{UserID: userID}).Error
	if err != nil {
		return nil, err
	}
	var c model.Cart
	if err := db.Where("user_id = ?", userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cartRepo) UpsertItemTx(ctx context.Context, tx *gorm.DB, cartID, productID uuid.UUID, quantity int) (bool, error) {
	// xmax is 0 only for a tuple this statement inserted.
	var created bool
	err := conn(r.db, tx).WithContext(ctx).Raw(`
		INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at)
		VALUES (?, ?, ?, now(), now())
		ON CONFLICT (cart_id, product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()
		RETURNING (xmax = 0)`, cartID, productID, quantity).
		Scan(&created).Error
	return created, err
}

func (r *cartRepo) TouchTx(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error {
	return conn(r.db, tx).WithContext(ctx).
		Model(&model.Cart{}).Where("id = ?", cartID).
		Update("updated_at", time.Now()).Error
}

func (r *cartRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Cart, error) {
	var c model.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("cart_items.created_at asc, cart_items.id asc") }).
		Preload("Items.Product").
		Where("user_id = ?", userID).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *cartRepo) RemoveItemBySlug(ctx context.Context, cartID uuid.UUID, productSlug string) error {
	res := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id IN (SELECT id FROM products WHERE slug = ?)", cartID, productSlug).
		Delete(&model.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.TouchTx(ctx, nil, cartID)
}

func (r *cartRepo) ClearItems(ctx context.Context, cartID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&model.CartItem{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		if err := r.TouchTx(ctx, nil, cartID); err != nil {
			return res.RowsAffected, err
		}
	}
	return res.RowsAffected, nil
}
