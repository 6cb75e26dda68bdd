package infra

import (
	"fmt"

	"shopapi/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection backed by pgx. TranslateError maps
// unique violations to gorm.ErrDuplicatedKey, which slug assignment and
// registration depend on.
func NewDatabase(dsn string, debug bool) (*gorm.DB, error) {
	level := logger.Silent
	if debug {
		level = logger.Warn
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// Migrate creates or updates every table, then applies the DDL AutoMigrate
// cannot express. Safe to run on every start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.AuthToken{},
		&model.Category{},
		&model.Subcategory{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent statements guarded by IF NOT EXISTS.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// ordered preload of subcategories per category
		{"idx_subcategories_category_name",
			`CREATE INDEX IF NOT EXISTS idx_subcategories_category_name ON subcategories (category_id, name)`},
		// cart snapshot reads items oldest first
		{"idx_cart_items_cart_created",
			`CREATE INDEX IF NOT EXISTS idx_cart_items_cart_created ON cart_items (cart_id, created_at)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
