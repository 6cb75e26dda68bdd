// cmd/seed/main.go creates a staff demo user and a small demo catalog.
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"shopapi/internal/config"
	"shopapi/internal/dto"
	"shopapi/internal/infra"
	"shopapi/internal/repository"
	"shopapi/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

const (
	staffUsername = "admin"
	staffPassword = "admin12345"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	ctx := context.Background()

	db, err := infra.NewDatabase(cfg.DatabaseURL, false)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	if err := infra.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}
	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(staffPassword), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}
	result := db.WithContext(ctx).Exec(`
		INSERT INTO users (username, password_hash, is_staff, created_at, updated_at)
		VALUES (?, ?, true, now(), now())
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    is_staff = true,
		    updated_at = now()
	`, staffUsername, string(hash))
	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("insert staff user")
	}
	log.Info().Str("username", staffUsername).Str("password", staffPassword).Msg("staff user created/updated")

	categories := repository.NewCategoryRepository(db)
	subcategories := repository.NewSubcategoryRepository(db)
	products := repository.NewProductRepository(db)
	images := service.NewImageService(rdb, infra.NewImageResizer(cfg.ImageResizerURL, nil), cfg.MediaURL, cfg.ImageCacheTTL())
	catalog := service.NewCatalogService(categories, subcategories, products, images)

	if _, err := categories.FindBySlug(ctx, "electronics"); err == nil {
		log.Info().Msg("demo catalog already present")
		return
	}

	steps := []func() error{
		func() error {
			_, err := catalog.CreateCategory(ctx, dto.CreateCategoryRequest{Name: "Electronics"})
			return err
		},
		func() error {
			_, err := catalog.CreateSubcategory(ctx, dto.CreateSubcategoryRequest{Name: "Phones", CategorySlug: "electronics"})
			return err
		},
		func() error {
			_, err := catalog.CreateProduct(ctx, dto.CreateProductRequest{
				Name: "Phone1", Price: decimal.NewFromInt(100), CategorySlug: "electronics", SubcategorySlug: "phones",
			})
			return err
		},
		func() error {
			_, err := catalog.CreateProduct(ctx, dto.CreateProductRequest{
				Name: "Phone2", Price: decimal.NewFromInt(500), CategorySlug: "electronics", SubcategorySlug: "phones",
			})
			return err
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			var fe *service.FieldError
			if errors.As(err, &fe) {
				log.Fatal().Str("field", fe.Field).Msg(fe.Message)
			}
			log.Fatal().Err(err).Msg("seed catalog")
		}
	}
	log.Info().Msg("demo catalog created")
}
