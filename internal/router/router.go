package router

import (
	"context"
	"time"

	"shopapi/internal/config"
	"shopapi/internal/handler"
	"shopapi/internal/infra"
	"shopapi/internal/middleware"
	"shopapi/internal/repository"
	"shopapi/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
// ctx bounds the background goroutines the router starts.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client, resizerCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	apiLimiter := middleware.NewRateLimiter("api", cfg.APIRateLimit, time.Minute)
	authLimiter := middleware.NewRateLimiter("auth", cfg.AuthRateLimit, time.Minute)
	apiLimiter.StartPurge(ctx)
	authLimiter.StartPurge(ctx)

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(apiLimiter.Middleware())

	// ── Infrastructure ───────────────────────────────────────────────────────
	resizer := infra.NewImageResizer(cfg.ImageResizerURL, resizerCB)

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	subcategoryRepo := repository.NewSubcategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	imageSvc := service.NewImageService(rdb, resizer, cfg.MediaURL, cfg.ImageCacheTTL())
	authSvc := service.NewAuthService(userRepo, tokenRepo, cfg.TokenSecret)
	catalogSvc := service.NewCatalogService(categoryRepo, subcategoryRepo, productRepo, imageSvc)
	cartSvc := service.NewCartService(cartRepo, productRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	catalogH := handler.NewCatalogHandler(catalogSvc)
	cartH := handler.NewCartHandler(cartSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, resizer.Breaker()))
	r.Static("/media", cfg.MediaRoot)

	// Auth (public, rate limited)
	r.POST("/register/", authLimiter.Middleware(), authH.Register)
	r.POST("/login/", authLimiter.Middleware(), authH.Login)

	tokenMW := middleware.TokenAuth(authSvc)
	staff := []gin.HandlerFunc{tokenMW, middleware.RequireStaff()}

	// Catalog: public reads, staff writes
	r.GET("/categories/", catalogH.ListCategories)
	r.POST("/categories/", append(staff, catalogH.CreateCategory)...)
	r.DELETE("/categories/:slug/", append(staff, catalogH.DeleteCategory())...)

	r.POST("/subcategories/", append(staff, catalogH.CreateSubcategory)...)
	r.DELETE("/subcategories/:slug/", append(staff, catalogH.DeleteSubcategory())...)

	r.GET("/products/", catalogH.ListProducts)
	r.POST("/products/", append(staff, catalogH.CreateProduct)...)
	r.DELETE("/products/:slug/", append(staff, catalogH.DeleteProduct())...)

	// Cart: every route acts on the caller's own cart
	cart := r.Group("/cart", tokenMW)
	{
		cart.GET("/", cartH.Get)
		cart.POST("/items/", cartH.AddOrUpdateItem)
		cart.DELETE("/items/:product_slug/", cartH.RemoveItem)
		cart.DELETE("/clear/", cartH.Clear)
	}

	// Swagger UI — only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
