package service

import (
	"context"
	"errors"
	"strings"

	"shopapi/internal/dto"
	"shopapi/internal/model"
	"shopapi/internal/repository"
	"shopapi/internal/slug"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CatalogService lists the catalog publicly and lets staff create and delete
// entries. Slugs are assigned on create and never change afterwards.
type CatalogService interface {
	ListCategories(ctx context.Context) ([]dto.CategoryResponse, error)
	ListProducts(ctx context.Context) ([]dto.ProductResponse, error)

	CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	CreateSubcategory(ctx context.Context, req dto.CreateSubcategoryRequest) (*dto.SubcategoryResponse, error)
	CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error)

	DeleteCategory(ctx context.Context, slug string) error
	DeleteSubcategory(ctx context.Context, slug string) error
	DeleteProduct(ctx context.Context, slug string) error
}

type catalogService struct {
	categories    repository.CategoryRepository
	subcategories repository.SubcategoryRepository
	products      repository.ProductRepository
	images        ImageService
}

func NewCatalogService(
	categories repository.CategoryRepository,
	subcategories repository.SubcategoryRepository,
	products repository.ProductRepository,
	images ImageService,
) CatalogService {
	return &catalogService{
		categories:    categories,
		subcategories: subcategories,
		products:      products,
		images:        images,
	}
}

// ── Mapping ───────────────────────────────────────────────────────────────────

func (s *catalogService) mapSubcategory(sc model.Subcategory) dto.SubcategoryResponse {
	return dto.SubcategoryResponse{
		ID:    sc.ID.String(),
		Name:  sc.Name,
		Slug:  sc.Slug,
		Image: s.images.URL(sc.Image),
	}
}

func (s *catalogService) mapCategory(c model.Category) dto.CategoryResponse {
	subs := make([]dto.SubcategoryResponse, 0, len(c.Subcategories))
	for _, sc := range c.Subcategories {
		subs = append(subs, s.mapSubcategory(sc))
	}
	return dto.CategoryResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		Slug:          c.Slug,
		Image:         s.images.URL(c.Image),
		Subcategories: subs,
	}
}

func (s *catalogService) mapProduct(ctx context.Context, p model.Product) dto.ProductResponse {
	resp := dto.ProductResponse{
		ID:     p.ID.String(),
		Name:   p.Name,
		Slug:   p.Slug,
		Price:  p.Price.StringFixed(2),
		Image:  s.images.URL(p.Image),
		Images: s.images.Variants(ctx, p.Image),
	}
	if p.Category != nil {
		resp.Category = p.Category.Name
	}
	if p.Subcategory != nil {
		resp.Subcategory = p.Subcategory.Name
	}
	return resp
}

// ── Reads ─────────────────────────────────────────────────────────────────────

func (s *catalogService) ListCategories(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := s.categories.ListWithSubcategories(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		result = append(result, s.mapCategory(c))
	}
	return result, nil
}

func (s *catalogService) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := s.products.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		result = append(result, s.mapProduct(ctx, p))
	}
	return result, nil
}

// ── Writes ────────────────────────────────────────────────────────────────────

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fieldErr("name", "This field may not be blank.")
	}
	return name, nil
}

func cleanImage(path *string) *string {
	if path == nil {
		return nil
	}
	p := strings.TrimSpace(*path)
	if p == "" {
		return nil
	}
	return &p
}

func (s *catalogService) CreateCategory(ctx context.Context, req dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}
	c := &model.Category{Name: name, Image: cleanImage(req.Image)}
	if _, err := slug.Assign(ctx, name, s.categories.TakenSlugs, func(ctx context.Context, cand string) error {
		c.Slug = cand
		return s.categories.Create(ctx, c)
	}); err != nil {
		return nil, err
	}
	log.Info().Str("slug", c.Slug).Msg("category created")
	resp := s.mapCategory(*c)
	return &resp, nil
}

func (s *catalogService) CreateSubcategory(ctx context.Context, req dto.CreateSubcategoryRequest) (*dto.SubcategoryResponse, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}
	parent, err := s.categories.FindBySlug(ctx, req.CategorySlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fieldErr("category_slug", "Category with this slug does not exist.")
		}
		return nil, err
	}

	sc := &model.Subcategory{Name: name, Image: cleanImage(req.Image), CategoryID: parent.ID}
	if _, err := slug.Assign(ctx, name, s.subcategories.TakenSlugs, func(ctx context.Context, cand string) error {
		sc.Slug = cand
		return s.subcategories.Create(ctx, sc)
	}); err != nil {
		return nil, err
	}
	log.Info().Str("slug", sc.Slug).Str("category", parent.Slug).Msg("subcategory created")
	resp := s.mapSubcategory(*sc)
	return &resp, nil
}

var maxPrice = decimal.New(1, 8) // numeric(10,2)

func validatePrice(p decimal.Decimal) error {
	switch {
	case p.IsNegative():
		return fieldErr("price", "Ensure this value is greater than or equal to 0.")
	case p.GreaterThanOrEqual(maxPrice):
		return fieldErr("price", "Ensure that there are no more than 10 digits in total.")
	case !p.Equal(p.Round(2)):
		return fieldErr("price", "Ensure that there are no more than 2 decimal places.")
	}
	return nil
}

func (s *catalogService) CreateProduct(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name, err := cleanName(req.Name)
	if err != nil {
		return nil, err
	}
	if err := validatePrice(req.Price); err != nil {
		return nil, err
	}

	cat, err := s.categories.FindBySlug(ctx, req.CategorySlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fieldErr("category_slug", "Category with this slug does not exist.")
		}
		return nil, err
	}
	sub, err := s.subcategories.FindBySlug(ctx, req.SubcategorySlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fieldErr("subcategory_slug", "Subcategory with this slug does not exist.")
		}
		return nil, err
	}
	if sub.CategoryID != cat.ID {
		return nil, fieldErr("subcategory_slug", "Subcategory does not belong to the selected category.")
	}

	p := &model.Product{
		Name:          name,
		Price:         req.Price.Round(2),
		Image:         cleanImage(req.Image),
		CategoryID:    cat.ID,
		SubcategoryID: sub.ID,
	}
	if _, err := slug.Assign(ctx, name, s.products.TakenSlugs, func(ctx context.Context, cand string) error {
		p.Slug = cand
		return s.products.Create(ctx, p)
	}); err != nil {
		return nil, err
	}
	p.Category, p.Subcategory = cat, sub
	log.Info().Str("slug", p.Slug).Str("price", p.Price.StringFixed(2)).Msg("product created")
	resp := s.mapProduct(ctx, *p)
	return &resp, nil
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *catalogService) DeleteCategory(ctx context.Context, slug string) error {
	return notFound(s.categories.DeleteBySlug(ctx, slug))
}

func (s *catalogService) DeleteSubcategory(ctx context.Context, slug string) error {
	return notFound(s.subcategories.DeleteBySlug(ctx, slug))
}

func (s *catalogService) DeleteProduct(ctx context.Context, slug string) error {
	return notFound(s.products.DeleteBySlug(ctx, slug))
}
