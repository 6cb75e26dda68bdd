package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"shopapi/internal/infra"
	"shopapi/internal/model"
	"shopapi/internal/repository"
	"shopapi/internal/slug"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── Users and tokens ──────────────────────────────────────────────────────────

type stubUserRepo struct {
	byName map[string]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{byName: make(map[string]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if _, ok := r.byName[u.Username]; ok {
		return gorm.ErrDuplicatedKey
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.byName[u.Username] = u
	return nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	u, ok := r.byName[username]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) delete(username string) { delete(r.byName, username) }

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range r.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

type stubTokenRepo struct {
	byUser map[uuid.UUID]*model.AuthToken
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{byUser: make(map[uuid.UUID]*model.AuthToken)}
}

func (r *stubTokenRepo) GetOrCreate(_ context.Context, t *model.AuthToken) (*model.AuthToken, error) {
	if existing, ok := r.byUser[t.UserID]; ok {
		return existing, nil
	}
	r.byUser[t.UserID] = t
	return t, nil
}

func (r *stubTokenRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*model.AuthToken, error) {
	t, ok := r.byUser[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (r *stubTokenRepo) FindByKey(_ context.Context, key string) (*model.AuthToken, error) {
	for _, t := range r.byUser {
		if t.Key == key {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

var _ repository.TokenRepository = (*stubTokenRepo)(nil)

// ── Catalog ───────────────────────────────────────────────────────────────────

func takenIn(slugs []string, base string) []string {
	var out []string
	for _, s := range slugs {
		if slug.Suffixed(base, s) {
			out = append(out, s)
		}
	}
	return out
}

type stubCategoryRepo struct {
	bySlug map[string]*model.Category
	subs   *stubSubcategoryRepo
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{bySlug: make(map[string]*model.Category)}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if _, ok := r.bySlug[c.Slug]; ok {
		return gorm.ErrDuplicatedKey
	}
	c.ID = uuid.New()
	r.bySlug[c.Slug] = c
	return nil
}

func (r *stubCategoryRepo) TakenSlugs(_ context.Context, base string) ([]string, error) {
	all := make([]string, 0, len(r.bySlug))
	for s := range r.bySlug {
		all = append(all, s)
	}
	return takenIn(all, base), nil
}

func (r *stubCategoryRepo) FindBySlug(_ context.Context, s string) (*model.Category, error) {
	c, ok := r.bySlug[s]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoryRepo) ListWithSubcategories(_ context.Context) ([]model.Category, error) {
	out := make([]model.Category, 0, len(r.bySlug))
	for _, c := range r.bySlug {
		cc := *c
		if r.subs != nil {
			for _, sc := range r.subs.bySlug {
				if sc.CategoryID == c.ID {
					cc.Subcategories = append(cc.Subcategories, *sc)
				}
			}
		}
		sort.Slice(cc.Subcategories, func(i, j int) bool { return cc.Subcategories[i].Name < cc.Subcategories[j].Name })
		out = append(out, cc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCategoryRepo) DeleteBySlug(_ context.Context, s string) error {
	if _, ok := r.bySlug[s]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.bySlug, s)
	return nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

type stubSubcategoryRepo struct {
	bySlug map[string]*model.Subcategory
}

func newStubSubcategoryRepo() *stubSubcategoryRepo {
	return &stubSubcategoryRepo{bySlug: make(map[string]*model.Subcategory)}
}

func (r *stubSubcategoryRepo) Create(_ context.Context, sc *model.Subcategory) error {
	if _, ok := r.bySlug[sc.Slug]; ok {
		return gorm.ErrDuplicatedKey
	}
	sc.ID = uuid.New()
	r.bySlug[sc.Slug] = sc
	return nil
}

func (r *stubSubcategoryRepo) TakenSlugs(_ context.Context, base string) ([]string, error) {
	all := make([]string, 0, len(r.bySlug))
	for s := range r.bySlug {
		all = append(all, s)
	}
	return takenIn(all, base), nil
}

func (r *stubSubcategoryRepo) FindBySlug(_ context.Context, s string) (*model.Subcategory, error) {
	sc, ok := r.bySlug[s]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return sc, nil
}

func (r *stubSubcategoryRepo) DeleteBySlug(_ context.Context, s string) error {
	if _, ok := r.bySlug[s]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.bySlug, s)
	return nil
}

var _ repository.SubcategoryRepository = (*stubSubcategoryRepo)(nil)

type stubProductRepo struct {
	bySlug map[string]*model.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{bySlug: make(map[string]*model.Product)}
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	if _, ok := r.bySlug[p.Slug]; ok {
		return gorm.ErrDuplicatedKey
	}
	p.ID = uuid.New()
	r.bySlug[p.Slug] = p
	return nil
}

func (r *stubProductRepo) TakenSlugs(_ context.Context, base string) ([]string, error) {
	all := make([]string, 0, len(r.bySlug))
	for s := range r.bySlug {
		all = append(all, s)
	}
	return takenIn(all, base), nil
}

func (r *stubProductRepo) FindBySlug(_ context.Context, s string) (*model.Product, error) {
	p, ok := r.bySlug[s]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (r *stubProductRepo) findByID(id uuid.UUID) *model.Product {
	for _, p := range r.bySlug {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *stubProductRepo) List(_ context.Context) ([]model.Product, error) {
	out := make([]model.Product, 0, len(r.bySlug))
	for _, p := range r.bySlug {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubProductRepo) DeleteBySlug(_ context.Context, s string) error {
	if _, ok := r.bySlug[s]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.bySlug, s)
	return nil
}

var _ repository.ProductRepository = (*stubProductRepo)(nil)

// ── Cart ──────────────────────────────────────────────────────────────────────

type stubCartRepo struct {
	products *stubProductRepo
	carts    map[uuid.UUID]*model.Cart // by user
	items    map[uuid.UUID][]model.CartItem
	clock    time.Time
}

func newStubCartRepo(products *stubProductRepo) *stubCartRepo {
	return &stubCartRepo{
		products: products,
		carts:    make(map[uuid.UUID]*model.Cart),
		items:    make(map[uuid.UUID][]model.CartItem),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *stubCartRepo) tick() time.Time {
	r.clock = r.clock.Add(time.Second)
	return r.clock
}

func (r *stubCartRepo) GetOrCreateTx(_ context.Context, _ *gorm.DB, userID uuid.UUID) (*model.Cart, error) {
	if c, ok := r.carts[userID]; ok {
		return c, nil
	}
	now := r.tick()
	c := &model.Cart{ID: uuid.New(), UserID: userID, CreatedAt: now, UpdatedAt: now}
	r.carts[userID] = c
	return c, nil
}

func (r *stubCartRepo) UpsertItemTx(_ context.Context, _ *gorm.DB, cartID, productID uuid.UUID, quantity int) (bool, error) {
	list := r.items[cartID]
	for i := range list {
		if list[i].ProductID == productID {
			list[i].Quantity = quantity
			list[i].UpdatedAt = r.tick()
			return false, nil
		}
	}
	now := r.tick()
	r.items[cartID] = append(list, model.CartItem{
		ID: uuid.New(), CartID: cartID, ProductID: productID, Quantity: quantity,
		CreatedAt: now, UpdatedAt: now,
	})
	return true, nil
}

func (r *stubCartRepo) TouchTx(_ context.Context, _ *gorm.DB, cartID uuid.UUID) error {
	for _, c := range r.carts {
		if c.ID == cartID {
			c.UpdatedAt = r.tick()
		}
	}
	return nil
}

func (r *stubCartRepo) FindByUserID(_ context.Context, userID uuid.UUID) (*model.Cart, error) {
	c, ok := r.carts[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	out := *c
	out.Items = nil
	for _, it := range r.items[c.ID] {
		it.Product = r.products.findByID(it.ProductID)
		out.Items = append(out.Items, it)
	}
	return &out, nil
}

func (r *stubCartRepo) RemoveItemBySlug(_ context.Context, cartID uuid.UUID, productSlug string) error {
	list := r.items[cartID]
	for i, it := range list {
		if p := r.products.findByID(it.ProductID); p != nil && p.Slug == productSlug {
			r.items[cartID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubCartRepo) ClearItems(_ context.Context, cartID uuid.UUID) (int64, error) {
	n := int64(len(r.items[cartID]))
	delete(r.items, cartID)
	return n, nil
}

func (r *stubCartRepo) DB() *gorm.DB { return nil }

var _ repository.CartRepository = (*stubCartRepo)(nil)

// ── Images ────────────────────────────────────────────────────────────────────

// stubImages prefixes paths and never renders variants.
type stubImages struct{}

func (stubImages) URL(path *string) *string {
	if path == nil || *path == "" {
		return nil
	}
	u := "http://media.test/" + strings.TrimLeft(*path, "/")
	return &u
}

func (stubImages) Variants(context.Context, *string) []string { return []string{} }

var _ ImageService = stubImages{}

type stubRenderer struct {
	calls int
	err   error
}

func (r *stubRenderer) Render(_ context.Context, source string, spec infra.VariantSpec) (string, error) {
	r.calls++
	if r.err != nil {
		return "", r.err
	}
	return "http://resizer.test/" + spec.Name + "/" + source, nil
}
