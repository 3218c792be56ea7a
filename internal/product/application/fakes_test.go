package application

import (
	"context"
	"errors"
	"io"
	"slices"
	"strings"

	"github.com/cristianortiz/bidmarket/internal/product/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/storage"
	"github.com/google/uuid"
)

type memRepo struct {
	products   map[uuid.UUID]*domain.Product
	categories map[uuid.UUID]string
	lastFilter domain.ListFilter
	failUpdate error
}

func newMemRepo() *memRepo {
	return &memRepo{products: map[uuid.UUID]*domain.Product{}, categories: map[uuid.UUID]string{}}
}

func (r *memRepo) addCategory(name string) uuid.UUID {
	id := uuid.New()
	r.categories[id] = name
	return id
}

func (r *memRepo) add(p *domain.Product) *domain.Product {
	c := *p
	r.products[p.ID] = &c
	return p
}

func (r *memRepo) Create(_ context.Context, p *domain.Product) error {
	r.add(p)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	c := *p
	c.Images = slices.Clone(p.Images)
	return &c, nil
}

func (r *memRepo) Update(_ context.Context, p *domain.Product) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	stored := r.products[p.ID]
	images, categories := stored.Images, stored.Categories
	c := *p
	c.Images, c.Categories = images, categories
	r.products[p.ID] = &c
	return nil
}

func (r *memRepo) ReplaceCategories(_ context.Context, id uuid.UUID, ids []uuid.UUID) error {
	var cats []domain.Category
	for _, c := range ids {
		cats = append(cats, domain.Category{ID: c, Name: r.categories[c]})
	}
	r.products[id].Categories = cats
	return nil
}

func (r *memRepo) ReplaceImages(_ context.Context, id uuid.UUID, images []domain.Image) error {
	r.products[id].Images = images
	return nil
}

func (r *memRepo) ListBySeller(_ context.Context, f domain.ListFilter) ([]domain.Product, int, error) {
	r.lastFilter = f
	var out []domain.Product
	for _, p := range r.products {
		if p.SellerID != f.SellerID {
			continue
		}
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		if f.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Name)) {
			continue
		}
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (r *memRepo) FindOwned(_ context.Context, sellerID uuid.UUID, ids []uuid.UUID) ([]domain.Product, error) {
	var out []domain.Product
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		p, ok := r.products[id]
		if ok && p.SellerID == sellerID && !seen[id] {
			seen[id] = true
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memRepo) DeleteMany(_ context.Context, sellerID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		if p, ok := r.products[id]; ok && p.SellerID == sellerID {
			delete(r.products, id)
		}
	}
	return nil
}

func (r *memRepo) DecrementStock(_ context.Context, id uuid.UUID, qty int) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	if p.StockQuantity < qty {
		return domain.ErrInsufficientStock
	}
	p.StockQuantity -= qty
	return nil
}

func (r *memRepo) IncrementStock(_ context.Context, id uuid.UUID, qty int) error {
	p, ok := r.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.StockQuantity += qty
	return nil
}

func (r *memRepo) List(context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for id, name := range r.categories {
		out = append(out, domain.Category{ID: id, Name: name})
	}
	slices.SortFunc(out, func(a, b domain.Category) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (r *memRepo) CountExisting(_ context.Context, ids []uuid.UUID) (int, error) {
	seen := map[uuid.UUID]bool{}
	for _, id := range ids {
		if _, ok := r.categories[id]; ok {
			seen[id] = true
		}
	}
	return len(seen), nil
}

type passTx struct{}

func (passTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeFiles struct {
	uploaded []string
	deleted  []string
	failOn   string
}

func (f *fakeFiles) Upload(_ context.Context, dir string, file storage.File) (string, error) {
	if file.Name == f.failOn {
		return "", errors.New("s3 unavailable")
	}
	key := dir + "/" + file.Name
	f.uploaded = append(f.uploaded, key)
	return key, nil
}

func (f *fakeFiles) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeFiles) URL(key string) string {
	return "https://bucket.s3.amazonaws.com/" + key
}

func png(name string) storage.File {
	return storage.File{Name: name, ContentType: "image/png", Size: 1024, Content: io.NopCloser(strings.NewReader("png"))}
}

type fixture struct {
	repo    *memRepo
	files   *fakeFiles
	service ProductService
	seller  identity.Actor
}

func newFixture() *fixture {
	f := &fixture{
		repo:   newMemRepo(),
		files:  &fakeFiles{},
		seller: identity.Actor{UserID: uuid.New(), Role: identity.RoleSeller, IsVerified: true},
	}
	f.service = NewProductService(
		NewCreateProductUseCase(f.repo, f.repo, f.files, passTx{}),
		NewUpdateProductUseCase(f.repo, f.repo, f.files, passTx{}),
		NewGetProductUseCase(f.repo, f.files),
		NewListProductsUseCase(f.repo, f.files),
		NewDeleteProductsUseCase(f.repo, f.files, passTx{}),
		NewListCategoriesUseCase(f.repo),
	)
	return f
}

func (f *fixture) product(status domain.Status, stock int, imageKeys ...string) *domain.Product {
	p := domain.NewProduct(f.seller.UserID, "Lamp", nil, stock, nil, imageKeys)
	p.Status = status
	return f.repo.add(p)
}
