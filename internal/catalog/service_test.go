package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/minimart-pos/minimart-pos/internal/shared"
)

type memoryRepo struct {
	products map[int64]Product
	skus     map[string]int64
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{products: make(map[int64]Product), skus: make(map[string]int64)}
}

func (r *memoryRepo) GetProduct(ctx context.Context, id int64) (Product, error) {
	if p, ok := r.products[id]; ok {
		return p, nil
	}
	return Product{}, shared.ErrNotFound
}

func (r *memoryRepo) ListProducts(ctx context.Context) ([]Product, error) {
	out := make([]Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, p)
	}
	return out, nil
}

func (r *memoryRepo) InsertProduct(ctx context.Context, input CreateProductInput) (int64, error) {
	if _, exists := r.skus[input.SKU]; exists {
		return 0, shared.ErrConflict
	}
	r.nextID++
	r.products[r.nextID] = Product{
		ID:         r.nextID,
		Name:       input.Name,
		SKU:        input.SKU,
		Price:      input.Price,
		CostPrice:  input.CostPrice,
		CategoryID: input.CategoryID,
	}
	r.skus[input.SKU] = r.nextID
	return r.nextID, nil
}

func (r *memoryRepo) UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) error {
	p, ok := r.products[id]
	if !ok {
		return shared.ErrNotFound
	}
	if input.Name != nil {
		p.Name = *input.Name
	}
	if input.Price != nil {
		p.Price = *input.Price
	}
	if input.CostPrice != nil {
		p.CostPrice = *input.CostPrice
	}
	if input.CategoryID != nil {
		p.CategoryID = input.CategoryID
	}
	r.products[id] = p
	return nil
}

func (r *memoryRepo) GetLocation(ctx context.Context, id int64) (Location, error) {
	return Location{}, shared.ErrNotFound
}
func (r *memoryRepo) ListLocations(ctx context.Context) ([]Location, error) { return nil, nil }
func (r *memoryRepo) InsertLocation(ctx context.Context, name, address string) (int64, error) {
	return 0, nil
}
func (r *memoryRepo) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	return Supplier{}, shared.ErrNotFound
}
func (r *memoryRepo) InsertSupplier(ctx context.Context, s Supplier) (int64, error) { return 0, nil }
func (r *memoryRepo) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	return Customer{}, shared.ErrNotFound
}
func (r *memoryRepo) InsertCustomer(ctx context.Context, c Customer) (int64, error) { return 0, nil }
func (r *memoryRepo) ListCategories(ctx context.Context) ([]Category, error)       { return nil, nil }
func (r *memoryRepo) InsertCategory(ctx context.Context, name string) (int64, error) {
	return 0, nil
}

func TestCreateProductValidates(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, CreateProductInput{SKU: "SKU-1", Price: 1})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Beans", Price: 1})
	require.ErrorIs(t, err, shared.ErrValidation)

	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Beans", SKU: "SKU-1", Price: -1})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Beans", SKU: "SKU-1", Price: 12.50})
	require.NoError(t, err)

	_, err = svc.CreateProduct(ctx, CreateProductInput{Name: "Other", SKU: "SKU-1", Price: 3.20})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestUpdateProductPartial(t *testing.T) {
	svc := NewService(newMemoryRepo())
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductInput{Name: "Beans", SKU: "SKU-1", Price: 12.50, CostPrice: 7.00})
	require.NoError(t, err)

	price := 13.00
	updated, err := svc.UpdateProduct(ctx, created.ID, UpdateProductInput{Price: &price})
	require.NoError(t, err)
	require.Equal(t, 13.00, updated.Price)
	require.Equal(t, 7.00, updated.CostPrice)
	require.Equal(t, "Beans", updated.Name)

	negative := -1.0
	_, err = svc.UpdateProduct(ctx, created.ID, UpdateProductInput{CostPrice: &negative})
	require.ErrorIs(t, err, shared.ErrValidation)
}
