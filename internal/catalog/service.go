package catalog

import (
	"context"
	"fmt"

	"github.com/minimart-pos/minimart-pos/internal/shared"
)

// RepositoryPort abstracts repository usage for service.
type RepositoryPort interface {
	GetProduct(ctx context.Context, id int64) (Product, error)
	ListProducts(ctx context.Context) ([]Product, error)
	InsertProduct(ctx context.Context, input CreateProductInput) (int64, error)
	UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) error
	GetLocation(ctx context.Context, id int64) (Location, error)
	ListLocations(ctx context.Context) ([]Location, error)
	InsertLocation(ctx context.Context, name, address string) (int64, error)
	GetSupplier(ctx context.Context, id int64) (Supplier, error)
	InsertSupplier(ctx context.Context, s Supplier) (int64, error)
	GetCustomer(ctx context.Context, id int64) (Customer, error)
	InsertCustomer(ctx context.Context, c Customer) (int64, error)
	ListCategories(ctx context.Context) ([]Category, error)
	InsertCategory(ctx context.Context, name string) (int64, error)
}

// Service exposes catalog lookups and maintenance operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// CreateProduct validates and persists a product.
func (s *Service) CreateProduct(ctx context.Context, input CreateProductInput) (Product, error) {
	if input.Name == "" || input.SKU == "" {
		return Product{}, fmt.Errorf("catalog: name and sku required: %w", shared.ErrValidation)
	}
	if input.Price < 0 || input.CostPrice < 0 {
		return Product{}, fmt.Errorf("catalog: price must be >= 0: %w", shared.ErrValidation)
	}
	id, err := s.repo.InsertProduct(ctx, input)
	if err != nil {
		return Product{}, err
	}
	return s.repo.GetProduct(ctx, id)
}

// UpdateProduct applies partial changes to a product.
func (s *Service) UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) (Product, error) {
	if input.Price != nil && *input.Price < 0 {
		return Product{}, fmt.Errorf("catalog: price must be >= 0: %w", shared.ErrValidation)
	}
	if input.CostPrice != nil && *input.CostPrice < 0 {
		return Product{}, fmt.Errorf("catalog: cost price must be >= 0: %w", shared.ErrValidation)
	}
	if err := s.repo.UpdateProduct(ctx, id, input); err != nil {
		return Product{}, err
	}
	return s.repo.GetProduct(ctx, id)
}

// GetProduct resolves a product by id.
func (s *Service) GetProduct(ctx context.Context, id int64) (Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// ListProducts returns the whole catalog.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.repo.ListProducts(ctx)
}

// CreateLocation validates and persists a location.
func (s *Service) CreateLocation(ctx context.Context, name, address string) (Location, error) {
	if name == "" {
		return Location{}, fmt.Errorf("catalog: location name required: %w", shared.ErrValidation)
	}
	id, err := s.repo.InsertLocation(ctx, name, address)
	if err != nil {
		return Location{}, err
	}
	return s.repo.GetLocation(ctx, id)
}

// GetLocation resolves a location by id.
func (s *Service) GetLocation(ctx context.Context, id int64) (Location, error) {
	return s.repo.GetLocation(ctx, id)
}

// ListLocations returns all locations.
func (s *Service) ListLocations(ctx context.Context) ([]Location, error) {
	return s.repo.ListLocations(ctx)
}

// CreateSupplier validates and persists a supplier.
func (s *Service) CreateSupplier(ctx context.Context, supplier Supplier) (Supplier, error) {
	if supplier.Name == "" {
		return Supplier{}, fmt.Errorf("catalog: supplier name required: %w", shared.ErrValidation)
	}
	id, err := s.repo.InsertSupplier(ctx, supplier)
	if err != nil {
		return Supplier{}, err
	}
	return s.repo.GetSupplier(ctx, id)
}

// GetSupplier resolves a supplier by id.
func (s *Service) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	return s.repo.GetSupplier(ctx, id)
}

// CreateCustomer validates and persists a customer.
func (s *Service) CreateCustomer(ctx context.Context, customer Customer) (Customer, error) {
	if customer.Name == "" {
		return Customer{}, fmt.Errorf("catalog: customer name required: %w", shared.ErrValidation)
	}
	id, err := s.repo.InsertCustomer(ctx, customer)
	if err != nil {
		return Customer{}, err
	}
	return s.repo.GetCustomer(ctx, id)
}

// GetCustomer resolves a customer by id.
func (s *Service) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	return s.repo.GetCustomer(ctx, id)
}

// CreateCategory validates and persists a category.
func (s *Service) CreateCategory(ctx context.Context, name string) (Category, error) {
	if name == "" {
		return Category{}, fmt.Errorf("catalog: category name required: %w", shared.ErrValidation)
	}
	id, err := s.repo.InsertCategory(ctx, name)
	if err != nil {
		return Category{}, err
	}
	return Category{ID: id, Name: name}, nil
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}
