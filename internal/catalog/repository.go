package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minimart-pos/minimart-pos/internal/shared"
)

const uniqueViolation = "23505"

// Repository persists catalog entities in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `p.id, p.name, p.sku, p.price, p.cost_price, p.category_id, COALESCE(c.name, ''), p.created_at, p.updated_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.CostPrice, &p.CategoryID, &p.CategoryName, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Product{}, fmt.Errorf("catalog: product: %w", shared.ErrNotFound)
		}
		return Product{}, err
	}
	return p, nil
}

// GetProduct loads one product with its category name.
func (r *Repository) GetProduct(ctx context.Context, id int64) (Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products p LEFT JOIN categories c ON c.id = p.category_id WHERE p.id = $1`, id)
	return scanProduct(row)
}

// ListProducts returns the full product set ordered by name.
func (r *Repository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+productColumns+` FROM products p LEFT JOIN categories c ON c.id = p.category_id ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// InsertProduct persists a new product. Duplicate SKU maps to ErrConflict.
func (r *Repository) InsertProduct(ctx context.Context, input CreateProductInput) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO products (name, sku, price, cost_price, category_id) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		input.Name, input.SKU, input.Price, input.CostPrice, input.CategoryID).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("catalog: sku %q: %w", input.SKU, shared.ErrConflict)
		}
		return 0, err
	}
	return id, nil
}

// UpdateProduct applies partial price/name changes.
func (r *Repository) UpdateProduct(ctx context.Context, id int64, input UpdateProductInput) error {
	tag, err := r.pool.Exec(ctx, `UPDATE products SET
			name = COALESCE($2, name),
			price = COALESCE($3, price),
			cost_price = COALESCE($4, cost_price),
			category_id = COALESCE($5, category_id),
			updated_at = NOW()
		WHERE id = $1`,
		id, input.Name, input.Price, input.CostPrice, input.CategoryID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("catalog: product %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

// GetLocation loads one location.
func (r *Repository) GetLocation(ctx context.Context, id int64) (Location, error) {
	var l Location
	err := r.pool.QueryRow(ctx, `SELECT id, name, COALESCE(address, '') FROM locations WHERE id = $1`, id).Scan(&l.ID, &l.Name, &l.Address)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Location{}, fmt.Errorf("catalog: location %d: %w", id, shared.ErrNotFound)
		}
		return Location{}, err
	}
	return l, nil
}

// ListLocations returns all locations ordered by name.
func (r *Repository) ListLocations(ctx context.Context) ([]Location, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, COALESCE(address, '') FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var locations []Location
	for rows.Next() {
		var l Location
		if err := rows.Scan(&l.ID, &l.Name, &l.Address); err != nil {
			return nil, err
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

// InsertLocation persists a new location.
func (r *Repository) InsertLocation(ctx context.Context, name, address string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO locations (name, address) VALUES ($1, $2) RETURNING id`, name, address).Scan(&id)
	return id, err
}

// GetSupplier loads one supplier.
func (r *Repository) GetSupplier(ctx context.Context, id int64) (Supplier, error) {
	var s Supplier
	err := r.pool.QueryRow(ctx, `SELECT id, name, COALESCE(phone, ''), COALESCE(email, '') FROM suppliers WHERE id = $1`, id).Scan(&s.ID, &s.Name, &s.Phone, &s.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Supplier{}, fmt.Errorf("catalog: supplier %d: %w", id, shared.ErrNotFound)
		}
		return Supplier{}, err
	}
	return s, nil
}

// InsertSupplier persists a new supplier.
func (r *Repository) InsertSupplier(ctx context.Context, s Supplier) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO suppliers (name, phone, email) VALUES ($1, $2, $3) RETURNING id`, s.Name, s.Phone, s.Email).Scan(&id)
	return id, err
}

// GetCustomer loads one customer.
func (r *Repository) GetCustomer(ctx context.Context, id int64) (Customer, error) {
	var c Customer
	err := r.pool.QueryRow(ctx, `SELECT id, name, COALESCE(phone, ''), COALESCE(email, '') FROM customers WHERE id = $1`, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Customer{}, fmt.Errorf("catalog: customer %d: %w", id, shared.ErrNotFound)
		}
		return Customer{}, err
	}
	return c, nil
}

// InsertCustomer persists a new customer.
func (r *Repository) InsertCustomer(ctx context.Context, c Customer) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO customers (name, phone, email) VALUES ($1, $2, $3) RETURNING id`, c.Name, c.Phone, c.Email).Scan(&id)
	return id, err
}

// ListCategories returns all categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// InsertCategory persists a new category.
func (r *Repository) InsertCategory(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	return id, err
}
