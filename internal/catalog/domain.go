package catalog

import "time"

// Product is a sellable catalog item. SKU is unique across the catalog.
type Product struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	SKU          string    `json:"sku"`
	Price        float64   `json:"price"`
	CostPrice    float64   `json:"cost_price"`
	CategoryID   *int64    `json:"category_id"`
	CategoryName string    `json:"category_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Location is a store branch holding stock.
type Location struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
}

// Category groups products.
type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Supplier provides goods via purchase orders.
type Supplier struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Customer is an optional order party.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// CreateProductInput describes a new product.
type CreateProductInput struct {
	Name       string
	SKU        string
	Price      float64
	CostPrice  float64
	CategoryID *int64
}

// UpdateProductInput carries mutable price fields.
type UpdateProductInput struct {
	Name       *string
	Price      *float64
	CostPrice  *float64
	CategoryID *int64
}
