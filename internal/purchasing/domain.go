package purchasing

import "time"

// PurchaseOrder records a supplier purchase. Creation posts its PURCHASE
// movements immediately; there is no pending state and no reversal path.
type PurchaseOrder struct {
	ID           int64     `json:"id"`
	SupplierID   *int64    `json:"supplier_id"`
	SupplierName *string   `json:"supplier_name,omitempty"`
	LocationID   int64     `json:"location_id"`
	LocationName string    `json:"location_name,omitempty"`
	Total        float64   `json:"total"`
	OrderDate    time.Time `json:"order_date"`
	CreatedAt    time.Time `json:"created_at"`
	Details      []Detail  `json:"details"`
}

// Detail is one purchased line.
type Detail struct {
	ID              int64   `json:"id"`
	PurchaseOrderID int64   `json:"purchase_order_id"`
	ProductID       int64   `json:"product_id"`
	ProductName     string  `json:"product_name,omitempty"`
	Quantity        int     `json:"quantity"`
	Price           float64 `json:"price"`
}

// LineInput is one requested purchase line. A nil price defaults to the
// product's current sale price.
type LineInput struct {
	ProductID int64
	Quantity  int
	Price     *float64
}

// CreateInput describes a new purchase order. Total overrides the computed
// line sum when set; orderDate defaults to now.
type CreateInput struct {
	SupplierID *int64
	LocationID int64
	Total      *float64
	OrderDate  time.Time
	Lines      []LineInput
}
