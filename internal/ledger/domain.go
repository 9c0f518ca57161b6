package ledger

import (
	"errors"
	"time"
)

// MovementType enumerates supported stock movements.
type MovementType string

const (
	// MovementSale decrements stock when an order is paid.
	MovementSale MovementType = "SALE"
	// MovementReturn restores stock when a paid order is cancelled.
	MovementReturn MovementType = "RETURN"
	// MovementPurchase adds stock received from a supplier purchase.
	MovementPurchase MovementType = "PURCHASE"
	// MovementReceive adds stock for ad-hoc inbound deliveries.
	MovementReceive MovementType = "RECEIVE"
	// MovementAdjustment is a manual correction, always positive.
	MovementAdjustment MovementType = "ADJUSTMENT"
	// MovementTransfer decrements stock moved out of a location.
	MovementTransfer MovementType = "TRANSFER"
)

// Sign resolves the direction a movement type applies to stock. Adding a
// movement type without a row here makes Valid fail, forcing an explicit
// sign decision.
func (t MovementType) Sign() int {
	switch t {
	case MovementSale, MovementTransfer:
		return -1
	case MovementReturn, MovementReceive, MovementAdjustment, MovementPurchase:
		return 1
	default:
		return 0
	}
}

// Valid reports whether the movement type is part of the closed set.
func (t MovementType) Valid() bool {
	return t.Sign() != 0
}

// Stock is the current on-hand quantity for a (product, location) pair.
// Rows are created lazily on first movement and never deleted.
type Stock struct {
	ID          int64
	ProductID   int64
	LocationID  int64
	Quantity    int
	LastUpdated time.Time
}

// Movement is one immutable, signed entry of the stock audit trail.
type Movement struct {
	ID             int64
	ProductID      int64
	LocationID     int64
	OrderID        *int64
	Type           MovementType
	QuantityChange int
	Reference      string
	Note           string
	CreatedAt      time.Time
}

// Posting describes a quantity change to apply to the ledger. Quantity is
// always positive; the movement type decides the sign.
type Posting struct {
	ProductID  int64
	LocationID int64
	Type       MovementType
	Quantity   int
	Reference  string
	Note       string
	OrderID    *int64
}

// StockLevel is the read view of stock coverage: one row per product and
// location, including pairs that have no stock row yet (StockID nil).
type StockLevel struct {
	StockID      *int64     `json:"stock_id"`
	ProductID    int64      `json:"product_id"`
	ProductName  string     `json:"product_name"`
	SKU          string     `json:"sku"`
	CategoryName string     `json:"category_name,omitempty"`
	LocationID   *int64     `json:"location_id"`
	LocationName string     `json:"location_name,omitempty"`
	Quantity     int        `json:"quantity"`
	LastUpdated  *time.Time `json:"last_updated"`
}

// MovementFilter scopes movement listings. Zero From/To default to the
// trailing 30 days ending today.
type MovementFilter struct {
	ProductID *int64
	From      time.Time
	To        time.Time
}

// ErrStockNotFound indicates a missing stock row for a pair.
var ErrStockNotFound = errors.New("ledger: stock not found")
