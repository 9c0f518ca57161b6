package orders

import (
	"time"

	"github.com/minimart-pos/minimart-pos/internal/users"
)

// PaymentStatus is the order lifecycle state.
type PaymentStatus string

const (
	// StatusPending is the initial state: no inventory effect yet.
	StatusPending PaymentStatus = "PENDING"
	// StatusPaid means the sale happened; stock was decremented.
	StatusPaid PaymentStatus = "PAID"
	// StatusCancelled is terminal.
	StatusCancelled PaymentStatus = "CANCELLED"
)

// Valid reports whether the status is part of the closed set.
func (s PaymentStatus) Valid() bool {
	return s == StatusPending || s == StatusPaid || s == StatusCancelled
}

// CanTransition reports whether from→to is an allowed edge of the payment
// state machine. Same-status moves are handled by the caller as no-ops and
// are not edges.
func CanTransition(from, to PaymentStatus) bool {
	switch from {
	case StatusPending:
		return to == StatusPaid || to == StatusCancelled
	case StatusPaid:
		return to == StatusCancelled
	default:
		return false
	}
}

// Order is the sale aggregate: header plus its detail lines, created
// together and cancelled together. Orders are never hard-deleted.
type Order struct {
	ID         int64         `json:"id"`
	UserID     int64         `json:"user_id"`
	CustomerID *int64        `json:"customer_id"`
	LocationID int64         `json:"location_id"`
	Discount   float64       `json:"discount"`
	Total      float64       `json:"total"`
	Status     PaymentStatus `json:"payment_status"`
	OrderDate  time.Time     `json:"order_date"`
	Details    []Detail      `json:"details"`
}

// Detail is one order line with the unit price captured at order time.
type Detail struct {
	ID          int64   `json:"id"`
	OrderID     int64   `json:"order_id"`
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name,omitempty"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`
}

// LineInput is one requested order line. A nil price defaults to the
// product's current sale price.
type LineInput struct {
	ProductID int64
	Quantity  int
	Price     *float64
}

// CreateOrderInput describes a new order. Status defaults to PENDING,
// discount to 0 and orderDate to now; all defaults apply once, at creation.
type CreateOrderInput struct {
	UserID     int64
	LocationID int64
	CustomerID *int64
	Discount   float64
	Status     PaymentStatus
	OrderDate  time.Time
	Lines      []LineInput
}

// ShiftOrder pairs an order with its cashier for shift reporting.
type ShiftOrder struct {
	Order
	CashierName string
}

// CashierSummary aggregates one cashier's day within a shift report.
type CashierSummary struct {
	CashierID   int64   `json:"cashier_id"`
	CashierName string  `json:"cashier_name"`
	OrderCount  int     `json:"order_count"`
	TotalSales  float64 `json:"total_sales"`
}

// ShiftReport summarises one calendar day for one shift.
type ShiftReport struct {
	Shift            users.Shift      `json:"shift"`
	Date             time.Time        `json:"date"`
	TotalSales       float64          `json:"total_sales"`
	PaidOrders       int              `json:"paid_orders"`
	PendingOrders    int              `json:"pending_orders"`
	CancelledOrders  int              `json:"cancelled_orders"`
	CashierSummaries []CashierSummary `json:"cashier_summaries"`
}
