package users

import "time"

// Role enumerates account roles.
type Role string

const (
	// RoleAdmin manages the whole store.
	RoleAdmin Role = "ADMIN"
	// RoleManager manages a single location.
	RoleManager Role = "MANAGER"
	// RoleCashier operates the register.
	RoleCashier Role = "CASHIER"
)

// Shift is a cashier work period used to scope shift reports.
type Shift string

const (
	// ShiftMorning covers opening until mid-day.
	ShiftMorning Shift = "MORNING"
	// ShiftEvening covers mid-day until close.
	ShiftEvening Shift = "EVENING"
)

// Valid reports whether the shift is a known work period.
func (s Shift) Valid() bool {
	return s == ShiftMorning || s == ShiftEvening
}

// Status enumerates account states.
type Status string

const (
	// StatusActive allows login and order creation.
	StatusActive Status = "ACTIVE"
	// StatusInactive blocks the account.
	StatusInactive Status = "INACTIVE"
)

// User is a cashier or manager account.
type User struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Role       Role      `json:"role"`
	Shift      Shift     `json:"shift"`
	Status     Status    `json:"status"`
	LocationID *int64    `json:"location_id"`
	Phone      string    `json:"phone,omitempty"`
	Email      string    `json:"email,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CreateUserInput describes a new account. Role defaults to CASHIER, shift to
// MORNING and status to ACTIVE, applied once at creation.
type CreateUserInput struct {
	Username   string
	Password   string
	Role       Role
	Shift      Shift
	LocationID *int64
	Phone      string
	Email      string
}
