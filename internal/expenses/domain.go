package expenses

import "time"

// Category buckets expenses for the profit-and-loss report.
type Category string

const (
	CategoryRent        Category = "RENT"
	CategorySalaries    Category = "SALARIES"
	CategoryUtilities   Category = "UTILITIES"
	CategoryLogistics   Category = "LOGISTICS"
	CategoryMaintenance Category = "MAINTENANCE"
	CategorySupplies    Category = "SUPPLIES"
	CategoryOther       Category = "OTHER"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryRent, CategorySalaries, CategoryUtilities, CategoryLogistics,
		CategoryMaintenance, CategorySupplies, CategoryOther:
		return true
	}
	return false
}

// Expense is one operating cost entry.
type Expense struct {
	ID          int64     `json:"id"`
	LocationID  int64     `json:"location_id"`
	UserID      *int64    `json:"user_id,omitempty"`
	Category    Category  `json:"category"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	ExpenseDate time.Time `json:"expense_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateInput describes a new expense. Category defaults to OTHER and
// expenseDate defaults to today.
type CreateInput struct {
	LocationID  int64
	UserID      *int64
	Category    Category
	Description string
	Amount      float64
	ExpenseDate time.Time
}
