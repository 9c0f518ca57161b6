package reports

import "time"

// DailySalesBucket is one calendar day of paid sales. Days without orders
// are present with zero values.
type DailySalesBucket struct {
	Date              time.Time `json:"date"`
	OrderCount        int       `json:"order_count"`
	TotalSales        float64   `json:"total_sales"`
	AverageOrderValue float64   `json:"average_order_value"`
}

// DailySalesSummary aggregates paid orders over an inclusive day range.
type DailySalesSummary struct {
	StartDate         time.Time          `json:"start_date"`
	EndDate           time.Time          `json:"end_date"`
	TotalSales        float64            `json:"total_sales"`
	OrderCount        int                `json:"order_count"`
	AverageOrderValue float64            `json:"average_order_value"`
	Days              []DailySalesBucket `json:"days"`
}

// TopProduct ranks a product by paid sales volume.
type TopProduct struct {
	ProductID    int64   `json:"product_id"`
	ProductName  string  `json:"product_name"`
	QuantitySold int     `json:"quantity_sold"`
	TotalSales   float64 `json:"total_sales"`
}

// InventoryItem values one product's on-hand stock across all locations at
// its current sale price.
type InventoryItem struct {
	ProductID   int64   `json:"product_id"`
	ProductName string  `json:"product_name"`
	SKU         string  `json:"sku"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	StockValue  float64 `json:"stock_value"`
}

// InventoryReport is the current stock valuation.
type InventoryReport struct {
	TotalValue    float64         `json:"total_value"`
	TotalQuantity int             `json:"total_quantity"`
	Items         []InventoryItem `json:"items"`
}

// ProductProfit is the per-product slice of the profit and loss statement.
type ProductProfit struct {
	ProductID    int64   `json:"product_id"`
	ProductName  string  `json:"product_name"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
	Cost         float64 `json:"cost"`
	Profit       float64 `json:"profit"`
}

// ExpenseCategoryTotal is one expense category's total within the range.
type ExpenseCategoryTotal struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// ProfitAndLoss is the profit and loss statement for an inclusive day range.
type ProfitAndLoss struct {
	StartDate     time.Time              `json:"start_date"`
	EndDate       time.Time              `json:"end_date"`
	Revenue       float64                `json:"revenue"`
	Discounts     float64                `json:"discounts"`
	CostOfGoods   float64                `json:"cost_of_goods"`
	GrossProfit   float64                `json:"gross_profit"`
	TotalExpenses float64                `json:"total_expenses"`
	NetProfit     float64                `json:"net_profit"`
	Products      []ProductProfit        `json:"products"`
	Expenses      []ExpenseCategoryTotal `json:"expenses"`
}

// PaidOrderRow is one paid order as seen by the report queries.
type PaidOrderRow struct {
	OrderDate time.Time
	Total     float64
	Discount  float64
}

// OrderLineRow is one paid order line.
type OrderLineRow struct {
	ProductID   int64
	ProductName string
	Quantity    int
	Price       float64
}

// StockSummaryRow is one product's stock aggregated across locations.
type StockSummaryRow struct {
	ProductID   int64
	ProductName string
	SKU         string
	Quantity    int
	SalePrice   float64
	CostPrice   float64
}

// PurchaseLineRow is one purchase order line used for weighted-average cost.
type PurchaseLineRow struct {
	ProductID int64
	Quantity  int
	Price     float64
}

// ExpenseRow is one expense entry as seen by the report queries.
type ExpenseRow struct {
	Category string
	Amount   float64
}
