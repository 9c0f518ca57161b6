package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository implements RepositoryPort over PostgreSQL. All queries are
// read-only scans; none take locks.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListPaidOrders(ctx context.Context, from, to time.Time, locationID *int64) ([]PaidOrderRow, error) {
	const q = `
SELECT order_date, total, discount
FROM orders
WHERE payment_status = 'PAID'
  AND order_date >= $1 AND order_date < $2
  AND ($3::bigint IS NULL OR location_id = $3)`
	rows, err := r.pool.Query(ctx, q, from, to, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PaidOrderRow, 0)
	for rows.Next() {
		var row PaidOrderRow
		if err := rows.Scan(&row.OrderDate, &row.Total, &row.Discount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) ListPaidOrderLines(ctx context.Context, from, to time.Time, locationID *int64) ([]OrderLineRow, error) {
	const q = `
SELECT d.product_id, p.name, d.quantity, d.price
FROM order_details d
JOIN orders o ON o.id = d.order_id
JOIN products p ON p.id = d.product_id
WHERE o.payment_status = 'PAID'
  AND o.order_date >= $1 AND o.order_date < $2
  AND ($3::bigint IS NULL OR o.location_id = $3)`
	rows, err := r.pool.Query(ctx, q, from, to, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]OrderLineRow, 0)
	for rows.Next() {
		var row OrderLineRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.Quantity, &row.Price); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) ListStockSummaries(ctx context.Context) ([]StockSummaryRow, error) {
	const q = `
SELECT p.id, p.name, p.sku, COALESCE(SUM(s.quantity), 0), p.price, p.cost_price
FROM products p
LEFT JOIN stock s ON s.product_id = p.id
GROUP BY p.id, p.name, p.sku, p.price, p.cost_price`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StockSummaryRow, 0)
	for rows.Next() {
		var row StockSummaryRow
		if err := rows.Scan(&row.ProductID, &row.ProductName, &row.SKU, &row.Quantity, &row.SalePrice, &row.CostPrice); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) ListPurchaseLines(ctx context.Context, until time.Time, locationID *int64) ([]PurchaseLineRow, error) {
	const q = `
SELECT d.product_id, d.quantity, d.price
FROM purchase_order_details d
JOIN purchase_orders po ON po.id = d.purchase_order_id
WHERE po.order_date < $1
  AND ($2::bigint IS NULL OR po.location_id = $2)`
	rows, err := r.pool.Query(ctx, q, until, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PurchaseLineRow, 0)
	for rows.Next() {
		var row PurchaseLineRow
		if err := rows.Scan(&row.ProductID, &row.Quantity, &row.Price); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) ListExpenses(ctx context.Context, from, to time.Time, locationID *int64) ([]ExpenseRow, error) {
	const q = `
SELECT category, amount
FROM expenses
WHERE expense_date >= $1 AND expense_date < $2
  AND ($3::bigint IS NULL OR location_id = $3)`
	rows, err := r.pool.Query(ctx, q, from, to, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ExpenseRow, 0)
	for rows.Next() {
		var row ExpenseRow
		if err := rows.Scan(&row.Category, &row.Amount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
