package purchasing

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minimart-pos/minimart-pos/internal/ledger"
	"github.com/minimart-pos/minimart-pos/internal/platform/db"
	"github.com/minimart-pos/minimart-pos/internal/shared"
)

// Repository implements RepositoryPort over PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

var (
	_ RepositoryPort = (*Repository)(nil)
	_ TxRepository   = (*txRepo)(nil)
)

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx, TxRepository: ledger.NewTxRepository(tx)})
	})
}

func (r *Repository) Get(ctx context.Context, id int64) (PurchaseOrder, error) {
	const q = `
SELECT po.id, po.supplier_id, s.name, po.location_id, l.name, po.total, po.order_date, po.created_at
FROM purchase_orders po
JOIN locations l ON l.id = po.location_id
LEFT JOIN suppliers s ON s.id = po.supplier_id
WHERE po.id = $1`
	var po PurchaseOrder
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&po.ID, &po.SupplierID, &po.SupplierName, &po.LocationID, &po.LocationName,
		&po.Total, &po.OrderDate, &po.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return PurchaseOrder{}, shared.ErrNotFound
	}
	if err != nil {
		return PurchaseOrder{}, err
	}
	po.Details, err = r.listDetails(ctx, po.ID)
	if err != nil {
		return PurchaseOrder{}, err
	}
	return po, nil
}

func (r *Repository) ListByDateRange(ctx context.Context, from, to time.Time) ([]PurchaseOrder, error) {
	const q = `
SELECT po.id, po.supplier_id, s.name, po.location_id, l.name, po.total, po.order_date, po.created_at
FROM purchase_orders po
JOIN locations l ON l.id = po.location_id
LEFT JOIN suppliers s ON s.id = po.supplier_id
WHERE po.order_date >= $1 AND po.order_date < $2
ORDER BY po.order_date DESC, po.id DESC`
	rows, err := r.pool.Query(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]PurchaseOrder, 0)
	for rows.Next() {
		var po PurchaseOrder
		if err := rows.Scan(
			&po.ID, &po.SupplierID, &po.SupplierName, &po.LocationID, &po.LocationName,
			&po.Total, &po.OrderDate, &po.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, po)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Details, err = r.listDetails(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *Repository) listDetails(ctx context.Context, poID int64) ([]Detail, error) {
	const q = `
SELECT d.id, d.purchase_order_id, d.product_id, p.name, d.quantity, d.price
FROM purchase_order_details d
JOIN products p ON p.id = d.product_id
WHERE d.purchase_order_id = $1
ORDER BY d.id`
	rows, err := r.pool.Query(ctx, q, poID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Detail, 0)
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.PurchaseOrderID, &d.ProductID, &d.ProductName, &d.Quantity, &d.Price); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

type txRepo struct {
	tx pgx.Tx
	ledger.TxRepository
}

func (t *txRepo) InsertPurchaseOrder(ctx context.Context, po PurchaseOrder) (int64, error) {
	const q = `
INSERT INTO purchase_orders (supplier_id, location_id, total, order_date)
VALUES ($1, $2, $3, $4)
RETURNING id`
	var id int64
	err := t.tx.QueryRow(ctx, q, po.SupplierID, po.LocationID, po.Total, po.OrderDate).Scan(&id)
	return id, err
}

func (t *txRepo) InsertDetail(ctx context.Context, d Detail) (Detail, error) {
	const q = `
INSERT INTO purchase_order_details (purchase_order_id, product_id, quantity, price)
VALUES ($1, $2, $3, $4)
RETURNING id`
	err := t.tx.QueryRow(ctx, q, d.PurchaseOrderID, d.ProductID, d.Quantity, d.Price).Scan(&d.ID)
	return d, err
}
