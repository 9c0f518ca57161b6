package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minimart-pos/minimart-pos/internal/ledger"
	"github.com/minimart-pos/minimart-pos/internal/platform/db"
	"github.com/minimart-pos/minimart-pos/internal/shared"
	"github.com/minimart-pos/minimart-pos/internal/users"
)

// Repository persists orders in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
	ledger.TxRepository
}

// WithTx executes the callback inside a repeatable-read transaction whose
// repository also carries the ledger primitives.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx, TxRepository: ledger.NewTxRepository(tx)})
	})
}

func (r *txRepo) InsertOrder(ctx context.Context, order Order) (int64, error) {
	var id int64
	err := r.tx.QueryRow(ctx, `INSERT INTO orders (user_id, customer_id, location_id, discount, total, payment_status, order_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		order.UserID, order.CustomerID, order.LocationID, order.Discount, order.Total, string(order.Status), order.OrderDate).Scan(&id)
	return id, err
}

func (r *txRepo) InsertDetail(ctx context.Context, detail Detail) (Detail, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO order_details (order_id, product_id, quantity, price)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		detail.OrderID, detail.ProductID, detail.Quantity, detail.Price).Scan(&detail.ID)
	if err != nil {
		return Detail{}, err
	}
	return detail, nil
}

func (r *txRepo) UpdateStatus(ctx context.Context, orderID int64, status PaymentStatus) error {
	tag, err := r.tx.Exec(ctx, `UPDATE orders SET payment_status = $2 WHERE id = $1`, orderID, string(status))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("orders: order %d: %w", orderID, shared.ErrNotFound)
	}
	return nil
}

// Get loads one order with its details.
func (r *Repository) Get(ctx context.Context, id int64) (Order, error) {
	var o Order
	var status string
	err := r.pool.QueryRow(ctx, `SELECT id, user_id, customer_id, location_id, discount, total, payment_status, order_date FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.UserID, &o.CustomerID, &o.LocationID, &o.Discount, &o.Total, &status, &o.OrderDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Order{}, fmt.Errorf("orders: order %d: %w", id, shared.ErrNotFound)
		}
		return Order{}, err
	}
	o.Status = PaymentStatus(status)

	o.Details, err = r.listDetails(ctx, id)
	if err != nil {
		return Order{}, err
	}
	return o, nil
}

func (r *Repository) listDetails(ctx context.Context, orderID int64) ([]Detail, error) {
	rows, err := r.pool.Query(ctx, `SELECT d.id, d.order_id, d.product_id, p.name, d.quantity, d.price
		FROM order_details d
		JOIN products p ON p.id = d.product_id
		WHERE d.order_id = $1
		ORDER BY d.id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(&d.ID, &d.OrderID, &d.ProductID, &d.ProductName, &d.Quantity, &d.Price); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// List returns all orders, newest first, without detail expansion.
func (r *Repository) List(ctx context.Context) ([]Order, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, user_id, customer_id, location_id, discount, total, payment_status, order_date FROM orders ORDER BY order_date DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Order
	for rows.Next() {
		var o Order
		var status string
		if err := rows.Scan(&o.ID, &o.UserID, &o.CustomerID, &o.LocationID, &o.Discount, &o.Total, &status, &o.OrderDate); err != nil {
			return nil, err
		}
		o.Status = PaymentStatus(status)
		result = append(result, o)
	}
	return result, rows.Err()
}

// ListByShift returns orders placed within [from, to) by cashiers working the
// given shift, joined with the cashier's username.
func (r *Repository) ListByShift(ctx context.Context, shift users.Shift, from, to time.Time) ([]ShiftOrder, error) {
	rows, err := r.pool.Query(ctx, `SELECT o.id, o.user_id, o.customer_id, o.location_id, o.discount, o.total, o.payment_status, o.order_date, u.username
		FROM orders o
		JOIN users u ON u.id = o.user_id
		WHERE u.shift = $1 AND o.order_date >= $2 AND o.order_date < $3
		ORDER BY o.order_date`, string(shift), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []ShiftOrder
	for rows.Next() {
		var so ShiftOrder
		var status string
		if err := rows.Scan(&so.ID, &so.UserID, &so.CustomerID, &so.LocationID, &so.Discount, &so.Total, &status, &so.OrderDate, &so.CashierName); err != nil {
			return nil, err
		}
		so.Status = PaymentStatus(status)
		result = append(result, so)
	}
	return result, rows.Err()
}
