package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minimart-pos/minimart-pos/internal/platform/db"
)

// Repository persists stock and movements in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

type txRepo struct {
	tx pgx.Tx
}

// NewTxRepository wraps an open transaction so that other modules (orders,
// purchasing) can post movements inside their own unit of work.
func NewTxRepository(tx pgx.Tx) TxRepository {
	return &txRepo{tx: tx}
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

func (r *txRepo) GetStockForUpdate(ctx context.Context, productID, locationID int64) (Stock, error) {
	var s Stock
	err := r.tx.QueryRow(ctx, `SELECT id, product_id, location_id, quantity, last_updated FROM stock WHERE product_id = $1 AND location_id = $2 FOR UPDATE`,
		productID, locationID).Scan(&s.ID, &s.ProductID, &s.LocationID, &s.Quantity, &s.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Stock{ProductID: productID, LocationID: locationID}, ErrStockNotFound
		}
		return Stock{}, err
	}
	return s, nil
}

func (r *txRepo) SaveStock(ctx context.Context, stock Stock) (Stock, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO stock (product_id, location_id, quantity, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (product_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, last_updated = EXCLUDED.last_updated
		RETURNING id`,
		stock.ProductID, stock.LocationID, stock.Quantity, stock.LastUpdated).Scan(&stock.ID)
	if err != nil {
		return Stock{}, err
	}
	return stock, nil
}

func (r *txRepo) InsertMovement(ctx context.Context, m Movement) (Movement, error) {
	err := r.tx.QueryRow(ctx, `INSERT INTO stock_movements (product_id, location_id, order_id, movement_type, quantity_change, reference, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		m.ProductID, m.LocationID, m.OrderID, string(m.Type), m.QuantityChange, m.Reference, m.Note, m.CreatedAt).Scan(&m.ID)
	if err != nil {
		return Movement{}, err
	}
	return m, nil
}

// ListStocks returns stock rows, optionally filtered by product or location.
func (r *Repository) ListStocks(ctx context.Context, productID, locationID *int64) ([]Stock, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, product_id, location_id, quantity, last_updated FROM stock
		WHERE ($1::bigint IS NULL OR product_id = $1)
		  AND ($2::bigint IS NULL OR location_id = $2)
		ORDER BY id`,
		productID, locationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []Stock
	for rows.Next() {
		var s Stock
		if err := rows.Scan(&s.ID, &s.ProductID, &s.LocationID, &s.Quantity, &s.LastUpdated); err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

// ListMovements returns movements in [from, to) ordered by created_at DESC.
func (r *Repository) ListMovements(ctx context.Context, productID *int64, from, to time.Time) ([]Movement, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, product_id, location_id, order_id, movement_type, quantity_change, COALESCE(reference, ''), COALESCE(note, ''), created_at
		FROM stock_movements
		WHERE ($1::bigint IS NULL OR product_id = $1)
		  AND created_at >= $2 AND created_at < $3
		ORDER BY created_at DESC, id DESC`,
		productID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movements []Movement
	for rows.Next() {
		var m Movement
		var mtype string
		if err := rows.Scan(&m.ID, &m.ProductID, &m.LocationID, &m.OrderID, &mtype, &m.QuantityChange, &m.Reference, &m.Note, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Type = MovementType(mtype)
		movements = append(movements, m)
	}
	return movements, rows.Err()
}
