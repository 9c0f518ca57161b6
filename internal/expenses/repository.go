package expenses

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minimart-pos/minimart-pos/internal/shared"
)

// Repository implements RepositoryPort over PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) Insert(ctx context.Context, e Expense) (Expense, error) {
	const q = `
INSERT INTO expenses (location_id, user_id, category, description, amount, expense_date)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, q, e.LocationID, e.UserID, e.Category, e.Description, e.Amount, e.ExpenseDate).
		Scan(&e.ID, &e.CreatedAt)
	return e, err
}

func (r *Repository) Get(ctx context.Context, id int64) (Expense, error) {
	const q = `
SELECT id, location_id, user_id, category, description, amount, expense_date, created_at
FROM expenses
WHERE id = $1`
	var e Expense
	err := r.pool.QueryRow(ctx, q, id).
		Scan(&e.ID, &e.LocationID, &e.UserID, &e.Category, &e.Description, &e.Amount, &e.ExpenseDate, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, shared.ErrNotFound
	}
	return e, err
}

func (r *Repository) ListByDateRange(ctx context.Context, from, to time.Time) ([]Expense, error) {
	const q = `
SELECT id, location_id, user_id, category, description, amount, expense_date, created_at
FROM expenses
WHERE expense_date >= $1 AND expense_date < $2
ORDER BY expense_date DESC, id DESC`
	rows, err := r.pool.Query(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Expense, 0)
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.LocationID, &e.UserID, &e.Category, &e.Description, &e.Amount, &e.ExpenseDate, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
