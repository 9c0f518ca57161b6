package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minimart-pos/minimart-pos/internal/shared"
)

const uniqueViolation = "23505"

// Repository persists user accounts in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, username, role, shift, status, location_id, COALESCE(phone, ''), COALESCE(email, ''), created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Role, &u.Shift, &u.Status, &u.LocationID, &u.Phone, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, fmt.Errorf("users: %w", shared.ErrNotFound)
		}
		return User{}, err
	}
	return u, nil
}

// Get loads one user by id.
func (r *Repository) Get(ctx context.Context, id int64) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// List returns all users ordered by username.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Insert persists a new account. Duplicate username maps to ErrConflict.
func (r *Repository) Insert(ctx context.Context, input CreateUserInput, passwordHash string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO users (username, password_hash, role, shift, status, location_id, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		input.Username, passwordHash, string(input.Role), string(input.Shift), string(StatusActive), input.LocationID, input.Phone, input.Email).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return 0, fmt.Errorf("users: username %q: %w", input.Username, shared.ErrConflict)
		}
		return 0, err
	}
	return id, nil
}
