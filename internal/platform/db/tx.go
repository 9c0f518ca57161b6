package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minimart-pos/minimart-pos/internal/shared"
)

// serialization_failure and deadlock_detected; the caller may retry.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// ErrTxConflict reports that the transaction lost a concurrency race. It
// wraps shared.ErrConflict so HTTP handlers answer 409.
var ErrTxConflict = fmt.Errorf("platform/db: transaction conflict: %w", shared.ErrConflict)

// WithTx executes a function within a transaction using the RepeatableRead
// isolation level. Serialization failures surface as ErrTxConflict.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return conflictOr(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return conflictOr(fmt.Errorf("platform/db: commit tx: %w", err))
	}

	return nil
}

func conflictOr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == codeSerializationFailure || pgErr.Code == codeDeadlockDetected {
			return fmt.Errorf("%w: %s", ErrTxConflict, pgErr.Message)
		}
	}
	return err
}
