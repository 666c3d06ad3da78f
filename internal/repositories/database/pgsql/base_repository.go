package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vaadbayit/vaad_backend/internal/apperrors"
)

// DefaultQueryTimeout applies when the repository is built without one.
const DefaultQueryTimeout = 5 * time.Second

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
	// QueryTimeout bounds each round-trip, or each transaction for multi-row writes.
	QueryTimeout time.Duration
}

func newBaseRepository(pool *pgxpool.Pool, queryTimeout time.Duration) BaseRepository {
	if queryTimeout <= 0 {
		queryTimeout = DefaultQueryTimeout
	}
	return BaseRepository{Pool: pool, QueryTimeout: queryTimeout}
}

// withTimeout derives the per-query deadline from the request context.
func (r *BaseRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.QueryTimeout)
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// inTx runs fn inside a transaction bounded by the query timeout and commits
// when fn succeeds.
func (r *BaseRepository) inTx(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op after Commit

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

// classify maps constraint violations onto the application's sentinel errors.
func classify(err error, what string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return apperrors.NewAppError(409, what+" already exists", errors.Join(apperrors.ErrDuplicate, err))
		case foreignKeyViolation:
			return apperrors.NewAppError(400, what+" references a missing record", errors.Join(apperrors.ErrValidation, err))
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	return err
}
