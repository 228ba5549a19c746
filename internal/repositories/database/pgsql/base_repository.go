package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is the subset of pgxpool.Pool and pgx.Tx the repositories use,
// so the same query code runs inside or outside a unit of work.
type querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

var (
	_ querier = (*pgxpool.Pool)(nil)
	_ querier = (pgx.Tx)(nil)
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a READ COMMITTED transaction; row locks provide the isolation the ledger needs.
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, mapPgError(err, "begin transaction")
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return mapPgError(err, "commit transaction")
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

// Postgres SQLSTATE codes the ledger reacts to.
const (
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
	sqlStateLockNotAvailable     = "55P03"
	sqlStateQueryCanceled        = "57014"
	sqlStateUniqueViolation      = "23505"
	sqlStateCheckViolation       = "23514"
	sqlStateNotNullViolation     = "23502"
	sqlStateNumericOutOfRange    = "22003"
	sqlStateInvalidTextRepr      = "22P02"
)

// mapPgError translates driver errors into the application error taxonomy.
func mapPgError(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case sqlStateSerializationFailure, sqlStateDeadlockDetected, sqlStateLockNotAvailable:
			return fmt.Errorf("%s: %w (%s)", op, apperrors.ErrConcurrency, pgErr.Message)
		case sqlStateQueryCanceled:
			// lock_timeout surfaces as 55P03, statement_timeout as 57014
			return fmt.Errorf("%s: %w (%s)", op, apperrors.ErrConcurrency, pgErr.Message)
		case sqlStateUniqueViolation:
			return fmt.Errorf("%s: %w (%s)", op, apperrors.ErrDuplicate, pgErr.ConstraintName)
		case sqlStateCheckViolation, sqlStateNotNullViolation, sqlStateNumericOutOfRange, sqlStateInvalidTextRepr:
			return fmt.Errorf("%s: %w (%s)", op, apperrors.ErrValidation, pgErr.Message)
		}
	}
	return apperrors.NewAppError(500, "failed to "+op, err)
}
