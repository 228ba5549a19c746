package pgsql

import (
	"context"
	"fmt"
	"time"

	portsrepo "github.com/SscSPs/folio_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxLedgerRepository stores folios, folio transactions and counters.
// Outside a unit of work q is the pool; inside WithTx it is the open transaction.
type PgxLedgerRepository struct {
	BaseRepository
	q           querier
	lockTimeout time.Duration
}

// newPgxLedgerRepository creates the ledger store. A zero lockTimeout leaves the server default.
func newPgxLedgerRepository(pool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.LedgerRepositoryWithTx {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		q:              pool,
		lockTimeout:    lockTimeout,
	}
}

var _ portsrepo.LedgerRepositoryWithTx = (*PgxLedgerRepository)(nil)

// WithTx runs fn in one database transaction. fn's error rolls everything back.
func (r *PgxLedgerRepository) WithTx(ctx context.Context, fn func(store portsrepo.LedgerStore) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // no-op once committed

	if r.lockTimeout > 0 {
		// SET does not take bind parameters.
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", r.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return mapPgError(err, "set lock timeout")
		}
	}

	txStore := &PgxLedgerRepository{
		BaseRepository: r.BaseRepository,
		q:              tx,
		lockTimeout:    r.lockTimeout,
	}
	if err := fn(txStore); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
