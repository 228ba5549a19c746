package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/folio_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires the Postgres-backed repositories.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		LedgerRepo:    newPgxLedgerRepository(dbPool, lockTimeout),
		AuditRepo:     newPgxAuditRepository(dbPool),
		DirectoryRepo: newPgxDirectoryRepository(dbPool),
	}
}
