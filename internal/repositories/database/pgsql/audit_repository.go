package pgsql

import (
	"context"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/folio_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/folio_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const insertAuditLogQuery = `
	INSERT INTO audit_logs (
		audit_log_id, actor_id, action, entity_type, entity_id, description,
		changes, meta, hotel_id, context, occurred_at
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// PgxAuditRepository appends to audit_logs outside of any ledger unit of work,
// so a failed append never rolls back a committed posting.
type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditLogger {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditLogger = (*PgxAuditRepository)(nil)

func auditArgs(entry domain.AuditEntry) ([]any, error) {
	m, err := mapping.ToModelAuditLog(entry)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to encode audit entry", err)
	}
	return []any{
		m.AuditLogID, m.ActorID, m.Action, m.EntityType, m.EntityID, m.Description,
		m.Changes, m.Meta, m.HotelID, m.Context, m.OccurredAt,
	}, nil
}

// Log appends one audit entry.
func (r *PgxAuditRepository) Log(ctx context.Context, entry domain.AuditEntry) error {
	args, err := auditArgs(entry)
	if err != nil {
		return err
	}
	if _, err := r.Pool.Exec(ctx, insertAuditLogQuery, args...); err != nil {
		return mapPgError(err, "insert audit log")
	}
	return nil
}

// BulkLog appends several entries in one round trip.
func (r *PgxAuditRepository) BulkLog(ctx context.Context, entries []domain.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, entry := range entries {
		args, err := auditArgs(entry)
		if err != nil {
			return err
		}
		batch.Queue(insertAuditLogQuery, args...)
	}
	br := r.Pool.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return mapPgError(err, "insert audit log batch")
	}
	return nil
}
