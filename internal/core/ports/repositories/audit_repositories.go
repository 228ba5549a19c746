package repositories

import (
	"context"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
)

// AuditLogger appends entries to the activity log.
type AuditLogger interface {
	Log(ctx context.Context, entry domain.AuditEntry) error
	BulkLog(ctx context.Context, entries []domain.AuditEntry) error
}
