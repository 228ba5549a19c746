package services

import (
	"context"
	"time"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
)

// NightAuditSvc posts the PENDING charges of a business date and re-runs totals.
type NightAuditSvc interface {
	RunNightAudit(ctx context.Context, propertyID string, businessDate time.Time, actorID string) (*domain.NightAuditResult, error)
	VerifyProperty(ctx context.Context, propertyID string) ([]domain.FolioVerification, error)
}
