package services

import (
	"context"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/dto"
)

// AssignmentSvcFacade allocates payments against charges.
type AssignmentSvcFacade interface {
	// AssignSingle adds to the payment's own assigned counter.
	AssignSingle(ctx context.Context, paymentTransactionID string, req dto.AssignSingleRequest, actorID string) (*domain.FolioTransaction, error)

	// AssignBulk sets each target's assigned amount to an absolute value; when a
	// payment is supplied its counter grows by the sum of the new amounts.
	AssignBulk(ctx context.Context, req dto.AssignBulkRequest, actorID string) ([]domain.FolioTransaction, error)
}
