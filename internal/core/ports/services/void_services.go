package services

import (
	"context"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/dto"
)

// VoidSvcFacade reverses posted payments.
type VoidSvcFacade interface {
	VoidPayment(ctx context.Context, transactionID string, req dto.VoidPaymentRequest, actorID string) (*domain.VoidResult, error)
}
