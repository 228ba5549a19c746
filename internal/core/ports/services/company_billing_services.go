package services

import (
	"context"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/dto"
)

// CompanyPaymentAllocation is a posted company payment and the targets it was spread across.
type CompanyPaymentAllocation struct {
	Payment domain.FolioTransaction
	Targets []domain.FolioTransaction
}

// CompanyBillingSvcFacade orchestrates city-ledger payments.
type CompanyBillingSvcFacade interface {
	PostCompanyPayment(ctx context.Context, companyID string, req dto.CompanyPaymentRequest, actorID string) (*domain.FolioTransaction, error)
	PostCompanyPaymentWithAssignment(ctx context.Context, companyID string, req dto.CompanyPaymentWithAssignmentRequest, actorID string) (*CompanyPaymentAllocation, error)
}
