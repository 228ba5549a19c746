package dto

import (
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AssignSingleRequest marks part of a payment as allocated.
type AssignSingleRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Notes  string          `json:"notes" binding:"max=500"`
}

// AssignmentMappingRequest drives one target's assigned amount to an absolute value.
type AssignmentMappingRequest struct {
	TargetTransactionID string          `json:"targetTransactionId" binding:"required,uuid"`
	NewAssignedAmount   decimal.Decimal `json:"newAssignedAmount" binding:"required"`
}

// AssignBulkRequest applies a batch of target assignments, optionally driven by a payment.
type AssignBulkRequest struct {
	PaymentTransactionID *string                    `json:"paymentTransactionId" binding:"omitempty,uuid"`
	Mappings             []AssignmentMappingRequest `json:"mappings" binding:"required,min=1,dive"`
	Notes                string                     `json:"notes" binding:"max=500"`
}

// ToDomainMappings converts request mappings.
func (r AssignBulkRequest) ToDomainMappings() []domain.AssignmentMapping {
	mappings := make([]domain.AssignmentMapping, len(r.Mappings))
	for i, m := range r.Mappings {
		mappings[i] = domain.AssignmentMapping{
			TargetTransactionID: m.TargetTransactionID,
			NewAssignedAmount:   m.NewAssignedAmount,
		}
	}
	return mappings
}

// VoidPaymentRequest carries the mandatory void reason.
type VoidPaymentRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// VoidPaymentResponse reports the voided payment and the repair it triggered.
type VoidPaymentResponse struct {
	Transaction     TransactionResponse   `json:"transaction"`
	RepairedCount   int                   `json:"repairedCount"`
	Folio           FolioResponse         `json:"folio"`
	ReleasedTargets []TransactionResponse `json:"releasedTargets"`
}

// ToVoidPaymentResponse converts a domain.VoidResult.
func ToVoidPaymentResponse(r *domain.VoidResult) VoidPaymentResponse {
	return VoidPaymentResponse{
		Transaction:     ToTransactionResponse(&r.Transaction),
		RepairedCount:   r.RepairedCount,
		Folio:           ToFolioResponse(&r.Folio),
		ReleasedTargets: ToTransactionResponses(r.ReleasedTargets),
	}
}
