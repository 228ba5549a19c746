package dto

import (
	"time"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostTransactionRequest defines a new financial movement on a folio.
// Tax, service charge and discount components are only accepted on CHARGE.
type PostTransactionRequest struct {
	TransactionType     domain.TransactionType     `json:"transactionType" binding:"required,oneof=CHARGE PAYMENT ADJUSTMENT DISCOUNT TAX REFUND"`
	Category            domain.TransactionCategory `json:"category" binding:"required"`
	Amount              decimal.Decimal            `json:"amount" binding:"required"`
	TaxAmount           *decimal.Decimal           `json:"taxAmount"`
	ServiceChargeAmount *decimal.Decimal           `json:"serviceChargeAmount"`
	DiscountAmount      *decimal.Decimal           `json:"discountAmount"`
	Description         string                     `json:"description" binding:"max=500"`
	TransactionDate     *time.Time                 `json:"transactionDate"` // Defaults to now
	Pending             bool                       `json:"pending"`         // Leave as PENDING for night audit
	Details             domain.TransactionDetails  `json:"details"`
}

// PostPendingRequest confirms a PENDING transaction, optionally with a revised amount.
type PostPendingRequest struct {
	RevisedAmount *decimal.Decimal `json:"revisedAmount"`
}

// ListTransactionsParams defines query parameters for a folio statement.
type ListTransactionsParams struct {
	IncludeVoided bool    `form:"includeVoided"`
	Limit         int     `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken     *string `form:"nextToken"`
}

// ListTransactionsResponse is one page of a folio statement.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// TransactionResponse defines the data returned for a folio transaction.
type TransactionResponse struct {
	TransactionID       string                     `json:"transactionID"`
	FolioID             string                     `json:"folioID"`
	TransactionNumber   int64                      `json:"transactionNumber"`
	TransactionCode     string                     `json:"transactionCode"`
	TransactionType     domain.TransactionType     `json:"transactionType"`
	Category            domain.TransactionCategory `json:"category"`
	Description         string                     `json:"description"`
	Amount              decimal.Decimal            `json:"amount"`
	TaxAmount           decimal.Decimal            `json:"taxAmount"`
	ServiceChargeAmount decimal.Decimal            `json:"serviceChargeAmount"`
	DiscountAmount      decimal.Decimal            `json:"discountAmount"`
	TotalAmount         decimal.Decimal            `json:"totalAmount"`
	NetAmount           decimal.Decimal            `json:"netAmount"`
	AssignedAmount      decimal.Decimal            `json:"assignedAmount"`
	UnassignedAmount    decimal.Decimal            `json:"unassignedAmount"`
	AssignmentHistory   []domain.AssignmentEntry   `json:"assignmentHistory"`
	Balance             decimal.Decimal            `json:"balance"`
	CurrencyCode        string                     `json:"currencyCode"`
	Details             domain.TransactionDetails  `json:"details"`
	Status              domain.TransactionStatus   `json:"status"`
	IsVoided            bool                       `json:"isVoided"`
	VoidedAt            *time.Time                 `json:"voidedAt,omitempty"`
	VoidedBy            *string                    `json:"voidedBy,omitempty"`
	VoidReason          *string                    `json:"voidReason,omitempty"`
	PostingDate         time.Time                  `json:"postingDate"`
	TransactionDate     time.Time                  `json:"transactionDate"`
	CreatedAt           time.Time                  `json:"createdAt"`
	CreatedBy           string                     `json:"createdBy"`
}

// ToTransactionResponse converts a domain.FolioTransaction to TransactionResponse DTO.
func ToTransactionResponse(t *domain.FolioTransaction) TransactionResponse {
	history := t.AssignmentHistory
	if history == nil {
		history = []domain.AssignmentEntry{}
	}
	return TransactionResponse{
		TransactionID:       t.TransactionID,
		FolioID:             t.FolioID,
		TransactionNumber:   t.TransactionNumber,
		TransactionCode:     t.TransactionCode,
		TransactionType:     t.TransactionType,
		Category:            t.Category,
		Description:         t.Description,
		Amount:              t.Amount,
		TaxAmount:           t.TaxAmount,
		ServiceChargeAmount: t.ServiceChargeAmount,
		DiscountAmount:      t.DiscountAmount,
		TotalAmount:         t.TotalAmount,
		NetAmount:           t.NetAmount,
		AssignedAmount:      t.AssignedAmount,
		UnassignedAmount:    t.UnassignedAmount,
		AssignmentHistory:   history,
		Balance:             t.Balance,
		CurrencyCode:        t.CurrencyCode,
		Details:             t.Details,
		Status:              t.Status,
		IsVoided:            t.IsVoided,
		VoidedAt:            t.VoidedAt,
		VoidedBy:            t.VoidedBy,
		VoidReason:          t.VoidReason,
		PostingDate:         t.PostingDate,
		TransactionDate:     t.TransactionDate,
		CreatedAt:           t.CreatedAt,
		CreatedBy:           t.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain.FolioTransaction.
func ToTransactionResponses(txns []domain.FolioTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}

// MutationResponse wraps a successful write together with non-fatal warnings,
// such as an audit entry that could not be appended.
type MutationResponse struct {
	Data     any      `json:"data"`
	Warnings []string `json:"warnings,omitempty"`
}
