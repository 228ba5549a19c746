package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/models"
)

// ToModelTransaction converts a domain FolioTransaction to a model FolioTransaction,
// encoding the assignment history and details documents.
func ToModelTransaction(d domain.FolioTransaction) (models.FolioTransaction, error) {
	history := d.AssignmentHistory
	if history == nil {
		history = []domain.AssignmentEntry{}
	}
	historyJSON, err := json.Marshal(history)
	if err != nil {
		return models.FolioTransaction{}, fmt.Errorf("encode assignment history: %w", err)
	}
	detailsJSON, err := json.Marshal(d.Details)
	if err != nil {
		return models.FolioTransaction{}, fmt.Errorf("encode details: %w", err)
	}

	return models.FolioTransaction{
		TransactionID:       d.TransactionID,
		FolioID:             d.FolioID,
		PropertyID:          d.PropertyID,
		TransactionNumber:   d.TransactionNumber,
		TransactionCode:     d.TransactionCode,
		TransactionType:     string(d.TransactionType),
		Category:            string(d.Category),
		Description:         d.Description,
		Amount:              d.Amount,
		TaxAmount:           d.TaxAmount,
		ServiceChargeAmount: d.ServiceChargeAmount,
		DiscountAmount:      d.DiscountAmount,
		TotalAmount:         d.TotalAmount,
		NetAmount:           d.NetAmount,
		AssignedAmount:      d.AssignedAmount,
		UnassignedAmount:    d.UnassignedAmount,
		AssignmentHistory:   historyJSON,
		Balance:             d.Balance,
		CurrencyCode:        d.CurrencyCode,
		ExchangeRate:        d.ExchangeRate,
		Details:             detailsJSON,
		Status:              string(d.Status),
		IsVoided:            d.IsVoided,
		VoidedAt:            d.VoidedAt,
		VoidedBy:            d.VoidedBy,
		VoidReason:          d.VoidReason,
		PostingDate:         d.PostingDate,
		TransactionDate:     d.TransactionDate,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}, nil
}

// ToDomainTransaction converts a model FolioTransaction to a domain FolioTransaction.
// Empty JSON columns decode to an empty history and empty details.
func ToDomainTransaction(m models.FolioTransaction) (domain.FolioTransaction, error) {
	history := []domain.AssignmentEntry{}
	if len(m.AssignmentHistory) > 0 {
		if err := json.Unmarshal(m.AssignmentHistory, &history); err != nil {
			return domain.FolioTransaction{}, fmt.Errorf("decode assignment history of %s: %w", m.TransactionID, err)
		}
	}
	var details domain.TransactionDetails
	if len(m.Details) > 0 {
		if err := json.Unmarshal(m.Details, &details); err != nil {
			return domain.FolioTransaction{}, fmt.Errorf("decode details of %s: %w", m.TransactionID, err)
		}
	}

	return domain.FolioTransaction{
		TransactionID:       m.TransactionID,
		FolioID:             m.FolioID,
		PropertyID:          m.PropertyID,
		TransactionNumber:   m.TransactionNumber,
		TransactionCode:     m.TransactionCode,
		TransactionType:     domain.TransactionType(m.TransactionType),
		Category:            domain.TransactionCategory(m.Category),
		Description:         m.Description,
		Amount:              m.Amount,
		TaxAmount:           m.TaxAmount,
		ServiceChargeAmount: m.ServiceChargeAmount,
		DiscountAmount:      m.DiscountAmount,
		TotalAmount:         m.TotalAmount,
		NetAmount:           m.NetAmount,
		AssignedAmount:      m.AssignedAmount,
		UnassignedAmount:    m.UnassignedAmount,
		AssignmentHistory:   history,
		Balance:             m.Balance,
		CurrencyCode:        m.CurrencyCode,
		ExchangeRate:        m.ExchangeRate,
		Details:             details,
		Status:              domain.TransactionStatus(m.Status),
		IsVoided:            m.IsVoided,
		VoidedAt:            m.VoidedAt,
		VoidedBy:            m.VoidedBy,
		VoidReason:          m.VoidReason,
		PostingDate:         m.PostingDate,
		TransactionDate:     m.TransactionDate,
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}, nil
}
