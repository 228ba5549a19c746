package mapping

import (
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/models"
)

// ToModelFolio converts a domain Folio to a model Folio
func ToModelFolio(d domain.Folio) models.Folio {
	return models.Folio{
		FolioID:             d.FolioID,
		PropertyID:          d.PropertyID,
		FolioType:           string(d.FolioType),
		GuestID:             d.GuestID,
		CompanyID:           d.CompanyID,
		ReservationID:       d.ReservationID,
		FolioNumber:         d.FolioNumber,
		Status:              string(d.Status),
		SettlementStatus:    string(d.SettlementStatus),
		WorkflowStatus:      string(d.WorkflowStatus),
		TotalCharges:        d.TotalCharges,
		TotalTaxes:          d.TotalTaxes,
		TotalServiceCharges: d.TotalServiceCharges,
		TotalDiscounts:      d.TotalDiscounts,
		TotalPayments:       d.TotalPayments,
		TotalAdjustments:    d.TotalAdjustments,
		TotalRefunds:        d.TotalRefunds,
		Balance:             d.Balance,
		CurrencyCode:        d.CurrencyCode,
		ExchangeRate:        d.ExchangeRate,
		CreditLimit:         d.CreditLimit,
		PrintCount:          d.PrintCount,
		LastPrintDate:       d.LastPrintDate,
		ClosedAt:            d.ClosedAt,
		ClosedBy:            d.ClosedBy,
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainFolio converts a model Folio to a domain Folio
func ToDomainFolio(m models.Folio) domain.Folio {
	return domain.Folio{
		FolioID:          m.FolioID,
		PropertyID:       m.PropertyID,
		FolioType:        domain.FolioType(m.FolioType),
		GuestID:          m.GuestID,
		CompanyID:        m.CompanyID,
		ReservationID:    m.ReservationID,
		FolioNumber:      m.FolioNumber,
		Status:           domain.FolioStatus(m.Status),
		SettlementStatus: domain.SettlementStatus(m.SettlementStatus),
		WorkflowStatus:   domain.WorkflowStatus(m.WorkflowStatus),
		FolioTotals: domain.FolioTotals{
			TotalCharges:        m.TotalCharges,
			TotalTaxes:          m.TotalTaxes,
			TotalServiceCharges: m.TotalServiceCharges,
			TotalDiscounts:      m.TotalDiscounts,
			TotalPayments:       m.TotalPayments,
			TotalAdjustments:    m.TotalAdjustments,
			TotalRefunds:        m.TotalRefunds,
			Balance:             m.Balance,
		},
		CurrencyCode:  m.CurrencyCode,
		ExchangeRate:  m.ExchangeRate,
		CreditLimit:   m.CreditLimit,
		PrintCount:    m.PrintCount,
		LastPrintDate: m.LastPrintDate,
		ClosedAt:      m.ClosedAt,
		ClosedBy:      m.ClosedBy,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
