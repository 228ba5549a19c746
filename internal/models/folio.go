package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Folio is the folios row.
type Folio struct {
	FolioID             string          `db:"folio_id"`
	PropertyID          string          `db:"property_id"`
	FolioType           string          `db:"folio_type"`
	GuestID             *string         `db:"guest_id"`
	CompanyID           *string         `db:"company_id"`
	ReservationID       *string         `db:"reservation_id"`
	FolioNumber         string          `db:"folio_number"`
	Status              string          `db:"status"`
	SettlementStatus    string          `db:"settlement_status"`
	WorkflowStatus      string          `db:"workflow_status"`
	TotalCharges        decimal.Decimal `db:"total_charges"`
	TotalTaxes          decimal.Decimal `db:"total_taxes"`
	TotalServiceCharges decimal.Decimal `db:"total_service_charges"`
	TotalDiscounts      decimal.Decimal `db:"total_discounts"`
	TotalPayments       decimal.Decimal `db:"total_payments"`
	TotalAdjustments    decimal.Decimal `db:"total_adjustments"`
	TotalRefunds        decimal.Decimal `db:"total_refunds"`
	Balance             decimal.Decimal `db:"balance"`
	CurrencyCode        string          `db:"currency_code"`
	ExchangeRate        decimal.Decimal `db:"exchange_rate"`
	CreditLimit         decimal.Decimal `db:"credit_limit"`
	PrintCount          int             `db:"print_count"`
	LastPrintDate       *time.Time      `db:"last_print_date"`
	ClosedAt            *time.Time      `db:"closed_at"`
	ClosedBy            *string         `db:"closed_by"`
	AuditFields
}
