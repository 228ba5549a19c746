package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FolioTransaction is the folio_transactions row. AssignmentHistory and Details
// hold the raw JSONB documents; mapping decodes them.
type FolioTransaction struct {
	TransactionID       string          `db:"transaction_id"`
	FolioID             string          `db:"folio_id"`
	PropertyID          string          `db:"property_id"`
	TransactionNumber   int64           `db:"transaction_number"`
	TransactionCode     string          `db:"transaction_code"`
	TransactionType     string          `db:"transaction_type"`
	Category            string          `db:"category"`
	Description         string          `db:"description"`
	Amount              decimal.Decimal `db:"amount"`
	TaxAmount           decimal.Decimal `db:"tax_amount"`
	ServiceChargeAmount decimal.Decimal `db:"service_charge_amount"`
	DiscountAmount      decimal.Decimal `db:"discount_amount"`
	TotalAmount         decimal.Decimal `db:"total_amount"`
	NetAmount           decimal.Decimal `db:"net_amount"`
	AssignedAmount      decimal.Decimal `db:"assigned_amount"`
	UnassignedAmount    decimal.Decimal `db:"unassigned_amount"`
	AssignmentHistory   []byte          `db:"assignment_history"`
	Balance             decimal.Decimal `db:"balance"`
	CurrencyCode        string          `db:"currency_code"`
	ExchangeRate        decimal.Decimal `db:"exchange_rate"`
	Details             []byte          `db:"details"`
	Status              string          `db:"status"`
	IsVoided            bool            `db:"is_voided"`
	VoidedAt            *time.Time      `db:"voided_at"`
	VoidedBy            *string         `db:"voided_by"`
	VoidReason          *string         `db:"void_reason"`
	PostingDate         time.Time       `db:"posting_date"`
	TransactionDate     time.Time       `db:"transaction_date"`
	AuditFields
}
