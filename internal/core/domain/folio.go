package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// FolioStatus is the open/closed lifecycle of a folio.
type FolioStatus string

const (
	FolioOpen   FolioStatus = "OPEN"
	FolioClosed FolioStatus = "CLOSED"
)

// SettlementStatus reports whether the outstanding balance has been paid.
type SettlementStatus string

const (
	SettlementPending          SettlementStatus = "PENDING"
	SettlementPartiallySettled SettlementStatus = "PARTIALLY_SETTLED"
	SettlementSettled          SettlementStatus = "SETTLED"
)

// WorkflowStatus is presentation state owned by the back office.
type WorkflowStatus string

const (
	WorkflowActive   WorkflowStatus = "ACTIVE"
	WorkflowArchived WorkflowStatus = "ARCHIVED"
)

// FolioType is the kind of billing party that owns a folio.
type FolioType string

const (
	FolioTypeGuest   FolioType = "GUEST"
	FolioTypeCompany FolioType = "COMPANY"
)

// NumberPrefix returns the folio number prefix for the kind.
func (t FolioType) NumberPrefix() string {
	if t == FolioTypeCompany {
		return "CF"
	}
	return "GF"
}

// FormatFolioNumber renders a human readable folio number such as CF-000042.
func FormatFolioNumber(t FolioType, seq int64) string {
	return fmt.Sprintf("%s-%06d", t.NumberPrefix(), seq)
}

// BillingPartyRef identifies the guest or company a folio bills.
type BillingPartyRef struct {
	Type FolioType `json:"type"`
	ID   string    `json:"id"`
}

// FolioTotals are the aggregate fields derived from a folio's non-voided transactions.
type FolioTotals struct {
	TotalCharges        decimal.Decimal `json:"totalCharges"`
	TotalTaxes          decimal.Decimal `json:"totalTaxes"`
	TotalServiceCharges decimal.Decimal `json:"totalServiceCharges"`
	TotalDiscounts      decimal.Decimal `json:"totalDiscounts"`
	TotalPayments       decimal.Decimal `json:"totalPayments"`
	TotalAdjustments    decimal.Decimal `json:"totalAdjustments"`
	TotalRefunds        decimal.Decimal `json:"totalRefunds"`
	Balance             decimal.Decimal `json:"balance"`
}

// Equal compares every aggregate field by value.
func (t FolioTotals) Equal(o FolioTotals) bool {
	return t.TotalCharges.Equal(o.TotalCharges) &&
		t.TotalTaxes.Equal(o.TotalTaxes) &&
		t.TotalServiceCharges.Equal(o.TotalServiceCharges) &&
		t.TotalDiscounts.Equal(o.TotalDiscounts) &&
		t.TotalPayments.Equal(o.TotalPayments) &&
		t.TotalAdjustments.Equal(o.TotalAdjustments) &&
		t.TotalRefunds.Equal(o.TotalRefunds) &&
		t.Balance.Equal(o.Balance)
}

// Folio is a running account for one billing party at one property.
type Folio struct {
	FolioID          string           `json:"folioID"`
	PropertyID       string           `json:"propertyID"`
	FolioType        FolioType        `json:"folioType"`
	GuestID          *string          `json:"guestID,omitempty"`
	CompanyID        *string          `json:"companyID,omitempty"`
	ReservationID    *string          `json:"reservationID,omitempty"`
	FolioNumber      string           `json:"folioNumber"` // GF-000001 / CF-000001, monotonic per property and kind
	Status           FolioStatus      `json:"status"`
	SettlementStatus SettlementStatus `json:"settlementStatus"`
	WorkflowStatus   WorkflowStatus   `json:"workflowStatus"`
	FolioTotals
	CurrencyCode  string          `json:"currencyCode"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	CreditLimit   decimal.Decimal `json:"creditLimit"`
	PrintCount    int             `json:"printCount"`
	LastPrintDate *time.Time      `json:"lastPrintDate,omitempty"`
	ClosedAt      *time.Time      `json:"closedAt,omitempty"`
	ClosedBy      *string         `json:"closedBy,omitempty"`
	AuditFields
}

// BillingParty returns the reference the folio bills.
func (f Folio) BillingParty() BillingPartyRef {
	if f.CompanyID != nil {
		return BillingPartyRef{Type: FolioTypeCompany, ID: *f.CompanyID}
	}
	ref := BillingPartyRef{Type: FolioTypeGuest}
	if f.GuestID != nil {
		ref.ID = *f.GuestID
	}
	return ref
}

// IsOpen reports whether postings are accepted.
func (f Folio) IsOpen() bool {
	return f.Status == FolioOpen
}

// FolioVerification is the result of rebuilding a folio's balances from its history.
type FolioVerification struct {
	FolioID         string                `json:"folioID"`
	StoredBalance   decimal.Decimal       `json:"storedBalance"`
	ComputedBalance decimal.Decimal       `json:"computedBalance"`
	BalanceMatches  bool                  `json:"balanceMatches"`
	Discrepancies   []SnapshotDiscrepancy `json:"discrepancies"`
}

// Consistent reports whether both the folio and every snapshot reconcile.
func (v FolioVerification) Consistent() bool {
	return v.BalanceMatches && len(v.Discrepancies) == 0
}

// SnapshotDiscrepancy is a transaction whose stored running balance disagrees with its history.
type SnapshotDiscrepancy struct {
	TransactionID string          `json:"transactionID"`
	Stored        decimal.Decimal `json:"stored"`
	Expected      decimal.Decimal `json:"expected"`
}
