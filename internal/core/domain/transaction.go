package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the kind of financial movement recorded on a folio.
type TransactionType string

const (
	Charge     TransactionType = "CHARGE"
	Payment    TransactionType = "PAYMENT"
	Adjustment TransactionType = "ADJUSTMENT"
	Discount   TransactionType = "DISCOUNT"
	Tax        TransactionType = "TAX"
	Refund     TransactionType = "REFUND"
)

// IsValid reports membership in the transaction taxonomy.
func (t TransactionType) IsValid() bool {
	switch t {
	case Charge, Payment, Adjustment, Discount, Tax, Refund:
		return true
	}
	return false
}

// IsChargeLike is true for types that can be the target of a payment assignment.
func (t TransactionType) IsChargeLike() bool {
	return t == Charge || t == Tax
}

// TransactionCategory sub-classifies a transaction.
type TransactionCategory string

const (
	CategoryRoom          TransactionCategory = "ROOM"
	CategoryFoodBeverage  TransactionCategory = "FOOD_BEVERAGE"
	CategoryMinibar       TransactionCategory = "MINIBAR"
	CategoryLaundry       TransactionCategory = "LAUNDRY"
	CategorySpa           TransactionCategory = "SPA"
	CategoryTelephone     TransactionCategory = "TELEPHONE"
	CategoryResortFee     TransactionCategory = "RESORT_FEE"
	CategoryServiceCharge TransactionCategory = "SERVICE_CHARGE"
	CategoryTax           TransactionCategory = "TAX"
	CategoryPayment       TransactionCategory = "PAYMENT"
	CategoryDiscount      TransactionCategory = "DISCOUNT"
	CategoryAdjustment    TransactionCategory = "ADJUSTMENT"
	CategoryRefund        TransactionCategory = "REFUND"
	CategoryMiscellaneous TransactionCategory = "MISCELLANEOUS"
)

// IsValid reports membership in the category taxonomy.
func (c TransactionCategory) IsValid() bool {
	switch c {
	case CategoryRoom, CategoryFoodBeverage, CategoryMinibar, CategoryLaundry, CategorySpa,
		CategoryTelephone, CategoryResortFee, CategoryServiceCharge, CategoryTax, CategoryPayment,
		CategoryDiscount, CategoryAdjustment, CategoryRefund, CategoryMiscellaneous:
		return true
	}
	return false
}

// TransactionStatus is the posting lifecycle of a transaction.
type TransactionStatus string

const (
	StatusPending TransactionStatus = "PENDING"
	StatusPosted  TransactionStatus = "POSTED"
	StatusVoided  TransactionStatus = "VOIDED"
)

// AssignmentEntry is one append-only record in a transaction's assignment history.
type AssignmentEntry struct {
	AssignedAmount       decimal.Decimal `json:"assignedAmount"`
	AssignedBy           string          `json:"assignedBy"`
	AssignmentDate       time.Time       `json:"assignmentDate"`
	Notes                string          `json:"notes,omitempty"`
	AutoAssigned         bool            `json:"autoAssigned"`
	PaymentTransactionID *string         `json:"paymentTransactionId,omitempty"`
	Released             bool            `json:"released,omitempty"` // Set when a voided payment gives the amount back
}

// FolioTransaction is one financial event on a folio.
type FolioTransaction struct {
	TransactionID       string              `json:"transactionID"`
	FolioID             string              `json:"folioID"`
	PropertyID          string              `json:"propertyID"`
	TransactionNumber   int64               `json:"transactionNumber"` // Monotonic per property
	TransactionCode     string              `json:"transactionCode"`   // Opaque external reference
	TransactionType     TransactionType     `json:"transactionType"`
	Category            TransactionCategory `json:"category"`
	Description         string              `json:"description"`
	Amount              decimal.Decimal     `json:"amount"` // Non-negative magnitude
	TaxAmount           decimal.Decimal     `json:"taxAmount"`
	ServiceChargeAmount decimal.Decimal     `json:"serviceChargeAmount"`
	DiscountAmount      decimal.Decimal     `json:"discountAmount"`
	TotalAmount         decimal.Decimal     `json:"totalAmount"`
	NetAmount           decimal.Decimal     `json:"netAmount"`
	AssignedAmount      decimal.Decimal     `json:"assignedAmount"`
	UnassignedAmount    decimal.Decimal     `json:"unassignedAmount"`
	AssignmentHistory   []AssignmentEntry   `json:"assignmentHistory"`
	Balance             decimal.Decimal     `json:"balance"` // Folio running balance right after this transaction
	CurrencyCode        string              `json:"currencyCode"`
	ExchangeRate        decimal.Decimal     `json:"exchangeRate"`
	Details             TransactionDetails  `json:"details"`
	Status              TransactionStatus   `json:"status"`
	IsVoided            bool                `json:"isVoided"`
	VoidedAt            *time.Time          `json:"voidedAt,omitempty"`
	VoidedBy            *string             `json:"voidedBy,omitempty"`
	VoidReason          *string             `json:"voidReason,omitempty"`
	PostingDate         time.Time           `json:"postingDate"`
	TransactionDate     time.Time           `json:"transactionDate"`
	AuditFields
}

// ComputeAmounts derives total and net amounts from the amount components.
func (t *FolioTransaction) ComputeAmounts() {
	t.TotalAmount = t.Amount.Add(t.TaxAmount).Add(t.ServiceChargeAmount).Sub(t.DiscountAmount)
	t.NetAmount = t.Amount.Sub(t.DiscountAmount)
}

// TracksAssignment reports whether the assignment counters are maintained for this transaction.
func (t FolioTransaction) TracksAssignment() bool {
	return t.TransactionType == Payment || t.TransactionType.IsChargeLike()
}

// ResetAssignment sets the transaction fully unassigned. Types that do not
// track assignment carry zeros.
func (t *FolioTransaction) ResetAssignment() {
	t.AssignedAmount = decimal.Zero
	t.UnassignedAmount = decimal.Zero
	if t.TracksAssignment() {
		t.UnassignedAmount = t.TotalAmount
	}
}

// SetAssigned drives the assigned amount to an absolute value and keeps the
// unassigned remainder consistent with it.
func (t *FolioTransaction) SetAssigned(assigned decimal.Decimal) {
	t.AssignedAmount = assigned
	t.UnassignedAmount = t.TotalAmount.Sub(assigned)
}

// SignedContribution is the effect of the transaction on the folio balance.
// Voided transactions contribute nothing.
func (t FolioTransaction) SignedContribution() decimal.Decimal {
	if t.IsVoided {
		return decimal.Zero
	}
	switch t.TransactionType {
	case Charge:
		return t.TotalAmount
	case Tax, Refund, Adjustment:
		return t.Amount
	case Payment, Discount:
		return t.Amount.Neg()
	}
	return decimal.Zero
}

// ChronologicallyBefore orders transactions by (transactionDate, createdAt, number).
func (t FolioTransaction) ChronologicallyBefore(o FolioTransaction) bool {
	if !t.TransactionDate.Equal(o.TransactionDate) {
		return t.TransactionDate.Before(o.TransactionDate)
	}
	if !t.CreatedAt.Equal(o.CreatedAt) {
		return t.CreatedAt.Before(o.CreatedAt)
	}
	return t.TransactionNumber < o.TransactionNumber
}

// AppendAssignment adds an entry to the end of the history. Entries are never edited.
func (t *FolioTransaction) AppendAssignment(entry AssignmentEntry) {
	t.AssignmentHistory = append(t.AssignmentHistory, entry)
}

// AssignedByPayment is what the given payment currently has allocated to this transaction.
func (t FolioTransaction) AssignedByPayment(paymentID string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range t.AssignmentHistory {
		if e.PaymentTransactionID == nil || *e.PaymentTransactionID != paymentID {
			continue
		}
		if e.Released {
			total = total.Sub(e.AssignedAmount)
		} else {
			total = total.Add(e.AssignedAmount)
		}
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// VoidResult is the outcome of voiding a payment.
type VoidResult struct {
	Transaction     FolioTransaction   `json:"transaction"`
	RepairedCount   int                `json:"repairedCount"`
	Folio           Folio              `json:"folio"`
	ReleasedTargets []FolioTransaction `json:"releasedTargets"`
}

// AssignmentMapping drives one target's assigned amount to an absolute value.
type AssignmentMapping struct {
	TargetTransactionID string
	NewAssignedAmount   decimal.Decimal
}

// NightAuditResult summarises one night-audit run for a property.
type NightAuditResult struct {
	PropertyID     string    `json:"propertyID"`
	BusinessDate   time.Time `json:"businessDate"`
	PostedCount    int       `json:"postedCount"`
	FoliosTouched  int       `json:"foliosTouched"`
	FailedPostings []string  `json:"failedPostings"`
}
