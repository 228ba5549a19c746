package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionDetails is a closed set of per-type payloads. At most one
// variant is set and it must match the transaction type.
type TransactionDetails struct {
	Charge     *ChargeDetails     `json:"charge,omitempty"`
	Tax        *TaxDetails        `json:"tax,omitempty"`
	Payment    *PaymentDetails    `json:"payment,omitempty"`
	Refund     *RefundDetails     `json:"refund,omitempty"`
	Adjustment *AdjustmentDetails `json:"adjustment,omitempty"`
}

// ChargeDetails describes a charge posting.
type ChargeDetails struct {
	Quantity    int              `json:"quantity,omitempty" validate:"omitempty,gte=1"`
	UnitPrice   *decimal.Decimal `json:"unitPrice,omitempty"`
	RoomNumber  string           `json:"roomNumber,omitempty" validate:"omitempty,max=16"`
	ServiceDate *time.Time       `json:"serviceDate,omitempty"`
	OutletCode  string           `json:"outletCode,omitempty" validate:"omitempty,max=32"`
}

// TaxDetails describes a standalone tax line computed elsewhere.
type TaxDetails struct {
	TaxCode           string           `json:"taxCode" validate:"required,max=32"`
	Rate              *decimal.Decimal `json:"rate,omitempty"`
	BaseTransactionID string           `json:"baseTransactionId,omitempty" validate:"omitempty,uuid"`
}

// PaymentMethod is how a payment was tendered.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"
	MethodCreditCard   PaymentMethod = "CREDIT_CARD"
	MethodDebitCard    PaymentMethod = "DEBIT_CARD"
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	MethodCityLedger   PaymentMethod = "CITY_LEDGER"
	MethodCheque       PaymentMethod = "CHEQUE"
)

// PaymentDetails describes a payment.
type PaymentDetails struct {
	Method    PaymentMethod `json:"method" validate:"required,oneof=CASH CREDIT_CARD DEBIT_CARD BANK_TRANSFER CITY_LEDGER CHEQUE"`
	Reference string        `json:"reference,omitempty" validate:"omitempty,max=64"`
	CardLast4 string        `json:"cardLast4,omitempty" validate:"omitempty,len=4,numeric"`
}

// RefundDetails describes money returned to the billing party.
type RefundDetails struct {
	Method            PaymentMethod `json:"method" validate:"required,oneof=CASH CREDIT_CARD DEBIT_CARD BANK_TRANSFER CITY_LEDGER CHEQUE"`
	OriginalPaymentID string        `json:"originalPaymentId,omitempty" validate:"omitempty,uuid"`
	Reference         string        `json:"reference,omitempty" validate:"omitempty,max=64"`
}

// AdjustmentDetails describes an adjustment or a discount.
type AdjustmentDetails struct {
	Reason               string `json:"reason" validate:"required,max=255"`
	RelatedTransactionID string `json:"relatedTransactionId,omitempty" validate:"omitempty,uuid"`
}

// Variant returns the single populated payload, or nil.
func (d TransactionDetails) Variant() any {
	switch {
	case d.Charge != nil:
		return d.Charge
	case d.Tax != nil:
		return d.Tax
	case d.Payment != nil:
		return d.Payment
	case d.Refund != nil:
		return d.Refund
	case d.Adjustment != nil:
		return d.Adjustment
	}
	return nil
}

func (d TransactionDetails) count() int {
	n := 0
	for _, set := range []bool{d.Charge != nil, d.Tax != nil, d.Payment != nil, d.Refund != nil, d.Adjustment != nil} {
		if set {
			n++
		}
	}
	return n
}

// CheckShape verifies the payload variant agrees with the transaction type.
// Field level rules are enforced separately by struct validation.
func (d TransactionDetails) CheckShape(t TransactionType) error {
	if d.count() > 1 {
		return fmt.Errorf("details must carry a single variant, got %d", d.count())
	}
	if d.count() == 0 {
		return nil
	}
	ok := false
	switch t {
	case Charge:
		ok = d.Charge != nil
	case Tax:
		ok = d.Tax != nil
	case Payment:
		ok = d.Payment != nil
	case Refund:
		ok = d.Refund != nil
	case Adjustment, Discount:
		ok = d.Adjustment != nil
	}
	if !ok {
		return fmt.Errorf("details variant does not match transaction type %s", t)
	}
	return nil
}
