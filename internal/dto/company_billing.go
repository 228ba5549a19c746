package dto

import (
	"time"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CompanyPaymentRequest posts a city-ledger payment for a company. The company
// comes from the path; the folio is provisioned when missing.
type CompanyPaymentRequest struct {
	PropertyID      string               `json:"propertyID" binding:"required"`
	Amount          decimal.Decimal      `json:"amount" binding:"required"`
	Description     string               `json:"description" binding:"max=500"`
	PaymentMethod   domain.PaymentMethod `json:"paymentMethod" binding:"omitempty,oneof=CASH CREDIT_CARD DEBIT_CARD BANK_TRANSFER CITY_LEDGER CHEQUE"`
	Reference       string               `json:"reference" binding:"max=64"`
	TransactionDate *time.Time           `json:"transactionDate"`
}

// CompanyPaymentWithAssignmentRequest posts a company payment and distributes it
// across target transactions in the same unit of work.
type CompanyPaymentWithAssignmentRequest struct {
	CompanyPaymentRequest
	Mappings []AssignmentMappingRequest `json:"mappings" binding:"required,min=1,dive"`
	Notes    string                     `json:"notes" binding:"max=500"`
}

// CompanyPaymentAllocationResponse is the posted payment and the targets it now covers.
type CompanyPaymentAllocationResponse struct {
	Payment TransactionResponse   `json:"payment"`
	Targets []TransactionResponse `json:"targets"`
}
