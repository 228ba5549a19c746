package dto

import (
	"time"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GetOrCreateFolioRequest identifies the billing party whose open folio is wanted.
// Exactly one of GuestID and CompanyID must be set.
type GetOrCreateFolioRequest struct {
	PropertyID    string           `json:"propertyID" binding:"required"`
	GuestID       *string          `json:"guestID"`
	CompanyID     *string          `json:"companyID"`
	ReservationID *string          `json:"reservationID"`
	CurrencyCode  string           `json:"currencyCode" binding:"omitempty,len=3"` // Defaults to the configured currency
	ExchangeRate  *decimal.Decimal `json:"exchangeRate"`                           // Supplied, never derived
	CreditLimit   *decimal.Decimal `json:"creditLimit"`
}

// ListFoliosParams defines query parameters for listing folios of a property.
type ListFoliosParams struct {
	Status    *domain.FolioStatus `form:"status" binding:"omitempty,oneof=OPEN CLOSED"`
	Limit     int                 `form:"limit" binding:"omitempty,min=1,max=500"`
	NextToken *string             `form:"nextToken"`
}

// ListFoliosResponse is one page of folios.
type ListFoliosResponse struct {
	Folios    []FolioResponse `json:"folios"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// FolioResponse defines the data returned for a folio.
type FolioResponse struct {
	FolioID          string                  `json:"folioID"`
	PropertyID       string                  `json:"propertyID"`
	FolioNumber      string                  `json:"folioNumber"`
	FolioType        domain.FolioType        `json:"folioType"`
	GuestID          *string                 `json:"guestID,omitempty"`
	CompanyID        *string                 `json:"companyID,omitempty"`
	ReservationID    *string                 `json:"reservationID,omitempty"`
	Status           domain.FolioStatus      `json:"status"`
	SettlementStatus domain.SettlementStatus `json:"settlementStatus"`
	WorkflowStatus   domain.WorkflowStatus   `json:"workflowStatus"`
	domain.FolioTotals
	CurrencyCode  string          `json:"currencyCode"`
	ExchangeRate  decimal.Decimal `json:"exchangeRate"`
	CreditLimit   decimal.Decimal `json:"creditLimit"`
	PrintCount    int             `json:"printCount"`
	LastPrintDate *time.Time      `json:"lastPrintDate,omitempty"`
	ClosedAt      *time.Time      `json:"closedAt,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	CreatedBy     string          `json:"createdBy"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy string          `json:"lastUpdatedBy"`
	Version       int64           `json:"version"`
}

// ToFolioResponse converts a domain.Folio to FolioResponse DTO
func ToFolioResponse(f *domain.Folio) FolioResponse {
	return FolioResponse{
		FolioID:          f.FolioID,
		PropertyID:       f.PropertyID,
		FolioNumber:      f.FolioNumber,
		FolioType:        f.FolioType,
		GuestID:          f.GuestID,
		CompanyID:        f.CompanyID,
		ReservationID:    f.ReservationID,
		Status:           f.Status,
		SettlementStatus: f.SettlementStatus,
		WorkflowStatus:   f.WorkflowStatus,
		FolioTotals:      f.FolioTotals,
		CurrencyCode:     f.CurrencyCode,
		ExchangeRate:     f.ExchangeRate,
		CreditLimit:      f.CreditLimit,
		PrintCount:       f.PrintCount,
		LastPrintDate:    f.LastPrintDate,
		ClosedAt:         f.ClosedAt,
		CreatedAt:        f.CreatedAt,
		CreatedBy:        f.CreatedBy,
		LastUpdatedAt:    f.LastUpdatedAt,
		LastUpdatedBy:    f.LastUpdatedBy,
		Version:          f.Version,
	}
}

// ToFolioResponses converts a slice of folios.
func ToFolioResponses(folios []domain.Folio) []FolioResponse {
	responses := make([]FolioResponse, len(folios))
	for i := range folios {
		responses[i] = ToFolioResponse(&folios[i])
	}
	return responses
}
