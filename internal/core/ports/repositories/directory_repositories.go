package repositories

import (
	"context"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
)

// BillingPartyDirectory answers whether a guest or company exists.
// Both methods return apperrors.ErrNotFound for unknown IDs.
type BillingPartyDirectory interface {
	FindGuest(ctx context.Context, guestID string) (*domain.BillingParty, error)
	FindCompany(ctx context.Context, companyID string) (*domain.BillingParty, error)
}
