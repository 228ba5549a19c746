package repositories

import (
	"context"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
)

// FolioReader defines read operations for folio data
type FolioReader interface {
	// FindFolioByID retrieves a folio; returns apperrors.ErrNotFound when absent.
	FindFolioByID(ctx context.Context, folioID string) (*domain.Folio, error)

	// FindFolioByIDForUpdate retrieves a folio and holds its row lock until the unit of work ends.
	FindFolioByIDForUpdate(ctx context.Context, folioID string) (*domain.Folio, error)

	// FindOpenFolioForParty returns the open folio of a billing party at a property, or ErrNotFound.
	FindOpenFolioForParty(ctx context.Context, propertyID string, party domain.BillingPartyRef) (*domain.Folio, error)

	// ListFolios lists folios of a property ordered by creation, with keyset pagination.
	ListFolios(ctx context.Context, propertyID string, status *domain.FolioStatus, limit int, nextToken *string) ([]domain.Folio, *string, error)
}

// FolioWriter defines write operations for folio data
type FolioWriter interface {
	InsertFolio(ctx context.Context, folio domain.Folio) error

	// UpdateFolio persists every mutable field of the folio.
	UpdateFolio(ctx context.Context, folio domain.Folio) error
}
