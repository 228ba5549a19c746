package services

import (
	"context"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
)

// TotalsSvcFacade exposes the recalculator and the integrity check.
type TotalsSvcFacade interface {
	Recalculate(ctx context.Context, folioID string, actorID string) (*domain.Folio, error)
	VerifyFolio(ctx context.Context, folioID string) (*domain.FolioVerification, error)
}
