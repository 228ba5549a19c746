package services

import (
	"context"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/dto"
)

// FolioReaderSvc defines read operations on folios
type FolioReaderSvc interface {
	GetFolio(ctx context.Context, folioID string) (*domain.Folio, error)
	ListFolios(ctx context.Context, propertyID string, params dto.ListFoliosParams) (*dto.ListFoliosResponse, error)
}

// FolioWriterSvc defines folio provisioning and status transitions
type FolioWriterSvc interface {
	// GetOrCreateFolio returns the open folio of the billing party at the property,
	// creating it when none exists.
	GetOrCreateFolio(ctx context.Context, req dto.GetOrCreateFolioRequest, actorID string) (*domain.Folio, error)
	CloseFolio(ctx context.Context, folioID string, actorID string) (*domain.Folio, error)
	RecordPrint(ctx context.Context, folioID string, actorID string) (*domain.Folio, error)
}

// FolioSvcFacade combines all folio service interfaces
type FolioSvcFacade interface {
	FolioReaderSvc
	FolioWriterSvc
}
