package services

import (
	"context"
	"time"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/dto"
)

// TransactionReaderSvc defines read operations on folio transactions
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, transactionID string) (*domain.FolioTransaction, error)
	ListFolioTransactions(ctx context.Context, folioID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	ListPendingTransactions(ctx context.Context, propertyID string, businessDate time.Time) ([]domain.FolioTransaction, error)
}

// TransactionPosterSvc records new financial movements.
type TransactionPosterSvc interface {
	PostTransaction(ctx context.Context, folioID string, req dto.PostTransactionRequest, actorID string) (*domain.FolioTransaction, error)
	PostPendingTransaction(ctx context.Context, transactionID string, req dto.PostPendingRequest, actorID string) (*domain.FolioTransaction, error)
}

// TransactionSvcFacade combines all transaction service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionPosterSvc
}
