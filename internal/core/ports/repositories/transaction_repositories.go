package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for folio transactions
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.FolioTransaction, error)

	// FindTransactionsByIDsForUpdate locks and returns the requested transactions keyed by ID.
	// Missing IDs are simply absent from the map.
	FindTransactionsByIDsForUpdate(ctx context.Context, transactionIDs []string) (map[string]domain.FolioTransaction, error)

	// ListTransactionsByFolio returns every transaction of a folio, voided ones included,
	// ordered by (transactionDate, createdAt).
	ListTransactionsByFolio(ctx context.Context, folioID string) ([]domain.FolioTransaction, error)

	// ListFolioStatement returns one page of a folio statement in chronological order.
	ListFolioStatement(ctx context.Context, folioID string, includeVoided bool, limit int, nextToken *string) ([]domain.FolioTransaction, *string, error)

	// FindTransactionsAssignedFromPayment locks every transaction whose assignment
	// history references the given payment.
	FindTransactionsAssignedFromPayment(ctx context.Context, paymentTransactionID string) ([]domain.FolioTransaction, error)

	// ListPendingTransactions lists PENDING transactions of a property whose
	// transaction date is strictly before cutoff, in chronological order.
	ListPendingTransactions(ctx context.Context, propertyID string, cutoff time.Time) ([]domain.FolioTransaction, error)
}

// TransactionWriter defines write operations for folio transactions
type TransactionWriter interface {
	InsertTransaction(ctx context.Context, txn domain.FolioTransaction) error

	// UpdateTransaction persists the mutable fields: status, void stamps, amounts,
	// assignment counters and history, and the balance snapshot.
	UpdateTransaction(ctx context.Context, txn domain.FolioTransaction) error

	// ShiftBalancesAfter adds delta to the stored balance of every non-voided
	// transaction of the folio created strictly after the given instant,
	// excluding excludeID. It returns the number of rows repaired.
	ShiftBalancesAfter(ctx context.Context, folioID string, after time.Time, excludeID string, delta decimal.Decimal) (int, error)
}

// SequenceGenerator hands out per-property counters.
type SequenceGenerator interface {
	// NextSequenceValue atomically increments and returns the named counter.
	NextSequenceValue(ctx context.Context, propertyID, name string) (int64, error)

	// LockSequence creates the counter if needed, locks it for the rest of the
	// unit of work, and returns its current value.
	LockSequence(ctx context.Context, propertyID, name string) (int64, error)

	// SetSequenceValue stores a new value for a counter previously locked.
	SetSequenceValue(ctx context.Context, propertyID, name string, value int64) error
}

// LedgerStore is every operation the ledger performs against durable storage.
type LedgerStore interface {
	FolioReader
	FolioWriter
	TransactionReader
	TransactionWriter
	SequenceGenerator
}

// LedgerRepositoryWithTx is a LedgerStore that can also open units of work.
type LedgerRepositoryWithTx interface {
	LedgerStore
	TransactionManager
}
