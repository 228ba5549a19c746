package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/folio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/folio_ledger/internal/core/ports/services"
	"github.com/SscSPs/folio_ledger/internal/dto"
	"github.com/SscSPs/folio_ledger/internal/utils"
	"github.com/SscSPs/folio_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

type transactionService struct {
	ledgerCore
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(repos portsrepo.RepositoryProvider, opts ...LedgerOption) portssvc.TransactionSvcFacade {
	return &transactionService{ledgerCore: newLedgerCore(repos, opts...)}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// PostTransaction records a financial movement on an open folio and refreshes
// its aggregates within the same unit of work.
func (s *transactionService) PostTransaction(ctx context.Context, folioID string, req dto.PostTransactionRequest, actorID string) (*domain.FolioTransaction, error) {
	in := postInput{
		Type:            req.TransactionType,
		Category:        req.Category,
		Amount:          req.Amount,
		TaxAmount:       decimalOrZero(req.TaxAmount),
		ServiceCharge:   decimalOrZero(req.ServiceChargeAmount),
		DiscountAmount:  decimalOrZero(req.DiscountAmount),
		Description:     req.Description,
		TransactionDate: req.TransactionDate,
		Pending:         req.Pending,
		Details:         req.Details,
	}
	if err := s.validatePost(in); err != nil {
		return nil, err
	}

	now := s.clock()
	var txn *domain.FolioTransaction
	err := s.repo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
		var txErr error
		txn, _, txErr = s.postInStore(ctx, store, folioID, in, actorID, now)
		return txErr
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post transaction",
			slog.String("folio_id", folioID),
			slog.String("transaction_type", string(req.TransactionType)))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.Int64("transaction_number", txn.TransactionNumber),
		slog.String("status", string(txn.Status)))

	auditErr := s.recordAudit(ctx, s.auditEntry(actorID, domain.ActionTransactionPosted, domain.EntityFolioTransaction, txn.TransactionID, txn.PropertyID,
		fmt.Sprintf("%s %s posted", txn.TransactionType, utils.FormatAmount(txn.TotalAmount, txn.CurrencyCode)),
		map[string]any{
			"folioID":         txn.FolioID,
			"transactionType": txn.TransactionType,
			"totalAmount":     txn.TotalAmount.String(),
			"balance":         txn.Balance.String(),
			"status":          txn.Status,
		}, now))
	return txn, auditErr
}

// postPendingInStore moves a PENDING transaction to POSTED. A revised amount
// changes the signed contribution; the difference is applied to the
// transaction's own snapshot and to every later one.
func (c *ledgerCore) postPendingInStore(ctx context.Context, store portsrepo.LedgerStore, transactionID string, revised *decimal.Decimal, actorID string, now time.Time) (*domain.FolioTransaction, *domain.Folio, error) {
	txn, folio, err := c.lockTransaction(ctx, store, transactionID)
	if err != nil {
		return nil, nil, err
	}
	if txn.Status != domain.StatusPending {
		return nil, nil, fmt.Errorf("%w: transaction %s is %s", apperrors.ErrNotPending, transactionID, txn.Status)
	}
	if !folio.IsOpen() {
		return nil, nil, fmt.Errorf("%w: folio %s is %s", apperrors.ErrFolioNotOpen, folio.FolioNumber, folio.Status)
	}

	before := txn.SignedContribution()
	if revised != nil {
		if revised.IsNegative() {
			return nil, nil, apperrors.NewValidationError("revised amount must be non-negative")
		}
		if err := checkMoneyScale("revisedAmount", *revised); err != nil {
			return nil, nil, err
		}
		txn.Amount = *revised
		txn.ComputeAmounts()
		if txn.TotalAmount.IsNegative() {
			return nil, nil, apperrors.NewValidationError("revised amount leaves a negative total")
		}
		if txn.TracksAssignment() {
			if txn.TotalAmount.LessThan(txn.AssignedAmount) {
				return nil, nil, fmt.Errorf("%w: revised total %s is below the assigned %s",
					apperrors.ErrConflict, txn.TotalAmount.String(), txn.AssignedAmount.String())
			}
			txn.SetAssigned(txn.AssignedAmount)
		}
	}
	delta := txn.SignedContribution().Sub(before)

	txn.Status = domain.StatusPosted
	txn.PostingDate = now
	txn.Balance = txn.Balance.Add(delta)
	txn.Touch(actorID, now)
	if err := store.UpdateTransaction(ctx, *txn); err != nil {
		return nil, nil, err
	}

	if !delta.IsZero() {
		if _, err := store.ShiftBalancesAfter(ctx, folio.FolioID, txn.CreatedAt, txn.TransactionID, delta); err != nil {
			return nil, nil, err
		}
	}

	folio, err = c.recalculateInStore(ctx, store, folio, actorID, now)
	if err != nil {
		return nil, nil, err
	}
	return txn, folio, nil
}

func (s *transactionService) PostPendingTransaction(ctx context.Context, transactionID string, req dto.PostPendingRequest, actorID string) (*domain.FolioTransaction, error) {
	now := s.clock()
	var txn *domain.FolioTransaction
	err := s.repo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
		var txErr error
		txn, _, txErr = s.postPendingInStore(ctx, store, transactionID, req.RevisedAmount, actorID, now)
		return txErr
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post pending transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}

	changes := map[string]any{"status": txn.Status, "totalAmount": txn.TotalAmount.String()}
	if req.RevisedAmount != nil {
		changes["revisedAmount"] = req.RevisedAmount.String()
	}
	auditErr := s.recordAudit(ctx, s.auditEntry(actorID, domain.ActionPendingPosted, domain.EntityFolioTransaction, txn.TransactionID, txn.PropertyID,
		fmt.Sprintf("Pending %s posted", txn.TransactionType), changes, now))
	return txn, auditErr
}

func (s *transactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.FolioTransaction, error) {
	txn, err := s.repo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get transaction", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return txn, nil
}

// ListFolioTransactions returns one page of the folio statement in chronological order.
func (s *transactionService) ListFolioTransactions(ctx context.Context, folioID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if _, err := s.repo.FindFolioByID(ctx, folioID); err != nil {
		return nil, err
	}
	limit := pagination.NormalizeLimit(params.Limit)
	txns, nextToken, err := s.repo.ListFolioStatement(ctx, folioID, params.IncludeVoided, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list folio transactions", slog.String("folio_id", folioID))
		return nil, err
	}
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// ListPendingTransactions lists the PENDING transactions dated on or before the business date.
func (s *transactionService) ListPendingTransactions(ctx context.Context, propertyID string, businessDate time.Time) ([]domain.FolioTransaction, error) {
	txns, err := s.repo.ListPendingTransactions(ctx, propertyID, businessDayCutoff(businessDate))
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending transactions", slog.String("property_id", propertyID))
		return nil, err
	}
	return txns, nil
}

// businessDayCutoff is the first instant after the business date.
func businessDayCutoff(businessDate time.Time) time.Time {
	d := businessDate.UTC()
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
