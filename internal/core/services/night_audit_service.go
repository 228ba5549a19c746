package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/folio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/folio_ledger/internal/core/ports/services"
	"github.com/SscSPs/folio_ledger/internal/utils/accounting"
	"github.com/SscSPs/folio_ledger/internal/utils/pagination"
)

type nightAuditService struct {
	ledgerCore
}

// NewNightAuditService creates a new NightAuditService.
func NewNightAuditService(repos portsrepo.RepositoryProvider, opts ...LedgerOption) portssvc.NightAuditSvc {
	return &nightAuditService{ledgerCore: newLedgerCore(repos, opts...)}
}

var _ portssvc.NightAuditSvc = (*nightAuditService)(nil)

// RunNightAudit posts every PENDING transaction dated on or before the business
// date. Each posting is its own unit of work; one failure is recorded and the
// run moves on. Touched folios are recalculated at the end.
func (s *nightAuditService) RunNightAudit(ctx context.Context, propertyID string, businessDate time.Time, actorID string) (*domain.NightAuditResult, error) {
	logger := s.GetLogger(ctx).With(slog.String("property_id", propertyID), slog.Time("business_date", businessDate))

	pending, err := s.repo.ListPendingTransactions(ctx, propertyID, businessDayCutoff(businessDate))
	if err != nil {
		s.LogError(ctx, err, "Failed to list pending transactions", slog.String("property_id", propertyID))
		return nil, err
	}

	result := &domain.NightAuditResult{
		PropertyID:     propertyID,
		BusinessDate:   businessDate,
		FailedPostings: []string{},
	}
	now := s.clock()
	touched := make(map[string]struct{})
	var entries []domain.AuditEntry

	for _, p := range pending {
		var posted *domain.FolioTransaction
		err := s.repo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
			var txErr error
			posted, _, txErr = s.postPendingInStore(ctx, store, p.TransactionID, nil, actorID, now)
			return txErr
		})
		if err != nil {
			logger.Warn("Pending transaction could not be posted",
				slog.String("transaction_id", p.TransactionID),
				slog.String("error", err.Error()))
			result.FailedPostings = append(result.FailedPostings, p.TransactionID)
			continue
		}
		result.PostedCount++
		touched[posted.FolioID] = struct{}{}
		entries = append(entries, s.auditEntry(actorID, domain.ActionPendingPosted, domain.EntityFolioTransaction, posted.TransactionID, posted.PropertyID,
			fmt.Sprintf("Posted by night audit for %s", businessDate.Format(time.DateOnly)),
			map[string]any{"status": posted.Status, "totalAmount": posted.TotalAmount.String()}, now))
	}

	folioIDs := make([]string, 0, len(touched))
	for id := range touched {
		folioIDs = append(folioIDs, id)
	}
	sort.Strings(folioIDs)
	for _, id := range folioIDs {
		err := s.repo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
			folio, err := store.FindFolioByIDForUpdate(ctx, id)
			if err != nil {
				return err
			}
			_, err = s.recalculateInStore(ctx, store, folio, actorID, now)
			return err
		})
		if err != nil {
			logger.Warn("Folio recalculation after night audit failed", slog.String("folio_id", id), slog.String("error", err.Error()))
			continue
		}
		result.FoliosTouched++
	}

	logger.Info("Night audit completed",
		slog.Int("posted", result.PostedCount),
		slog.Int("failed", len(result.FailedPostings)),
		slog.Int("folios", result.FoliosTouched))

	return result, s.recordAudit(ctx, entries...)
}

// VerifyProperty runs the integrity check over every open folio of a property.
func (s *nightAuditService) VerifyProperty(ctx context.Context, propertyID string) ([]domain.FolioVerification, error) {
	open := domain.FolioOpen
	var (
		results   []domain.FolioVerification
		nextToken *string
	)
	for {
		folios, token, err := s.repo.ListFolios(ctx, propertyID, &open, pagination.MaxLimit, nextToken)
		if err != nil {
			s.LogError(ctx, err, "Failed to list folios for verification", slog.String("property_id", propertyID))
			return nil, err
		}
		for _, folio := range folios {
			txns, err := s.repo.ListTransactionsByFolio(ctx, folio.FolioID)
			if err != nil {
				return nil, err
			}
			results = append(results, accounting.Verify(folio, txns))
		}
		if token == nil {
			break
		}
		nextToken = token
	}
	return results, nil
}
