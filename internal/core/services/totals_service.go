package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/folio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/folio_ledger/internal/core/ports/services"
	"github.com/SscSPs/folio_ledger/internal/utils/accounting"
)

type totalsService struct {
	ledgerCore
}

// NewTotalsService creates a new TotalsService.
func NewTotalsService(repos portsrepo.RepositoryProvider, opts ...LedgerOption) portssvc.TotalsSvcFacade {
	return &totalsService{ledgerCore: newLedgerCore(repos, opts...)}
}

var _ portssvc.TotalsSvcFacade = (*totalsService)(nil)

// Recalculate rebuilds the folio aggregates from scratch. Running it twice in a
// row writes nothing the second time.
func (s *totalsService) Recalculate(ctx context.Context, folioID string, actorID string) (*domain.Folio, error) {
	now := s.clock()
	var folio *domain.Folio
	err := s.repo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
		locked, err := store.FindFolioByIDForUpdate(ctx, folioID)
		if err != nil {
			return err
		}
		folio, err = s.recalculateInStore(ctx, store, locked, actorID, now)
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to recalculate folio", slog.String("folio_id", folioID))
		return nil, err
	}
	return folio, nil
}

// VerifyFolio compares the stored balance and every snapshot with what the
// transaction history implies. Snapshots are replayed in posting order
// (createdAt, transactionNumber), not statement order, so a back-dated
// posting carries the balance as of when it was posted. It never writes.
func (s *totalsService) VerifyFolio(ctx context.Context, folioID string) (*domain.FolioVerification, error) {
	folio, err := s.repo.FindFolioByID(ctx, folioID)
	if err != nil {
		return nil, err
	}
	txns, err := s.repo.ListTransactionsByFolio(ctx, folioID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load folio history", slog.String("folio_id", folioID))
		return nil, err
	}

	v := accounting.Verify(*folio, txns)
	if !v.Consistent() {
		s.LogWarn(ctx, "Folio failed integrity check",
			slog.String("folio_id", folioID),
			slog.String("stored_balance", v.StoredBalance.String()),
			slog.String("computed_balance", v.ComputedBalance.String()),
			slog.Int("snapshot_discrepancies", len(v.Discrepancies)))
	}
	return &v, nil
}
