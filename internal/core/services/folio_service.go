package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/folio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/folio_ledger/internal/core/ports/services"
	"github.com/SscSPs/folio_ledger/internal/dto"
	"github.com/SscSPs/folio_ledger/internal/utils"
	"github.com/SscSPs/folio_ledger/internal/utils/pagination"
)

type folioService struct {
	ledgerCore
}

// NewFolioService creates a new FolioService.
func NewFolioService(repos portsrepo.RepositoryProvider, opts ...LedgerOption) portssvc.FolioSvcFacade {
	return &folioService{ledgerCore: newLedgerCore(repos, opts...)}
}

var _ portssvc.FolioSvcFacade = (*folioService)(nil)

func (s *folioService) lookupParty(ctx context.Context, req dto.GetOrCreateFolioRequest) (*domain.BillingParty, error) {
	hasGuest := req.GuestID != nil && strings.TrimSpace(*req.GuestID) != ""
	hasCompany := req.CompanyID != nil && strings.TrimSpace(*req.CompanyID) != ""
	switch {
	case hasGuest && hasCompany:
		return nil, apperrors.NewValidationError("exactly one of guestID and companyID must be set, got both")
	case hasGuest:
		return s.directory.FindGuest(ctx, *req.GuestID)
	case hasCompany:
		return s.directory.FindCompany(ctx, *req.CompanyID)
	}
	return nil, apperrors.NewValidationError("exactly one of guestID and companyID must be set")
}

// GetOrCreateFolio returns the open folio for the party, provisioning one with
// the next GF-/CF- number when none exists.
func (s *folioService) GetOrCreateFolio(ctx context.Context, req dto.GetOrCreateFolioRequest, actorID string) (*domain.Folio, error) {
	logger := s.GetLogger(ctx).With(slog.String("property_id", req.PropertyID))

	if strings.TrimSpace(req.PropertyID) == "" {
		return nil, apperrors.NewValidationError("propertyID is required")
	}
	if req.ExchangeRate != nil && !req.ExchangeRate.IsPositive() {
		return nil, apperrors.NewValidationError("exchangeRate must be positive")
	}
	if req.ExchangeRate != nil && !domain.FitsScale(*req.ExchangeRate, domain.ExchangeRateScale) {
		return nil, apperrors.NewValidationError("exchangeRate has more than %d decimal places", domain.ExchangeRateScale)
	}
	if req.CreditLimit != nil && req.CreditLimit.IsNegative() {
		return nil, apperrors.NewValidationError("creditLimit must be non-negative")
	}
	if req.CreditLimit != nil {
		if err := checkMoneyScale("creditLimit", *req.CreditLimit); err != nil {
			return nil, err
		}
	}

	party, err := s.lookupParty(ctx, req)
	if err != nil {
		logger.Warn("Billing party lookup failed", slog.String("error", err.Error()))
		return nil, err
	}

	now := s.clock()
	var (
		folio   *domain.Folio
		created bool
	)
	err = s.repo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
		var txErr error
		folio, created, txErr = s.provisionFolio(ctx, store, provisionInput{
			PropertyID:    req.PropertyID,
			Party:         party.Ref,
			ReservationID: req.ReservationID,
			CurrencyCode:  req.CurrencyCode,
			ExchangeRate:  req.ExchangeRate,
			CreditLimit:   req.CreditLimit,
		}, actorID, now)
		return txErr
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to provision folio", slog.String("party_id", party.Ref.ID))
		return nil, err
	}

	if !created {
		return folio, nil
	}

	logger.Info("Folio created", slog.String("folio_id", folio.FolioID), slog.String("folio_number", folio.FolioNumber))
	auditErr := s.recordAudit(ctx, s.auditEntry(actorID, domain.ActionFolioCreated, domain.EntityFolio, folio.FolioID, folio.PropertyID,
		fmt.Sprintf("Folio %s opened for %s %s", folio.FolioNumber, strings.ToLower(string(party.Ref.Type)), party.DisplayName),
		map[string]any{"folioNumber": folio.FolioNumber, "folioType": folio.FolioType, "partyID": party.Ref.ID}, now))
	return folio, auditErr
}

func (s *folioService) GetFolio(ctx context.Context, folioID string) (*domain.Folio, error) {
	folio, err := s.repo.FindFolioByID(ctx, folioID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get folio", slog.String("folio_id", folioID))
		return nil, err
	}
	return folio, nil
}

func (s *folioService) ListFolios(ctx context.Context, propertyID string, params dto.ListFoliosParams) (*dto.ListFoliosResponse, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	folios, nextToken, err := s.repo.ListFolios(ctx, propertyID, params.Status, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list folios", slog.String("property_id", propertyID))
		return nil, err
	}
	return &dto.ListFoliosResponse{
		Folios:    dto.ToFolioResponses(folios),
		NextToken: nextToken,
	}, nil
}

// CloseFolio closes a settled folio. The aggregates are refreshed first so the
// zero-balance check never runs against a stale figure.
func (s *folioService) CloseFolio(ctx context.Context, folioID string, actorID string) (*domain.Folio, error) {
	now := s.clock()
	var folio *domain.Folio
	err := s.repo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
		locked, err := store.FindFolioByIDForUpdate(ctx, folioID)
		if err != nil {
			return err
		}
		if !locked.IsOpen() {
			return fmt.Errorf("%w: folio %s is already %s", apperrors.ErrFolioNotOpen, locked.FolioNumber, locked.Status)
		}
		locked, err = s.recalculateInStore(ctx, store, locked, actorID, now)
		if err != nil {
			return err
		}
		if !locked.Balance.IsZero() {
			return fmt.Errorf("%w: outstanding %s", apperrors.ErrOutstandingBalance, utils.FormatAmount(locked.Balance, locked.CurrencyCode))
		}

		locked.Status = domain.FolioClosed
		locked.ClosedAt = &now
		locked.ClosedBy = &actorID
		locked.Touch(actorID, now)
		if err := store.UpdateFolio(ctx, *locked); err != nil {
			return err
		}
		folio = locked
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to close folio", slog.String("folio_id", folioID))
		return nil, err
	}

	auditErr := s.recordAudit(ctx, s.auditEntry(actorID, domain.ActionFolioClosed, domain.EntityFolio, folio.FolioID, folio.PropertyID,
		fmt.Sprintf("Folio %s closed", folio.FolioNumber), map[string]any{"status": folio.Status}, now))
	return folio, auditErr
}

func (s *folioService) RecordPrint(ctx context.Context, folioID string, actorID string) (*domain.Folio, error) {
	now := s.clock()
	var folio *domain.Folio
	err := s.repo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
		locked, err := store.FindFolioByIDForUpdate(ctx, folioID)
		if err != nil {
			return err
		}
		locked.PrintCount++
		locked.LastPrintDate = &now
		locked.Touch(actorID, now)
		if err := store.UpdateFolio(ctx, *locked); err != nil {
			return err
		}
		folio = locked
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to record folio print", slog.String("folio_id", folioID))
		return nil, err
	}
	return folio, nil
}
