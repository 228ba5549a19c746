package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/folio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/folio_ledger/internal/core/ports/services"
	"github.com/SscSPs/folio_ledger/internal/dto"
	"github.com/SscSPs/folio_ledger/internal/utils"
)

type companyBillingService struct {
	ledgerCore
}

// NewCompanyBillingService creates a new CompanyBillingService.
func NewCompanyBillingService(repos portsrepo.RepositoryProvider, opts ...LedgerOption) portssvc.CompanyBillingSvcFacade {
	return &companyBillingService{ledgerCore: newLedgerCore(repos, opts...)}
}

var _ portssvc.CompanyBillingSvcFacade = (*companyBillingService)(nil)

// companyPayment is the in-unit-of-work result shared by both entry points.
type companyPayment struct {
	folio        *domain.Folio
	folioCreated bool
	payment      *domain.FolioTransaction
}

func (s *companyBillingService) preparePayment(ctx context.Context, companyID string, req dto.CompanyPaymentRequest) (*domain.BillingParty, postInput, error) {
	if strings.TrimSpace(req.PropertyID) == "" {
		return nil, postInput{}, apperrors.NewValidationError("propertyID is required")
	}
	if !req.Amount.IsPositive() {
		return nil, postInput{}, apperrors.NewValidationError("amount must be greater than zero")
	}

	company, err := s.directory.FindCompany(ctx, companyID)
	if err != nil {
		return nil, postInput{}, err
	}

	method := req.PaymentMethod
	if method == "" {
		method = company.CityLedgerMethod
	}
	if method == "" {
		method = domain.MethodCityLedger
	}
	description := req.Description
	if description == "" {
		description = fmt.Sprintf("City ledger payment from %s", company.DisplayName)
	}

	in := postInput{
		Type:            domain.Payment,
		Category:        domain.CategoryPayment,
		Amount:          req.Amount,
		Description:     description,
		TransactionDate: req.TransactionDate,
		Details: domain.TransactionDetails{
			Payment: &domain.PaymentDetails{Method: method, Reference: req.Reference},
		},
	}
	if err := s.validatePost(in); err != nil {
		return nil, postInput{}, err
	}
	return company, in, nil
}

func (s *companyBillingService) postInStoreForCompany(ctx context.Context, store portsrepo.LedgerStore, company *domain.BillingParty, propertyID string, in postInput, actorID string, now time.Time) (*companyPayment, error) {
	folio, created, err := s.provisionFolio(ctx, store, provisionInput{
		PropertyID: propertyID,
		Party:      company.Ref,
	}, actorID, now)
	if err != nil {
		return nil, err
	}
	payment, folio, err := s.postInStore(ctx, store, folio.FolioID, in, actorID, now)
	if err != nil {
		return nil, err
	}
	return &companyPayment{folio: folio, folioCreated: created, payment: payment}, nil
}

func (s *companyBillingService) paymentAuditEntries(cp *companyPayment, company *domain.BillingParty, actorID string, now time.Time) []domain.AuditEntry {
	var entries []domain.AuditEntry
	if cp.folioCreated {
		entries = append(entries, s.auditEntry(actorID, domain.ActionFolioCreated, domain.EntityFolio, cp.folio.FolioID, cp.folio.PropertyID,
			fmt.Sprintf("Folio %s opened for company %s", cp.folio.FolioNumber, company.DisplayName),
			map[string]any{"folioNumber": cp.folio.FolioNumber, "folioType": cp.folio.FolioType, "partyID": company.Ref.ID}, now))
	}
	p := cp.payment
	entries = append(entries, s.auditEntry(actorID, domain.ActionTransactionPosted, domain.EntityFolioTransaction, p.TransactionID, p.PropertyID,
		fmt.Sprintf("City ledger payment %s from %s", utils.FormatAmount(p.TotalAmount, p.CurrencyCode), company.DisplayName),
		map[string]any{
			"folioID":         p.FolioID,
			"transactionType": p.TransactionType,
			"totalAmount":     p.TotalAmount.String(),
			"balance":         p.Balance.String(),
			"companyID":       company.Ref.ID,
		}, now))
	return entries
}

// PostCompanyPayment posts a payment on the company's open folio, provisioning
// the folio when the company has none at the property.
func (s *companyBillingService) PostCompanyPayment(ctx context.Context, companyID string, req dto.CompanyPaymentRequest, actorID string) (*domain.FolioTransaction, error) {
	company, in, err := s.preparePayment(ctx, companyID, req)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	var cp *companyPayment
	err = s.repo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
		var txErr error
		cp, txErr = s.postInStoreForCompany(ctx, store, company, req.PropertyID, in, actorID, now)
		return txErr
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post company payment", slog.String("company_id", companyID))
		return nil, err
	}

	s.LogInfo(ctx, "Company payment posted",
		slog.String("company_id", companyID),
		slog.String("folio_number", cp.folio.FolioNumber),
		slog.String("transaction_id", cp.payment.TransactionID))
	return cp.payment, s.recordAudit(ctx, s.paymentAuditEntries(cp, company, actorID, now)...)
}

// PostCompanyPaymentWithAssignment posts the payment and spreads it across the
// mapped targets. Provisioning, posting and every assignment commit together.
func (s *companyBillingService) PostCompanyPaymentWithAssignment(ctx context.Context, companyID string, req dto.CompanyPaymentWithAssignmentRequest, actorID string) (*portssvc.CompanyPaymentAllocation, error) {
	mappings := dto.AssignBulkRequest{Mappings: req.Mappings}.ToDomainMappings()
	if err := validateMappings(nil, mappings); err != nil {
		return nil, err
	}
	company, in, err := s.preparePayment(ctx, companyID, req.CompanyPaymentRequest)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	var (
		cp      *companyPayment
		outcome *bulkOutcome
	)
	err = s.repo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
		var txErr error
		cp, txErr = s.postInStoreForCompany(ctx, store, company, req.PropertyID, in, actorID, now)
		if txErr != nil {
			return txErr
		}
		paymentID := cp.payment.TransactionID
		outcome, txErr = s.assignBulkInStore(ctx, store, &paymentID, mappings, req.Notes, actorID, now)
		return txErr
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post company payment with assignment", slog.String("company_id", companyID))
		return nil, err
	}

	allocation := &portssvc.CompanyPaymentAllocation{
		Payment: *outcome.Payment,
		Targets: outcome.Targets,
	}
	s.LogInfo(ctx, "Company payment posted and assigned",
		slog.String("company_id", companyID),
		slog.String("transaction_id", allocation.Payment.TransactionID),
		slog.Int("targets", len(allocation.Targets)))

	entries := s.paymentAuditEntries(cp, company, actorID, now)
	entries = append(entries, s.bulkAuditEntries(outcome, actorID, now)...)
	return allocation, s.recordAudit(ctx, entries...)
}
