package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/folio_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/folio_ledger/internal/utils/accounting"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	auditContext        = "folio-ledger"
	transactionSequence = "transaction"
	defaultCurrencyCode = "USD"
)

func folioSequence(t domain.FolioType) string {
	return "folio:" + string(t)
}

// LedgerOption is a functional option shared by the ledger services.
type LedgerOption func(*ledgerCore)

// WithClock replaces the wall clock. Tests use it to get deterministic createdAt ordering.
func WithClock(now func() time.Time) LedgerOption {
	return func(c *ledgerCore) {
		c.now = now
	}
}

// WithDefaultCurrency sets the currency of folios created without one.
func WithDefaultCurrency(code string) LedgerOption {
	return func(c *ledgerCore) {
		if code != "" {
			c.defaultCurrency = strings.ToUpper(code)
		}
	}
}

// ledgerCore carries the collaborators every ledger service needs and the
// in-unit-of-work building blocks they share.
type ledgerCore struct {
	BaseService
	repo            portsrepo.LedgerRepositoryWithTx
	audit           portsrepo.AuditLogger
	directory       portsrepo.BillingPartyDirectory
	now             func() time.Time
	defaultCurrency string
	validate        *validator.Validate
}

func newLedgerCore(repos portsrepo.RepositoryProvider, opts ...LedgerOption) ledgerCore {
	c := ledgerCore{
		repo:            repos.LedgerRepo,
		audit:           repos.AuditRepo,
		directory:       repos.DirectoryRepo,
		now:             time.Now,
		defaultCurrency: defaultCurrencyCode,
		validate:        validator.New(),
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c *ledgerCore) clock() time.Time {
	return c.now().UTC()
}

// recordAudit appends entries after the financial write committed. A failure is
// logged and surfaced as an AuditLogError; it never undoes the write.
func (c *ledgerCore) recordAudit(ctx context.Context, entries ...domain.AuditEntry) error {
	if c.audit == nil || len(entries) == 0 {
		return nil
	}
	var err error
	if len(entries) == 1 {
		err = c.audit.Log(ctx, entries[0])
	} else {
		err = c.audit.BulkLog(ctx, entries)
	}
	if err != nil {
		c.LogWarn(ctx, "Audit log append failed",
			slog.String("action", entries[0].Action),
			slog.Int("entries", len(entries)),
			slog.String("error", err.Error()))
		return apperrors.WrapAuditLogError(entries[0].Action, err)
	}
	return nil
}

func (c *ledgerCore) auditEntry(actorID, action, entityType, entityID, propertyID, description string, changes map[string]any, at time.Time) domain.AuditEntry {
	return domain.AuditEntry{
		ActorID:     actorID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		Changes:     changes,
		Meta:        map[string]any{"source": "api"},
		HotelID:     propertyID,
		Context:     auditContext,
		OccurredAt:  at,
	}
}

// recalculateInStore rebuilds the folio aggregates from its transactions. The
// folio is only written when something changed, so repeated runs leave it untouched.
func (c *ledgerCore) recalculateInStore(ctx context.Context, store portsrepo.LedgerStore, folio *domain.Folio, actorID string, now time.Time) (*domain.Folio, error) {
	txns, err := store.ListTransactionsByFolio(ctx, folio.FolioID)
	if err != nil {
		return nil, err
	}

	before := folio.FolioTotals
	beforeStatus := folio.SettlementStatus
	accounting.ApplyTotals(folio, txns)
	if folio.FolioTotals.Equal(before) && folio.SettlementStatus == beforeStatus {
		return folio, nil
	}

	folio.Touch(actorID, now)
	if err := store.UpdateFolio(ctx, *folio); err != nil {
		return nil, err
	}
	return folio, nil
}

type provisionInput struct {
	PropertyID    string
	Party         domain.BillingPartyRef
	ReservationID *string
	CurrencyCode  string
	ExchangeRate  *decimal.Decimal
	CreditLimit   *decimal.Decimal
}

// provisionFolio returns the open folio of the party, creating it when missing.
// The per-kind folio counter is locked first so concurrent provisioning for the
// same property serialises and never hands out duplicate numbers.
func (c *ledgerCore) provisionFolio(ctx context.Context, store portsrepo.LedgerStore, in provisionInput, actorID string, now time.Time) (*domain.Folio, bool, error) {
	last, err := store.LockSequence(ctx, in.PropertyID, folioSequence(in.Party.Type))
	if err != nil {
		return nil, false, err
	}

	existing, err := store.FindOpenFolioForParty(ctx, in.PropertyID, in.Party)
	if err == nil {
		return existing, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	next := last + 1
	if err := store.SetSequenceValue(ctx, in.PropertyID, folioSequence(in.Party.Type), next); err != nil {
		return nil, false, err
	}

	currency := strings.ToUpper(in.CurrencyCode)
	if currency == "" {
		currency = c.defaultCurrency
	}
	rate := decimal.NewFromInt(1)
	if in.ExchangeRate != nil {
		rate = *in.ExchangeRate
	}
	creditLimit := decimal.Zero
	if in.CreditLimit != nil {
		creditLimit = *in.CreditLimit
	}

	partyID := in.Party.ID
	folio := domain.Folio{
		FolioID:          uuid.NewString(),
		PropertyID:       in.PropertyID,
		FolioType:        in.Party.Type,
		ReservationID:    in.ReservationID,
		FolioNumber:      domain.FormatFolioNumber(in.Party.Type, next),
		Status:           domain.FolioOpen,
		SettlementStatus: domain.SettlementPending,
		WorkflowStatus:   domain.WorkflowActive,
		CurrencyCode:     currency,
		ExchangeRate:     rate,
		CreditLimit:      creditLimit,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
			Version:       1,
		},
	}
	if in.Party.Type == domain.FolioTypeCompany {
		folio.CompanyID = &partyID
	} else {
		folio.GuestID = &partyID
	}

	if err := store.InsertFolio(ctx, folio); err != nil {
		return nil, false, err
	}
	return &folio, true, nil
}

type postInput struct {
	Type            domain.TransactionType
	Category        domain.TransactionCategory
	Amount          decimal.Decimal
	TaxAmount       decimal.Decimal
	ServiceCharge   decimal.Decimal
	DiscountAmount  decimal.Decimal
	Description     string
	TransactionDate *time.Time
	Pending         bool
	Details         domain.TransactionDetails
}

// checkMoneyScale rejects amounts with more decimal places than the ledger stores.
func checkMoneyScale(field string, d decimal.Decimal) error {
	if !domain.FitsScale(d, domain.MoneyScale) {
		return apperrors.NewValidationError("%s %s has more than %d decimal places", field, d.String(), domain.MoneyScale)
	}
	return nil
}

// validatePost rejects malformed postings before any storage is touched.
func (c *ledgerCore) validatePost(in postInput) error {
	if !in.Type.IsValid() {
		return apperrors.NewValidationError("unknown transaction type %q", in.Type)
	}
	if !in.Category.IsValid() {
		return apperrors.NewValidationError("unknown transaction category %q", in.Category)
	}
	if in.Amount.IsNegative() {
		return apperrors.NewValidationError("amount must be non-negative")
	}
	if in.TaxAmount.IsNegative() || in.ServiceCharge.IsNegative() || in.DiscountAmount.IsNegative() {
		return apperrors.NewValidationError("amount components must be non-negative")
	}
	amounts := []struct {
		field string
		value decimal.Decimal
	}{
		{"amount", in.Amount},
		{"taxAmount", in.TaxAmount},
		{"serviceChargeAmount", in.ServiceCharge},
		{"discountAmount", in.DiscountAmount},
	}
	for _, a := range amounts {
		if err := checkMoneyScale(a.field, a.value); err != nil {
			return err
		}
	}
	hasComponents := !in.TaxAmount.IsZero() || !in.ServiceCharge.IsZero() || !in.DiscountAmount.IsZero()
	if hasComponents && in.Type != domain.Charge {
		return apperrors.NewValidationError("tax, service charge and discount components are only accepted on %s", domain.Charge)
	}
	if in.Amount.Add(in.TaxAmount).Add(in.ServiceCharge).LessThan(in.DiscountAmount) {
		return apperrors.NewValidationError("discount exceeds the gross amount")
	}
	if err := in.Details.CheckShape(in.Type); err != nil {
		return apperrors.NewValidationError("%s", err.Error())
	}
	if variant := in.Details.Variant(); variant != nil {
		if err := c.validate.Struct(variant); err != nil {
			return apperrors.NewValidationError("invalid details: %s", err.Error())
		}
	}
	return nil
}

// postInStore writes a new transaction on an open folio, refreshes the folio
// aggregates and stamps the resulting balance on the transaction.
func (c *ledgerCore) postInStore(ctx context.Context, store portsrepo.LedgerStore, folioID string, in postInput, actorID string, now time.Time) (*domain.FolioTransaction, *domain.Folio, error) {
	folio, err := store.FindFolioByIDForUpdate(ctx, folioID)
	if err != nil {
		return nil, nil, err
	}
	if !folio.IsOpen() {
		return nil, nil, fmt.Errorf("%w: folio %s is %s", apperrors.ErrFolioNotOpen, folio.FolioNumber, folio.Status)
	}

	number, err := store.NextSequenceValue(ctx, folio.PropertyID, transactionSequence)
	if err != nil {
		return nil, nil, err
	}

	txnDate := now
	if in.TransactionDate != nil {
		txnDate = in.TransactionDate.UTC()
	}
	status := domain.StatusPosted
	if in.Pending {
		status = domain.StatusPending
	}

	txn := domain.FolioTransaction{
		TransactionID:       uuid.NewString(),
		FolioID:             folio.FolioID,
		PropertyID:          folio.PropertyID,
		TransactionNumber:   number,
		TransactionCode:     uuid.NewString(),
		TransactionType:     in.Type,
		Category:            in.Category,
		Description:         in.Description,
		Amount:              in.Amount,
		TaxAmount:           in.TaxAmount,
		ServiceChargeAmount: in.ServiceCharge,
		DiscountAmount:      in.DiscountAmount,
		AssignmentHistory:   []domain.AssignmentEntry{},
		CurrencyCode:        folio.CurrencyCode,
		ExchangeRate:        folio.ExchangeRate,
		Details:             in.Details,
		Status:              status,
		PostingDate:         now,
		TransactionDate:     txnDate,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
			Version:       1,
		},
	}
	txn.ComputeAmounts()
	txn.ResetAssignment()

	if err := store.InsertTransaction(ctx, txn); err != nil {
		return nil, nil, err
	}

	folio, err = c.recalculateInStore(ctx, store, folio, actorID, now)
	if err != nil {
		return nil, nil, err
	}

	txn.Balance = folio.Balance
	if err := store.UpdateTransaction(ctx, txn); err != nil {
		return nil, nil, err
	}
	return &txn, folio, nil
}

// lockTransaction takes the folio lock, then the row lock, of a single transaction.
func (c *ledgerCore) lockTransaction(ctx context.Context, store portsrepo.LedgerStore, transactionID string) (*domain.FolioTransaction, *domain.Folio, error) {
	current, err := store.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, nil, err
	}
	folio, err := store.FindFolioByIDForUpdate(ctx, current.FolioID)
	if err != nil {
		return nil, nil, err
	}
	locked, err := store.FindTransactionsByIDsForUpdate(ctx, []string{transactionID})
	if err != nil {
		return nil, nil, err
	}
	txn, ok := locked[transactionID]
	if !ok {
		return nil, nil, apperrors.NewNotFoundError("transaction", transactionID)
	}
	return &txn, folio, nil
}

func isNotFound(err error) bool {
	return err != nil && errors.Is(err, apperrors.ErrNotFound)
}
