package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/folio_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/folio_ledger/internal/core/ports/services"
	"github.com/SscSPs/folio_ledger/internal/dto"
	"github.com/SscSPs/folio_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

type assignmentService struct {
	ledgerCore
}

// NewAssignmentService creates a new AssignmentService.
func NewAssignmentService(repos portsrepo.RepositoryProvider, opts ...LedgerOption) portssvc.AssignmentSvcFacade {
	return &assignmentService{ledgerCore: newLedgerCore(repos, opts...)}
}

var _ portssvc.AssignmentSvcFacade = (*assignmentService)(nil)

func checkAssignablePayment(p domain.FolioTransaction) error {
	if p.TransactionType != domain.Payment {
		return fmt.Errorf("%w: %s is a %s, not a payment", apperrors.ErrNotAssignable, p.TransactionID, p.TransactionType)
	}
	if p.IsVoided {
		return fmt.Errorf("%w: payment %s is voided", apperrors.ErrNotAssignable, p.TransactionID)
	}
	return nil
}

func insufficient(id string, requested, available decimal.Decimal) error {
	return fmt.Errorf("%w: transaction %s requested %s, available %s",
		apperrors.ErrInsufficientUnassignedAmount, id, requested.String(), available.String())
}

// AssignSingle adds amount to the payment's own assigned counter.
func (s *assignmentService) AssignSingle(ctx context.Context, paymentTransactionID string, req dto.AssignSingleRequest, actorID string) (*domain.FolioTransaction, error) {
	if !req.Amount.IsPositive() {
		return nil, apperrors.NewValidationError("amount must be greater than zero")
	}
	if err := checkMoneyScale("amount", req.Amount); err != nil {
		return nil, err
	}

	now := s.clock()
	var payment *domain.FolioTransaction
	err := s.repo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
		p, folio, err := s.lockTransaction(ctx, store, paymentTransactionID)
		if err != nil {
			return err
		}
		if err := checkAssignablePayment(*p); err != nil {
			return err
		}
		if req.Amount.GreaterThan(p.UnassignedAmount) {
			return insufficient(p.TransactionID, req.Amount, p.UnassignedAmount)
		}

		p.SetAssigned(p.AssignedAmount.Add(req.Amount))
		p.AppendAssignment(domain.AssignmentEntry{
			AssignedAmount: req.Amount,
			AssignedBy:     actorID,
			AssignmentDate: now,
			Notes:          req.Notes,
		})
		p.Touch(actorID, now)
		if err := store.UpdateTransaction(ctx, *p); err != nil {
			return err
		}
		if _, err := s.recalculateInStore(ctx, store, folio, actorID, now); err != nil {
			return err
		}
		payment = p
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to assign payment", slog.String("transaction_id", paymentTransactionID))
		return nil, err
	}

	auditErr := s.recordAudit(ctx, s.auditEntry(actorID, domain.ActionPaymentAssigned, domain.EntityFolioTransaction, payment.TransactionID, payment.PropertyID,
		fmt.Sprintf("Assigned %s of payment", utils.FormatAmount(req.Amount, payment.CurrencyCode)),
		map[string]any{
			"amount":           req.Amount.String(),
			"assignedAmount":   payment.AssignedAmount.String(),
			"unassignedAmount": payment.UnassignedAmount.String(),
		}, now))
	return payment, auditErr
}

// bulkOutcome is what a bulk assignment changed inside its unit of work.
type bulkOutcome struct {
	Targets []domain.FolioTransaction
	Payment *domain.FolioTransaction
	Total   decimal.Decimal
}

func validateMappings(paymentID *string, mappings []domain.AssignmentMapping) error {
	if len(mappings) == 0 {
		return apperrors.NewValidationError("at least one mapping is required")
	}
	seen := make(map[string]struct{}, len(mappings))
	for _, m := range mappings {
		if strings.TrimSpace(m.TargetTransactionID) == "" {
			return apperrors.NewValidationError("mapping target is required")
		}
		if _, dup := seen[m.TargetTransactionID]; dup {
			return apperrors.NewValidationError("target %s appears more than once", m.TargetTransactionID)
		}
		seen[m.TargetTransactionID] = struct{}{}
		if m.NewAssignedAmount.IsNegative() {
			return apperrors.NewValidationError("newAssignedAmount for %s must be non-negative", m.TargetTransactionID)
		}
		if err := checkMoneyScale("newAssignedAmount", m.NewAssignedAmount); err != nil {
			return err
		}
		if paymentID != nil && *paymentID == m.TargetTransactionID {
			return apperrors.NewValidationError("payment %s cannot be its own target", *paymentID)
		}
	}
	return nil
}

// assignBulkInStore sets every target's assigned amount and, when a payment is
// given, grows the payment's counter by their sum. All checks run before the
// first write so a failed batch leaves nothing behind even without a rollback.
func (c *ledgerCore) assignBulkInStore(ctx context.Context, store portsrepo.LedgerStore, paymentID *string, mappings []domain.AssignmentMapping, notes, actorID string, now time.Time) (*bulkOutcome, error) {
	if err := validateMappings(paymentID, mappings); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(mappings)+1)
	for _, m := range mappings {
		ids = append(ids, m.TargetTransactionID)
	}
	if paymentID != nil {
		ids = append(ids, *paymentID)
	}

	// Folio locks first, in a stable order, then the rows themselves.
	folioSet := make(map[string]struct{})
	for _, id := range ids {
		t, err := store.FindTransactionByID(ctx, id)
		if err != nil {
			return nil, err
		}
		folioSet[t.FolioID] = struct{}{}
	}
	folioIDs := make([]string, 0, len(folioSet))
	for id := range folioSet {
		folioIDs = append(folioIDs, id)
	}
	sort.Strings(folioIDs)
	folios := make(map[string]*domain.Folio, len(folioIDs))
	for _, id := range folioIDs {
		f, err := store.FindFolioByIDForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		folios[id] = f
	}

	locked, err := store.FindTransactionsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}

	var payment *domain.FolioTransaction
	if paymentID != nil {
		p, ok := locked[*paymentID]
		if !ok {
			return nil, apperrors.NewNotFoundError("transaction", *paymentID)
		}
		if err := checkAssignablePayment(p); err != nil {
			return nil, err
		}
		payment = &p
	}

	sum := decimal.Zero
	targets := make([]domain.FolioTransaction, 0, len(mappings))
	for _, m := range mappings {
		target, ok := locked[m.TargetTransactionID]
		if !ok {
			return nil, apperrors.NewNotFoundError("transaction", m.TargetTransactionID)
		}
		if !target.TransactionType.IsChargeLike() {
			return nil, fmt.Errorf("%w: %s is a %s", apperrors.ErrNotAssignable, target.TransactionID, target.TransactionType)
		}
		if target.IsVoided {
			return nil, fmt.Errorf("%w: %s is voided", apperrors.ErrNotAssignable, target.TransactionID)
		}
		if payment != nil && target.PropertyID != payment.PropertyID {
			return nil, fmt.Errorf("%w: %s belongs to another property", apperrors.ErrNotAssignable, target.TransactionID)
		}
		if m.NewAssignedAmount.GreaterThan(target.UnassignedAmount) {
			return nil, insufficient(target.TransactionID, m.NewAssignedAmount, target.UnassignedAmount)
		}

		target.SetAssigned(m.NewAssignedAmount)
		target.AppendAssignment(domain.AssignmentEntry{
			AssignedAmount:       m.NewAssignedAmount,
			AssignedBy:           actorID,
			AssignmentDate:       now,
			Notes:                notes,
			AutoAssigned:         paymentID != nil,
			PaymentTransactionID: paymentID,
		})
		target.Touch(actorID, now)
		targets = append(targets, target)
		sum = sum.Add(m.NewAssignedAmount)
	}

	if payment != nil {
		if sum.GreaterThan(payment.UnassignedAmount) {
			return nil, insufficient(payment.TransactionID, sum, payment.UnassignedAmount)
		}
		payment.SetAssigned(payment.AssignedAmount.Add(sum))
		payment.AppendAssignment(domain.AssignmentEntry{
			AssignedAmount: sum,
			AssignedBy:     actorID,
			AssignmentDate: now,
			Notes:          notes,
			AutoAssigned:   true,
		})
		payment.Touch(actorID, now)
	}

	for _, t := range targets {
		if err := store.UpdateTransaction(ctx, t); err != nil {
			return nil, err
		}
	}
	if payment != nil {
		if err := store.UpdateTransaction(ctx, *payment); err != nil {
			return nil, err
		}
	}
	for _, id := range folioIDs {
		if _, err := c.recalculateInStore(ctx, store, folios[id], actorID, now); err != nil {
			return nil, err
		}
	}

	return &bulkOutcome{Targets: targets, Payment: payment, Total: sum}, nil
}

func (c *ledgerCore) bulkAuditEntries(outcome *bulkOutcome, actorID string, now time.Time) []domain.AuditEntry {
	entries := make([]domain.AuditEntry, 0, len(outcome.Targets)+1)
	for _, t := range outcome.Targets {
		changes := map[string]any{
			"assignedAmount":   t.AssignedAmount.String(),
			"unassignedAmount": t.UnassignedAmount.String(),
		}
		if outcome.Payment != nil {
			changes["paymentTransactionId"] = outcome.Payment.TransactionID
		}
		entries = append(entries, c.auditEntry(actorID, domain.ActionAssignmentSet, domain.EntityFolioTransaction, t.TransactionID, t.PropertyID,
			fmt.Sprintf("Assigned amount set to %s", utils.FormatAmount(t.AssignedAmount, t.CurrencyCode)), changes, now))
	}
	if p := outcome.Payment; p != nil {
		entries = append(entries, c.auditEntry(actorID, domain.ActionPaymentAssigned, domain.EntityFolioTransaction, p.TransactionID, p.PropertyID,
			fmt.Sprintf("Payment distributed across %d targets", len(outcome.Targets)),
			map[string]any{
				"amount":           outcome.Total.String(),
				"assignedAmount":   p.AssignedAmount.String(),
				"unassignedAmount": p.UnassignedAmount.String(),
			}, now))
	}
	return entries
}

// AssignBulk applies every mapping or none of them.
func (s *assignmentService) AssignBulk(ctx context.Context, req dto.AssignBulkRequest, actorID string) ([]domain.FolioTransaction, error) {
	mappings := req.ToDomainMappings()
	if err := validateMappings(req.PaymentTransactionID, mappings); err != nil {
		return nil, err
	}

	now := s.clock()
	var outcome *bulkOutcome
	err := s.repo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
		var txErr error
		outcome, txErr = s.assignBulkInStore(ctx, store, req.PaymentTransactionID, mappings, req.Notes, actorID, now)
		return txErr
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to apply bulk assignment", slog.Int("mappings", len(mappings)))
		return nil, err
	}

	s.LogInfo(ctx, "Bulk assignment applied",
		slog.Int("targets", len(outcome.Targets)),
		slog.String("total", outcome.Total.String()))
	return outcome.Targets, s.recordAudit(ctx, s.bulkAuditEntries(outcome, actorID, now)...)
}
