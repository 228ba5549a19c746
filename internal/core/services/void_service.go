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
	"github.com/shopspring/decimal"
)

type voidService struct {
	ledgerCore
}

// NewVoidService creates a new VoidService.
func NewVoidService(repos portsrepo.RepositoryProvider, opts ...LedgerOption) portssvc.VoidSvcFacade {
	return &voidService{ledgerCore: newLedgerCore(repos, opts...)}
}

var _ portssvc.VoidSvcFacade = (*voidService)(nil)

// VoidPayment marks a payment voided, repairs the running balance of every later
// transaction on the folio, gives back what the payment had allocated and
// refreshes the folio aggregates. All of it commits together.
func (s *voidService) VoidPayment(ctx context.Context, transactionID string, req dto.VoidPaymentRequest, actorID string) (*domain.VoidResult, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, apperrors.NewValidationError("void reason is required")
	}

	now := s.clock()
	var result *domain.VoidResult
	err := s.repo.WithTx(ctx, func(store portsrepo.LedgerStore) error {
		p, folio, err := s.lockTransaction(ctx, store, transactionID)
		if err != nil {
			return err
		}
		if p.TransactionType != domain.Payment {
			return fmt.Errorf("%w: %s is a %s", apperrors.ErrNotVoidable, p.TransactionID, p.TransactionType)
		}
		if p.IsVoided {
			return fmt.Errorf("%w: %s", apperrors.ErrAlreadyVoided, p.TransactionID)
		}

		p.IsVoided = true
		p.Status = domain.StatusVoided
		p.VoidedAt = &now
		p.VoidedBy = &actorID
		p.VoidReason = &reason
		p.Touch(actorID, now)
		if err := store.UpdateTransaction(ctx, *p); err != nil {
			return err
		}

		// A payment lowered the balance by its total; every later snapshot goes back up by it.
		repaired, err := store.ShiftBalancesAfter(ctx, folio.FolioID, p.CreatedAt, p.TransactionID, p.TotalAmount.Abs())
		if err != nil {
			return err
		}

		released, err := s.releaseAllocationsInStore(ctx, store, p.TransactionID, actorID, now)
		if err != nil {
			return err
		}

		folio, err = s.recalculateInStore(ctx, store, folio, actorID, now)
		if err != nil {
			return err
		}

		result = &domain.VoidResult{
			Transaction:     *p,
			RepairedCount:   repaired,
			Folio:           *folio,
			ReleasedTargets: released,
		}
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to void payment", slog.String("transaction_id", transactionID))
		return nil, err
	}

	s.LogInfo(ctx, "Payment voided",
		slog.String("transaction_id", transactionID),
		slog.Int("repaired", result.RepairedCount),
		slog.Int("released_targets", len(result.ReleasedTargets)))

	p := result.Transaction
	entries := []domain.AuditEntry{
		s.auditEntry(actorID, domain.ActionPaymentVoided, domain.EntityFolioTransaction, p.TransactionID, p.PropertyID,
			fmt.Sprintf("Payment %s voided: %s", utils.FormatAmount(p.TotalAmount, p.CurrencyCode), reason),
			map[string]any{
				"reason":        reason,
				"repairedCount": result.RepairedCount,
				"folioBalance":  result.Folio.Balance.String(),
			}, now),
	}
	for _, t := range result.ReleasedTargets {
		entries = append(entries, s.auditEntry(actorID, domain.ActionAssignmentReleased, domain.EntityFolioTransaction, t.TransactionID, t.PropertyID,
			"Allocation released by payment void",
			map[string]any{
				"paymentTransactionId": p.TransactionID,
				"assignedAmount":       t.AssignedAmount.String(),
				"unassignedAmount":     t.UnassignedAmount.String(),
			}, now))
	}
	return result, s.recordAudit(ctx, entries...)
}

// releaseAllocationsInStore reverses what a voided payment had assigned to its
// targets. Each target gets a released history entry; counters never go below zero.
func (c *ledgerCore) releaseAllocationsInStore(ctx context.Context, store portsrepo.LedgerStore, paymentID, actorID string, now time.Time) ([]domain.FolioTransaction, error) {
	targets, err := store.FindTransactionsAssignedFromPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	pid := paymentID
	released := make([]domain.FolioTransaction, 0, len(targets))
	for _, t := range targets {
		if t.TransactionID == paymentID {
			continue
		}
		amount := t.AssignedByPayment(paymentID)
		if amount.IsZero() {
			continue
		}

		remaining := t.AssignedAmount.Sub(amount)
		if remaining.IsNegative() {
			remaining = decimal.Zero
		}
		t.SetAssigned(remaining)
		t.AppendAssignment(domain.AssignmentEntry{
			AssignedAmount:       amount,
			AssignedBy:           actorID,
			AssignmentDate:       now,
			Notes:                "released by void of payment " + paymentID,
			AutoAssigned:         true,
			PaymentTransactionID: &pid,
			Released:             true,
		})
		t.Touch(actorID, now)
		if err := store.UpdateTransaction(ctx, t); err != nil {
			return nil, err
		}
		released = append(released, t)
	}
	return released, nil
}
