package accounting

import (
	"sort"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ComputeTotals aggregates the non-voided transactions of a folio.
// It is pure: the same input always yields the same totals.
func ComputeTotals(txns []domain.FolioTransaction) domain.FolioTotals {
	t := domain.FolioTotals{
		TotalCharges:        decimal.Zero,
		TotalTaxes:          decimal.Zero,
		TotalServiceCharges: decimal.Zero,
		TotalDiscounts:      decimal.Zero,
		TotalPayments:       decimal.Zero,
		TotalAdjustments:    decimal.Zero,
		TotalRefunds:        decimal.Zero,
	}

	for _, txn := range txns {
		if txn.IsVoided {
			continue
		}
		switch txn.TransactionType {
		case domain.Charge:
			// Inline components are bucketed with their own kind.
			t.TotalCharges = t.TotalCharges.Add(txn.Amount)
			t.TotalTaxes = t.TotalTaxes.Add(txn.TaxAmount)
			t.TotalServiceCharges = t.TotalServiceCharges.Add(txn.ServiceChargeAmount)
			t.TotalDiscounts = t.TotalDiscounts.Add(txn.DiscountAmount)
		case domain.Tax:
			t.TotalTaxes = t.TotalTaxes.Add(txn.Amount)
		case domain.Discount:
			t.TotalDiscounts = t.TotalDiscounts.Add(txn.Amount)
		case domain.Payment:
			t.TotalPayments = t.TotalPayments.Add(txn.Amount)
		case domain.Adjustment:
			t.TotalAdjustments = t.TotalAdjustments.Add(txn.Amount)
		case domain.Refund:
			t.TotalRefunds = t.TotalRefunds.Add(txn.Amount)
		}
	}

	t.Balance = t.TotalCharges.
		Add(t.TotalTaxes).
		Add(t.TotalServiceCharges).
		Add(t.TotalRefunds).
		Add(t.TotalAdjustments).
		Sub(t.TotalDiscounts).
		Sub(t.TotalPayments)
	return t
}

// SettlementStatusFor derives the settlement status from totals.
func SettlementStatusFor(t domain.FolioTotals, hasActivity bool) domain.SettlementStatus {
	switch {
	case !hasActivity:
		return domain.SettlementPending
	case !t.Balance.IsPositive():
		return domain.SettlementSettled
	case t.TotalPayments.IsPositive():
		return domain.SettlementPartiallySettled
	default:
		return domain.SettlementPending
	}
}

// HasActivity reports whether any transaction still affects the folio.
func HasActivity(txns []domain.FolioTransaction) bool {
	for _, txn := range txns {
		if !txn.IsVoided {
			return true
		}
	}
	return false
}

// ApplyTotals writes derived aggregate fields onto the folio.
func ApplyTotals(folio *domain.Folio, txns []domain.FolioTransaction) {
	totals := ComputeTotals(txns)
	folio.FolioTotals = totals
	folio.SettlementStatus = SettlementStatusFor(totals, HasActivity(txns))
}

// SortChronologically orders transactions by (transactionDate, createdAt).
func SortChronologically(txns []domain.FolioTransaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].ChronologicallyBefore(txns[j])
	})
}

// SortByPosting orders transactions the way their balance snapshots were
// taken: by creation time, then transaction number.
func SortByPosting(txns []domain.FolioTransaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		if !txns[i].CreatedAt.Equal(txns[j].CreatedAt) {
			return txns[i].CreatedAt.Before(txns[j].CreatedAt)
		}
		return txns[i].TransactionNumber < txns[j].TransactionNumber
	})
}

// RunningBalances replays the non-voided transactions in posting order and
// returns the expected balance snapshot for each, keyed by transaction ID.
// Back-dated postings therefore do not disturb earlier snapshots.
func RunningBalances(txns []domain.FolioTransaction) map[string]decimal.Decimal {
	ordered := make([]domain.FolioTransaction, len(txns))
	copy(ordered, txns)
	SortByPosting(ordered)

	running := decimal.Zero
	result := make(map[string]decimal.Decimal, len(ordered))
	for _, txn := range ordered {
		if txn.IsVoided {
			continue
		}
		running = running.Add(txn.SignedContribution())
		result[txn.TransactionID] = running
	}
	return result
}

// Verify rebuilds the folio balance and every snapshot from the transaction
// history and reports where stored values disagree. Snapshots are checked in
// posting order, see RunningBalances.
func Verify(folio domain.Folio, txns []domain.FolioTransaction) domain.FolioVerification {
	computed := ComputeTotals(txns)
	expected := RunningBalances(txns)

	v := domain.FolioVerification{
		FolioID:         folio.FolioID,
		StoredBalance:   folio.Balance,
		ComputedBalance: computed.Balance,
		BalanceMatches:  folio.Balance.Equal(computed.Balance),
		Discrepancies:   []domain.SnapshotDiscrepancy{},
	}

	ordered := make([]domain.FolioTransaction, len(txns))
	copy(ordered, txns)
	SortByPosting(ordered)
	for _, txn := range ordered {
		want, ok := expected[txn.TransactionID]
		if !ok || txn.Balance.Equal(want) {
			continue
		}
		v.Discrepancies = append(v.Discrepancies, domain.SnapshotDiscrepancy{
			TransactionID: txn.TransactionID,
			Stored:        txn.Balance,
			Expected:      want,
		})
	}
	return v
}
