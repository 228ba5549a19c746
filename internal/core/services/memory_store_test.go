package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/folio_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/folio_ledger/internal/utils/accounting"
	"github.com/SscSPs/folio_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// ledgerState is the whole durable state of the in-memory store.
type ledgerState struct {
	folios map[string]domain.Folio
	txns   map[string]domain.FolioTransaction
	seqs   map[string]int64
}

func newLedgerState() ledgerState {
	return ledgerState{
		folios: map[string]domain.Folio{},
		txns:   map[string]domain.FolioTransaction{},
		seqs:   map[string]int64{},
	}
}

func copyTxn(t domain.FolioTransaction) domain.FolioTransaction {
	t.AssignmentHistory = append([]domain.AssignmentEntry{}, t.AssignmentHistory...)
	return t
}

func (s ledgerState) clone() ledgerState {
	c := newLedgerState()
	for k, v := range s.folios {
		c.folios[k] = v
	}
	for k, v := range s.txns {
		c.txns[k] = copyTxn(v)
	}
	for k, v := range s.seqs {
		c.seqs[k] = v
	}
	return c
}

// memoryLedger is a LedgerRepositoryWithTx backed by maps. A unit of work runs
// against a private copy of the state that replaces the shared one on success,
// and units of work are serialised by a mutex the way row locks serialise them
// in Postgres.
type memoryLedger struct {
	mu    sync.Mutex
	state ledgerState

	// failUpdateAfter makes the n-th UpdateTransaction of a unit of work fail when > 0.
	failUpdateAfter int
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{state: newLedgerState()}
}

var _ portsrepo.LedgerRepositoryWithTx = (*memoryLedger)(nil)

func (m *memoryLedger) WithTx(ctx context.Context, fn func(store portsrepo.LedgerStore) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.state.clone()
	if err := fn(&memoryStore{st: &work, failUpdateAfter: m.failUpdateAfter}); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memoryLedger) view() *memoryStore {
	return &memoryStore{st: &m.state}
}

// folio returns the committed folio; test helper.
func (m *memoryLedger) folio(id string) domain.Folio {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.folios[id]
}

// txn returns the committed transaction; test helper.
func (m *memoryLedger) txn(id string) domain.FolioTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copyTxn(m.state.txns[id])
}

func (m *memoryLedger) corruptFolioBalance(id string, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f := m.state.folios[id]
	f.Balance = balance
	m.state.folios[id] = f
}

func (m *memoryLedger) FindFolioByID(ctx context.Context, id string) (*domain.Folio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().FindFolioByID(ctx, id)
}

func (m *memoryLedger) FindFolioByIDForUpdate(ctx context.Context, id string) (*domain.Folio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().FindFolioByIDForUpdate(ctx, id)
}

func (m *memoryLedger) FindOpenFolioForParty(ctx context.Context, propertyID string, party domain.BillingPartyRef) (*domain.Folio, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().FindOpenFolioForParty(ctx, propertyID, party)
}

func (m *memoryLedger) ListFolios(ctx context.Context, propertyID string, status *domain.FolioStatus, limit int, nextToken *string) ([]domain.Folio, *string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().ListFolios(ctx, propertyID, status, limit, nextToken)
}

func (m *memoryLedger) InsertFolio(ctx context.Context, folio domain.Folio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertFolio(ctx, folio)
}

func (m *memoryLedger) UpdateFolio(ctx context.Context, folio domain.Folio) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateFolio(ctx, folio)
}

func (m *memoryLedger) FindTransactionByID(ctx context.Context, id string) (*domain.FolioTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().FindTransactionByID(ctx, id)
}

func (m *memoryLedger) FindTransactionsByIDsForUpdate(ctx context.Context, ids []string) (map[string]domain.FolioTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().FindTransactionsByIDsForUpdate(ctx, ids)
}

func (m *memoryLedger) ListTransactionsByFolio(ctx context.Context, folioID string) ([]domain.FolioTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().ListTransactionsByFolio(ctx, folioID)
}

func (m *memoryLedger) ListFolioStatement(ctx context.Context, folioID string, includeVoided bool, limit int, nextToken *string) ([]domain.FolioTransaction, *string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().ListFolioStatement(ctx, folioID, includeVoided, limit, nextToken)
}

func (m *memoryLedger) FindTransactionsAssignedFromPayment(ctx context.Context, paymentID string) ([]domain.FolioTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().FindTransactionsAssignedFromPayment(ctx, paymentID)
}

func (m *memoryLedger) ListPendingTransactions(ctx context.Context, propertyID string, cutoff time.Time) ([]domain.FolioTransaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().ListPendingTransactions(ctx, propertyID, cutoff)
}

func (m *memoryLedger) InsertTransaction(ctx context.Context, txn domain.FolioTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().InsertTransaction(ctx, txn)
}

func (m *memoryLedger) UpdateTransaction(ctx context.Context, txn domain.FolioTransaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().UpdateTransaction(ctx, txn)
}

func (m *memoryLedger) ShiftBalancesAfter(ctx context.Context, folioID string, after time.Time, excludeID string, delta decimal.Decimal) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().ShiftBalancesAfter(ctx, folioID, after, excludeID, delta)
}

func (m *memoryLedger) NextSequenceValue(ctx context.Context, propertyID, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().NextSequenceValue(ctx, propertyID, name)
}

func (m *memoryLedger) LockSequence(ctx context.Context, propertyID, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().LockSequence(ctx, propertyID, name)
}

func (m *memoryLedger) SetSequenceValue(ctx context.Context, propertyID, name string, value int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.view().SetSequenceValue(ctx, propertyID, name, value)
}

// memoryStore operates on one ledgerState without locking.
type memoryStore struct {
	st              *ledgerState
	failUpdateAfter int
	updates         int
}

var _ portsrepo.LedgerStore = (*memoryStore)(nil)

var errInjected = errors.New("injected storage failure")

func (s *memoryStore) FindFolioByID(_ context.Context, id string) (*domain.Folio, error) {
	f, ok := s.st.folios[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("folio", id)
	}
	return &f, nil
}

func (s *memoryStore) FindFolioByIDForUpdate(ctx context.Context, id string) (*domain.Folio, error) {
	return s.FindFolioByID(ctx, id)
}

func (s *memoryStore) FindOpenFolioForParty(_ context.Context, propertyID string, party domain.BillingPartyRef) (*domain.Folio, error) {
	for _, f := range s.st.folios {
		if f.PropertyID == propertyID && f.IsOpen() && f.BillingParty() == party {
			return &f, nil
		}
	}
	return nil, apperrors.NewNotFoundError("open folio for", party.ID)
}

func (s *memoryStore) ListFolios(_ context.Context, propertyID string, status *domain.FolioStatus, limit int, nextToken *string) ([]domain.Folio, *string, error) {
	var all []domain.Folio
	for _, f := range s.st.folios {
		if f.PropertyID != propertyID || (status != nil && f.Status != *status) {
			continue
		}
		all = append(all, f)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].FolioID < all[j].FolioID
	})

	if nextToken != nil {
		createdAt, id, err := pagination.DecodeKeysetToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError("invalid nextToken")
		}
		start := len(all)
		for i, f := range all {
			if f.CreatedAt.After(createdAt) || (f.CreatedAt.Equal(createdAt) && f.FolioID > id) {
				start = i
				break
			}
		}
		all = all[start:]
	}

	if len(all) > limit {
		last := all[limit-1]
		token := pagination.EncodeKeysetToken(last.CreatedAt, last.FolioID)
		return all[:limit], &token, nil
	}
	return all, nil, nil
}

func (s *memoryStore) InsertFolio(_ context.Context, folio domain.Folio) error {
	if _, exists := s.st.folios[folio.FolioID]; exists {
		return apperrors.ErrDuplicate
	}
	for _, f := range s.st.folios {
		if f.PropertyID == folio.PropertyID && f.IsOpen() && f.BillingParty() == folio.BillingParty() {
			return apperrors.ErrDuplicate
		}
	}
	s.st.folios[folio.FolioID] = folio
	return nil
}

func (s *memoryStore) UpdateFolio(_ context.Context, folio domain.Folio) error {
	if _, exists := s.st.folios[folio.FolioID]; !exists {
		return apperrors.NewNotFoundError("folio", folio.FolioID)
	}
	s.st.folios[folio.FolioID] = folio
	return nil
}

func (s *memoryStore) FindTransactionByID(_ context.Context, id string) (*domain.FolioTransaction, error) {
	t, ok := s.st.txns[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("transaction", id)
	}
	t = copyTxn(t)
	return &t, nil
}

func (s *memoryStore) FindTransactionsByIDsForUpdate(_ context.Context, ids []string) (map[string]domain.FolioTransaction, error) {
	out := make(map[string]domain.FolioTransaction, len(ids))
	for _, id := range ids {
		if t, ok := s.st.txns[id]; ok {
			out[id] = copyTxn(t)
		}
	}
	return out, nil
}

func (s *memoryStore) folioTxns(folioID string) []domain.FolioTransaction {
	var out []domain.FolioTransaction
	for _, t := range s.st.txns {
		if t.FolioID == folioID {
			out = append(out, copyTxn(t))
		}
	}
	accounting.SortChronologically(out)
	return out
}

func (s *memoryStore) ListTransactionsByFolio(_ context.Context, folioID string) ([]domain.FolioTransaction, error) {
	return s.folioTxns(folioID), nil
}

func (s *memoryStore) ListFolioStatement(_ context.Context, folioID string, includeVoided bool, limit int, _ *string) ([]domain.FolioTransaction, *string, error) {
	var out []domain.FolioTransaction
	for _, t := range s.folioTxns(folioID) {
		if t.IsVoided && !includeVoided {
			continue
		}
		out = append(out, t)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil, nil
}

func (s *memoryStore) FindTransactionsAssignedFromPayment(_ context.Context, paymentID string) ([]domain.FolioTransaction, error) {
	var out []domain.FolioTransaction
	for _, t := range s.st.txns {
		for _, e := range t.AssignmentHistory {
			if e.PaymentTransactionID != nil && *e.PaymentTransactionID == paymentID {
				out = append(out, copyTxn(t))
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TransactionID < out[j].TransactionID })
	return out, nil
}

func (s *memoryStore) ListPendingTransactions(_ context.Context, propertyID string, cutoff time.Time) ([]domain.FolioTransaction, error) {
	var out []domain.FolioTransaction
	for _, t := range s.st.txns {
		if t.PropertyID == propertyID && t.Status == domain.StatusPending && t.TransactionDate.Before(cutoff) {
			out = append(out, copyTxn(t))
		}
	}
	accounting.SortChronologically(out)
	return out, nil
}

func (s *memoryStore) InsertTransaction(_ context.Context, txn domain.FolioTransaction) error {
	if _, exists := s.st.txns[txn.TransactionID]; exists {
		return apperrors.ErrDuplicate
	}
	s.st.txns[txn.TransactionID] = copyTxn(txn)
	return nil
}

func (s *memoryStore) UpdateTransaction(_ context.Context, txn domain.FolioTransaction) error {
	if _, exists := s.st.txns[txn.TransactionID]; !exists {
		return apperrors.NewNotFoundError("transaction", txn.TransactionID)
	}
	s.updates++
	if s.failUpdateAfter > 0 && s.updates >= s.failUpdateAfter {
		return errInjected
	}
	s.st.txns[txn.TransactionID] = copyTxn(txn)
	return nil
}

func (s *memoryStore) ShiftBalancesAfter(_ context.Context, folioID string, after time.Time, excludeID string, delta decimal.Decimal) (int, error) {
	n := 0
	for id, t := range s.st.txns {
		if t.FolioID != folioID || t.IsVoided || id == excludeID || !t.CreatedAt.After(after) {
			continue
		}
		t.Balance = t.Balance.Add(delta)
		t.Version++
		s.st.txns[id] = t
		n++
	}
	return n, nil
}

func seqKey(propertyID, name string) string {
	return propertyID + "|" + name
}

func (s *memoryStore) NextSequenceValue(_ context.Context, propertyID, name string) (int64, error) {
	k := seqKey(propertyID, name)
	s.st.seqs[k]++
	return s.st.seqs[k], nil
}

func (s *memoryStore) LockSequence(_ context.Context, propertyID, name string) (int64, error) {
	return s.st.seqs[seqKey(propertyID, name)], nil
}

func (s *memoryStore) SetSequenceValue(_ context.Context, propertyID, name string, value int64) error {
	s.st.seqs[seqKey(propertyID, name)] = value
	return nil
}

// memoryAudit records entries and can be told to fail.
type memoryAudit struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	fail    bool
}

var _ portsrepo.AuditLogger = (*memoryAudit)(nil)

func (a *memoryAudit) Log(_ context.Context, entry domain.AuditEntry) error {
	return a.BulkLog(context.Background(), []domain.AuditEntry{entry})
}

func (a *memoryAudit) BulkLog(_ context.Context, entries []domain.AuditEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail {
		return errors.New("audit store unavailable")
	}
	a.entries = append(a.entries, entries...)
	return nil
}

func (a *memoryAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Action
	}
	return out
}

// memoryDirectory knows a fixed set of guests and companies.
type memoryDirectory struct {
	guests    map[string]domain.BillingParty
	companies map[string]domain.BillingParty
}

var _ portsrepo.BillingPartyDirectory = (*memoryDirectory)(nil)

func (d *memoryDirectory) FindGuest(_ context.Context, id string) (*domain.BillingParty, error) {
	p, ok := d.guests[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("guest", id)
	}
	return &p, nil
}

func (d *memoryDirectory) FindCompany(_ context.Context, id string) (*domain.BillingParty, error) {
	p, ok := d.companies[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("company", id)
	}
	return &p, nil
}

// tickingClock advances one second per reading so createdAt strictly increases.
type tickingClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}
