package services_test

import (
	"fmt"
	"sort"
	"sync"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/dto"
)

func (s *LedgerServiceTestSuite) TestGetOrCreateFolio_CreatesThenReuses() {
	first := s.guestFolio()
	s.Equal("GF-000001", first.FolioNumber)
	s.Equal(domain.FolioOpen, first.Status)
	s.Equal(domain.SettlementPending, first.SettlementStatus)
	s.Equal(domain.WorkflowActive, first.WorkflowStatus)
	s.Equal("EUR", first.CurrencyCode)
	s.assertAmount(0, first.Balance)
	s.assertAmount(1, first.ExchangeRate)
	s.Require().NotNil(first.GuestID)
	s.Nil(first.CompanyID)

	second := s.guestFolio()
	s.Equal(first.FolioID, second.FolioID)
	s.Equal([]string{domain.ActionFolioCreated}, s.audit.actions(), "only the creation is audited")
}

func (s *LedgerServiceTestSuite) TestGetOrCreateFolio_NumbersPerKind() {
	guest := s.guestFolio()
	company := s.companyFolio()
	s.Equal("GF-000001", guest.FolioNumber)
	s.Equal("CF-000001", company.FolioNumber)
	s.Equal(domain.FolioTypeCompany, company.FolioType)
}

func (s *LedgerServiceTestSuite) TestGetOrCreateFolio_Validation() {
	tests := []struct {
		name    string
		req     dto.GetOrCreateFolioRequest
		wantErr error
	}{
		{name: "no party", req: dto.GetOrCreateFolioRequest{PropertyID: testProperty}, wantErr: apperrors.ErrValidation},
		{name: "both parties", req: dto.GetOrCreateFolioRequest{PropertyID: testProperty, GuestID: strPtr(testGuest), CompanyID: strPtr(testCompany)}, wantErr: apperrors.ErrValidation},
		{name: "no property", req: dto.GetOrCreateFolioRequest{GuestID: strPtr(testGuest)}, wantErr: apperrors.ErrValidation},
		{name: "unknown guest", req: dto.GetOrCreateFolioRequest{PropertyID: testProperty, GuestID: strPtr("G-404")}, wantErr: apperrors.ErrNotFound},
		{name: "unknown company", req: dto.GetOrCreateFolioRequest{PropertyID: testProperty, CompanyID: strPtr("C404")}, wantErr: apperrors.ErrNotFound},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			folio, err := s.svc.Folio.GetOrCreateFolio(s.ctx, tt.req, testActor)
			s.Nil(folio)
			s.ErrorIs(err, tt.wantErr)
		})
	}
}

func (s *LedgerServiceTestSuite) TestGetOrCreateFolio_ConcurrentNumbering() {
	const parties = 20
	for i := 0; i < parties; i++ {
		id := fmt.Sprintf("G-%03d", i)
		s.directory.guests[id] = domain.BillingParty{Ref: domain.BillingPartyRef{Type: domain.FolioTypeGuest, ID: id}}
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers []string
		errs    []error
	)
	for i := 0; i < parties; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			folio, err := s.svc.Folio.GetOrCreateFolio(s.ctx, dto.GetOrCreateFolioRequest{
				PropertyID: testProperty,
				GuestID:    strPtr(fmt.Sprintf("G-%03d", i)),
			}, testActor)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers = append(numbers, folio.FolioNumber)
		}(i)
	}
	wg.Wait()

	s.Empty(errs)
	s.Len(numbers, parties)
	sort.Strings(numbers)
	for i, n := range numbers {
		s.Equal(domain.FormatFolioNumber(domain.FolioTypeGuest, int64(i+1)), n)
	}
}

func (s *LedgerServiceTestSuite) TestGetOrCreateFolio_ConcurrentSameParty() {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = map[string]struct{}{}
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			folio, err := s.svc.Folio.GetOrCreateFolio(s.ctx, dto.GetOrCreateFolioRequest{PropertyID: testProperty, GuestID: strPtr(testGuest)}, testActor)
			if err != nil {
				return
			}
			mu.Lock()
			ids[folio.FolioID] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	s.Len(ids, 1, "one open folio per party and property")
}

func (s *LedgerServiceTestSuite) TestCloseFolio() {
	folio := s.guestFolio()
	s.post(folio.FolioID, domain.Charge, 200)

	_, err := s.svc.Folio.CloseFolio(s.ctx, folio.FolioID, testActor)
	s.ErrorIs(err, apperrors.ErrOutstandingBalance)
	s.ErrorIs(err, apperrors.ErrConflict)

	s.post(folio.FolioID, domain.Payment, 200)
	closed, err := s.svc.Folio.CloseFolio(s.ctx, folio.FolioID, testActor)
	s.Require().NoError(err)
	s.Equal(domain.FolioClosed, closed.Status)
	s.Require().NotNil(closed.ClosedAt)
	s.Equal(domain.SettlementSettled, closed.SettlementStatus)

	_, err = s.svc.Transaction.PostTransaction(s.ctx, folio.FolioID, dto.PostTransactionRequest{
		TransactionType: domain.Charge, Category: domain.CategoryMinibar, Amount: amount(5),
	}, testActor)
	s.ErrorIs(err, apperrors.ErrFolioNotOpen)

	_, err = s.svc.Folio.CloseFolio(s.ctx, folio.FolioID, testActor)
	s.ErrorIs(err, apperrors.ErrFolioNotOpen)

	// A closed folio no longer blocks a fresh one for the same guest.
	next := s.guestFolio()
	s.NotEqual(folio.FolioID, next.FolioID)
	s.Equal("GF-000002", next.FolioNumber)
}

func (s *LedgerServiceTestSuite) TestRecordPrintAndList() {
	folio := s.guestFolio()
	s.companyFolio()

	printed, err := s.svc.Folio.RecordPrint(s.ctx, folio.FolioID, testActor)
	s.Require().NoError(err)
	s.Equal(1, printed.PrintCount)
	s.NotNil(printed.LastPrintDate)

	page, err := s.svc.Folio.ListFolios(s.ctx, testProperty, dto.ListFoliosParams{Limit: 1})
	s.Require().NoError(err)
	s.Len(page.Folios, 1)
	s.Require().NotNil(page.NextToken)

	rest, err := s.svc.Folio.ListFolios(s.ctx, testProperty, dto.ListFoliosParams{Limit: 1, NextToken: page.NextToken})
	s.Require().NoError(err)
	s.Len(rest.Folios, 1)
	s.Nil(rest.NextToken)
	s.NotEqual(page.Folios[0].FolioID, rest.Folios[0].FolioID)

	_, err = s.svc.Folio.GetFolio(s.ctx, "missing")
	s.ErrorIs(err, apperrors.ErrNotFound)
}
