package services_test

import (
	"sync"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

func (s *LedgerServiceTestSuite) TestPostTransaction_ComponentsAndSnapshot() {
	folio := s.guestFolio()
	tax := amount(20)
	svc := amount(10)
	discount := amount(5)

	charge, err := s.svc.Transaction.PostTransaction(s.ctx, folio.FolioID, dto.PostTransactionRequest{
		TransactionType:     domain.Charge,
		Category:            domain.CategoryRoom,
		Amount:              amount(200),
		TaxAmount:           &tax,
		ServiceChargeAmount: &svc,
		DiscountAmount:      &discount,
		Description:         "Deluxe king, night 1",
		Details:             domain.TransactionDetails{Charge: &domain.ChargeDetails{Quantity: 1, RoomNumber: "1204"}},
	}, testActor)
	s.Require().NoError(err)

	s.Equal(int64(1), charge.TransactionNumber)
	s.NotEmpty(charge.TransactionCode)
	s.Equal(domain.StatusPosted, charge.Status)
	s.assertAmount(225, charge.TotalAmount)
	s.assertAmount(195, charge.NetAmount)
	s.assertAmount(225, charge.UnassignedAmount)
	s.assertAmount(225, charge.Balance)
	s.Equal("EUR", charge.CurrencyCode)

	stored := s.ledger.folio(folio.FolioID)
	s.assertAmount(200, stored.TotalCharges)
	s.assertAmount(20, stored.TotalTaxes)
	s.assertAmount(10, stored.TotalServiceCharges)
	s.assertAmount(5, stored.TotalDiscounts)
	s.assertAmount(225, stored.Balance)

	payment := s.post(folio.FolioID, domain.Payment, 100)
	s.Equal(int64(2), payment.TransactionNumber)
	s.assertAmount(125, payment.Balance)
	s.Equal(domain.SettlementPartiallySettled, s.ledger.folio(folio.FolioID).SettlementStatus)

	s.Equal([]string{domain.ActionFolioCreated, domain.ActionTransactionPosted, domain.ActionTransactionPosted}, s.audit.actions())
}

func (s *LedgerServiceTestSuite) TestPostTransaction_Validation() {
	folio := s.guestFolio()
	tax := amount(3)
	negative := amount(-1)
	fineTax := decimal.RequireFromString("0.00001")

	tests := []struct {
		name    string
		folioID string
		req     dto.PostTransactionRequest
		wantErr error
	}{
		{
			name:    "unknown type",
			folioID: folio.FolioID,
			req:     dto.PostTransactionRequest{TransactionType: "TRANSFER", Category: domain.CategoryRoom, Amount: amount(1)},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "unknown category",
			folioID: folio.FolioID,
			req:     dto.PostTransactionRequest{TransactionType: domain.Charge, Category: "PARKING", Amount: amount(1)},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "negative amount",
			folioID: folio.FolioID,
			req:     dto.PostTransactionRequest{TransactionType: domain.Payment, Category: domain.CategoryPayment, Amount: amount(-5)},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "negative component",
			folioID: folio.FolioID,
			req:     dto.PostTransactionRequest{TransactionType: domain.Charge, Category: domain.CategoryRoom, Amount: amount(5), TaxAmount: &negative},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "amount finer than stored scale",
			folioID: folio.FolioID,
			req:     dto.PostTransactionRequest{TransactionType: domain.Payment, Category: domain.CategoryPayment, Amount: decimal.RequireFromString("1.00005")},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "component finer than stored scale",
			folioID: folio.FolioID,
			req:     dto.PostTransactionRequest{TransactionType: domain.Charge, Category: domain.CategoryRoom, Amount: amount(5), TaxAmount: &fineTax},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "component on payment",
			folioID: folio.FolioID,
			req:     dto.PostTransactionRequest{TransactionType: domain.Payment, Category: domain.CategoryPayment, Amount: amount(5), TaxAmount: &tax},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "details variant mismatch",
			folioID: folio.FolioID,
			req: dto.PostTransactionRequest{
				TransactionType: domain.Charge, Category: domain.CategoryRoom, Amount: amount(5),
				Details: domain.TransactionDetails{Payment: &domain.PaymentDetails{Method: domain.MethodCash}},
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "details field rule",
			folioID: folio.FolioID,
			req: dto.PostTransactionRequest{
				TransactionType: domain.Payment, Category: domain.CategoryPayment, Amount: amount(5),
				Details: domain.TransactionDetails{Payment: &domain.PaymentDetails{Method: "BITCOIN"}},
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "unknown folio",
			folioID: "missing",
			req:     dto.PostTransactionRequest{TransactionType: domain.Charge, Category: domain.CategoryRoom, Amount: amount(5)},
			wantErr: apperrors.ErrNotFound,
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			txn, err := s.svc.Transaction.PostTransaction(s.ctx, tt.folioID, tt.req, testActor)
			s.Nil(txn)
			s.ErrorIs(err, tt.wantErr)
		})
	}

	s.assertAmount(0, s.ledger.folio(folio.FolioID).Balance)
}

func (s *LedgerServiceTestSuite) TestPostTransaction_ConcurrentNumbersAreUnique() {
	folio := s.guestFolio()
	const postings = 25

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[int64]struct{}{}
	)
	for i := 0; i < postings; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			txn, err := s.svc.Transaction.PostTransaction(s.ctx, folio.FolioID, dto.PostTransactionRequest{
				TransactionType: domain.Charge, Category: domain.CategoryFoodBeverage, Amount: amount(4),
			}, testActor)
			if err != nil {
				return
			}
			mu.Lock()
			numbers[txn.TransactionNumber] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	s.Len(numbers, postings)
	for n := int64(1); n <= postings; n++ {
		s.Contains(numbers, n)
	}
	s.assertAmount(100, s.ledger.folio(folio.FolioID).Balance)

	v, err := s.svc.Totals.VerifyFolio(s.ctx, folio.FolioID)
	s.Require().NoError(err)
	s.True(v.Consistent())
}

func (s *LedgerServiceTestSuite) TestPostTransaction_AuditFailureIsAWarning() {
	folio := s.guestFolio()
	s.audit.fail = true

	txn, err := s.svc.Transaction.PostTransaction(s.ctx, folio.FolioID, dto.PostTransactionRequest{
		TransactionType: domain.Charge, Category: domain.CategoryRoom, Amount: amount(80),
	}, testActor)
	s.Require().NotNil(txn)
	s.Require().Error(err)
	s.True(apperrors.IsAuditWarning(err))

	stored := s.ledger.txn(txn.TransactionID)
	s.Equal(txn.TransactionID, stored.TransactionID, "the financial write is kept")
	s.assertAmount(80, s.ledger.folio(folio.FolioID).Balance)
}

func (s *LedgerServiceTestSuite) TestPostPendingTransaction_RevisedAmountRepairsLaterSnapshots() {
	folio := s.guestFolio()
	pending, err := s.svc.Transaction.PostTransaction(s.ctx, folio.FolioID, dto.PostTransactionRequest{
		TransactionType: domain.Charge, Category: domain.CategoryRoom, Amount: amount(100), Pending: true,
	}, testActor)
	s.Require().NoError(err)
	s.Equal(domain.StatusPending, pending.Status)
	payment := s.post(folio.FolioID, domain.Payment, 30)
	s.assertAmount(70, payment.Balance)

	fine := decimal.RequireFromString("120.00001")
	_, err = s.svc.Transaction.PostPendingTransaction(s.ctx, pending.TransactionID, dto.PostPendingRequest{RevisedAmount: &fine}, testActor)
	s.ErrorIs(err, apperrors.ErrValidation)
	s.Equal(domain.StatusPending, s.ledger.txn(pending.TransactionID).Status)

	revised := amount(120)
	posted, err := s.svc.Transaction.PostPendingTransaction(s.ctx, pending.TransactionID, dto.PostPendingRequest{RevisedAmount: &revised}, testActor)
	s.Require().NoError(err)
	s.Equal(domain.StatusPosted, posted.Status)
	s.assertAmount(120, posted.TotalAmount)
	s.assertAmount(120, posted.UnassignedAmount)
	s.assertAmount(120, posted.Balance)
	s.assertAmount(90, s.ledger.txn(payment.TransactionID).Balance)
	s.assertAmount(90, s.ledger.folio(folio.FolioID).Balance)

	_, err = s.svc.Transaction.PostPendingTransaction(s.ctx, pending.TransactionID, dto.PostPendingRequest{}, testActor)
	s.ErrorIs(err, apperrors.ErrNotPending)

	v, err := s.svc.Totals.VerifyFolio(s.ctx, folio.FolioID)
	s.Require().NoError(err)
	s.True(v.Consistent())
}

func (s *LedgerServiceTestSuite) TestListFolioTransactions() {
	folio := s.guestFolio()
	s.post(folio.FolioID, domain.Charge, 100)
	payment := s.post(folio.FolioID, domain.Payment, 40)
	_, err := s.svc.Void.VoidPayment(s.ctx, payment.TransactionID, dto.VoidPaymentRequest{Reason: "duplicate swipe"}, testActor)
	s.Require().NoError(err)

	visible, err := s.svc.Transaction.ListFolioTransactions(s.ctx, folio.FolioID, dto.ListTransactionsParams{})
	s.Require().NoError(err)
	s.Len(visible.Transactions, 1)

	all, err := s.svc.Transaction.ListFolioTransactions(s.ctx, folio.FolioID, dto.ListTransactionsParams{IncludeVoided: true})
	s.Require().NoError(err)
	s.Len(all.Transactions, 2)

	_, err = s.svc.Transaction.ListFolioTransactions(s.ctx, "missing", dto.ListTransactionsParams{})
	s.ErrorIs(err, apperrors.ErrNotFound)

	got, err := s.svc.Transaction.GetTransaction(s.ctx, payment.TransactionID)
	s.Require().NoError(err)
	s.True(got.IsVoided)
	s.True(decimal.NewFromInt(40).Equal(got.Amount))
}
