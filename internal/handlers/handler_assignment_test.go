package handlers_test

import (
	"net/http"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *LedgerHandlerTestSuite) TestAssignSingle_Success() {
	payment := testTransaction(uuid.NewString(), domain.Payment, 100)
	payment.AssignedAmount = decimal.NewFromInt(30)
	payment.UnassignedAmount = decimal.NewFromInt(70)
	suite.assignmentService.On("AssignSingle", mock.Anything, payment.TransactionID,
		mock.MatchedBy(func(req dto.AssignSingleRequest) bool { return req.Amount.Equal(decimal.NewFromInt(30)) }),
		suite.actorID,
	).Return(payment, nil).Once()

	w := suite.do(http.MethodPost, "/transactions/"+payment.TransactionID+"/assign", map[string]any{"amount": "30"})

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var body mutation[dto.TransactionResponse]
	suite.decode(w, &body)
	suite.True(body.Data.AssignedAmount.Equal(decimal.NewFromInt(30)))
	suite.True(body.Data.UnassignedAmount.Equal(decimal.NewFromInt(70)))
}

func (suite *LedgerHandlerTestSuite) TestAssignSingle_InsufficientUnassignedAmount() {
	paymentID := uuid.NewString()
	suite.assignmentService.On("AssignSingle", mock.Anything, paymentID, mock.Anything, suite.actorID).
		Return(nil, apperrors.ErrInsufficientUnassignedAmount).Once()

	w := suite.do(http.MethodPost, "/transactions/"+paymentID+"/assign", map[string]any{"amount": "500"})

	suite.assertError(w, http.StatusConflict, "INSUFFICIENT_UNASSIGNED_AMOUNT")
}

func (suite *LedgerHandlerTestSuite) TestAssignBulk_Success() {
	paymentID := uuid.NewString()
	charge := testTransaction(uuid.NewString(), domain.Charge, 80)
	charge.AssignedAmount = decimal.NewFromInt(80)
	charge.UnassignedAmount = decimal.Zero
	suite.assignmentService.On("AssignBulk", mock.Anything,
		mock.MatchedBy(func(req dto.AssignBulkRequest) bool {
			return req.PaymentTransactionID != nil && *req.PaymentTransactionID == paymentID &&
				len(req.Mappings) == 1 &&
				req.Mappings[0].TargetTransactionID == charge.TransactionID &&
				req.Mappings[0].NewAssignedAmount.Equal(decimal.NewFromInt(80))
		}),
		suite.actorID,
	).Return([]domain.FolioTransaction{*charge}, nil).Once()

	w := suite.do(http.MethodPost, "/assignments/bulk", map[string]any{
		"paymentTransactionId": paymentID,
		"mappings": []map[string]any{
			{"targetTransactionId": charge.TransactionID, "newAssignedAmount": "80"},
		},
	})

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var body mutation[[]dto.TransactionResponse]
	suite.decode(w, &body)
	suite.Require().Len(body.Data, 1)
	suite.True(body.Data[0].UnassignedAmount.IsZero())
	suite.assignmentService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestAssignBulk_RejectsMalformedInput() {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"no mappings", map[string]any{"mappings": []map[string]any{}}},
		{"target is not a uuid", map[string]any{"mappings": []map[string]any{
			{"targetTransactionId": "charge-1", "newAssignedAmount": "10"},
		}}},
		{"payment is not a uuid", map[string]any{
			"paymentTransactionId": "payment-1",
			"mappings":             []map[string]any{{"targetTransactionId": uuid.NewString(), "newAssignedAmount": "10"}},
		}},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.do(http.MethodPost, "/assignments/bulk", tt.body)
			suite.assertError(w, http.StatusBadRequest, "VALIDATION_ERROR")
		})
	}
	suite.assignmentService.AssertNotCalled(suite.T(), "AssignBulk", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestVoidPayment_Success() {
	folio := testFolio(uuid.NewString())
	payment := testTransaction(folio.FolioID, domain.Payment, 100)
	payment.IsVoided = true
	payment.Status = domain.StatusVoided
	charge := testTransaction(folio.FolioID, domain.Charge, 100)
	result := &domain.VoidResult{
		Transaction:     *payment,
		RepairedCount:   2,
		Folio:           *folio,
		ReleasedTargets: []domain.FolioTransaction{*charge},
	}
	suite.voidService.On("VoidPayment", mock.Anything, payment.TransactionID,
		dto.VoidPaymentRequest{Reason: "Card chargeback"}, suite.actorID,
	).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/transactions/"+payment.TransactionID+"/void", map[string]any{"reason": "Card chargeback"})

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var body mutation[dto.VoidPaymentResponse]
	suite.decode(w, &body)
	suite.Equal(2, body.Data.RepairedCount)
	suite.True(body.Data.Transaction.IsVoided)
	suite.Len(body.Data.ReleasedTargets, 1)
	suite.Equal(folio.FolioID, body.Data.Folio.FolioID)
}

func (suite *LedgerHandlerTestSuite) TestVoidPayment_RequiresReason() {
	w := suite.do(http.MethodPost, "/transactions/"+uuid.NewString()+"/void", map[string]any{})

	suite.assertError(w, http.StatusBadRequest, "VALIDATION_ERROR")
	suite.voidService.AssertNotCalled(suite.T(), "VoidPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestVoidPayment_Preconditions() {
	tests := []struct {
		err  error
		code string
	}{
		{apperrors.ErrAlreadyVoided, "ALREADY_VOIDED"},
		{apperrors.ErrNotVoidable, "NOT_VOIDABLE"},
	}
	for _, tt := range tests {
		suite.Run(tt.code, func() {
			transactionID := uuid.NewString()
			suite.voidService.On("VoidPayment", mock.Anything, transactionID, mock.Anything, suite.actorID).
				Return(nil, tt.err).Once()

			w := suite.do(http.MethodPost, "/transactions/"+transactionID+"/void", map[string]any{"reason": "duplicate"})

			suite.assertError(w, http.StatusConflict, tt.code)
		})
	}
}
