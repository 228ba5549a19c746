package handlers_test

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func testFolio(folioID string) *domain.Folio {
	guestID := "G-1001"
	return &domain.Folio{
		FolioID:          folioID,
		PropertyID:       "H001",
		FolioType:        domain.FolioTypeGuest,
		GuestID:          &guestID,
		FolioNumber:      "GF-000001",
		Status:           domain.FolioOpen,
		SettlementStatus: domain.SettlementPending,
		WorkflowStatus:   domain.WorkflowActive,
		CurrencyCode:     "USD",
		ExchangeRate:     decimal.NewFromInt(1),
	}
}

func (suite *LedgerHandlerTestSuite) TestGetOrCreateFolio_Success() {
	folio := testFolio(uuid.NewString())
	suite.folioService.On("GetOrCreateFolio",
		mock.Anything,
		mock.MatchedBy(func(req dto.GetOrCreateFolioRequest) bool {
			return req.PropertyID == "H001" && req.GuestID != nil && *req.GuestID == "G-1001" && req.CompanyID == nil
		}),
		suite.actorID,
	).Return(folio, nil).Once()

	w := suite.do(http.MethodPost, "/folios", map[string]any{"propertyID": "H001", "guestID": "G-1001"})

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var body mutation[dto.FolioResponse]
	suite.decode(w, &body)
	suite.Equal(folio.FolioID, body.Data.FolioID)
	suite.Equal("GF-000001", body.Data.FolioNumber)
	suite.Empty(body.Warnings)
	suite.folioService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestGetOrCreateFolio_MissingProperty() {
	w := suite.do(http.MethodPost, "/folios", map[string]any{"guestID": "G-1001"})

	suite.assertError(w, http.StatusBadRequest, "VALIDATION_ERROR")
	suite.folioService.AssertNotCalled(suite.T(), "GetOrCreateFolio", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestGetOrCreateFolio_UnknownGuest() {
	suite.folioService.On("GetOrCreateFolio", mock.Anything, mock.Anything, suite.actorID).
		Return(nil, apperrors.NewNotFoundError("guest", "G-404")).Once()

	w := suite.do(http.MethodPost, "/folios", map[string]any{"propertyID": "H001", "guestID": "G-404"})

	body := suite.assertError(w, http.StatusNotFound, "NOT_FOUND")
	suite.Contains(body.Error, "G-404")
}

func (suite *LedgerHandlerTestSuite) TestGetFolio_Success() {
	folio := testFolio(uuid.NewString())
	suite.folioService.On("GetFolio", mock.Anything, folio.FolioID).Return(folio, nil).Once()

	w := suite.do(http.MethodGet, "/folios/"+folio.FolioID, nil)

	suite.Equal(http.StatusOK, w.Code)
	var body dto.FolioResponse
	suite.decode(w, &body)
	suite.Equal(folio.FolioID, body.FolioID)
	suite.Equal(domain.FolioOpen, body.Status)
}

func (suite *LedgerHandlerTestSuite) TestListFolios_PassesFilters() {
	open := domain.FolioOpen
	suite.folioService.On("ListFolios", mock.Anything, "H001",
		mock.MatchedBy(func(p dto.ListFoliosParams) bool {
			return p.Limit == 20 && p.Status != nil && *p.Status == open
		}),
	).Return(&dto.ListFoliosResponse{Folios: []dto.FolioResponse{dto.ToFolioResponse(testFolio(uuid.NewString()))}}, nil).Once()

	w := suite.do(http.MethodGet, "/properties/H001/folios?status=OPEN&limit=20", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var body dto.ListFoliosResponse
	suite.decode(w, &body)
	suite.Len(body.Folios, 1)
	suite.Nil(body.NextToken)
}

func (suite *LedgerHandlerTestSuite) TestListFolios_RejectsUnknownStatus() {
	w := suite.do(http.MethodGet, "/properties/H001/folios?status=ARCHIVED", nil)

	suite.assertError(w, http.StatusBadRequest, "VALIDATION_ERROR")
}

func (suite *LedgerHandlerTestSuite) TestCloseFolio_OutstandingBalance() {
	folioID := uuid.NewString()
	suite.folioService.On("CloseFolio", mock.Anything, folioID, suite.actorID).
		Return(nil, fmt.Errorf("%w: outstanding 10.00 USD", apperrors.ErrOutstandingBalance)).Once()

	w := suite.do(http.MethodPost, "/folios/"+folioID+"/close", nil)

	body := suite.assertError(w, http.StatusConflict, "OUTSTANDING_BALANCE")
	suite.False(body.Retryable)
}

func (suite *LedgerHandlerTestSuite) TestRecordPrint_Success() {
	folio := testFolio(uuid.NewString())
	folio.PrintCount = 1
	suite.folioService.On("RecordPrint", mock.Anything, folio.FolioID, suite.actorID).Return(folio, nil).Once()

	w := suite.do(http.MethodPost, "/folios/"+folio.FolioID+"/print", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body mutation[dto.FolioResponse]
	suite.decode(w, &body)
	suite.Equal(1, body.Data.PrintCount)
}

func (suite *LedgerHandlerTestSuite) TestRecalculate_AuditWarningKeepsSuccess() {
	folio := testFolio(uuid.NewString())
	warning := apperrors.WrapAuditLogError("folio recalculation", errors.New("audit store offline"))
	suite.totalsService.On("Recalculate", mock.Anything, folio.FolioID, suite.actorID).Return(folio, warning).Once()

	w := suite.do(http.MethodPost, "/folios/"+folio.FolioID+"/recalculate", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var body mutation[dto.FolioResponse]
	suite.decode(w, &body)
	suite.Equal(folio.FolioID, body.Data.FolioID)
	suite.Require().Len(body.Warnings, 1)
	suite.Contains(body.Warnings[0], "audit log entry could not be written")
}

func (suite *LedgerHandlerTestSuite) TestVerifyFolio_ReportsDiscrepancies() {
	folioID := uuid.NewString()
	verification := &domain.FolioVerification{
		FolioID:         folioID,
		StoredBalance:   decimal.NewFromInt(100),
		ComputedBalance: decimal.NewFromInt(80),
	}
	suite.totalsService.On("VerifyFolio", mock.Anything, folioID).Return(verification, nil).Once()

	w := suite.do(http.MethodGet, "/folios/"+folioID+"/verify", nil)

	suite.Equal(http.StatusOK, w.Code)
	var body domain.FolioVerification
	suite.decode(w, &body)
	suite.False(body.BalanceMatches)
	suite.True(body.ComputedBalance.Equal(decimal.NewFromInt(80)))
}
