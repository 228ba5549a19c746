package handlers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/core/domain"
	"github.com/SscSPs/folio_ledger/internal/handlers"
	"github.com/SscSPs/folio_ledger/internal/jobs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *LedgerHandlerTestSuite) TestRunNightAudit_Inline() {
	businessDate := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	suite.nightAuditService.On("RunNightAudit", mock.Anything, "H001",
		mock.MatchedBy(func(d time.Time) bool { return d.Equal(businessDate) }),
		suite.actorID,
	).Return(&domain.NightAuditResult{PropertyID: "H001", BusinessDate: businessDate, PostedCount: 3, FoliosTouched: 2}, nil).Once()

	w := suite.do(http.MethodPost, "/properties/H001/night-audit?businessDate=2026-10-14", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var body domain.NightAuditResult
	suite.decode(w, &body)
	suite.Equal(3, body.PostedCount)
	suite.Equal(2, body.FoliosTouched)
}

func (suite *LedgerHandlerTestSuite) TestRunNightAudit_RejectsBadDate() {
	w := suite.do(http.MethodPost, "/properties/H001/night-audit?businessDate=yesterday", nil)

	suite.assertError(w, http.StatusBadRequest, "VALIDATION_ERROR")
	suite.nightAuditService.AssertNotCalled(suite.T(), "RunNightAudit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestRunNightAudit_Enqueued() {
	enqueuer := new(MockJobEnqueuer)
	router := suite.newRouter(nil, enqueuer)
	enqueuer.On("EnqueueNightAudit", mock.Anything, jobs.NightAuditPayload{
		PropertyID:   "H001",
		BusinessDate: "2026-10-14",
		ActorID:      suite.actorID,
	}).Return("folio:night_audit:H001:2026-10-14", nil).Once()

	w := suite.serve(router, http.MethodPost, "/properties/H001/night-audit?businessDate=2026-10-14", nil)

	suite.Equal(http.StatusAccepted, w.Code, w.Body.String())
	var body handlers.JobAcceptedResponse
	suite.decode(w, &body)
	suite.Equal("folio:night_audit:H001:2026-10-14", body.TaskID)
	enqueuer.AssertExpectations(suite.T())
	suite.nightAuditService.AssertNotCalled(suite.T(), "RunNightAudit", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestRunNightAudit_AlreadyQueued() {
	enqueuer := new(MockJobEnqueuer)
	router := suite.newRouter(nil, enqueuer)
	enqueuer.On("EnqueueNightAudit", mock.Anything, mock.Anything).
		Return("", fmt.Errorf("%w: night audit for H001 already queued", apperrors.ErrDuplicate)).Once()

	w := suite.serve(router, http.MethodPost, "/properties/H001/night-audit", nil)

	suite.assertError(w, http.StatusConflict, "DUPLICATE")
}

func (suite *LedgerHandlerTestSuite) TestRunIntegrityCheck_Inline() {
	verifications := []domain.FolioVerification{
		{FolioID: "F-1", StoredBalance: decimal.NewFromInt(10), ComputedBalance: decimal.NewFromInt(10), BalanceMatches: true},
		{FolioID: "F-2", StoredBalance: decimal.NewFromInt(50), ComputedBalance: decimal.NewFromInt(20)},
	}
	suite.nightAuditService.On("VerifyProperty", mock.Anything, "H001").Return(verifications, nil).Once()

	w := suite.do(http.MethodPost, "/properties/H001/integrity-check", nil)

	suite.Equal(http.StatusOK, w.Code, w.Body.String())
	var body []domain.FolioVerification
	suite.decode(w, &body)
	suite.Require().Len(body, 2)
	suite.True(body[0].Consistent())
	suite.False(body[1].Consistent())
}

func (suite *LedgerHandlerTestSuite) TestRunIntegrityCheck_Enqueued() {
	enqueuer := new(MockJobEnqueuer)
	router := suite.newRouter(nil, enqueuer)
	enqueuer.On("EnqueueIntegrityCheck", mock.Anything, "H001").Return("task-7", nil).Once()

	w := suite.serve(router, http.MethodPost, "/properties/H001/integrity-check", nil)

	suite.Equal(http.StatusAccepted, w.Code)
	enqueuer.AssertExpectations(suite.T())
}
