package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/folio_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/folio_ledger/internal/core/ports/services"
	"github.com/SscSPs/folio_ledger/internal/dto"
	"github.com/SscSPs/folio_ledger/internal/handlers"
	"github.com/SscSPs/folio_ledger/internal/jobs"
	"github.com/stretchr/testify/mock"
)

// --- Mock FolioService ---
type MockFolioService struct {
	mock.Mock
}

func (m *MockFolioService) GetFolio(ctx context.Context, folioID string) (*domain.Folio, error) {
	args := m.Called(ctx, folioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Folio), args.Error(1)
}
func (m *MockFolioService) ListFolios(ctx context.Context, propertyID string, params dto.ListFoliosParams) (*dto.ListFoliosResponse, error) {
	args := m.Called(ctx, propertyID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListFoliosResponse), args.Error(1)
}
func (m *MockFolioService) GetOrCreateFolio(ctx context.Context, req dto.GetOrCreateFolioRequest, actorID string) (*domain.Folio, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Folio), args.Error(1)
}
func (m *MockFolioService) CloseFolio(ctx context.Context, folioID string, actorID string) (*domain.Folio, error) {
	args := m.Called(ctx, folioID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Folio), args.Error(1)
}
func (m *MockFolioService) RecordPrint(ctx context.Context, folioID string, actorID string) (*domain.Folio, error) {
	args := m.Called(ctx, folioID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Folio), args.Error(1)
}

var _ portssvc.FolioSvcFacade = (*MockFolioService)(nil)

// --- Mock TotalsService ---
type MockTotalsService struct {
	mock.Mock
}

func (m *MockTotalsService) Recalculate(ctx context.Context, folioID string, actorID string) (*domain.Folio, error) {
	args := m.Called(ctx, folioID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Folio), args.Error(1)
}
func (m *MockTotalsService) VerifyFolio(ctx context.Context, folioID string) (*domain.FolioVerification, error) {
	args := m.Called(ctx, folioID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioVerification), args.Error(1)
}

var _ portssvc.TotalsSvcFacade = (*MockTotalsService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.FolioTransaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioTransaction), args.Error(1)
}
func (m *MockTransactionService) ListFolioTransactions(ctx context.Context, folioID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, folioID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}
func (m *MockTransactionService) ListPendingTransactions(ctx context.Context, propertyID string, businessDate time.Time) ([]domain.FolioTransaction, error) {
	args := m.Called(ctx, propertyID, businessDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FolioTransaction), args.Error(1)
}
func (m *MockTransactionService) PostTransaction(ctx context.Context, folioID string, req dto.PostTransactionRequest, actorID string) (*domain.FolioTransaction, error) {
	args := m.Called(ctx, folioID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioTransaction), args.Error(1)
}
func (m *MockTransactionService) PostPendingTransaction(ctx context.Context, transactionID string, req dto.PostPendingRequest, actorID string) (*domain.FolioTransaction, error) {
	args := m.Called(ctx, transactionID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioTransaction), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock AssignmentService ---
type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) AssignSingle(ctx context.Context, paymentTransactionID string, req dto.AssignSingleRequest, actorID string) (*domain.FolioTransaction, error) {
	args := m.Called(ctx, paymentTransactionID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioTransaction), args.Error(1)
}
func (m *MockAssignmentService) AssignBulk(ctx context.Context, req dto.AssignBulkRequest, actorID string) ([]domain.FolioTransaction, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FolioTransaction), args.Error(1)
}

var _ portssvc.AssignmentSvcFacade = (*MockAssignmentService)(nil)

// --- Mock VoidService ---
type MockVoidService struct {
	mock.Mock
}

func (m *MockVoidService) VoidPayment(ctx context.Context, transactionID string, req dto.VoidPaymentRequest, actorID string) (*domain.VoidResult, error) {
	args := m.Called(ctx, transactionID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VoidResult), args.Error(1)
}

var _ portssvc.VoidSvcFacade = (*MockVoidService)(nil)

// --- Mock CompanyBillingService ---
type MockCompanyBillingService struct {
	mock.Mock
}

func (m *MockCompanyBillingService) PostCompanyPayment(ctx context.Context, companyID string, req dto.CompanyPaymentRequest, actorID string) (*domain.FolioTransaction, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FolioTransaction), args.Error(1)
}
func (m *MockCompanyBillingService) PostCompanyPaymentWithAssignment(ctx context.Context, companyID string, req dto.CompanyPaymentWithAssignmentRequest, actorID string) (*portssvc.CompanyPaymentAllocation, error) {
	args := m.Called(ctx, companyID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portssvc.CompanyPaymentAllocation), args.Error(1)
}

var _ portssvc.CompanyBillingSvcFacade = (*MockCompanyBillingService)(nil)

// --- Mock NightAuditService ---
type MockNightAuditService struct {
	mock.Mock
}

func (m *MockNightAuditService) RunNightAudit(ctx context.Context, propertyID string, businessDate time.Time, actorID string) (*domain.NightAuditResult, error) {
	args := m.Called(ctx, propertyID, businessDate, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NightAuditResult), args.Error(1)
}
func (m *MockNightAuditService) VerifyProperty(ctx context.Context, propertyID string) ([]domain.FolioVerification, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FolioVerification), args.Error(1)
}

var _ portssvc.NightAuditSvc = (*MockNightAuditService)(nil)

// --- Mock JobEnqueuer ---
type MockJobEnqueuer struct {
	mock.Mock
}

func (m *MockJobEnqueuer) EnqueueNightAudit(ctx context.Context, payload jobs.NightAuditPayload) (string, error) {
	args := m.Called(ctx, payload)
	return args.String(0), args.Error(1)
}
func (m *MockJobEnqueuer) EnqueueIntegrityCheck(ctx context.Context, propertyID string) (string, error) {
	args := m.Called(ctx, propertyID)
	return args.String(0), args.Error(1)
}

var _ handlers.JobEnqueuer = (*MockJobEnqueuer)(nil)
