package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/folio_ledger/internal/core/ports/services"
	"github.com/SscSPs/folio_ledger/internal/dto"
	"github.com/SscSPs/folio_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type companyBillingHandler struct {
	companyBillingService portssvc.CompanyBillingSvcFacade
}

// RegisterCompanyBillingRoutes registers city-ledger payment routes.
func RegisterCompanyBillingRoutes(rg *gin.RouterGroup, companyBillingService portssvc.CompanyBillingSvcFacade, postingLimit gin.HandlerFunc) {
	h := &companyBillingHandler{companyBillingService: companyBillingService}

	companies := rg.Group("/companies/:companyID")
	{
		companies.POST("/payments", postingLimit, h.postCompanyPayment)
		companies.POST("/payments/assigned", postingLimit, h.postCompanyPaymentWithAssignment)
	}
}

// postCompanyPayment godoc
// @Summary Post a company payment
// @Description Posts a payment to the company's open folio, provisioning the folio when missing.
// @Tags company-billing
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   payment body dto.CompanyPaymentRequest true "Payment details"
// @Success 201 {object} dto.MutationResponse{data=dto.TransactionResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Company not found"
// @Security BearerAuth
// @Router /companies/{companyID}/payments [post]
func (h *companyBillingHandler) postCompanyPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("companyID")))
	var req dto.CompanyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	payment, err := h.companyBillingService.PostCompanyPayment(c.Request.Context(), c.Param("companyID"), req, actorID)
	if failed(err) {
		respondError(c, logger, err, "Failed to post company payment")
		return
	}
	logger.Info("Company payment posted", slog.String("transaction_id", payment.TransactionID), slog.String("folio_id", payment.FolioID))
	respondMutation(c, logger, http.StatusCreated, dto.ToTransactionResponse(payment), err)
}

// postCompanyPaymentWithAssignment godoc
// @Summary Post a company payment and distribute it
// @Description Posts the payment and applies the mappings in one unit of work; nothing is kept if any mapping fails.
// @Tags company-billing
// @Accept  json
// @Produce  json
// @Param   companyID path string true "Company ID"
// @Param   payment body dto.CompanyPaymentWithAssignmentRequest true "Payment and mappings"
// @Success 201 {object} dto.MutationResponse{data=dto.CompanyPaymentAllocationResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "INSUFFICIENT_UNASSIGNED_AMOUNT"
// @Security BearerAuth
// @Router /companies/{companyID}/payments/assigned [post]
func (h *companyBillingHandler) postCompanyPaymentWithAssignment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("company_id", c.Param("companyID")))
	var req dto.CompanyPaymentWithAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	allocation, err := h.companyBillingService.PostCompanyPaymentWithAssignment(c.Request.Context(), c.Param("companyID"), req, actorID)
	if failed(err) {
		respondError(c, logger, err, "Failed to post company payment")
		return
	}
	logger.Info("Company payment posted and assigned",
		slog.String("transaction_id", allocation.Payment.TransactionID),
		slog.Int("targets", len(allocation.Targets)),
	)
	respondMutation(c, logger, http.StatusCreated, dto.CompanyPaymentAllocationResponse{
		Payment: dto.ToTransactionResponse(&allocation.Payment),
		Targets: dto.ToTransactionResponses(allocation.Targets),
	}, err)
}
