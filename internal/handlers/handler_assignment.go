package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/folio_ledger/internal/core/ports/services"
	"github.com/SscSPs/folio_ledger/internal/dto"
	"github.com/SscSPs/folio_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// assignmentHandler handles payment allocation and voids.
type assignmentHandler struct {
	assignmentService portssvc.AssignmentSvcFacade
	voidService       portssvc.VoidSvcFacade
}

// RegisterAssignmentRoutes registers assignment and void routes.
func RegisterAssignmentRoutes(rg *gin.RouterGroup, assignmentService portssvc.AssignmentSvcFacade, voidService portssvc.VoidSvcFacade, postingLimit gin.HandlerFunc) {
	h := &assignmentHandler{assignmentService: assignmentService, voidService: voidService}

	rg.POST("/transactions/:transactionID/assign", postingLimit, h.assignSingle)
	rg.POST("/transactions/:transactionID/void", postingLimit, h.voidPayment)
	rg.POST("/assignments/bulk", postingLimit, h.assignBulk)
}

// assignSingle godoc
// @Summary Assign part of a payment
// @Description Adds the amount to the payment's assigned counter.
// @Tags assignments
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Payment transaction ID"
// @Param   request body dto.AssignSingleRequest true "Amount to assign"
// @Success 200 {object} dto.MutationResponse{data=dto.TransactionResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "INSUFFICIENT_UNASSIGNED_AMOUNT or NOT_ASSIGNABLE"
// @Security BearerAuth
// @Router /transactions/{transactionID}/assign [post]
func (h *assignmentHandler) assignSingle(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", c.Param("transactionID")))
	transactionID, ok := pathUUID(c, logger, "transactionID")
	if !ok {
		return
	}
	var req dto.AssignSingleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	txn, err := h.assignmentService.AssignSingle(c.Request.Context(), transactionID, req, actorID)
	if failed(err) {
		respondError(c, logger, err, "Failed to assign payment")
		return
	}
	logger.Info("Payment assigned", slog.String("assigned", txn.AssignedAmount.String()))
	respondMutation(c, logger, http.StatusOK, dto.ToTransactionResponse(txn), err)
}

// assignBulk godoc
// @Summary Set the assigned amount of several transactions
// @Description Each mapping sets an absolute assigned amount. All mappings apply or none do.
// @Tags assignments
// @Accept  json
// @Produce  json
// @Param   request body dto.AssignBulkRequest true "Target mappings"
// @Success 200 {object} dto.MutationResponse{data=[]dto.TransactionResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /assignments/bulk [post]
func (h *assignmentHandler) assignBulk(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AssignBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	targets, err := h.assignmentService.AssignBulk(c.Request.Context(), req, actorID)
	if failed(err) {
		respondError(c, logger, err, "Failed to apply assignments")
		return
	}
	logger.Info("Bulk assignment applied", slog.Int("targets", len(targets)))
	respondMutation(c, logger, http.StatusOK, dto.ToTransactionResponses(targets), err)
}

// voidPayment godoc
// @Summary Void a payment
// @Description Marks the payment voided, repairs later balance snapshots and releases its allocations.
// @Tags assignments
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Payment transaction ID"
// @Param   request body dto.VoidPaymentRequest true "Void reason"
// @Success 200 {object} dto.MutationResponse{data=dto.VoidPaymentResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "ALREADY_VOIDED or NOT_VOIDABLE"
// @Security BearerAuth
// @Router /transactions/{transactionID}/void [post]
func (h *assignmentHandler) voidPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", c.Param("transactionID")))
	transactionID, ok := pathUUID(c, logger, "transactionID")
	if !ok {
		return
	}
	var req dto.VoidPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	result, err := h.voidService.VoidPayment(c.Request.Context(), transactionID, req, actorID)
	if failed(err) {
		respondError(c, logger, err, "Failed to void payment")
		return
	}
	logger.Info("Payment voided", slog.Int("repaired", result.RepairedCount), slog.Int("released", len(result.ReleasedTargets)))
	respondMutation(c, logger, http.StatusOK, dto.ToVoidPaymentResponse(result), err)
}
