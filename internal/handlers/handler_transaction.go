package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/folio_ledger/internal/core/ports/services"
	"github.com/SscSPs/folio_ledger/internal/dto"
	"github.com/SscSPs/folio_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

const businessDateLayout = "2006-01-02"

// transactionHandler handles HTTP requests related to folio transactions.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
}

// RegisterTransactionRoutes registers posting and statement routes. postingLimit
// guards the routes that write money.
func RegisterTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionSvcFacade, postingLimit gin.HandlerFunc) {
	h := &transactionHandler{transactionService: transactionService}

	rg.POST("/folios/:folioID/transactions", postingLimit, h.postTransaction)
	rg.GET("/folios/:folioID/transactions", h.listFolioTransactions)
	rg.GET("/transactions/:transactionID", h.getTransaction)
	rg.POST("/transactions/:transactionID/post", postingLimit, h.postPendingTransaction)
	rg.GET("/properties/:propertyID/pending-transactions", h.listPendingTransactions)
}

// postTransaction godoc
// @Summary Post a transaction to a folio
// @Description Records a charge, payment, adjustment, discount, tax or refund and updates the folio totals in one unit of work.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   folioID path string true "Folio ID"
// @Param   transaction body dto.PostTransactionRequest true "Transaction details"
// @Success 201 {object} dto.MutationResponse{data=dto.TransactionResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Folio not open or concurrent modification"
// @Failure 429 {object} map[string]string "Too many requests"
// @Security BearerAuth
// @Router /folios/{folioID}/transactions [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("folio_id", c.Param("folioID")))
	folioID, ok := pathUUID(c, logger, "folioID")
	if !ok {
		return
	}
	var req dto.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	txn, err := h.transactionService.PostTransaction(c.Request.Context(), folioID, req, actorID)
	if failed(err) {
		respondError(c, logger, err, "Failed to post transaction")
		return
	}
	logger.Info("Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.Int64("transaction_number", txn.TransactionNumber),
		slog.String("type", string(txn.TransactionType)),
	)
	respondMutation(c, logger, http.StatusCreated, dto.ToTransactionResponse(txn), err)
}

// listFolioTransactions godoc
// @Summary List the statement of a folio
// @Tags transactions
// @Produce  json
// @Param   folioID path string true "Folio ID"
// @Param   includeVoided query bool false "Include voided transactions"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /folios/{folioID}/transactions [get]
func (h *transactionHandler) listFolioTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("folio_id", c.Param("folioID")))
	folioID, ok := pathUUID(c, logger, "folioID")
	if !ok {
		return
	}
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}
	resp, err := h.transactionService.ListFolioTransactions(c.Request.Context(), folioID, params)
	if err != nil {
		respondError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", c.Param("transactionID")))
	transactionID, ok := pathUUID(c, logger, "transactionID")
	if !ok {
		return
	}
	txn, err := h.transactionService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// postPendingTransaction godoc
// @Summary Confirm a pending transaction
// @Description Moves a PENDING transaction to POSTED, optionally with a revised amount. Later balance snapshots are repaired.
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Param   request body dto.PostPendingRequest false "Optional revised amount"
// @Success 200 {object} dto.MutationResponse{data=dto.TransactionResponse}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Not pending or folio not open"
// @Security BearerAuth
// @Router /transactions/{transactionID}/post [post]
func (h *transactionHandler) postPendingTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("transaction_id", c.Param("transactionID")))
	transactionID, ok := pathUUID(c, logger, "transactionID")
	if !ok {
		return
	}
	var req dto.PostPendingRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, logger, err)
			return
		}
	}
	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	txn, err := h.transactionService.PostPendingTransaction(c.Request.Context(), transactionID, req, actorID)
	if failed(err) {
		respondError(c, logger, err, "Failed to post pending transaction")
		return
	}
	respondMutation(c, logger, http.StatusOK, dto.ToTransactionResponse(txn), err)
}

// listPendingTransactions godoc
// @Summary List pending transactions due by a business date
// @Tags transactions
// @Produce  json
// @Param   propertyID path string true "Property ID"
// @Param   businessDate query string true "Business date (YYYY-MM-DD)"
// @Success 200 {array} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /properties/{propertyID}/pending-transactions [get]
func (h *transactionHandler) listPendingTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("property_id", c.Param("propertyID")))
	businessDate, err := time.Parse(businessDateLayout, c.Query("businessDate"))
	if err != nil {
		respondBindError(c, logger, err)
		return
	}
	txns, err := h.transactionService.ListPendingTransactions(c.Request.Context(), c.Param("propertyID"), businessDate)
	if err != nil {
		respondError(c, logger, err, "Failed to list pending transactions")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponses(txns))
}
