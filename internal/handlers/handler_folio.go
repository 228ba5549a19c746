package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/folio_ledger/internal/core/ports/services"
	"github.com/SscSPs/folio_ledger/internal/dto"
	"github.com/SscSPs/folio_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// folioHandler handles HTTP requests related to folios.
type folioHandler struct {
	folioService  portssvc.FolioSvcFacade
	totalsService portssvc.TotalsSvcFacade
}

func newFolioHandler(fs portssvc.FolioSvcFacade, ts portssvc.TotalsSvcFacade) *folioHandler {
	return &folioHandler{folioService: fs, totalsService: ts}
}

// RegisterFolioRoutes registers folio lifecycle and totals routes.
func RegisterFolioRoutes(rg *gin.RouterGroup, folioService portssvc.FolioSvcFacade, totalsService portssvc.TotalsSvcFacade) {
	h := newFolioHandler(folioService, totalsService)

	folios := rg.Group("/folios")
	{
		folios.POST("", h.getOrCreateFolio)
		folios.GET("/:folioID", h.getFolio)
		folios.POST("/:folioID/close", h.closeFolio)
		folios.POST("/:folioID/print", h.recordPrint)
		folios.POST("/:folioID/recalculate", h.recalculate)
		folios.GET("/:folioID/verify", h.verifyFolio)
	}
	rg.GET("/properties/:propertyID/folios", h.listFolios)
}

// getOrCreateFolio godoc
// @Summary Get or create the open folio of a billing party
// @Description Returns the open folio of the guest or company at the property, provisioning one when none exists.
// @Tags folios
// @Accept  json
// @Produce  json
// @Param   folio body dto.GetOrCreateFolioRequest true "Billing party and property"
// @Success 200 {object} dto.MutationResponse{data=dto.FolioResponse}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Guest or company not found"
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /folios [post]
func (h *folioHandler) getOrCreateFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.GetOrCreateFolioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, logger, err)
		return
	}
	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	logger = logger.With(slog.String("property_id", req.PropertyID))
	folio, err := h.folioService.GetOrCreateFolio(c.Request.Context(), req, actorID)
	if failed(err) {
		respondError(c, logger, err, "Failed to provision folio")
		return
	}
	logger.Info("Folio resolved", slog.String("folio_id", folio.FolioID), slog.String("folio_number", folio.FolioNumber))
	respondMutation(c, logger, http.StatusOK, dto.ToFolioResponse(folio), err)
}

// getFolio godoc
// @Summary Get a folio by ID
// @Tags folios
// @Produce  json
// @Param   folioID path string true "Folio ID"
// @Success 200 {object} dto.FolioResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /folios/{folioID} [get]
func (h *folioHandler) getFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("folio_id", c.Param("folioID")))
	folioID, ok := pathUUID(c, logger, "folioID")
	if !ok {
		return
	}
	folio, err := h.folioService.GetFolio(c.Request.Context(), folioID)
	if err != nil {
		respondError(c, logger, err, "Failed to retrieve folio")
		return
	}
	c.JSON(http.StatusOK, dto.ToFolioResponse(folio))
}

// listFolios godoc
// @Summary List folios of a property
// @Tags folios
// @Produce  json
// @Param   propertyID path string true "Property ID"
// @Param   status query string false "OPEN or CLOSED"
// @Param   limit query int false "Page size" default(50)
// @Param   nextToken query string false "Cursor from the previous page"
// @Success 200 {object} dto.ListFoliosResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /properties/{propertyID}/folios [get]
func (h *folioHandler) listFolios(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListFoliosParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, logger, err)
		return
	}
	resp, err := h.folioService.ListFolios(c.Request.Context(), c.Param("propertyID"), params)
	if err != nil {
		respondError(c, logger, err, "Failed to list folios")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// closeFolio godoc
// @Summary Close a settled folio
// @Tags folios
// @Produce  json
// @Param   folioID path string true "Folio ID"
// @Success 200 {object} dto.MutationResponse{data=dto.FolioResponse}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Folio not open or balance outstanding"
// @Security BearerAuth
// @Router /folios/{folioID}/close [post]
func (h *folioHandler) closeFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("folio_id", c.Param("folioID")))
	folioID, ok := pathUUID(c, logger, "folioID")
	if !ok {
		return
	}
	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}
	folio, err := h.folioService.CloseFolio(c.Request.Context(), folioID, actorID)
	if failed(err) {
		respondError(c, logger, err, "Failed to close folio")
		return
	}
	logger.Info("Folio closed")
	respondMutation(c, logger, http.StatusOK, dto.ToFolioResponse(folio), err)
}

// recordPrint godoc
// @Summary Record that a folio was printed
// @Tags folios
// @Produce  json
// @Param   folioID path string true "Folio ID"
// @Success 200 {object} dto.MutationResponse{data=dto.FolioResponse}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /folios/{folioID}/print [post]
func (h *folioHandler) recordPrint(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("folio_id", c.Param("folioID")))
	folioID, ok := pathUUID(c, logger, "folioID")
	if !ok {
		return
	}
	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}
	folio, err := h.folioService.RecordPrint(c.Request.Context(), folioID, actorID)
	if failed(err) {
		respondError(c, logger, err, "Failed to record print")
		return
	}
	respondMutation(c, logger, http.StatusOK, dto.ToFolioResponse(folio), err)
}

// recalculate godoc
// @Summary Recompute folio totals from its transactions
// @Description Idempotent. Rewrites the stored totals and settlement status only when they drifted.
// @Tags folios
// @Produce  json
// @Param   folioID path string true "Folio ID"
// @Success 200 {object} dto.MutationResponse{data=dto.FolioResponse}
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /folios/{folioID}/recalculate [post]
func (h *folioHandler) recalculate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("folio_id", c.Param("folioID")))
	folioID, ok := pathUUID(c, logger, "folioID")
	if !ok {
		return
	}
	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}
	folio, err := h.totalsService.Recalculate(c.Request.Context(), folioID, actorID)
	if failed(err) {
		respondError(c, logger, err, "Failed to recalculate folio")
		return
	}
	respondMutation(c, logger, http.StatusOK, dto.ToFolioResponse(folio), err)
}

// verifyFolio godoc
// @Summary Check stored balances against the transaction history
// @Tags folios
// @Produce  json
// @Param   folioID path string true "Folio ID"
// @Success 200 {object} domain.FolioVerification
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /folios/{folioID}/verify [get]
func (h *folioHandler) verifyFolio(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("folio_id", c.Param("folioID")))
	folioID, ok := pathUUID(c, logger, "folioID")
	if !ok {
		return
	}
	verification, err := h.totalsService.VerifyFolio(c.Request.Context(), folioID)
	if err != nil {
		respondError(c, logger, err, "Failed to verify folio")
		return
	}
	c.JSON(http.StatusOK, verification)
}
