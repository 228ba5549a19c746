package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/folio_ledger/internal/core/ports/services"
	"github.com/SscSPs/folio_ledger/internal/jobs"
	"github.com/SscSPs/folio_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// JobEnqueuer hands long-running property work to the background worker.
type JobEnqueuer interface {
	EnqueueNightAudit(ctx context.Context, payload jobs.NightAuditPayload) (string, error)
	EnqueueIntegrityCheck(ctx context.Context, propertyID string) (string, error)
}

// JobAcceptedResponse is returned when work was queued.
type JobAcceptedResponse struct {
	TaskID string `json:"taskID"`
}

type nightAuditHandler struct {
	nightAuditService portssvc.NightAuditSvc
	enqueuer          JobEnqueuer
}

// RegisterNightAuditRoutes registers the night-audit and integrity-check triggers.
// With a nil enqueuer both run inline on the request.
func RegisterNightAuditRoutes(rg *gin.RouterGroup, nightAuditService portssvc.NightAuditSvc, enqueuer JobEnqueuer) {
	h := &nightAuditHandler{nightAuditService: nightAuditService, enqueuer: enqueuer}

	properties := rg.Group("/properties/:propertyID")
	{
		properties.POST("/night-audit", h.runNightAudit)
		properties.POST("/integrity-check", h.runIntegrityCheck)
	}
}

// runNightAudit godoc
// @Summary Run the night audit of a property
// @Description Posts the PENDING transactions dated before the business date and recalculates the affected folios.
// @Tags night-audit
// @Produce  json
// @Param   propertyID path string true "Property ID"
// @Param   businessDate query string false "Business date (YYYY-MM-DD), defaults to yesterday"
// @Success 200 {object} domain.NightAuditResult
// @Success 202 {object} JobAcceptedResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Already queued"
// @Security BearerAuth
// @Router /properties/{propertyID}/night-audit [post]
func (h *nightAuditHandler) runNightAudit(c *gin.Context) {
	propertyID := c.Param("propertyID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("property_id", propertyID))
	actorID, ok := requireActor(c, logger)
	if !ok {
		return
	}

	raw := c.Query("businessDate")
	var businessDate time.Time
	if raw != "" {
		var err error
		if businessDate, err = time.Parse(businessDateLayout, raw); err != nil {
			respondBindError(c, logger, err)
			return
		}
	}

	if h.enqueuer != nil {
		taskID, err := h.enqueuer.EnqueueNightAudit(c.Request.Context(), jobs.NightAuditPayload{
			PropertyID:   propertyID,
			BusinessDate: raw,
			ActorID:      actorID,
		})
		if err != nil {
			respondError(c, logger, err, "Failed to queue night audit")
			return
		}
		logger.Info("Night audit queued", slog.String("task_id", taskID))
		c.JSON(http.StatusAccepted, JobAcceptedResponse{TaskID: taskID})
		return
	}

	if businessDate.IsZero() {
		businessDate = time.Now().UTC().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	}
	result, err := h.nightAuditService.RunNightAudit(c.Request.Context(), propertyID, businessDate, actorID)
	if err != nil {
		respondError(c, logger, err, "Failed to run night audit")
		return
	}
	c.JSON(http.StatusOK, result)
}

// runIntegrityCheck godoc
// @Summary Verify every open folio of a property
// @Tags night-audit
// @Produce  json
// @Param   propertyID path string true "Property ID"
// @Success 200 {array} domain.FolioVerification "One entry per open folio"
// @Success 202 {object} JobAcceptedResponse
// @Security BearerAuth
// @Router /properties/{propertyID}/integrity-check [post]
func (h *nightAuditHandler) runIntegrityCheck(c *gin.Context) {
	propertyID := c.Param("propertyID")
	logger := middleware.GetLoggerFromCtx(c.Request.Context()).With(slog.String("property_id", propertyID))

	if h.enqueuer != nil {
		taskID, err := h.enqueuer.EnqueueIntegrityCheck(c.Request.Context(), propertyID)
		if err != nil {
			respondError(c, logger, err, "Failed to queue integrity check")
			return
		}
		c.JSON(http.StatusAccepted, JobAcceptedResponse{TaskID: taskID})
		return
	}

	verifications, err := h.nightAuditService.VerifyProperty(c.Request.Context(), propertyID)
	if err != nil {
		respondError(c, logger, err, "Failed to verify property")
		return
	}
	c.JSON(http.StatusOK, verifications)
}
