package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/folio_ledger/internal/apperrors"
	"github.com/SscSPs/folio_ledger/internal/dto"
	"github.com/SscSPs/folio_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// errorCodes maps ledger errors to stable machine-readable codes. More specific
// errors come first because the precondition errors all wrap ErrConflict.
var errorCodes = []struct {
	err  error
	code string
}{
	{apperrors.ErrInsufficientUnassignedAmount, "INSUFFICIENT_UNASSIGNED_AMOUNT"},
	{apperrors.ErrFolioNotOpen, "FOLIO_NOT_OPEN"},
	{apperrors.ErrAlreadyVoided, "ALREADY_VOIDED"},
	{apperrors.ErrNotVoidable, "NOT_VOIDABLE"},
	{apperrors.ErrNotAssignable, "NOT_ASSIGNABLE"},
	{apperrors.ErrNotPending, "NOT_PENDING"},
	{apperrors.ErrOutstandingBalance, "OUTSTANDING_BALANCE"},
	{apperrors.ErrConcurrency, "CONCURRENT_MODIFICATION"},
	{apperrors.ErrConflict, "CONFLICT"},
	{apperrors.ErrDuplicate, "DUPLICATE"},
	{apperrors.ErrValidation, "VALIDATION_ERROR"},
	{apperrors.ErrNotFound, "NOT_FOUND"},
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Retryable bool   `json:"retryable,omitempty"`
}

func errorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "INTERNAL_ERROR"
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConcurrency),
		errors.Is(err, apperrors.ErrConflict),
		errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the mapped status for a service error. Internal details are
// logged, never returned.
func respondError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	status := statusFor(err)
	body := ErrorResponse{Error: err.Error(), Code: errorCode(err)}
	switch {
	case status >= http.StatusInternalServerError:
		logger.Error(fallback, slog.String("error", err.Error()))
		body.Error = fallback
	case errors.Is(err, apperrors.ErrConcurrency):
		logger.Warn("Concurrent modification", slog.String("error", err.Error()))
		body.Retryable = true
	default:
		logger.Warn("Request rejected", slog.String("code", body.Code), slog.String("error", err.Error()))
	}
	c.JSON(status, body)
}

// respondBindError reports malformed JSON, query or path input.
func respondBindError(c *gin.Context, logger *slog.Logger, err error) {
	logger.Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error(), Code: "VALIDATION_ERROR"})
}

// pathUUID reads a UUID path parameter, writing 400 when it is malformed.
func pathUUID(c *gin.Context, logger *slog.Logger, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		logger.Warn("Invalid path ID", slog.String("param", name), slog.String("value", id))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name + ": must be a UUID", Code: "VALIDATION_ERROR"})
		return "", false
	}
	return id, true
}

// failed reports whether err should abort the request. An audit-log warning does
// not: the write committed and the result is valid.
func failed(err error) bool {
	return err != nil && !apperrors.IsAuditWarning(err)
}

// respondMutation writes the result of a committed write, carrying an audit-log
// warning in the warnings array.
func respondMutation(c *gin.Context, logger *slog.Logger, status int, data any, warning error) {
	resp := dto.MutationResponse{Data: data}
	if warning != nil {
		logger.Warn("Mutation committed without audit entry", slog.String("error", warning.Error()))
		resp.Warnings = []string{warning.Error()}
	}
	c.JSON(status, resp)
}

// requireActor returns the authenticated actor, writing 401 when absent.
func requireActor(c *gin.Context, logger *slog.Logger) (string, bool) {
	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		logger.Error("Actor ID not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized", Code: "UNAUTHORIZED"})
		return "", false
	}
	return actorID, true
}
