package handlers

import (
	"errors"
	"net/http"

	"planillabus/internal/domain"
	"planillabus/internal/http/middleware"
	"planillabus/internal/utils"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads for new handlers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	resp := ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	}
	reqID := middleware.GetRequestID(c)
	if reqID != "" {
		c.JSON(status, gin.H{
			"error":      resp.Error,
			"code":       resp.Code,
			"details":    resp.Details,
			"request_id": reqID,
			"message":    message,
		})
		return
	}
	c.JSON(status, resp)
}

// RespondDomainError maps domain errors to HTTP responses. A blocked
// manifest is a refusal (422), not a server fault.
func RespondDomainError(c *gin.Context, err error) {
	var blocked domain.BlockedError
	switch {
	case errors.As(err, &blocked):
		respondError(c, http.StatusUnprocessableEntity, "manifest_blocked", err.Error(),
			gin.H{"id_planilla": blocked.ManifestID, "motivo": blocked.Reason})
	case domain.IsValidation(err):
		var ve domain.ValidationError
		errors.As(err, &ve)
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), gin.H{"campo": ve.Field})
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case domain.IsConflict(err):
		respondError(c, http.StatusConflict, "conflict", err.Error(), nil)
	case domain.IsUnavailable(err):
		utils.LogError(middleware.GetRequestID(c), "http", "unavailable", err)
		respondError(c, http.StatusServiceUnavailable, "data_unavailable", "datos de referencia no disponibles", nil)
	default:
		utils.LogError(middleware.GetRequestID(c), "http", "internal", err)
		respondError(c, http.StatusInternalServerError, "internal_error", "ocurrió un error interno", nil)
	}
}
