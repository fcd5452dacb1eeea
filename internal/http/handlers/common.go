package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"planillabus/internal/domain"
	"planillabus/internal/http/middleware"
	"planillabus/internal/utils"

	"github.com/gin-gonic/gin"
)

// RespondError sends standard error payload with request_id included.
// Keeps backward compatibility by always providing "message".
func RespondError(c *gin.Context, status int, message string, err error) {
	reqID := middleware.GetRequestID(c)
	payload := gin.H{
		"message":    message,
		"request_id": reqID,
	}
	if err != nil {
		payload["error"] = err.Error()
	}
	c.JSON(status, payload)
}

// BindJSONOrError ensures body is present and parsable.
func BindJSONOrError[T any](c *gin.Context, dst *T) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		RespondError(c, http.StatusBadRequest, "cuerpo vacío", nil)
		return false
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondError(c, http.StatusBadRequest, "payload inválido", err)
		return false
	}
	return true
}

// pathID reads the :id parameter, answering 400 when it is not a positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "invalid_id", "id inválido", nil)
		return 0, false
	}
	return id, true
}

// queryID reads a required positive integer query parameter.
func queryID(c *gin.Context, name string) (int64, bool) {
	raw := strings.TrimSpace(c.Query(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.ValidationError{Field: name, Msg: "debe ser un id válido"})
		return 0, false
	}
	return id, true
}

// queryBool treats "true", "1" and "si" as true; anything else is false.
func queryBool(c *gin.Context, name string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(name))) {
	case "true", "1", "si", "sí":
		return true
	}
	return false
}

// dateRange reads fecha_inicio/fecha_fin (YYYY-MM-DD) in loc. Both are
// required and fecha_fin may not precede fecha_inicio.
func dateRange(c *gin.Context, loc *time.Location) (domain.DateRange, bool) {
	var r domain.DateRange
	for _, f := range []struct {
		name string
		dst  *time.Time
	}{{"fecha_inicio", &r.From}, {"fecha_fin", &r.To}} {
		raw := strings.TrimSpace(c.Query(f.name))
		if raw == "" {
			RespondDomainError(c, domain.ValidationError{Field: f.name, Msg: "requerida"})
			return domain.DateRange{}, false
		}
		t, err := utils.ParseDate(raw, loc)
		if err != nil {
			RespondDomainError(c, domain.ValidationError{Field: f.name, Msg: "formato YYYY-MM-DD", Err: err})
			return domain.DateRange{}, false
		}
		*f.dst = t
	}
	if r.To.Before(r.From) {
		RespondDomainError(c, domain.ValidationError{Field: "fecha_fin", Msg: "anterior a fecha_inicio"})
		return domain.DateRange{}, false
	}
	return r, true
}

func sendPDF(c *gin.Context, data []byte, filename string) {
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
