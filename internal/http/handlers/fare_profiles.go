package handlers

import (
	"net/http"
	"strings"
	"time"

	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
	"planillabus/internal/utils"

	"github.com/gin-gonic/gin"
)

func (h Handlers) ListFareProfiles(c *gin.Context) {
	list, err := h.fareService(c).List(c.Request.Context(), queryBool(c, "activo"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/rutas/perfiles-rutas/por_ruta?ruta_id=
func (h Handlers) FareProfilesByRoute(c *gin.Context) {
	routeID, ok := queryID(c, "ruta_id")
	if !ok {
		return
	}
	list, err := h.fareService(c).ListByRoute(c.Request.Context(), routeID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/rutas/perfiles-rutas/resolve?ruta_id=&at=
// "at" is RFC3339 or "YYYY-MM-DD HH:MM" in the operator's zone; empty means now.
func (h Handlers) ResolveFareProfile(c *gin.Context) {
	routeID, ok := queryID(c, "ruta_id")
	if !ok {
		return
	}
	var at time.Time
	if raw := strings.TrimSpace(c.Query("at")); raw != "" {
		t, err := utils.ParseInstant(raw, h.location())
		if err != nil {
			RespondDomainError(c, domain.ValidationError{Field: "at", Msg: "use RFC3339 o YYYY-MM-DD HH:MM", Err: err})
			return
		}
		at = t.In(h.location())
	}
	res, err := h.fareService(c).ResolveForRoute(c.Request.Context(), routeID, at)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h Handlers) GetFareProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	p, err := h.fareService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h Handlers) CreateFareProfile(c *gin.Context) {
	var in models.FareProfile
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.fareService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) UpdateFareProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.FareProfile
	if !BindJSONOrError(c, &in) {
		return
	}
	in.ID = id
	out, err := h.fareService(c).Update(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) DeleteFareProfile(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.fareService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
