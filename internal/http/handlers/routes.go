package handlers

import (
	"net/http"

	"planillabus/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/rutas/rutas?activo=true
func (h Handlers) ListRoutes(c *gin.Context) {
	list, err := h.routeService(c).List(c.Request.Context(), queryBool(c, "activo"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h Handlers) GetRoute(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	r, err := h.routeService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h Handlers) CreateRoute(c *gin.Context) {
	var in models.Route
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.routeService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) UpdateRoute(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.Route
	if !BindJSONOrError(c, &in) {
		return
	}
	in.ID = id
	out, err := h.routeService(c).Update(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) DeleteRoute(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.routeService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
