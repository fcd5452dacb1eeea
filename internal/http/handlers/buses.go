package handlers

import (
	"net/http"

	"planillabus/internal/domain/models"
	"planillabus/internal/repositories"

	"github.com/gin-gonic/gin"
)

// GET /api/buses/buses?q=ABC&activo=true
func (h Handlers) ListBuses(c *gin.Context) {
	f := repositories.BusFilter{Query: c.Query("q"), OnlyActive: queryBool(c, "activo")}
	list, err := h.busService(c).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h Handlers) GetBus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.busService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h Handlers) CreateBus(c *gin.Context) {
	var in models.Bus
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.busService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) UpdateBus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.Bus
	if !BindJSONOrError(c, &in) {
		return
	}
	in.ID = id
	out, err := h.busService(c).Update(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) DeleteBus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.busService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
