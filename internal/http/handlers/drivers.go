package handlers

import (
	"net/http"

	"planillabus/internal/domain/models"

	"github.com/gin-gonic/gin"
)

// GET /api/buses/conductores?activo=true
func (h Handlers) ListDrivers(c *gin.Context) {
	list, err := h.driverService(c).List(c.Request.Context(), queryBool(c, "activo"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h Handlers) GetDriver(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.driverService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h Handlers) CreateDriver(c *gin.Context) {
	var in models.Driver
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.driverService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) UpdateDriver(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.Driver
	if !BindJSONOrError(c, &in) {
		return
	}
	in.ID = id
	out, err := h.driverService(c).Update(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) DeleteDriver(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.driverService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
