package handlers

import (
	"net/http"
	"time"

	"planillabus/internal/domain/models"
	"planillabus/internal/repositories"

	"github.com/gin-gonic/gin"
)

func (h Handlers) ListBusAssignments(c *gin.Context) {
	h.respondAssignments(c, repositories.BusAssignmentFilter{})
}

func (h Handlers) BusAssignmentsByManifest(c *gin.Context) {
	id, ok := queryID(c, "planilla_id")
	if !ok {
		return
	}
	h.respondAssignments(c, repositories.BusAssignmentFilter{ManifestID: id})
}

func (h Handlers) BusAssignmentsByBus(c *gin.Context) {
	id, ok := queryID(c, "bus_id")
	if !ok {
		return
	}
	h.respondAssignments(c, repositories.BusAssignmentFilter{BusID: id})
}

func (h Handlers) BusAssignmentsByDriver(c *gin.Context) {
	id, ok := queryID(c, "conductor_id")
	if !ok {
		return
	}
	h.respondAssignments(c, repositories.BusAssignmentFilter{DriverID: id})
}

func (h Handlers) respondAssignments(c *gin.Context, f repositories.BusAssignmentFilter) {
	list, err := h.assignmentService(c).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h Handlers) GetBusAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	a, err := h.assignmentService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h Handlers) CreateBusAssignment(c *gin.Context) {
	var in models.BusAssignment
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.assignmentService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) UpdateBusAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.BusAssignment
	if !BindJSONOrError(c, &in) {
		return
	}
	in.ID = id
	out, err := h.assignmentService(c).Update(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type arrivalRequest struct {
	At *time.Time `json:"fecha_llegada"`
}

// POST /api/planillas/planillas-buses/:id/registrar_llegada
// The body is optional; without fecha_llegada the arrival is "now".
func (h Handlers) RegisterBusArrival(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req arrivalRequest
	if c.Request.ContentLength > 0 && !BindJSONOrError(c, &req) {
		return
	}
	var at time.Time
	if req.At != nil {
		at = *req.At
	}
	a, err := h.assignmentService(c).RegisterArrival(c.Request.Context(), id, at)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h Handlers) DeleteBusAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.assignmentService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
