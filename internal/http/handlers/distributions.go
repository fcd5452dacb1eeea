package handlers

import (
	"net/http"

	"planillabus/internal/domain/models"
	"planillabus/internal/repositories"

	"github.com/gin-gonic/gin"
)

func (h Handlers) ListDistributions(c *gin.Context) {
	h.respondDistributions(c, repositories.DistributionFilter{})
}

func (h Handlers) DistributionsByAssignment(c *gin.Context) {
	id, ok := queryID(c, "planilla_bus_id")
	if !ok {
		return
	}
	h.respondDistributions(c, repositories.DistributionFilter{BusAssignmentID: id})
}

func (h Handlers) DistributionsByOwner(c *gin.Context) {
	id, ok := queryID(c, "propietario_id")
	if !ok {
		return
	}
	h.respondDistributions(c, repositories.DistributionFilter{OwnerID: id})
}

func (h Handlers) respondDistributions(c *gin.Context, f repositories.DistributionFilter) {
	list, err := h.distributionService(c).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/planillas/planillas-distribuciones/resumen[?planilla_bus_id=]
func (h Handlers) DistributionSummary(c *gin.Context) {
	var f repositories.DistributionFilter
	if c.Query("planilla_bus_id") != "" {
		id, ok := queryID(c, "planilla_bus_id")
		if !ok {
			return
		}
		f.BusAssignmentID = id
	}
	entries, sum, err := h.distributionService(c).Summary(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"distribuciones": entries, "resumen": sum})
}

// GET /api/planillas/planillas-distribuciones/reporte/:id (id of the bus assignment)
func (h Handlers) DistributionReportPDF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	data, filename, err := h.docsService(c).GenerateDistributionReport(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendPDF(c, data, filename)
}

func (h Handlers) GetDistribution(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.distributionService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h Handlers) CreateDistribution(c *gin.Context) {
	var in models.DistributionEntry
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.distributionService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) UpdateDistribution(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.DistributionEntry
	if !BindJSONOrError(c, &in) {
		return
	}
	in.ID = id
	out, err := h.distributionService(c).Update(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) DeleteDistribution(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.distributionService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
