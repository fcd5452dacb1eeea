package handlers

import (
	"context"
	"net/http"

	"planillabus/internal/domain/models"
	"planillabus/internal/repositories"

	"github.com/gin-gonic/gin"
)

func (h Handlers) ListManifests(c *gin.Context) {
	var f repositories.ManifestFilter
	if c.Query("id_ruta") != "" {
		routeID, ok := queryID(c, "id_ruta")
		if !ok {
			return
		}
		f.RouteID = routeID
	}
	h.respondManifests(c, func(ctx context.Context) ([]models.Manifest, error) {
		return h.manifestService(c).List(ctx, f)
	})
}

func (h Handlers) OpenManifests(c *gin.Context) {
	h.respondManifests(c, h.manifestService(c).ListOpen)
}

func (h Handlers) ClosedManifests(c *gin.Context) {
	h.respondManifests(c, h.manifestService(c).ListClosed)
}

// GET /api/planillas/planillas/por_fecha?fecha_inicio=&fecha_fin=
func (h Handlers) ManifestsByDate(c *gin.Context) {
	r, ok := dateRange(c, h.location())
	if !ok {
		return
	}
	h.respondManifests(c, func(ctx context.Context) ([]models.Manifest, error) {
		return h.manifestService(c).ListByDate(ctx, r)
	})
}

func (h Handlers) respondManifests(c *gin.Context, load func(context.Context) ([]models.Manifest, error)) {
	list, err := load(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h Handlers) ManifestStats(c *gin.Context) {
	stats, err := h.manifestService(c).Stats(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h Handlers) GetManifest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := h.manifestService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// GET /api/planillas/planillas/:id/disponibilidad
func (h Handlers) ManifestAvailability(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	v, err := h.manifestService(c).Availability(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h Handlers) CreateManifest(c *gin.Context) {
	var in models.Manifest
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.manifestService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) UpdateManifest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.Manifest
	if !BindJSONOrError(c, &in) {
		return
	}
	in.ID = id
	out, err := h.manifestService(c).Update(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) DeleteManifest(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.manifestService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/planillas/planillas/:id/en_venta
func (h Handlers) StartManifestSale(c *gin.Context) {
	h.transitionManifest(c, models.ManifestOnSale)
}

// POST /api/planillas/planillas/:id/cerrar
func (h Handlers) CloseManifest(c *gin.Context) {
	h.transitionManifest(c, models.ManifestClosed)
}

// POST /api/planillas/planillas/:id/anular
func (h Handlers) VoidManifest(c *gin.Context) {
	h.transitionManifest(c, models.ManifestVoided)
}

func (h Handlers) transitionManifest(c *gin.Context, next models.ManifestStatus) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	m, err := h.manifestService(c).Transition(c.Request.Context(), id, next)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}
