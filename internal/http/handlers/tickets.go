package handlers

import (
	"net/http"

	"planillabus/internal/domain/models"
	"planillabus/internal/repositories"
	"planillabus/internal/services"

	"github.com/gin-gonic/gin"
)

func (h Handlers) ListTickets(c *gin.Context) {
	h.respondTickets(c, repositories.TicketFilter{})
}

// GET /api/tiquetes/tiquetes/por_planilla?planilla_id=
func (h Handlers) TicketsByManifest(c *gin.Context) {
	id, ok := queryID(c, "planilla_id")
	if !ok {
		return
	}
	h.respondTickets(c, repositories.TicketFilter{ManifestID: id})
}

// GET /api/tiquetes/tiquetes/por_vendedor?vendedor_id=
func (h Handlers) TicketsBySeller(c *gin.Context) {
	id, ok := queryID(c, "vendedor_id")
	if !ok {
		return
	}
	h.respondTickets(c, repositories.TicketFilter{SellerID: id})
}

func (h Handlers) TicketsByDate(c *gin.Context) {
	r, ok := dateRange(c, h.location())
	if !ok {
		return
	}
	h.respondTickets(c, repositories.TicketFilter{Created: r})
}

func (h Handlers) respondTickets(c *gin.Context, f repositories.TicketFilter) {
	list, err := h.ticketService(c).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/tiquetes/tiquetes/estadisticas[?planilla_id=]
func (h Handlers) TicketStats(c *gin.Context) {
	var f repositories.TicketFilter
	if c.Query("planilla_id") != "" {
		id, ok := queryID(c, "planilla_id")
		if !ok {
			return
		}
		f.ManifestID = id
	}
	stats, err := h.ticketService(c).Stats(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h Handlers) GetTicket(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	t, err := h.ticketService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h Handlers) CreateTicket(c *gin.Context) {
	var in models.Ticket
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := h.ticketService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h Handlers) UpdateTicket(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in models.Ticket
	if !BindJSONOrError(c, &in) {
		return
	}
	in.ID = id
	out, err := h.ticketService(c).Update(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h Handlers) DeleteTicket(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.ticketService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/tiquetes/tiquetes/cotizar
func (h Handlers) QuoteTicket(c *gin.Context) {
	var q services.QuoteRequest
	if !BindJSONOrError(c, &q) {
		return
	}
	st, err := h.ticketService(c).Quote(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, formResponse{State: st, CanSubmit: st.CanSubmit()})
}

// GET /api/tiquetes/tiquetes/:id/pdf
func (h Handlers) TicketPDF(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	data, filename, err := h.docsService(c).GenerateETicket(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	sendPDF(c, data, filename)
}

// GET /api/tiquetes/tiquetes/verificar?token=
func (h Handlers) VerifyTicket(c *gin.Context) {
	t, err := h.ticketService(c).Verify(c.Request.Context(), c.Query("token"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valido": true, "tiquete": t})
}
