package handlers

import (
	"net/http"

	"planillabus/internal/domain"
	"planillabus/internal/ticketform"

	"github.com/gin-gonic/gin"
)

type formRequest struct {
	State *ticketform.State `json:"estado"`
	Event ticketform.Event  `json:"evento"`
}

type formResponse struct {
	State     ticketform.State `json:"estado"`
	CanSubmit bool             `json:"puede_enviar"`
}

// GET /api/tiquetes/formulario/referencias
func (h Handlers) TicketFormReferences(c *gin.Context) {
	refs, err := h.ticketFormService(c).References(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, refs)
}

// POST /api/tiquetes/formulario
// Applies one event to the posted form state. Without "estado" a fresh
// form is used. Clients with overlapping requests keep only the response whose
// "generacion" matches their latest manifest selection.
func (h Handlers) ApplyTicketForm(c *gin.Context) {
	var req formRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	st := ticketform.New()
	if req.State != nil {
		st = *req.State
	}
	next, err := h.ticketFormService(c).Apply(c.Request.Context(), st, req.Event)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, formResponse{State: next, CanSubmit: next.CanSubmit()})
}

// POST /api/tiquetes/formulario/enviar
// Turns a completed form into a ticket. The manifest gate is checked again
// against current data.
func (h Handlers) SubmitTicketForm(c *gin.Context) {
	var req formRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.State == nil {
		respondError(c, http.StatusBadRequest, "validation_error", "estado requerido", nil)
		return
	}
	t, err := req.State.Ticket()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out, err := h.ticketService(c).Create(c.Request.Context(), t)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

type sessionResponse struct {
	ID string `json:"id"`
	formResponse
}

func (h Handlers) formSession(c *gin.Context) (*ticketform.Session, bool) {
	if h.Forms == nil {
		RespondDomainError(c, domain.UnavailableError{Resource: "formularios"})
		return nil, false
	}
	s, ok := h.Forms.Get(c.Param("sid"))
	if !ok {
		RespondDomainError(c, domain.NotFoundError{Resource: "formulario"})
		return nil, false
	}
	return s, true
}

// POST /api/tiquetes/formulario/sesiones
// Opens a form kept on the server. Manifest selections made through it follow
// the last selection wins rule even when requests overlap.
func (h Handlers) OpenTicketFormSession(c *gin.Context) {
	if h.Forms == nil {
		RespondDomainError(c, domain.UnavailableError{Resource: "formularios"})
		return
	}
	s := ticketform.NewSession(h.refs(), h.Clock)
	s.Resolver = h.Resolver
	id := h.Forms.Open(s)
	st := s.State()
	c.JSON(http.StatusCreated, sessionResponse{ID: id, formResponse: formResponse{State: st, CanSubmit: st.CanSubmit()}})
}

// GET /api/tiquetes/formulario/sesiones/:sid
func (h Handlers) GetTicketFormSession(c *gin.Context) {
	s, ok := h.formSession(c)
	if !ok {
		return
	}
	st := s.State()
	c.JSON(http.StatusOK, sessionResponse{ID: c.Param("sid"), formResponse: formResponse{State: st, CanSubmit: st.CanSubmit()}})
}

// POST /api/tiquetes/formulario/sesiones/:sid/eventos
func (h Handlers) DispatchTicketFormEvent(c *gin.Context) {
	s, ok := h.formSession(c)
	if !ok {
		return
	}
	var ev ticketform.Event
	if !BindJSONOrError(c, &ev) {
		return
	}
	st, err := s.Dispatch(c.Request.Context(), ev)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse{ID: c.Param("sid"), formResponse: formResponse{State: st, CanSubmit: st.CanSubmit()}})
}

// POST /api/tiquetes/formulario/sesiones/:sid/enviar
// Creates the ticket from the session's form and closes the session.
func (h Handlers) SubmitTicketFormSession(c *gin.Context) {
	s, ok := h.formSession(c)
	if !ok {
		return
	}
	st := s.State()
	t, err := st.Ticket()
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out, err := h.ticketService(c).Create(c.Request.Context(), t)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	h.Forms.Close(c.Param("sid"))
	c.JSON(http.StatusCreated, out)
}

// DELETE /api/tiquetes/formulario/sesiones/:sid
func (h Handlers) CloseTicketFormSession(c *gin.Context) {
	if h.Forms == nil || !h.Forms.Close(c.Param("sid")) {
		RespondDomainError(c, domain.NotFoundError{Resource: "formulario"})
		return
	}
	c.Status(http.StatusNoContent)
}
