package services

import (
	"context"
	"fmt"
	"time"

	"planillabus/internal/clock"
	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
	"planillabus/internal/gateway"
	"planillabus/internal/metrics"
	"planillabus/internal/repositories"
	"planillabus/internal/ticketform"
	"planillabus/internal/utils"
)

type TicketService struct {
	Tickets   repositories.TicketRepository
	Refs      gateway.ReferenceData
	Tokens    TicketTokens
	Clock     clock.Clock
	Resolver  domain.FareResolver
	RequestID string
}

func (s TicketService) refs() gateway.ReferenceData {
	if s.Refs != nil {
		return s.Refs
	}
	return gateway.Local{
		Profiles:  repositories.FareProfileRepository{DB: s.Tickets.DB},
		Manifests: repositories.ManifestRepository{DB: s.Tickets.DB},
	}
}

func (s TicketService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}

func (s TicketService) List(ctx context.Context, f repositories.TicketFilter) ([]models.Ticket, error) {
	return s.Tickets.List(ctx, f)
}

func (s TicketService) Get(ctx context.Context, id int64) (models.Ticket, error) {
	return s.Tickets.GetByID(ctx, id)
}

func (s TicketService) Stats(ctx context.Context, f repositories.TicketFilter) (models.TicketStats, error) {
	return s.Tickets.Stats(ctx, f)
}

// Create sells a ticket. The manifest must pass the availability gate at
// submission time, whatever the form showed earlier. An explicit fare profile
// must belong to the manifest's route; without one the profile applying now
// is resolved. The unit price is copied from the profile unless one was typed.
func (s TicketService) Create(ctx context.Context, in models.Ticket) (models.Ticket, error) {
	if err := validateTicket(in); err != nil {
		return models.Ticket{}, err
	}
	m, err := requireSellable(ctx, s.refs().Manifest, in.ManifestID)
	if err != nil {
		utils.LogError(s.RequestID, "ticket", "create", err)
		return models.Ticket{}, err
	}

	now := s.now()
	profiles, err := s.routeProfiles(ctx, m.RouteID)
	if err != nil {
		return models.Ticket{}, err
	}
	p, err := s.pickProfile(profiles, in.FareProfileID, now)
	if err != nil {
		return models.Ticket{}, err
	}
	in.FareProfileID = p.ID
	if in.UnitPrice <= 0 {
		in.UnitPrice = p.Price
	}

	in.Total = domain.TicketTotal(in.Seats, in.UnitPrice)
	in.CreatedAt = now
	out, err := s.Tickets.Create(ctx, in)
	if err != nil {
		return models.Ticket{}, err
	}
	metrics.TicketCreated()
	utils.LogEvent(s.RequestID, "ticket", "create",
		fmt.Sprintf("id=%d planilla=%d perfil=%d asientos=%d total=%s", out.ID, out.ManifestID, out.FareProfileID, out.Seats, utils.FormatPesos(out.Total)))
	return out, nil
}

// routeProfiles loads the candidates of a route. NotFound means none.
func (s TicketService) routeProfiles(ctx context.Context, routeID int64) ([]models.FareProfile, error) {
	profiles, err := s.refs().FareProfilesByRoute(ctx, routeID)
	if err != nil && !domain.IsNotFound(err) {
		return nil, domain.UnavailableError{Resource: "perfiles de ruta", Err: err}
	}
	return profiles, nil
}

// pickProfile resolves the profile applying at now, or checks that an
// explicit profileID belongs to the route's candidates.
func (s TicketService) pickProfile(profiles []models.FareProfile, profileID int64, now time.Time) (models.FareProfile, error) {
	if profileID > 0 {
		for _, p := range profiles {
			if p.ID == profileID {
				return p, nil
			}
		}
		return models.FareProfile{}, domain.ValidationError{Field: "id_perfil_ruta", Msg: "no pertenece a la ruta de la planilla"}
	}
	res := s.Resolver.ResolveAt(profiles, now)
	metrics.FareResolved(string(res.Reason))
	if !res.Matched() {
		msg := "ningún perfil de la ruta aplica en este momento"
		if res.Reason == domain.ResolveNoProfiles {
			msg = "la ruta no tiene perfiles configurados"
		}
		return models.FareProfile{}, domain.ValidationError{Field: "id_perfil_ruta", Msg: msg}
	}
	return *res.Profile, nil
}

// Update edits a sold ticket. The fare profile is not resolved again, but it
// must still belong to the route of the (possibly new) manifest. The total is
// recomputed from the stored or posted seats and unit price.
func (s TicketService) Update(ctx context.Context, in models.Ticket) (models.Ticket, error) {
	cur, err := s.Tickets.GetByID(ctx, in.ID)
	if err != nil {
		return models.Ticket{}, err
	}
	if in.ManifestID == 0 {
		in.ManifestID = cur.ManifestID
	}
	if in.FareProfileID == 0 {
		in.FareProfileID = cur.FareProfileID
	}
	if in.UnitPrice <= 0 {
		in.UnitPrice = cur.UnitPrice
	}
	if err := validateTicket(in); err != nil {
		return models.Ticket{}, err
	}
	m, err := requireSellable(ctx, s.refs().Manifest, in.ManifestID)
	if err != nil {
		return models.Ticket{}, err
	}
	profiles, err := s.routeProfiles(ctx, m.RouteID)
	if err != nil {
		return models.Ticket{}, err
	}
	if _, err := s.pickProfile(profiles, in.FareProfileID, s.now()); err != nil {
		return models.Ticket{}, err
	}
	in.Total = domain.TicketTotal(in.Seats, in.UnitPrice)
	in.CreatedAt = cur.CreatedAt
	if err := s.Tickets.Update(ctx, in); err != nil {
		return models.Ticket{}, err
	}
	utils.LogEvent(s.RequestID, "ticket", "update", fmt.Sprintf("id=%d total=%s", in.ID, utils.FormatPesos(in.Total)))
	return in, nil
}

func (s TicketService) Delete(ctx context.Context, id int64) error {
	if err := s.Tickets.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "ticket", "delete", fmt.Sprintf("id=%d", id))
	return nil
}

// QuoteRequest prices a sale without storing it. Seats and UnitPrice are raw
// form values; an empty UnitPrice keeps the resolved profile's price.
type QuoteRequest struct {
	ManifestID    int64  `json:"id_planilla"`
	FareProfileID int64  `json:"id_perfil_ruta"`
	Seats         string `json:"num_asientos"`
	UnitPrice     string `json:"valor_unitario"`
}

// Quote runs the same steps the ticket screen does and returns the form state.
func (s TicketService) Quote(ctx context.Context, q QuoteRequest) (ticketform.State, error) {
	st, err := ticketform.Apply(ctx, ticketform.New(),
		ticketform.Event{Type: ticketform.EventSelectManifest, ManifestID: q.ManifestID},
		s.refs(), s.now(), s.Resolver)
	if err != nil {
		return st, err
	}
	metrics.FareResolved(string(st.Resolution.Reason))
	if !st.Availability.Available {
		metrics.ManifestBlocked(st.Availability.Reason)
	}
	if q.FareProfileID > 0 {
		st = ticketform.PickProfile(st, q.FareProfileID)
	}
	if q.Seats != "" {
		st = ticketform.SetSeats(st, q.Seats)
	}
	if q.UnitPrice != "" {
		st = ticketform.SetUnitPrice(st, q.UnitPrice)
	}
	return st, nil
}

// Verify checks the code printed on an e-ticket against the stored ticket.
func (s TicketService) Verify(ctx context.Context, token string) (models.Ticket, error) {
	claims, err := s.Tokens.Verify(token)
	if err != nil {
		return models.Ticket{}, err
	}
	t, err := s.Tickets.GetByID(ctx, claims.TicketID)
	if err != nil {
		return models.Ticket{}, err
	}
	if t.ManifestID != claims.ManifestID || t.Seats != claims.Seats || t.Total != claims.Total {
		return models.Ticket{}, domain.ConflictError{Resource: "tiquete", Msg: "el tiquete fue modificado después de emitido"}
	}
	utils.LogEvent(s.RequestID, "ticket", "verify", fmt.Sprintf("id=%d", t.ID))
	return t, nil
}

func validateTicket(t models.Ticket) error {
	switch {
	case t.ManifestID <= 0:
		return domain.ValidationError{Field: "id_planilla", Msg: "requerido"}
	case t.Seats < 1:
		return domain.ValidationError{Field: "num_asientos", Msg: "debe ser un entero mayor o igual a 1"}
	case utils.NormalizeSpace(t.Name) == "":
		return domain.ValidationError{Field: "nombre", Msg: "requerido"}
	case utils.NormalizeSpace(t.DocumentNumber) == "":
		return domain.ValidationError{Field: "numero_documento", Msg: "requerido"}
	case t.UnitPrice < 0:
		return domain.ValidationError{Field: "valor_unitario", Msg: "no puede ser negativo"}
	}
	return nil
}
