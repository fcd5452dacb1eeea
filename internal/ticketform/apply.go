package ticketform

import (
	"context"
	"time"

	"planillabus/internal/domain"
	"planillabus/internal/gateway"
)

type EventType string

const (
	EventSelectManifest EventType = "seleccionar_planilla"
	EventPickProfile    EventType = "elegir_perfil"
	EventSeats          EventType = "num_asientos"
	EventUnitPrice      EventType = "valor_unitario"
	EventPassenger      EventType = "pasajero"
)

// Event is one field change posted by the ticket screen.
type Event struct {
	Type       EventType  `json:"tipo"`
	ManifestID int64      `json:"id_planilla,omitempty"`
	ProfileID  int64      `json:"id_perfil_ruta,omitempty"`
	Value      string     `json:"valor,omitempty"`
	Passenger  *Passenger `json:"pasajero,omitempty"`
}

// Apply runs one event against s. Selecting a manifest fetches its reference
// data synchronously; a failed fetch is recorded on the state, not returned.
// Only unknown or incomplete events are errors.
func Apply(ctx context.Context, s State, ev Event, refs gateway.ReferenceData, now time.Time, resolver domain.FareResolver) (State, error) {
	switch ev.Type {
	case EventSelectManifest:
		gen := s.Generation + 1
		if ev.ManifestID == 0 {
			return ClearManifest(s, gen), nil
		}
		m, err := refs.Manifest(ctx, ev.ManifestID)
		if err != nil {
			if domain.IsNotFound(err) {
				return s, domain.ValidationError{Field: "id_planilla", Msg: "planilla no existe", Err: err}
			}
			return ProfilesFailed(Pending(s, ev.ManifestID, gen), gen, err), nil
		}
		s = SelectManifest(Pending(s, ev.ManifestID, gen), m, gen)
		profiles, err := refs.FareProfilesByRoute(ctx, m.RouteID)
		if err != nil {
			return ProfilesFailed(s, gen, err), nil
		}
		return ProfilesLoaded(s, gen, profiles, now, resolver), nil
	default:
		return applyField(s, ev)
	}
}

// applyField runs the events that only touch the form itself.
func applyField(s State, ev Event) (State, error) {
	switch ev.Type {
	case EventPickProfile:
		return PickProfile(s, ev.ProfileID), nil
	case EventSeats:
		return SetSeats(s, ev.Value), nil
	case EventUnitPrice:
		return SetUnitPrice(s, ev.Value), nil
	case EventPassenger:
		if ev.Passenger == nil {
			return s, domain.ValidationError{Field: "pasajero", Msg: "requerido"}
		}
		return SetPassenger(s, *ev.Passenger), nil
	default:
		return s, domain.ValidationError{Field: "tipo", Msg: "evento desconocido"}
	}
}
