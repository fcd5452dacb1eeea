// Package ticketform holds the ticket-sale form as an immutable value. Every
// transition is a function from the current State to the next one; nothing is
// written back into shared form fields.
package ticketform

import (
	"strconv"
	"strings"
	"time"

	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
)

type Notice string

const (
	NoticeNone            Notice = ""
	NoticeNoProfiles      Notice = "no_profiles"
	NoticeNoWindowMatch   Notice = "no_window_match"
	NoticeDataUnavailable Notice = "data_unavailable"
)

type Passenger struct {
	DocumentTypeID int64  `json:"id_tipo_documento"`
	DocumentNumber string `json:"numero_documento"`
	Name           string `json:"nombre"`
	Email          string `json:"correo"`
	SellerID       int64  `json:"id_vendedor"`
}

type State struct {
	ManifestID   int64               `json:"id_planilla"`
	RouteID      int64               `json:"id_ruta"`
	Availability domain.Availability `json:"disponibilidad"`

	// Generation identifies the manifest selection the profiles belong to.
	Generation uint64                `json:"generacion"`
	Loading    bool                  `json:"cargando"`
	Profiles   []models.FareProfile  `json:"perfiles"`
	Resolution domain.FareResolution `json:"resolucion"`
	Notice     Notice                `json:"aviso,omitempty"`
	LoadError  string                `json:"error_carga,omitempty"`

	FareProfileID  int64   `json:"id_perfil_ruta"`
	SeatsInput     string  `json:"num_asientos"`
	UnitPriceInput string  `json:"valor_unitario"`
	Total          float64 `json:"total"`
	TotalResolved  bool    `json:"total_calculado"`

	Passenger Passenger `json:"pasajero"`
}

// New returns an empty form with one seat.
func New() State {
	return State{SeatsInput: "1", Availability: domain.Availability{Available: true}}
}

// Pending marks a new selection whose manifest is not loaded yet. Loaded
// profiles, the resolved profile and any notice from the previous selection
// are dropped.
func Pending(s State, manifestID int64, generation uint64) State {
	s.ManifestID = manifestID
	s.RouteID = 0
	s.Availability = domain.Availability{}
	s.Generation = generation
	s.Loading = true
	s.Profiles = nil
	s.Resolution = domain.FareResolution{}
	s.Notice = NoticeNone
	s.LoadError = ""
	s.FareProfileID = 0
	return s
}

// SelectManifest applies the loaded manifest of the current selection and
// evaluates the availability gate for it.
func SelectManifest(s State, m models.Manifest, generation uint64) State {
	if generation != s.Generation {
		s = Pending(s, m.ID, generation)
	}
	s.ManifestID = m.ID
	s.RouteID = m.RouteID
	s.Availability = domain.CheckManifestAvailability(m.Status)
	return s
}

// ClearManifest resets the selection, as when the manifest field is emptied.
func ClearManifest(s State, generation uint64) State {
	s.ManifestID = 0
	s.RouteID = 0
	s.Availability = domain.Availability{Available: true}
	s.Generation = generation
	s.Loading = false
	s.Profiles = nil
	s.Resolution = domain.FareResolution{}
	s.Notice = NoticeNone
	s.LoadError = ""
	s.FareProfileID = 0
	return s
}

// ProfilesLoaded applies a fetch result. Results for an older generation are
// ignored so a slow response can never overwrite a newer selection.
func ProfilesLoaded(s State, generation uint64, profiles []models.FareProfile, now time.Time, resolver domain.FareResolver) State {
	if generation != s.Generation {
		return s
	}
	s.Loading = false
	s.LoadError = ""
	s.Profiles = append([]models.FareProfile(nil), profiles...)
	s.Resolution = resolver.ResolveAt(s.Profiles, now)

	switch s.Resolution.Reason {
	case domain.ResolveNoProfiles:
		s.Notice = NoticeNoProfiles
	case domain.ResolveNoWindowMatch:
		s.Notice = NoticeNoWindowMatch
	default:
		s.Notice = NoticeNone
	}

	if price, ok := s.Resolution.UnitPrice(); ok {
		s.FareProfileID = s.Resolution.Profile.ID
		s = withUnitPrice(s, formatAmount(price))
	}
	return s
}

// ProfilesFailed leaves the form with no candidates and a data-unavailable notice.
func ProfilesFailed(s State, generation uint64, err error) State {
	if generation != s.Generation {
		return s
	}
	s.Loading = false
	s.Profiles = nil
	s.FareProfileID = 0
	s.Resolution = domain.FareResolution{Reason: domain.ResolveNoProfiles}
	s.Notice = NoticeDataUnavailable
	if err != nil {
		s.LoadError = err.Error()
	}
	return s
}

// PickProfile selects one of the loaded profiles by hand.
func PickProfile(s State, profileID int64) State {
	for _, p := range s.Profiles {
		if p.ID == profileID {
			s.FareProfileID = p.ID
			return withUnitPrice(s, formatAmount(p.Price))
		}
	}
	return s
}

func SetSeats(s State, raw string) State {
	s.SeatsInput = strings.TrimSpace(raw)
	return recompute(s)
}

func SetUnitPrice(s State, raw string) State {
	return withUnitPrice(s, strings.TrimSpace(raw))
}

func SetPassenger(s State, p Passenger) State {
	p.DocumentNumber = strings.TrimSpace(p.DocumentNumber)
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	s.Passenger = p
	return s
}

func withUnitPrice(s State, raw string) State {
	s.UnitPriceInput = raw
	return recompute(s)
}

func recompute(s State) State {
	total, ok := domain.RecomputeTotal(s.Total, s.SeatsInput, s.UnitPriceInput)
	s.Total = total
	if ok {
		s.TotalResolved = true
	}
	return s
}

// Seats returns the seat count when it is a whole number of at least one.
func (s State) Seats() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s.SeatsInput))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// CanSubmit drives the submit button: a selected, available manifest, no fetch
// in flight, a profile, a valid seat count and a numeric unit price.
func (s State) CanSubmit() bool {
	if s.ManifestID == 0 || !s.Availability.Available || s.Loading {
		return false
	}
	if s.FareProfileID == 0 {
		return false
	}
	if _, ok := s.Seats(); !ok {
		return false
	}
	_, ok := domain.ParseAmount(s.UnitPriceInput)
	return ok
}

// Ticket builds the record to persist. Callers must check CanSubmit first; the
// gate is evaluated again here.
func (s State) Ticket() (models.Ticket, error) {
	if !s.Availability.Available {
		return models.Ticket{}, domain.BlockedError{ManifestID: s.ManifestID, Reason: s.Availability.Reason}
	}
	seats, ok := s.Seats()
	if !ok {
		return models.Ticket{}, domain.ValidationError{Field: "num_asientos", Msg: "debe ser un entero mayor o igual a 1"}
	}
	price, ok := domain.ParseAmount(s.UnitPriceInput)
	if !ok {
		return models.Ticket{}, domain.ValidationError{Field: "valor_unitario", Msg: "debe ser numérico"}
	}
	if s.ManifestID == 0 {
		return models.Ticket{}, domain.ValidationError{Field: "id_planilla", Msg: "requerido"}
	}
	if s.FareProfileID == 0 {
		return models.Ticket{}, domain.ValidationError{Field: "id_perfil_ruta", Msg: "requerido"}
	}
	return models.Ticket{
		DocumentTypeID: s.Passenger.DocumentTypeID,
		DocumentNumber: s.Passenger.DocumentNumber,
		Name:           s.Passenger.Name,
		Email:          s.Passenger.Email,
		SellerID:       s.Passenger.SellerID,
		ManifestID:     s.ManifestID,
		FareProfileID:  s.FareProfileID,
		Seats:          seats,
		UnitPrice:      price,
		Total:          domain.TicketTotal(seats, price),
	}, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
