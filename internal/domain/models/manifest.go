package models

import "time"

// ManifestStatus mirrors the numeric "estado" stored for planillas.
type ManifestStatus int

const (
	ManifestOpen   ManifestStatus = 1
	ManifestOnSale ManifestStatus = 2
	ManifestClosed ManifestStatus = 3
	ManifestVoided ManifestStatus = 4
)

func (s ManifestStatus) String() string {
	switch s {
	case ManifestOpen:
		return "Open"
	case ManifestOnSale:
		return "OnSale"
	case ManifestClosed:
		return "Closed"
	case ManifestVoided:
		return "Voided"
	default:
		return "Unknown"
	}
}

// Valid reports whether s is one of the known statuses.
func (s ManifestStatus) Valid() bool {
	return s >= ManifestOpen && s <= ManifestVoided
}

// Terminal reports whether no further transition is possible.
func (s ManifestStatus) Terminal() bool {
	return s == ManifestClosed || s == ManifestVoided
}

// CanTransitionTo only allows forward moves: Open -> OnSale -> Closed, and
// Open/OnSale -> Voided. Closing straight from Open is a forward move too.
func (s ManifestStatus) CanTransitionTo(next ManifestStatus) bool {
	switch s {
	case ManifestOpen:
		return next == ManifestOnSale || next == ManifestClosed || next == ManifestVoided
	case ManifestOnSale:
		return next == ManifestClosed || next == ManifestVoided
	default:
		return false
	}
}

// Manifest ("planilla") groups one route, its assigned buses and sold tickets.
type Manifest struct {
	ID            int64          `json:"id"`
	Number        string         `json:"num_planilla"`
	Prefix        string         `json:"prefijo"`
	SiteID        int64          `json:"id_sitio"`
	UserID        int64          `json:"id_usuario"`
	RouteID       int64          `json:"id_ruta"`
	CreatedAt     time.Time      `json:"fecha_creacion"`
	ClosedAt      *time.Time     `json:"fecha_cierre,omitempty"`
	DeclaredValue float64        `json:"valor_planilla"`
	AccountCode   string         `json:"cuenta_contable_recibido"`
	Status        ManifestStatus `json:"estado"`
}

// ManifestStats aggregates manifests per status.
type ManifestStats struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"por_estado"`
	DeclaredTotal float64        `json:"valor_total"`
}
