package models

import "time"

type AssignmentStatus string

const (
	AssignmentInTransit AssignmentStatus = "InTransit"
	AssignmentCompleted AssignmentStatus = "Completed"
)

// BusAssignment ("planilla-bus") links a manifest to a bus and its driver.
type BusAssignment struct {
	ID          int64            `json:"id"`
	ManifestID  int64            `json:"id_planilla"`
	BusID       int64            `json:"id_bus"`
	BusPlate    string           `json:"bus_placa,omitempty"`
	DriverID    int64            `json:"id_conductor"`
	DriverName  string           `json:"conductor_nombre,omitempty"`
	Passengers  int              `json:"numero_pasajeros"`
	DepartureAt *time.Time       `json:"fecha_salida,omitempty"`
	ArrivalAt   *time.Time       `json:"fecha_llegada,omitempty"`
	Status      AssignmentStatus `json:"estado"`
}

// DeriveStatus is Completed once an arrival is recorded.
func (a BusAssignment) DeriveStatus() AssignmentStatus {
	if a.ArrivalAt != nil && !a.ArrivalAt.IsZero() {
		return AssignmentCompleted
	}
	return AssignmentInTransit
}

// DistributionEntry splits a bus assignment's revenue towards one owner.
type DistributionEntry struct {
	ID              int64   `json:"id"`
	BusAssignmentID int64   `json:"id_planilla_bus"`
	OwnerID         int64   `json:"id_propietario"`
	OwnerName       string  `json:"propietario_nombre,omitempty"`
	BusPlate        string  `json:"bus_placa,omitempty"`
	Percentage      float64 `json:"porcentaje_aplicado"`
	AppliedValue    float64 `json:"valor_aplicado"`
}

// DistributionSummary mirrors the totals shown above the distribution list.
type DistributionSummary struct {
	Entries           int     `json:"total_distribuciones"`
	TotalValue        float64 `json:"valor_total"`
	AverageValue      float64 `json:"valor_promedio"`
	AveragePercentage float64 `json:"porcentaje_promedio"`
}
