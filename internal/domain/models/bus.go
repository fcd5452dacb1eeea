package models

// Bus is a vehicle of the fleet. SOAT and technical inspection dates are
// "YYYY-MM-DD" strings, empty when unknown.
type Bus struct {
	ID         int64  `json:"id"`
	Plate      string `json:"placa"`
	Model      string `json:"modelo"`
	Capacity   int    `json:"capacidad"`
	SOATDate   string `json:"fecha_soat"`
	TechnoDate string `json:"fecha_tecno"`
	Active     bool   `json:"activo"`
}

// Driver ("conductor") drives buses assigned to manifests. BusID is the bus
// the driver usually takes; it is optional.
type Driver struct {
	ID             int64  `json:"id"`
	Name           string `json:"nombre"`
	DocumentNumber string `json:"numero_documento"`
	Phone          string `json:"telefono"`
	BusID          int64  `json:"id_bus,omitempty"`
	BusPlate       string `json:"bus_placa,omitempty"`
	Active         bool   `json:"activo"`
}
