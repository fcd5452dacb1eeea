package models

import "time"

// Ticket is one sale against a manifest. UnitPrice is copied from the fare
// profile at creation time; Total = Seats × UnitPrice.
type Ticket struct {
	ID             int64     `json:"id"`
	DocumentTypeID int64     `json:"id_tipo_documento"`
	DocumentNumber string    `json:"numero_documento"`
	Name           string    `json:"nombre"`
	Email          string    `json:"correo"`
	Seats          int       `json:"num_asientos"`
	ManifestID     int64     `json:"id_planilla"`
	FareProfileID  int64     `json:"id_perfil_ruta"`
	SellerID       int64     `json:"id_vendedor"`
	UnitPrice      float64   `json:"valor_unitario"`
	Total          float64   `json:"total"`
	CreatedAt      time.Time `json:"fecha_creacion"`
}

// TicketStats summarizes a set of tickets.
type TicketStats struct {
	Count   int     `json:"total_tiquetes"`
	Seats   int     `json:"total_asientos"`
	Revenue float64 `json:"total_ventas"`
}
