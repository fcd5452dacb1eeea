package models

// Route links an origin and a destination city.
type Route struct {
	ID                int64  `json:"id"`
	OriginCityID      int64  `json:"id_ciudad_origen"`
	OriginCity        string `json:"ciudad_origen,omitempty"`
	DestinationCityID int64  `json:"id_ciudad_destino"`
	DestinationCity   string `json:"ciudad_destino,omitempty"`
	Active            bool   `json:"activo"`
}

// FareProfile is a (weekday set, time window, price) rule attached to a route.
// Weekdays use 1=Monday … 7=Sunday. StartTime/EndTime are "HH:MM" wall-clock
// values; EndTime < StartTime means the window crosses midnight.
type FareProfile struct {
	ID        int64   `json:"id"`
	RouteID   int64   `json:"id_ruta"`
	Weekdays  []int   `json:"dias_semana"`
	StartTime string  `json:"hora_inicio"`
	EndTime   string  `json:"hora_fin"`
	Price     float64 `json:"valor"`
	Active    bool    `json:"activo"`
}

// HasWeekday reports whether the profile applies on the given ISO weekday.
func (p FareProfile) HasWeekday(day int) bool {
	for _, d := range p.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
