package models

// User is an operator account; sellers are users referenced by tickets.
type User struct {
	ID             int64  `json:"id"`
	Name           string `json:"nombre"`
	DocumentType   int64  `json:"tipo_documento"`
	DocumentNumber string `json:"numero_documento"`
	Email          string `json:"correo"`
	Phone          string `json:"telefono"`
	CityID         int64  `json:"ciudad"`
	RoleID         int64  `json:"rol"`
	SiteID         int64  `json:"sitio"`
	Active         bool   `json:"activo"`
	PasswordHash   string `json:"-"`
}
