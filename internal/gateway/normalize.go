package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"planillabus/internal/domain/models"
)

// The remote backend is not consistent about shapes: lists may come bare or
// paginated under "results", foreign keys may be nested objects or flat ids,
// and decimals may be strings. Everything is flattened here so callers only
// ever see models.* values.

// flexID accepts 12, "12" or {"id": 12}.
type flexID int64

func (f *flexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	if b[0] == '{' {
		var obj struct {
			ID flexID `json:"id"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		*f = obj.ID
		return nil
	}
	n, err := parseNumber(b)
	if err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*f = flexID(int64(n))
	return nil
}

// flexFloat accepts 20000, 20000.5 or "20000.00".
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}
	n, err := parseNumber(b)
	if err != nil {
		return fmt.Errorf("decimal: %w", err)
	}
	*f = flexFloat(n)
	return nil
}

func parseNumber(b []byte) (float64, error) {
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return 0, err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, nil
		}
		return strconv.ParseFloat(s, 64)
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return 0, err
	}
	return n.Float64()
}

// flexTime accepts RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05" or a bare date.
type flexTime struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (f *flexTime) UnmarshalJSON(b []byte) error {
	var s string
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			f.Time = t
			return nil
		}
	}
	return fmt.Errorf("fecha no reconocida: %q", s)
}

type remoteProfile struct {
	ID         flexID    `json:"id"`
	Ruta       flexID    `json:"ruta"`
	IDRuta     flexID    `json:"id_ruta"`
	DiasSemana []flexID  `json:"dias_semana"`
	HoraInicio string    `json:"hora_inicio"`
	HoraFin    string    `json:"hora_fin"`
	Valor      flexFloat `json:"valor"`
	Activo     *bool     `json:"activo"`
}

func (r remoteProfile) model() models.FareProfile {
	p := models.FareProfile{
		ID:        int64(r.ID),
		RouteID:   int64(r.IDRuta),
		StartTime: strings.TrimSpace(r.HoraInicio),
		EndTime:   strings.TrimSpace(r.HoraFin),
		Price:     float64(r.Valor),
		Active:    true,
	}
	if p.RouteID == 0 {
		p.RouteID = int64(r.Ruta)
	}
	if r.Activo != nil {
		p.Active = *r.Activo
	}
	p.Weekdays = make([]int, 0, len(r.DiasSemana))
	for _, d := range r.DiasSemana {
		p.Weekdays = append(p.Weekdays, int(d))
	}
	return p
}

type remoteManifest struct {
	ID          flexID    `json:"id"`
	NumPlanilla string    `json:"num_planilla"`
	Prefijo     string    `json:"prefijo"`
	Ruta        flexID    `json:"ruta"`
	IDRuta      flexID    `json:"id_ruta"`
	Sitio       flexID    `json:"sitio"`
	IDSitio     flexID    `json:"id_sitio"`
	Usuario     flexID    `json:"usuario"`
	IDUsuario   flexID    `json:"id_usuario"`
	Estado      flexID    `json:"estado"`
	Valor       flexFloat `json:"valor_planilla"`
	Cuenta      string    `json:"cuenta_contable_recibido"`
	Creacion    flexTime  `json:"fecha_creacion"`
	Cierre      flexTime  `json:"fecha_cierre"`
}

func (r remoteManifest) model() models.Manifest {
	m := models.Manifest{
		ID:            int64(r.ID),
		Number:        r.NumPlanilla,
		Prefix:        r.Prefijo,
		RouteID:       firstID(r.IDRuta, r.Ruta),
		SiteID:        firstID(r.IDSitio, r.Sitio),
		UserID:        firstID(r.IDUsuario, r.Usuario),
		Status:        models.ManifestStatus(r.Estado),
		DeclaredValue: float64(r.Valor),
		AccountCode:   r.Cuenta,
		CreatedAt:     r.Creacion.Time,
	}
	if !r.Cierre.IsZero() {
		t := r.Cierre.Time
		m.ClosedAt = &t
	}
	return m
}

func firstID(ids ...flexID) int64 {
	for _, id := range ids {
		if id != 0 {
			return int64(id)
		}
	}
	return 0
}

// decodeList unwraps a bare JSON array or a paginated {"results": [...]} body.
func decodeList(body []byte) ([]json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if body[0] == '[' {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var page struct {
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// DecodeFareProfiles normalizes a fare profile list body.
func DecodeFareProfiles(body []byte) ([]models.FareProfile, error) {
	items, err := decodeList(body)
	if err != nil {
		return nil, err
	}
	out := make([]models.FareProfile, 0, len(items))
	for _, raw := range items {
		var rp remoteProfile
		if err := json.Unmarshal(raw, &rp); err != nil {
			return nil, fmt.Errorf("perfil de ruta: %w", err)
		}
		out = append(out, rp.model())
	}
	return out, nil
}

// DecodeManifest normalizes a single manifest body.
func DecodeManifest(body []byte) (models.Manifest, error) {
	var rm remoteManifest
	if err := json.Unmarshal(body, &rm); err != nil {
		return models.Manifest{}, fmt.Errorf("planilla: %w", err)
	}
	return rm.model(), nil
}
