package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"planillabus/internal/clock"
	intconfig "planillabus/internal/config"
	"planillabus/internal/domain/models"
	"planillabus/internal/http/handlers"
	"planillabus/internal/services"
	"planillabus/internal/ticketform"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

// Tuesday 09:00
var tuesdayNine = time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)

type stubRefs struct {
	manifests   map[int64]models.Manifest
	profiles    []models.FareProfile
	profilesErr error
}

func (s stubRefs) Manifest(ctx context.Context, id int64) (models.Manifest, error) {
	m, ok := s.manifests[id]
	if !ok {
		return models.Manifest{}, errors.New("planilla no encontrada")
	}
	return m, nil
}

func (s stubRefs) FareProfilesByRoute(ctx context.Context, routeID int64) ([]models.FareProfile, error) {
	if s.profilesErr != nil {
		return nil, s.profilesErr
	}
	return s.profiles, nil
}

func refsWith(status models.ManifestStatus) stubRefs {
	return stubRefs{
		manifests: map[int64]models.Manifest{5: {ID: 5, RouteID: 7, Status: status}},
		profiles: []models.FareProfile{
			{ID: 1, RouteID: 7, Weekdays: []int{1, 2, 3, 4, 5}, StartTime: "06:00", EndTime: "12:00", Price: 20000, Active: true},
			{ID: 2, RouteID: 7, Weekdays: []int{6, 7}, StartTime: "00:00", EndTime: "23:59", Price: 25000, Active: true},
		},
	}
}

func newTestRouter(t *testing.T, refs stubRefs) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	clk := clock.NewFixed(tuesdayNine)
	hs := handlers.Handlers{
		DB:       db,
		Refs:     refs,
		Clock:    clk,
		Tokens:   services.TicketTokens{Secret: []byte("test-secret"), Now: clk.Now},
		Location: time.UTC,
		Forms:    ticketform.NewSessions(time.Minute),
	}
	return NewRouter(intconfig.Env{}, hs), mock
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return out
}

func ticketBody() map[string]any {
	return map[string]any{
		"id_tipo_documento": 1,
		"numero_documento":  "1020",
		"nombre":            "Ana",
		"num_asientos":      2,
		"id_planilla":       5,
	}
}

func TestCreateTicketResolvesProfileAndTotal(t *testing.T) {
	r, mock := newTestRouter(t, refsWith(models.ManifestOpen))
	mock.ExpectExec("INSERT INTO tiquetes").
		WithArgs(int64(1), "1020", "Ana", nil, 2, int64(5), int64(1), nil, 20000.0, 40000.0, tuesdayNine).
		WillReturnResult(sqlmock.NewResult(31, 1))

	w := do(r, http.MethodPost, "/api/tiquetes/tiquetes", ticketBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["id"].(float64) != 31 || got["total"].(float64) != 40000 || got["id_perfil_ruta"].(float64) != 1 {
		t.Fatalf("unexpected ticket: %v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateTicketOnClosedManifestIs422(t *testing.T) {
	r, mock := newTestRouter(t, refsWith(models.ManifestClosed))

	w := do(r, http.MethodPost, "/api/tiquetes/tiquetes", ticketBody())
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d: %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["code"] != "manifest_blocked" {
		t.Fatalf("unexpected code: %v", got)
	}
	details := got["details"].(map[string]any)
	if details["motivo"] != "Closed" || details["id_planilla"].(float64) != 5 {
		t.Fatalf("unexpected details: %v", details)
	}
	if got["request_id"] == "" {
		t.Fatalf("request id missing")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("nothing should be written: %v", err)
	}
}

func TestCreateTicketValidationIs400(t *testing.T) {
	r, _ := newTestRouter(t, refsWith(models.ManifestOpen))
	body := ticketBody()
	body["num_asientos"] = 0

	w := do(r, http.MethodPost, "/api/tiquetes/tiquetes", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	details := decode(t, w)["details"].(map[string]any)
	if details["campo"] != "num_asientos" {
		t.Fatalf("unexpected field: %v", details)
	}
}

func TestEmptyBodyIs400(t *testing.T) {
	r, _ := newTestRouter(t, refsWith(models.ManifestOpen))
	w := do(r, http.MethodPost, "/api/tiquetes/tiquetes", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestQuoteTicket(t *testing.T) {
	r, _ := newTestRouter(t, refsWith(models.ManifestOpen))

	w := do(r, http.MethodPost, "/api/tiquetes/tiquetes/cotizar",
		map[string]any{"id_planilla": 5, "num_asientos": "3"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	st := got["estado"].(map[string]any)
	if st["total"].(float64) != 60000 || st["id_perfil_ruta"].(float64) != 1 {
		t.Fatalf("unexpected quote: %v", st)
	}
	if got["puede_enviar"] != true {
		t.Fatalf("quote on open manifest should be submittable")
	}
}

func TestApplyTicketFormSelectsManifest(t *testing.T) {
	r, _ := newTestRouter(t, refsWith(models.ManifestVoided))

	w := do(r, http.MethodPost, "/api/tiquetes/formulario",
		map[string]any{"evento": map[string]any{"tipo": "seleccionar_planilla", "id_planilla": 5}})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	st := got["estado"].(map[string]any)
	disp := st["disponibilidad"].(map[string]any)
	if disp["disponible"] != false || disp["motivo"] != "Voided" {
		t.Fatalf("voided manifest should be blocked: %v", disp)
	}
	if got["puede_enviar"] != false {
		t.Fatalf("blocked form must not be submittable")
	}
}

func TestApplyTicketFormUnknownEvent(t *testing.T) {
	r, _ := newTestRouter(t, refsWith(models.ManifestOpen))
	w := do(r, http.MethodPost, "/api/tiquetes/formulario", map[string]any{"evento": map[string]any{"tipo": "otro"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestResolveFareProfileAtInstant(t *testing.T) {
	r, _ := newTestRouter(t, refsWith(models.ManifestOpen))

	// Saturday
	w := do(r, http.MethodGet, "/api/rutas/perfiles-rutas/resolve?ruta_id=7&at=2025-06-07T10:00:00Z", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["motivo"] != "matched" || got["perfil"].(map[string]any)["id"].(float64) != 2 {
		t.Fatalf("unexpected resolution: %v", got)
	}

	// Tuesday 13:00 falls outside the weekday window
	w = do(r, http.MethodGet, "/api/rutas/perfiles-rutas/resolve?ruta_id=7&at=2025-06-03%2013:00", nil)
	got = decode(t, w)
	if got["motivo"] != "no_window_match" || got["perfil"] != nil {
		t.Fatalf("expected no window match, got %v", got)
	}
}

func TestResolveFareProfileUpstreamFailureIs503(t *testing.T) {
	refs := refsWith(models.ManifestOpen)
	refs.profilesErr = errors.New("connection refused")
	r, _ := newTestRouter(t, refs)

	w := do(r, http.MethodGet, "/api/rutas/perfiles-rutas/resolve?ruta_id=7", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	if decode(t, w)["code"] != "data_unavailable" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestManifestAvailabilityEndpoint(t *testing.T) {
	r, mock := newTestRouter(t, refsWith(models.ManifestOpen))
	cols := []string{"id", "num_planilla", "prefijo", "id_sitio", "id_usuario", "id_ruta",
		"fecha_creacion", "fecha_cierre", "valor_planilla", "cuenta_contable_recibido", "estado"}
	mock.ExpectQuery("FROM planillas WHERE id = \\?").WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(9, "PL-009", "", 0, 0, 7, tuesdayNine, nil, 0.0, "", 3))

	w := do(r, http.MethodGet, "/api/planillas/planillas/9/disponibilidad", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got := decode(t, w)
	if got["disponible"] != false || got["motivo"] != "Closed" {
		t.Fatalf("unexpected availability: %v", got)
	}
}

func TestInvalidPathIDAndUnknownRoute(t *testing.T) {
	r, _ := newTestRouter(t, refsWith(models.ManifestOpen))
	if w := do(r, http.MethodGet, "/api/tiquetes/tiquetes/abc", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", w.Code)
	}
	w := do(r, http.MethodGet, "/api/nada", nil)
	if w.Code != http.StatusNotFound || decode(t, w)["error"] != "ruta no encontrada" {
		t.Fatalf("unexpected no route response: %d %s", w.Code, w.Body.String())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(t, refsWith(models.ManifestOpen))
	if w := do(r, http.MethodGet, "/api/health", nil); w.Code != http.StatusOK {
		t.Fatalf("health: %d", w.Code)
	}
	w := do(r, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("planillabus_http_requests_total")) {
		t.Fatalf("metrics not exposed: %d", w.Code)
	}
}

func TestSubmitTicketFormRejectsProfileOfOtherRoute(t *testing.T) {
	r, mock := newTestRouter(t, refsWith(models.ManifestOpen))
	state := map[string]any{
		"id_planilla":    5,
		"disponibilidad": map[string]any{"disponible": true},
		"id_perfil_ruta": 999,
		"num_asientos":   "2",
		"valor_unitario": "1",
		"pasajero":       map[string]any{"numero_documento": "1020", "nombre": "Ana"},
	}

	w := do(r, http.MethodPost, "/api/tiquetes/formulario/enviar", map[string]any{"estado": state})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["details"].(map[string]any)["campo"] != "id_perfil_ruta" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("nothing should be written: %v", err)
	}
}

func TestCreateBusWithBadPlateIs400(t *testing.T) {
	r, mock := newTestRouter(t, refsWith(models.ManifestOpen))
	body := map[string]any{"placa": "ab-12", "modelo": "Marcopolo", "capacidad": 40,
		"fecha_soat": "2025-12-31", "fecha_tecno": "2025-10-01", "activo": true}

	w := do(r, http.MethodPost, "/api/buses/buses", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
	if decode(t, w)["details"].(map[string]any)["campo"] != "placa" {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("nothing should be written: %v", err)
	}
}

func TestListBusesSearchesPlateAndModel(t *testing.T) {
	r, mock := newTestRouter(t, refsWith(models.ManifestOpen))
	mock.ExpectQuery("FROM buses WHERE").
		WithArgs("%ABC%", "%ABC%", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "placa", "modelo", "capacidad", "fecha_soat", "fecha_tecno", "activo"}).
			AddRow(3, "ABC123", "Marcopolo", 40, "2025-12-31", "", true))

	w := do(r, http.MethodGet, "/api/buses/buses?q=ABC&activo=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var got []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil || len(got) != 1 || got[0]["placa"] != "ABC123" {
		t.Fatalf("unexpected buses: %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDriverRoutesAreMounted(t *testing.T) {
	r, mock := newTestRouter(t, refsWith(models.ManifestOpen))
	mock.ExpectQuery("FROM conductores").
		WithArgs(int64(4)).
		WillReturnError(sql.ErrNoRows)

	w := do(r, http.MethodGet, "/api/buses/conductores/4", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestDistributionSummaryPath(t *testing.T) {
	r, mock := newTestRouter(t, refsWith(models.ManifestOpen))
	mock.ExpectQuery("FROM planillas_distribuciones").
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := do(r, http.MethodGet, "/api/planillas/planillas-distribuciones/resumen?planilla_bus_id=8", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if list, ok := decode(t, w)["distribuciones"].([]any); !ok || len(list) != 0 {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}

	if w := do(r, http.MethodGet, "/api/planillas/distribuciones/resumen", nil); w.Code != http.StatusNotFound {
		t.Fatalf("old path should not be served, got %d", w.Code)
	}
}

func TestTicketsByDateRejectsBadRanges(t *testing.T) {
	r, mock := newTestRouter(t, refsWith(models.ManifestOpen))
	cases := []struct {
		query string
		field string
	}{
		{"fecha_inicio=2025-06-05&fecha_fin=2025-06-01", "fecha_fin"},
		{"fecha_fin=2025-06-01", "fecha_inicio"},
		{"fecha_inicio=2025-06-01", "fecha_fin"},
		{"fecha_inicio=01/06/2025&fecha_fin=2025-06-02", "fecha_inicio"},
	}
	for _, tc := range cases {
		for _, base := range []string{"/api/tiquetes/tiquetes/por_fecha?", "/api/planillas/planillas/por_fecha?"} {
			w := do(r, http.MethodGet, base+tc.query, nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("%s%s: expected 400, got %d", base, tc.query, w.Code)
			}
			if got := decode(t, w)["details"].(map[string]any)["campo"]; got != tc.field {
				t.Fatalf("%s%s: campo = %v, want %s", base, tc.query, got, tc.field)
			}
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no query should run: %v", err)
	}
}

func TestTicketFormSessionFlow(t *testing.T) {
	r, mock := newTestRouter(t, refsWith(models.ManifestOpen))

	w := do(r, http.MethodPost, "/api/tiquetes/formulario/sesiones", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	base := "/api/tiquetes/formulario/sesiones/" + decode(t, w)["id"].(string)

	events := []map[string]any{
		{"tipo": "seleccionar_planilla", "id_planilla": 5},
		{"tipo": "num_asientos", "valor": "2"},
		{"tipo": "pasajero", "pasajero": map[string]any{"id_tipo_documento": 1, "numero_documento": "1020", "nombre": "Ana"}},
	}
	for _, ev := range events {
		w = do(r, http.MethodPost, base+"/eventos", ev)
		if w.Code != http.StatusOK {
			t.Fatalf("event %v: %d %s", ev["tipo"], w.Code, w.Body.String())
		}
	}
	got := decode(t, w)
	if got["puede_enviar"] != true || got["estado"].(map[string]any)["id_perfil_ruta"].(float64) != 1 {
		t.Fatalf("unexpected form: %s", w.Body.String())
	}

	mock.ExpectExec("INSERT INTO tiquetes").
		WithArgs(int64(1), "1020", "Ana", nil, 2, int64(5), int64(1), nil, 20000.0, 40000.0, tuesdayNine).
		WillReturnResult(sqlmock.NewResult(40, 1))
	if w = do(r, http.MethodPost, base+"/enviar", nil); w.Code != http.StatusCreated {
		t.Fatalf("submit: %d %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
	if w = do(r, http.MethodGet, base, nil); w.Code != http.StatusNotFound {
		t.Fatalf("submitted session should be closed, got %d", w.Code)
	}
}

func TestTicketFormSessionUnknownID(t *testing.T) {
	r, _ := newTestRouter(t, refsWith(models.ManifestOpen))
	w := do(r, http.MethodPost, "/api/tiquetes/formulario/sesiones/nope/eventos", map[string]any{"tipo": "num_asientos", "valor": "1"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	if w = do(r, http.MethodDelete, "/api/tiquetes/formulario/sesiones/nope", nil); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on delete, got %d", w.Code)
	}
}
