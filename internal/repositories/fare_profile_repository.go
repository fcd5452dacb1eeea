package repositories

import (
	"context"
	"database/sql"
	"sort"
	"strconv"
	"strings"

	intdb "planillabus/internal/db"
	"planillabus/internal/domain/models"
)

// FareProfileRepository stores perfiles_rutas. Weekdays are kept as a
// comma-separated list ("1,2,3") in dias_semana.
type FareProfileRepository struct {
	DB *sql.DB
}

const fareProfileSelect = `
	SELECT id, id_ruta, COALESCE(dias_semana,''), COALESCE(hora_inicio,''), COALESCE(hora_fin,''), valor, activo
	FROM perfiles_rutas`

func scanFareProfile(sc interface{ Scan(...any) error }) (models.FareProfile, error) {
	var (
		p    models.FareProfile
		days string
	)
	if err := sc.Scan(&p.ID, &p.RouteID, &days, &p.StartTime, &p.EndTime, &p.Price, &p.Active); err != nil {
		return p, err
	}
	p.Weekdays = DecodeWeekdays(days)
	p.StartTime = hhmm(p.StartTime)
	p.EndTime = hhmm(p.EndTime)
	return p, nil
}

func (r FareProfileRepository) query(ctx context.Context, where intdb.Where) ([]models.FareProfile, error) {
	rows, err := pick(r.DB).QueryContext(ctx, fareProfileSelect+where.String()+" ORDER BY id", where.Args...)
	if err != nil {
		return nil, intdb.MapError("perfil de ruta", err)
	}
	defer rows.Close()

	out := []models.FareProfile{}
	for rows.Next() {
		p, err := scanFareProfile(rows)
		if err != nil {
			return nil, intdb.MapError("perfil de ruta", err)
		}
		out = append(out, p)
	}
	return out, intdb.MapError("perfil de ruta", rows.Err())
}

// List returns every profile, optionally only active ones.
func (r FareProfileRepository) List(ctx context.Context, onlyActive bool) ([]models.FareProfile, error) {
	var w intdb.Where
	if onlyActive {
		w.Add("activo = ?", true)
	}
	return r.query(ctx, w)
}

// ListByRoute returns the candidate profiles of a route in id order.
func (r FareProfileRepository) ListByRoute(ctx context.Context, routeID int64) ([]models.FareProfile, error) {
	var w intdb.Where
	w.Add("id_ruta = ?", routeID)
	return r.query(ctx, w)
}

func (r FareProfileRepository) GetByID(ctx context.Context, id int64) (models.FareProfile, error) {
	p, err := scanFareProfile(pick(r.DB).QueryRowContext(ctx, fareProfileSelect+" WHERE id = ?", id))
	if err != nil {
		return models.FareProfile{}, intdb.MapError("perfil de ruta", err)
	}
	return p, nil
}

func (r FareProfileRepository) Create(ctx context.Context, in models.FareProfile) (models.FareProfile, error) {
	res, err := pick(r.DB).ExecContext(ctx, `
		INSERT INTO perfiles_rutas (id_ruta, dias_semana, hora_inicio, hora_fin, valor, activo)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.RouteID, EncodeWeekdays(in.Weekdays), in.StartTime, in.EndTime, in.Price, in.Active)
	if err != nil {
		return models.FareProfile{}, intdb.MapError("perfil de ruta", err)
	}
	in.ID, _ = res.LastInsertId()
	return in, nil
}

func (r FareProfileRepository) Update(ctx context.Context, in models.FareProfile) error {
	res, err := pick(r.DB).ExecContext(ctx, `
		UPDATE perfiles_rutas
		SET id_ruta = ?, dias_semana = ?, hora_inicio = ?, hora_fin = ?, valor = ?, activo = ?
		WHERE id = ?`,
		in.RouteID, EncodeWeekdays(in.Weekdays), in.StartTime, in.EndTime, in.Price, in.Active, in.ID)
	if err != nil {
		return intdb.MapError("perfil de ruta", err)
	}
	return intdb.MustAffect("perfil de ruta", res)
}

func (r FareProfileRepository) Delete(ctx context.Context, id int64) error {
	res, err := pick(r.DB).ExecContext(ctx, `DELETE FROM perfiles_rutas WHERE id = ?`, id)
	if err != nil {
		return intdb.MapError("perfil de ruta", err)
	}
	return intdb.MustAffect("perfil de ruta", res)
}

// EncodeWeekdays stores weekdays sorted and de-duplicated.
func EncodeWeekdays(days []int) string {
	seen := map[int]bool{}
	clean := make([]int, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			clean = append(clean, d)
		}
	}
	sort.Ints(clean)
	parts := make([]string, len(clean))
	for i, d := range clean {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// DecodeWeekdays skips anything that is not a number.
func DecodeWeekdays(raw string) []int {
	out := []int{}
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ';' || r == ' ' }) {
		if d, err := strconv.Atoi(part); err == nil {
			out = append(out, d)
		}
	}
	return out
}

// hhmm trims TIME columns ("06:00:00") to "06:00".
func hhmm(v string) string {
	v = strings.TrimSpace(v)
	if len(v) == 8 && v[2] == ':' && v[5] == ':' {
		return v[:5]
	}
	return v
}
