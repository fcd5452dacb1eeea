package repositories

import (
	"context"
	"database/sql"
	"strings"
	"time"

	intdb "planillabus/internal/db"
	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
)

type ManifestRepository struct {
	DB *sql.DB
}

// ManifestFilter narrows manifest listings. Zero values match everything.
type ManifestFilter struct {
	Statuses []models.ManifestStatus
	RouteID  int64
	Created  domain.DateRange
}

const manifestSelect = `
	SELECT id, COALESCE(num_planilla,''), COALESCE(prefijo,''), COALESCE(id_sitio,0), COALESCE(id_usuario,0),
	       id_ruta, fecha_creacion, fecha_cierre, COALESCE(valor_planilla,0), COALESCE(cuenta_contable_recibido,''), estado
	FROM planillas`

func scanManifest(sc interface{ Scan(...any) error }) (models.Manifest, error) {
	var (
		m      models.Manifest
		closed sql.NullTime
	)
	err := sc.Scan(&m.ID, &m.Number, &m.Prefix, &m.SiteID, &m.UserID,
		&m.RouteID, &m.CreatedAt, &closed, &m.DeclaredValue, &m.AccountCode, &m.Status)
	if err != nil {
		return m, err
	}
	if closed.Valid {
		t := closed.Time
		m.ClosedAt = &t
	}
	return m, nil
}

func manifestWhere(f ManifestFilter) intdb.Where {
	var w intdb.Where
	if len(f.Statuses) > 0 {
		marks := make([]string, len(f.Statuses))
		args := make([]any, len(f.Statuses))
		for i, s := range f.Statuses {
			marks[i] = "?"
			args[i] = int(s)
		}
		w.Add("estado IN ("+strings.Join(marks, ",")+")", args...)
	}
	if f.RouteID > 0 {
		w.Add("id_ruta = ?", f.RouteID)
	}
	if !f.Created.From.IsZero() {
		w.Add("fecha_creacion >= ?", f.Created.From)
	}
	if !f.Created.To.IsZero() {
		w.Add("fecha_creacion < ?", f.Created.EndExclusive())
	}
	return w
}

func (r ManifestRepository) List(ctx context.Context, f ManifestFilter) ([]models.Manifest, error) {
	w := manifestWhere(f)
	rows, err := pick(r.DB).QueryContext(ctx, manifestSelect+w.String()+" ORDER BY id DESC", w.Args...)
	if err != nil {
		return nil, intdb.MapError("planilla", err)
	}
	defer rows.Close()

	out := []models.Manifest{}
	for rows.Next() {
		m, err := scanManifest(rows)
		if err != nil {
			return nil, intdb.MapError("planilla", err)
		}
		out = append(out, m)
	}
	return out, intdb.MapError("planilla", rows.Err())
}

func (r ManifestRepository) GetByID(ctx context.Context, id int64) (models.Manifest, error) {
	m, err := scanManifest(pick(r.DB).QueryRowContext(ctx, manifestSelect+" WHERE id = ?", id))
	if err != nil {
		return models.Manifest{}, intdb.MapError("planilla", err)
	}
	return m, nil
}

func (r ManifestRepository) Create(ctx context.Context, in models.Manifest) (models.Manifest, error) {
	res, err := pick(r.DB).ExecContext(ctx, `
		INSERT INTO planillas (num_planilla, prefijo, id_sitio, id_usuario, id_ruta, fecha_creacion, fecha_cierre, valor_planilla, cuenta_contable_recibido, estado)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Number, intdb.NullIfEmpty(in.Prefix), intdb.NullIfZero(in.SiteID), intdb.NullIfZero(in.UserID), in.RouteID,
		in.CreatedAt, in.ClosedAt, in.DeclaredValue, intdb.NullIfEmpty(in.AccountCode), int(in.Status))
	if err != nil {
		return models.Manifest{}, intdb.MapError("planilla", err)
	}
	in.ID, _ = res.LastInsertId()
	return in, nil
}

// Update rewrites the editable fields. Status moves only through UpdateStatus.
func (r ManifestRepository) Update(ctx context.Context, in models.Manifest) error {
	res, err := pick(r.DB).ExecContext(ctx, `
		UPDATE planillas
		SET num_planilla = ?, prefijo = ?, id_sitio = ?, id_usuario = ?, id_ruta = ?, fecha_creacion = ?, valor_planilla = ?, cuenta_contable_recibido = ?
		WHERE id = ?`,
		in.Number, intdb.NullIfEmpty(in.Prefix), intdb.NullIfZero(in.SiteID), intdb.NullIfZero(in.UserID), in.RouteID,
		in.CreatedAt, in.DeclaredValue, intdb.NullIfEmpty(in.AccountCode), in.ID)
	if err != nil {
		return intdb.MapError("planilla", err)
	}
	return intdb.MustAffect("planilla", res)
}

// UpdateStatus moves a manifest from one status to the next. The current
// status is part of the WHERE clause so concurrent transitions cannot both win.
func (r ManifestRepository) UpdateStatus(ctx context.Context, id int64, from, to models.ManifestStatus, closedAt *time.Time) error {
	res, err := pick(r.DB).ExecContext(ctx,
		`UPDATE planillas SET estado = ?, fecha_cierre = COALESCE(?, fecha_cierre) WHERE id = ? AND estado = ?`,
		int(to), closedAt, id, int(from))
	if err != nil {
		return intdb.MapError("planilla", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return intdb.MapError("planilla", err)
	}
	if n == 0 {
		return domain.ConflictError{Resource: "planilla", Msg: "el estado cambió, recargue la planilla"}
	}
	return nil
}

func (r ManifestRepository) Delete(ctx context.Context, id int64) error {
	res, err := pick(r.DB).ExecContext(ctx, `DELETE FROM planillas WHERE id = ?`, id)
	if err != nil {
		return intdb.MapError("planilla", err)
	}
	return intdb.MustAffect("planilla", res)
}

// Stats counts manifests per status and sums their declared value.
func (r ManifestRepository) Stats(ctx context.Context) (models.ManifestStats, error) {
	rows, err := pick(r.DB).QueryContext(ctx,
		`SELECT estado, COUNT(*), COALESCE(SUM(valor_planilla),0) FROM planillas GROUP BY estado`)
	if err != nil {
		return models.ManifestStats{}, intdb.MapError("planilla", err)
	}
	defer rows.Close()

	stats := models.ManifestStats{ByStatus: map[string]int{}}
	for rows.Next() {
		var (
			status models.ManifestStatus
			count  int
			sum    float64
		)
		if err := rows.Scan(&status, &count, &sum); err != nil {
			return models.ManifestStats{}, intdb.MapError("planilla", err)
		}
		stats.ByStatus[status.String()] += count
		stats.Total += count
		stats.DeclaredTotal += sum
	}
	return stats, intdb.MapError("planilla", rows.Err())
}
