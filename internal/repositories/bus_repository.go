package repositories

import (
	"context"
	"database/sql"
	"strings"

	intdb "planillabus/internal/db"
	"planillabus/internal/domain/models"
)

type BusRepository struct {
	DB *sql.DB
}

// BusFilter narrows the bus list. Query matches plate or model.
type BusFilter struct {
	Query      string
	OnlyActive bool
}

// dates come back as strings so the handler never depends on parseTime
const busSelect = `
	SELECT id, placa, COALESCE(modelo,''), COALESCE(capacidad,0),
	       CASE WHEN fecha_soat IS NULL THEN '' ELSE DATE_FORMAT(fecha_soat, '%Y-%m-%d') END,
	       CASE WHEN fecha_tecno IS NULL THEN '' ELSE DATE_FORMAT(fecha_tecno, '%Y-%m-%d') END,
	       activo
	FROM buses`

func scanBus(sc interface{ Scan(...any) error }) (models.Bus, error) {
	var b models.Bus
	err := sc.Scan(&b.ID, &b.Plate, &b.Model, &b.Capacity, &b.SOATDate, &b.TechnoDate, &b.Active)
	return b, err
}

func (r BusRepository) List(ctx context.Context, f BusFilter) ([]models.Bus, error) {
	var w intdb.Where
	if q := strings.TrimSpace(f.Query); q != "" {
		like := "%" + q + "%"
		w.Add("(placa LIKE ? OR modelo LIKE ?)", like, like)
	}
	if f.OnlyActive {
		w.Add("activo = ?", true)
	}
	rows, err := pick(r.DB).QueryContext(ctx, busSelect+w.String()+" ORDER BY id DESC", w.Args...)
	if err != nil {
		return nil, intdb.MapError("bus", err)
	}
	defer rows.Close()

	out := []models.Bus{}
	for rows.Next() {
		b, err := scanBus(rows)
		if err != nil {
			return nil, intdb.MapError("bus", err)
		}
		out = append(out, b)
	}
	return out, intdb.MapError("bus", rows.Err())
}

func (r BusRepository) GetByID(ctx context.Context, id int64) (models.Bus, error) {
	b, err := scanBus(pick(r.DB).QueryRowContext(ctx, busSelect+" WHERE id = ?", id))
	if err != nil {
		return models.Bus{}, intdb.MapError("bus", err)
	}
	return b, nil
}

func (r BusRepository) Create(ctx context.Context, in models.Bus) (models.Bus, error) {
	res, err := pick(r.DB).ExecContext(ctx, `
		INSERT INTO buses (placa, modelo, capacidad, fecha_soat, fecha_tecno, activo)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.Plate, in.Model, in.Capacity, intdb.NullIfEmpty(in.SOATDate), intdb.NullIfEmpty(in.TechnoDate), in.Active)
	if err != nil {
		return models.Bus{}, intdb.MapError("bus", err)
	}
	in.ID, _ = res.LastInsertId()
	return in, nil
}

func (r BusRepository) Update(ctx context.Context, in models.Bus) error {
	res, err := pick(r.DB).ExecContext(ctx, `
		UPDATE buses
		SET placa = ?, modelo = ?, capacidad = ?, fecha_soat = ?, fecha_tecno = ?, activo = ?
		WHERE id = ?`,
		in.Plate, in.Model, in.Capacity, intdb.NullIfEmpty(in.SOATDate), intdb.NullIfEmpty(in.TechnoDate), in.Active, in.ID)
	if err != nil {
		return intdb.MapError("bus", err)
	}
	return intdb.MustAffect("bus", res)
}

func (r BusRepository) Delete(ctx context.Context, id int64) error {
	res, err := pick(r.DB).ExecContext(ctx, `DELETE FROM buses WHERE id = ?`, id)
	if err != nil {
		return intdb.MapError("bus", err)
	}
	return intdb.MustAffect("bus", res)
}
