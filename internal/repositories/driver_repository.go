package repositories

import (
	"context"
	"database/sql"

	intdb "planillabus/internal/db"
	"planillabus/internal/domain/models"
)

type DriverRepository struct {
	DB *sql.DB
}

const driverSelect = `
	SELECT c.id, c.nombre, COALESCE(c.numero_documento,''), COALESCE(c.telefono,''),
	       COALESCE(c.id_bus,0), COALESCE(b.placa,''), c.activo
	FROM conductores c
	LEFT JOIN buses b ON b.id = c.id_bus`

func scanDriver(sc interface{ Scan(...any) error }) (models.Driver, error) {
	var d models.Driver
	err := sc.Scan(&d.ID, &d.Name, &d.DocumentNumber, &d.Phone, &d.BusID, &d.BusPlate, &d.Active)
	return d, err
}

func (r DriverRepository) List(ctx context.Context, onlyActive bool) ([]models.Driver, error) {
	var w intdb.Where
	if onlyActive {
		w.Add("c.activo = ?", true)
	}
	rows, err := pick(r.DB).QueryContext(ctx, driverSelect+w.String()+" ORDER BY c.nombre", w.Args...)
	if err != nil {
		return nil, intdb.MapError("conductor", err)
	}
	defer rows.Close()

	out := []models.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, intdb.MapError("conductor", err)
		}
		out = append(out, d)
	}
	return out, intdb.MapError("conductor", rows.Err())
}

func (r DriverRepository) GetByID(ctx context.Context, id int64) (models.Driver, error) {
	d, err := scanDriver(pick(r.DB).QueryRowContext(ctx, driverSelect+" WHERE c.id = ?", id))
	if err != nil {
		return models.Driver{}, intdb.MapError("conductor", err)
	}
	return d, nil
}

func (r DriverRepository) Create(ctx context.Context, in models.Driver) (models.Driver, error) {
	res, err := pick(r.DB).ExecContext(ctx, `
		INSERT INTO conductores (nombre, numero_documento, telefono, id_bus, activo)
		VALUES (?, ?, ?, ?, ?)`,
		in.Name, in.DocumentNumber, intdb.NullIfEmpty(in.Phone), intdb.NullIfZero(in.BusID), in.Active)
	if err != nil {
		return models.Driver{}, intdb.MapError("conductor", err)
	}
	in.ID, _ = res.LastInsertId()
	return in, nil
}

func (r DriverRepository) Update(ctx context.Context, in models.Driver) error {
	res, err := pick(r.DB).ExecContext(ctx, `
		UPDATE conductores
		SET nombre = ?, numero_documento = ?, telefono = ?, id_bus = ?, activo = ?
		WHERE id = ?`,
		in.Name, in.DocumentNumber, intdb.NullIfEmpty(in.Phone), intdb.NullIfZero(in.BusID), in.Active, in.ID)
	if err != nil {
		return intdb.MapError("conductor", err)
	}
	return intdb.MustAffect("conductor", res)
}

func (r DriverRepository) Delete(ctx context.Context, id int64) error {
	res, err := pick(r.DB).ExecContext(ctx, `DELETE FROM conductores WHERE id = ?`, id)
	if err != nil {
		return intdb.MapError("conductor", err)
	}
	return intdb.MustAffect("conductor", res)
}
