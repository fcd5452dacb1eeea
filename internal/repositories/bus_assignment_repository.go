package repositories

import (
	"context"
	"database/sql"
	"time"

	intdb "planillabus/internal/db"
	"planillabus/internal/domain/models"
)

type BusAssignmentRepository struct {
	DB *sql.DB
}

type BusAssignmentFilter struct {
	ManifestID int64
	BusID      int64
	DriverID   int64
}

const busAssignmentSelect = `
	SELECT pb.id, pb.id_planilla, pb.id_bus, COALESCE(b.placa,''), pb.id_conductor, COALESCE(c.nombre,''),
	       COALESCE(pb.numero_pasajeros,0), pb.fecha_salida, pb.fecha_llegada
	FROM planillas_buses pb
	LEFT JOIN buses b ON b.id = pb.id_bus
	LEFT JOIN conductores c ON c.id = pb.id_conductor`

func scanBusAssignment(sc interface{ Scan(...any) error }) (models.BusAssignment, error) {
	var (
		a                  models.BusAssignment
		departure, arrival sql.NullTime
	)
	err := sc.Scan(&a.ID, &a.ManifestID, &a.BusID, &a.BusPlate, &a.DriverID, &a.DriverName,
		&a.Passengers, &departure, &arrival)
	if err != nil {
		return a, err
	}
	if departure.Valid {
		t := departure.Time
		a.DepartureAt = &t
	}
	if arrival.Valid {
		t := arrival.Time
		a.ArrivalAt = &t
	}
	a.Status = a.DeriveStatus()
	return a, nil
}

func (r BusAssignmentRepository) List(ctx context.Context, f BusAssignmentFilter) ([]models.BusAssignment, error) {
	var w intdb.Where
	if f.ManifestID > 0 {
		w.Add("pb.id_planilla = ?", f.ManifestID)
	}
	if f.BusID > 0 {
		w.Add("pb.id_bus = ?", f.BusID)
	}
	if f.DriverID > 0 {
		w.Add("pb.id_conductor = ?", f.DriverID)
	}
	rows, err := pick(r.DB).QueryContext(ctx, busAssignmentSelect+w.String()+" ORDER BY pb.id DESC", w.Args...)
	if err != nil {
		return nil, intdb.MapError("planilla bus", err)
	}
	defer rows.Close()

	out := []models.BusAssignment{}
	for rows.Next() {
		a, err := scanBusAssignment(rows)
		if err != nil {
			return nil, intdb.MapError("planilla bus", err)
		}
		out = append(out, a)
	}
	return out, intdb.MapError("planilla bus", rows.Err())
}

func (r BusAssignmentRepository) GetByID(ctx context.Context, id int64) (models.BusAssignment, error) {
	a, err := scanBusAssignment(pick(r.DB).QueryRowContext(ctx, busAssignmentSelect+" WHERE pb.id = ?", id))
	if err != nil {
		return models.BusAssignment{}, intdb.MapError("planilla bus", err)
	}
	return a, nil
}

func (r BusAssignmentRepository) Create(ctx context.Context, in models.BusAssignment) (models.BusAssignment, error) {
	res, err := pick(r.DB).ExecContext(ctx, `
		INSERT INTO planillas_buses (id_planilla, id_bus, id_conductor, numero_pasajeros, fecha_salida, fecha_llegada)
		VALUES (?, ?, ?, ?, ?, ?)`,
		in.ManifestID, in.BusID, in.DriverID, in.Passengers, in.DepartureAt, in.ArrivalAt)
	if err != nil {
		return models.BusAssignment{}, intdb.MapError("planilla bus", err)
	}
	in.ID, _ = res.LastInsertId()
	in.Status = in.DeriveStatus()
	return in, nil
}

func (r BusAssignmentRepository) Update(ctx context.Context, in models.BusAssignment) error {
	res, err := pick(r.DB).ExecContext(ctx, `
		UPDATE planillas_buses
		SET id_planilla = ?, id_bus = ?, id_conductor = ?, numero_pasajeros = ?, fecha_salida = ?, fecha_llegada = ?
		WHERE id = ?`,
		in.ManifestID, in.BusID, in.DriverID, in.Passengers, in.DepartureAt, in.ArrivalAt, in.ID)
	if err != nil {
		return intdb.MapError("planilla bus", err)
	}
	return intdb.MustAffect("planilla bus", res)
}

// RegisterArrival stamps fecha_llegada, which makes the assignment Completed.
func (r BusAssignmentRepository) RegisterArrival(ctx context.Context, id int64, at time.Time) error {
	res, err := pick(r.DB).ExecContext(ctx, `UPDATE planillas_buses SET fecha_llegada = ? WHERE id = ?`, at, id)
	if err != nil {
		return intdb.MapError("planilla bus", err)
	}
	return intdb.MustAffect("planilla bus", res)
}

func (r BusAssignmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := pick(r.DB).ExecContext(ctx, `DELETE FROM planillas_buses WHERE id = ?`, id)
	if err != nil {
		return intdb.MapError("planilla bus", err)
	}
	return intdb.MustAffect("planilla bus", res)
}
