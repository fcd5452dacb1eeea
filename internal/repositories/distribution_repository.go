package repositories

import (
	"context"
	"database/sql"

	intdb "planillabus/internal/db"
	"planillabus/internal/domain/models"
)

type DistributionRepository struct {
	DB *sql.DB
}

type DistributionFilter struct {
	BusAssignmentID int64
	OwnerID         int64
}

const distributionSelect = `
	SELECT d.id, d.id_planilla_bus, d.id_propietario, COALESCE(p.nombre,''), COALESCE(b.placa,''),
	       COALESCE(d.porcentaje_aplicado,0), COALESCE(d.valor_aplicado,0)
	FROM planillas_distribuciones d
	LEFT JOIN propietarios p ON p.id = d.id_propietario
	LEFT JOIN planillas_buses pb ON pb.id = d.id_planilla_bus
	LEFT JOIN buses b ON b.id = pb.id_bus`

func scanDistribution(sc interface{ Scan(...any) error }) (models.DistributionEntry, error) {
	var d models.DistributionEntry
	err := sc.Scan(&d.ID, &d.BusAssignmentID, &d.OwnerID, &d.OwnerName, &d.BusPlate, &d.Percentage, &d.AppliedValue)
	return d, err
}

func (r DistributionRepository) List(ctx context.Context, f DistributionFilter) ([]models.DistributionEntry, error) {
	var w intdb.Where
	if f.BusAssignmentID > 0 {
		w.Add("d.id_planilla_bus = ?", f.BusAssignmentID)
	}
	if f.OwnerID > 0 {
		w.Add("d.id_propietario = ?", f.OwnerID)
	}
	rows, err := pick(r.DB).QueryContext(ctx, distributionSelect+w.String()+" ORDER BY d.id DESC", w.Args...)
	if err != nil {
		return nil, intdb.MapError("distribución", err)
	}
	defer rows.Close()

	out := []models.DistributionEntry{}
	for rows.Next() {
		d, err := scanDistribution(rows)
		if err != nil {
			return nil, intdb.MapError("distribución", err)
		}
		out = append(out, d)
	}
	return out, intdb.MapError("distribución", rows.Err())
}

func (r DistributionRepository) GetByID(ctx context.Context, id int64) (models.DistributionEntry, error) {
	d, err := scanDistribution(pick(r.DB).QueryRowContext(ctx, distributionSelect+" WHERE d.id = ?", id))
	if err != nil {
		return models.DistributionEntry{}, intdb.MapError("distribución", err)
	}
	return d, nil
}

func (r DistributionRepository) Create(ctx context.Context, in models.DistributionEntry) (models.DistributionEntry, error) {
	res, err := pick(r.DB).ExecContext(ctx, `
		INSERT INTO planillas_distribuciones (id_planilla_bus, id_propietario, porcentaje_aplicado, valor_aplicado)
		VALUES (?, ?, ?, ?)`,
		in.BusAssignmentID, in.OwnerID, in.Percentage, in.AppliedValue)
	if err != nil {
		return models.DistributionEntry{}, intdb.MapError("distribución", err)
	}
	in.ID, _ = res.LastInsertId()
	return in, nil
}

func (r DistributionRepository) Update(ctx context.Context, in models.DistributionEntry) error {
	res, err := pick(r.DB).ExecContext(ctx, `
		UPDATE planillas_distribuciones
		SET id_planilla_bus = ?, id_propietario = ?, porcentaje_aplicado = ?, valor_aplicado = ?
		WHERE id = ?`,
		in.BusAssignmentID, in.OwnerID, in.Percentage, in.AppliedValue, in.ID)
	if err != nil {
		return intdb.MapError("distribución", err)
	}
	return intdb.MustAffect("distribución", res)
}

func (r DistributionRepository) Delete(ctx context.Context, id int64) error {
	res, err := pick(r.DB).ExecContext(ctx, `DELETE FROM planillas_distribuciones WHERE id = ?`, id)
	if err != nil {
		return intdb.MapError("distribución", err)
	}
	return intdb.MustAffect("distribución", res)
}
