package repositories

import (
	"context"
	"database/sql"

	intdb "planillabus/internal/db"
	"planillabus/internal/domain/models"
)

type RouteRepository struct {
	DB *sql.DB
}

const routeSelect = `
	SELECT r.id,
	       r.id_ciudad_origen,
	       COALESCE(co.nombre,''),
	       r.id_ciudad_destino,
	       COALESCE(cd.nombre,''),
	       r.activo
	FROM rutas r
	LEFT JOIN ciudades co ON co.id = r.id_ciudad_origen
	LEFT JOIN ciudades cd ON cd.id = r.id_ciudad_destino`

func scanRoute(sc interface{ Scan(...any) error }) (models.Route, error) {
	var r models.Route
	err := sc.Scan(&r.ID, &r.OriginCityID, &r.OriginCity, &r.DestinationCityID, &r.DestinationCity, &r.Active)
	return r, err
}

// List returns routes, optionally only the active ones.
func (r RouteRepository) List(ctx context.Context, onlyActive bool) ([]models.Route, error) {
	var w intdb.Where
	if onlyActive {
		w.Add("r.activo = ?", true)
	}
	rows, err := pick(r.DB).QueryContext(ctx, routeSelect+w.String()+" ORDER BY r.id DESC", w.Args...)
	if err != nil {
		return nil, intdb.MapError("ruta", err)
	}
	defer rows.Close()

	out := []models.Route{}
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, intdb.MapError("ruta", err)
		}
		out = append(out, route)
	}
	return out, intdb.MapError("ruta", rows.Err())
}

func (r RouteRepository) GetByID(ctx context.Context, id int64) (models.Route, error) {
	route, err := scanRoute(pick(r.DB).QueryRowContext(ctx, routeSelect+" WHERE r.id = ?", id))
	if err != nil {
		return models.Route{}, intdb.MapError("ruta", err)
	}
	return route, nil
}

func (r RouteRepository) Create(ctx context.Context, in models.Route) (models.Route, error) {
	res, err := pick(r.DB).ExecContext(ctx,
		`INSERT INTO rutas (id_ciudad_origen, id_ciudad_destino, activo) VALUES (?, ?, ?)`,
		in.OriginCityID, in.DestinationCityID, in.Active)
	if err != nil {
		return models.Route{}, intdb.MapError("ruta", err)
	}
	in.ID, _ = res.LastInsertId()
	return in, nil
}

func (r RouteRepository) Update(ctx context.Context, in models.Route) error {
	res, err := pick(r.DB).ExecContext(ctx,
		`UPDATE rutas SET id_ciudad_origen = ?, id_ciudad_destino = ?, activo = ? WHERE id = ?`,
		in.OriginCityID, in.DestinationCityID, in.Active, in.ID)
	if err != nil {
		return intdb.MapError("ruta", err)
	}
	return intdb.MustAffect("ruta", res)
}

func (r RouteRepository) Delete(ctx context.Context, id int64) error {
	res, err := pick(r.DB).ExecContext(ctx, `DELETE FROM rutas WHERE id = ?`, id)
	if err != nil {
		return intdb.MapError("ruta", err)
	}
	return intdb.MustAffect("ruta", res)
}
