package repositories

import (
	"context"
	"database/sql"

	intdb "planillabus/internal/db"
	"planillabus/internal/domain/models"
)

type UserRepository struct {
	DB *sql.DB
}

const userSelect = `
	SELECT id, nombre, COALESCE(tipo_documento,0), COALESCE(numero_documento,''), correo, COALESCE(telefono,''),
	       COALESCE(ciudad,0), COALESCE(rol,0), COALESCE(sitio,0), activo
	FROM usuarios`

func scanUser(sc interface{ Scan(...any) error }) (models.User, error) {
	var u models.User
	err := sc.Scan(&u.ID, &u.Name, &u.DocumentType, &u.DocumentNumber, &u.Email, &u.Phone,
		&u.CityID, &u.RoleID, &u.SiteID, &u.Active)
	return u, err
}

func (r UserRepository) List(ctx context.Context) ([]models.User, error) {
	rows, err := pick(r.DB).QueryContext(ctx, userSelect+" ORDER BY nombre")
	if err != nil {
		return nil, intdb.MapError("usuario", err)
	}
	defer rows.Close()

	out := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, intdb.MapError("usuario", err)
		}
		out = append(out, u)
	}
	return out, intdb.MapError("usuario", rows.Err())
}

func (r UserRepository) GetByID(ctx context.Context, id int64) (models.User, error) {
	u, err := scanUser(pick(r.DB).QueryRowContext(ctx, userSelect+" WHERE id = ?", id))
	if err != nil {
		return models.User{}, intdb.MapError("usuario", err)
	}
	return u, nil
}

func (r UserRepository) Create(ctx context.Context, in models.User) (models.User, error) {
	res, err := pick(r.DB).ExecContext(ctx, `
		INSERT INTO usuarios (nombre, tipo_documento, numero_documento, correo, telefono, ciudad, rol, sitio, activo, contrasena_hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, intdb.NullIfZero(in.DocumentType), in.DocumentNumber, in.Email, intdb.NullIfEmpty(in.Phone),
		intdb.NullIfZero(in.CityID), intdb.NullIfZero(in.RoleID), intdb.NullIfZero(in.SiteID), in.Active, in.PasswordHash)
	if err != nil {
		return models.User{}, intdb.MapError("usuario", err)
	}
	in.ID, _ = res.LastInsertId()
	return in, nil
}

// Update leaves the password untouched when PasswordHash is empty.
func (r UserRepository) Update(ctx context.Context, in models.User) error {
	res, err := pick(r.DB).ExecContext(ctx, `
		UPDATE usuarios
		SET nombre = ?, tipo_documento = ?, numero_documento = ?, correo = ?, telefono = ?, ciudad = ?, rol = ?, sitio = ?, activo = ?,
		    contrasena_hash = COALESCE(?, contrasena_hash)
		WHERE id = ?`,
		in.Name, intdb.NullIfZero(in.DocumentType), in.DocumentNumber, in.Email, intdb.NullIfEmpty(in.Phone),
		intdb.NullIfZero(in.CityID), intdb.NullIfZero(in.RoleID), intdb.NullIfZero(in.SiteID), in.Active,
		intdb.NullIfEmpty(in.PasswordHash), in.ID)
	if err != nil {
		return intdb.MapError("usuario", err)
	}
	return intdb.MustAffect("usuario", res)
}

func (r UserRepository) Delete(ctx context.Context, id int64) error {
	res, err := pick(r.DB).ExecContext(ctx, `DELETE FROM usuarios WHERE id = ?`, id)
	if err != nil {
		return intdb.MapError("usuario", err)
	}
	return intdb.MustAffect("usuario", res)
}
