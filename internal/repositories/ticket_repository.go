package repositories

import (
	"context"
	"database/sql"

	intdb "planillabus/internal/db"
	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
)

type TicketRepository struct {
	DB *sql.DB
}

type TicketFilter struct {
	ManifestID int64
	SellerID   int64
	Created    domain.DateRange
}

const ticketSelect = `
	SELECT id, id_tipo_documento, COALESCE(numero_documento,''), COALESCE(nombre,''), COALESCE(correo,''),
	       num_asientos, id_planilla, id_perfil_ruta, COALESCE(id_vendedor,0), valor_unitario, total, fecha_creacion
	FROM tiquetes`

func scanTicket(sc interface{ Scan(...any) error }) (models.Ticket, error) {
	var t models.Ticket
	err := sc.Scan(&t.ID, &t.DocumentTypeID, &t.DocumentNumber, &t.Name, &t.Email,
		&t.Seats, &t.ManifestID, &t.FareProfileID, &t.SellerID, &t.UnitPrice, &t.Total, &t.CreatedAt)
	return t, err
}

func ticketWhere(f TicketFilter) intdb.Where {
	var w intdb.Where
	if f.ManifestID > 0 {
		w.Add("id_planilla = ?", f.ManifestID)
	}
	if f.SellerID > 0 {
		w.Add("id_vendedor = ?", f.SellerID)
	}
	if !f.Created.From.IsZero() {
		w.Add("fecha_creacion >= ?", f.Created.From)
	}
	if !f.Created.To.IsZero() {
		w.Add("fecha_creacion < ?", f.Created.EndExclusive())
	}
	return w
}

func (r TicketRepository) List(ctx context.Context, f TicketFilter) ([]models.Ticket, error) {
	w := ticketWhere(f)
	rows, err := pick(r.DB).QueryContext(ctx, ticketSelect+w.String()+" ORDER BY id DESC", w.Args...)
	if err != nil {
		return nil, intdb.MapError("tiquete", err)
	}
	defer rows.Close()

	out := []models.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, intdb.MapError("tiquete", err)
		}
		out = append(out, t)
	}
	return out, intdb.MapError("tiquete", rows.Err())
}

func (r TicketRepository) GetByID(ctx context.Context, id int64) (models.Ticket, error) {
	t, err := scanTicket(pick(r.DB).QueryRowContext(ctx, ticketSelect+" WHERE id = ?", id))
	if err != nil {
		return models.Ticket{}, intdb.MapError("tiquete", err)
	}
	return t, nil
}

func (r TicketRepository) Create(ctx context.Context, in models.Ticket) (models.Ticket, error) {
	res, err := pick(r.DB).ExecContext(ctx, `
		INSERT INTO tiquetes (id_tipo_documento, numero_documento, nombre, correo, num_asientos, id_planilla, id_perfil_ruta, id_vendedor, valor_unitario, total, fecha_creacion)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.DocumentTypeID, in.DocumentNumber, in.Name, intdb.NullIfEmpty(in.Email), in.Seats, in.ManifestID,
		in.FareProfileID, intdb.NullIfZero(in.SellerID), in.UnitPrice, in.Total, in.CreatedAt)
	if err != nil {
		return models.Ticket{}, intdb.MapError("tiquete", err)
	}
	in.ID, _ = res.LastInsertId()
	return in, nil
}

func (r TicketRepository) Update(ctx context.Context, in models.Ticket) error {
	res, err := pick(r.DB).ExecContext(ctx, `
		UPDATE tiquetes
		SET id_tipo_documento = ?, numero_documento = ?, nombre = ?, correo = ?, num_asientos = ?, id_planilla = ?,
		    id_perfil_ruta = ?, id_vendedor = ?, valor_unitario = ?, total = ?
		WHERE id = ?`,
		in.DocumentTypeID, in.DocumentNumber, in.Name, intdb.NullIfEmpty(in.Email), in.Seats, in.ManifestID,
		in.FareProfileID, intdb.NullIfZero(in.SellerID), in.UnitPrice, in.Total, in.ID)
	if err != nil {
		return intdb.MapError("tiquete", err)
	}
	return intdb.MustAffect("tiquete", res)
}

func (r TicketRepository) Delete(ctx context.Context, id int64) error {
	res, err := pick(r.DB).ExecContext(ctx, `DELETE FROM tiquetes WHERE id = ?`, id)
	if err != nil {
		return intdb.MapError("tiquete", err)
	}
	return intdb.MustAffect("tiquete", res)
}

func (r TicketRepository) Stats(ctx context.Context, f TicketFilter) (models.TicketStats, error) {
	w := ticketWhere(f)
	var s models.TicketStats
	err := pick(r.DB).QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(num_asientos),0), COALESCE(SUM(total),0) FROM tiquetes`+w.String(), w.Args...).
		Scan(&s.Count, &s.Seats, &s.Revenue)
	if err != nil {
		return models.TicketStats{}, intdb.MapError("tiquete", err)
	}
	return s, nil
}
