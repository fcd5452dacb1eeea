package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"planillabus/internal/domain"

	"github.com/go-sql-driver/mysql"
)

type QueryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NullIfEmpty helps store optional strings as NULL.
func NullIfEmpty(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return s
}

// NullIfZero stores zero foreign keys as NULL.
func NullIfZero(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

// HasTable reports whether table exists in the current schema.
func HasTable(ctx context.Context, q QueryRower, table string) bool {
	var name sql.NullString
	err := q.QueryRowContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE()
		  AND table_name = ?
		LIMIT 1
	`, table).Scan(&name)
	if err != nil {
		return false
	}
	return name.Valid && name.String != ""
}

// Where accumulates AND-ed filter clauses and their arguments.
type Where struct {
	clauses []string
	Args    []any
}

func (w *Where) Add(clause string, args ...any) {
	w.clauses = append(w.clauses, clause)
	w.Args = append(w.Args, args...)
}

func (w Where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

// MapError turns driver errors into domain errors for resource.
func MapError(resource string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: resource, Err: err}
	}
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case 1062:
			return domain.ConflictError{Resource: resource, Msg: "registro duplicado", Err: err}
		case 1451:
			return domain.ConflictError{Resource: resource, Msg: "tiene registros relacionados", Err: err}
		case 1452:
			return domain.ValidationError{Field: resource, Msg: "referencia inexistente", Err: err}
		}
	}
	return domain.InternalError{Msg: "error de base de datos", Err: err}
}

// MustAffect reports NotFound when an UPDATE/DELETE touched no row.
func MustAffect(resource string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return MapError(resource, err)
	}
	if n == 0 {
		return domain.NotFoundError{Resource: resource}
	}
	return nil
}
