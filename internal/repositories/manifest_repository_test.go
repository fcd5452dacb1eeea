package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"planillabus/internal/domain"
	"planillabus/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
)

var manifestCols = []string{"id", "num_planilla", "prefijo", "id_sitio", "id_usuario", "id_ruta",
	"fecha_creacion", "fecha_cierre", "valor_planilla", "cuenta_contable_recibido", "estado"}

func TestManifestGetByIDScansStatusAndClosedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	created := time.Date(2025, 6, 3, 6, 0, 0, 0, time.UTC)
	closed := created.Add(4 * time.Hour)
	mock.ExpectQuery("FROM planillas WHERE id = \\?").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(manifestCols).
			AddRow(5, "PL-005", "PL", 1, 2, 7, created, closed, 150000.0, "1105", 3))

	m, err := ManifestRepository{DB: db}.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if m.Status != models.ManifestClosed {
		t.Fatalf("expected closed status, got %v", m.Status)
	}
	if m.ClosedAt == nil || !m.ClosedAt.Equal(closed) {
		t.Fatalf("closed_at not scanned: %v", m.ClosedAt)
	}
	if m.RouteID != 7 || m.Number != "PL-005" {
		t.Fatalf("unexpected manifest: %+v", m)
	}
}

func TestManifestListFiltersByStatusAndDate(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	from := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery("WHERE estado IN \\(\\?,\\?\\) AND fecha_creacion >= \\? AND fecha_creacion < \\? ORDER BY id DESC").
		WithArgs(1, 2, from, to.AddDate(0, 0, 1)).
		WillReturnRows(sqlmock.NewRows(manifestCols).
			AddRow(9, "PL-009", "", 0, 0, 7, from, nil, 0.0, "", 1))

	f := ManifestFilter{
		Statuses: []models.ManifestStatus{models.ManifestOpen, models.ManifestOnSale},
		Created:  domain.DateRange{From: from, To: to},
	}
	list, err := ManifestRepository{DB: db}.List(context.Background(), f)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(list) != 1 || list[0].ClosedAt != nil {
		t.Fatalf("unexpected list: %+v", list)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestManifestUpdateStatusConflictWhenStatusMoved(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE planillas SET estado = \\?").
		WithArgs(int(models.ManifestVoided), nil, int64(5), int(models.ManifestOpen)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = ManifestRepository{DB: db}.UpdateStatus(context.Background(), 5, models.ManifestOpen, models.ManifestVoided, nil)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestManifestUpdateStatusSetsClosedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	at := time.Date(2025, 6, 3, 18, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE planillas SET estado = \\?").
		WithArgs(int(models.ManifestClosed), &at, int64(5), int(models.ManifestOnSale)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := (ManifestRepository{DB: db}).UpdateStatus(context.Background(), 5, models.ManifestOnSale, models.ManifestClosed, &at); err != nil {
		t.Fatalf("update status error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestManifestDeleteWithTicketsIsConflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM planillas").WithArgs(int64(5)).
		WillReturnError(&mysql.MySQLError{Number: 1451, Message: "foreign key"})

	err = ManifestRepository{DB: db}.Delete(context.Background(), 5)
	if !domain.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
	var me *mysql.MySQLError
	if !errors.As(err, &me) {
		t.Fatalf("driver error should stay wrapped")
	}
}

func TestManifestStatsGroupsByStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("GROUP BY estado").
		WillReturnRows(sqlmock.NewRows([]string{"estado", "count", "sum"}).
			AddRow(1, 4, 0.0).
			AddRow(3, 2, 300000.0))

	stats, err := ManifestRepository{DB: db}.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats error: %v", err)
	}
	if stats.Total != 6 || stats.DeclaredTotal != 300000 {
		t.Fatalf("unexpected totals: %+v", stats)
	}
	if stats.ByStatus[models.ManifestClosed.String()] != 2 {
		t.Fatalf("closed count wrong: %+v", stats.ByStatus)
	}
}
