package services

import (
	"context"
	"testing"
	"time"

	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
	"planillabus/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

var manifestCols = []string{"id", "num_planilla", "prefijo", "id_sitio", "id_usuario", "id_ruta",
	"fecha_creacion", "fecha_cierre", "valor_planilla", "cuenta_contable_recibido", "estado"}

func manifestRow(status models.ManifestStatus) *sqlmock.Rows {
	created := tuesdayNine.Add(-3 * time.Hour)
	return sqlmock.NewRows(manifestCols).AddRow(5, "PL-005", "PL", 1, 2, 7, created, nil, 100000.0, "", int(status))
}

func TestManifestCloseStampsClosedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM planillas WHERE id = \\?").WithArgs(int64(5)).WillReturnRows(manifestRow(models.ManifestOnSale))
	mock.ExpectExec("UPDATE planillas SET estado = \\?").
		WithArgs(int(models.ManifestClosed), tuesdayNine, int64(5), int(models.ManifestOnSale)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := ManifestService{Manifests: repositories.ManifestRepository{DB: db}, Clock: fixedClock}
	m, err := svc.Close(context.Background(), 5)
	if err != nil {
		t.Fatalf("close error: %v", err)
	}
	if m.Status != models.ManifestClosed || m.ClosedAt == nil || !m.ClosedAt.Equal(tuesdayNine) {
		t.Fatalf("unexpected manifest: %+v", m)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestManifestNoReverseTransitions(t *testing.T) {
	cases := []struct {
		from models.ManifestStatus
		to   models.ManifestStatus
	}{
		{models.ManifestClosed, models.ManifestVoided},
		{models.ManifestVoided, models.ManifestClosed},
		{models.ManifestClosed, models.ManifestOnSale},
		{models.ManifestOnSale, models.ManifestOnSale},
	}
	for _, tc := range cases {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock init error: %v", err)
		}
		mock.ExpectQuery("FROM planillas WHERE id = \\?").WillReturnRows(manifestRow(tc.from))

		svc := ManifestService{Manifests: repositories.ManifestRepository{DB: db}, Clock: fixedClock}
		if _, err := svc.Transition(context.Background(), 5, tc.to); !domain.IsConflict(err) {
			t.Fatalf("%s -> %s: expected conflict, got %v", tc.from, tc.to, err)
		}
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("%s -> %s: %v", tc.from, tc.to, err)
		}
		db.Close()
	}
}

func TestManifestVoidKeepsClosedAtEmpty(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM planillas WHERE id = \\?").WillReturnRows(manifestRow(models.ManifestOpen))
	mock.ExpectExec("UPDATE planillas SET estado = \\?").
		WithArgs(int(models.ManifestVoided), nil, int64(5), int(models.ManifestOpen)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc := ManifestService{Manifests: repositories.ManifestRepository{DB: db}, Clock: fixedClock}
	m, err := svc.Void(context.Background(), 5)
	if err != nil {
		t.Fatalf("void error: %v", err)
	}
	if m.Status != models.ManifestVoided || m.ClosedAt != nil {
		t.Fatalf("unexpected manifest: %+v", m)
	}
}

func TestManifestAvailability(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM planillas WHERE id = \\?").WillReturnRows(manifestRow(models.ManifestVoided))
	mock.ExpectQuery("FROM planillas WHERE id = \\?").WillReturnRows(manifestRow(models.ManifestOnSale))

	svc := ManifestService{Manifests: repositories.ManifestRepository{DB: db}}
	v, err := svc.Availability(context.Background(), 5)
	if err != nil || v.Available || v.Reason != domain.BlockedVoided {
		t.Fatalf("voided: got %+v, %v", v, err)
	}
	v, err = svc.Availability(context.Background(), 5)
	if err != nil || !v.Available {
		t.Fatalf("on sale: got %+v, %v", v, err)
	}
}

func TestManifestCreateDefaultsToOpen(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO planillas").
		WithArgs("PL-006", nil, nil, nil, int64(7), tuesdayNine, nil, 0.0, nil, int(models.ManifestOpen)).
		WillReturnResult(sqlmock.NewResult(6, 1))

	svc := ManifestService{Manifests: repositories.ManifestRepository{DB: db}, Clock: fixedClock}
	m, err := svc.Create(context.Background(), models.Manifest{Number: "PL-006", RouteID: 7})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if m.ID != 6 || m.Status != models.ManifestOpen {
		t.Fatalf("unexpected manifest: %+v", m)
	}

	if _, err := svc.Create(context.Background(), models.Manifest{RouteID: 7, Status: models.ManifestClosed}); !domain.IsValidation(err) {
		t.Fatalf("closed on create: expected validation error, got %v", err)
	}
}

func TestManifestUpdateFrozenWhenClosed(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM planillas WHERE id = \\?").WillReturnRows(manifestRow(models.ManifestClosed))

	svc := ManifestService{Manifests: repositories.ManifestRepository{DB: db}}
	_, err = svc.Update(context.Background(), models.Manifest{ID: 5, RouteID: 7})
	if !domain.IsBlocked(err) {
		t.Fatalf("expected blocked, got %v", err)
	}
}

func TestManifestListByDateValidation(t *testing.T) {
	svc := ManifestService{}
	r := domain.DateRange{From: tuesdayNine, To: tuesdayNine.AddDate(0, 0, -1)}
	if _, err := svc.ListByDate(context.Background(), r); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
