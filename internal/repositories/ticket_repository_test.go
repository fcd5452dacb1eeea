package repositories

import (
	"context"
	"testing"
	"time"

	"planillabus/internal/domain"
	"planillabus/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestTicketCreateStoresOptionalColumnsAsNull(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	created := time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec("INSERT INTO tiquetes").
		WithArgs(int64(1), "1020", "Ana", nil, 2, int64(5), int64(1), nil, 20000.0, 40000.0, created).
		WillReturnResult(sqlmock.NewResult(31, 1))

	in := models.Ticket{DocumentTypeID: 1, DocumentNumber: "1020", Name: "Ana", Seats: 2, ManifestID: 5,
		FareProfileID: 1, UnitPrice: 20000, Total: 40000, CreatedAt: created}
	out, err := TicketRepository{DB: db}.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if out.ID != 31 {
		t.Fatalf("expected id 31, got %d", out.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestTicketStatsForManifest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM tiquetes WHERE id_planilla = \\?").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count", "seats", "revenue"}).AddRow(3, 7, 140000.0))

	s, err := TicketRepository{DB: db}.Stats(context.Background(), TicketFilter{ManifestID: 5})
	if err != nil {
		t.Fatalf("stats error: %v", err)
	}
	if s.Count != 3 || s.Seats != 7 || s.Revenue != 140000 {
		t.Fatalf("unexpected stats: %+v", s)
	}
}

func TestTicketUpdateMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("UPDATE tiquetes").WillReturnResult(sqlmock.NewResult(0, 0))

	err = TicketRepository{DB: db}.Update(context.Background(), models.Ticket{ID: 77, Seats: 1})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestBusAssignmentDerivesStatusFromArrival(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	dep := time.Date(2025, 6, 3, 6, 0, 0, 0, time.UTC)
	arr := dep.Add(5 * time.Hour)
	cols := []string{"id", "id_planilla", "id_bus", "placa", "id_conductor", "nombre", "numero_pasajeros", "fecha_salida", "fecha_llegada"}
	mock.ExpectQuery("FROM planillas_buses pb").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, 5, 10, "ABC123", 4, "Luis", 30, dep, nil).
			AddRow(2, 5, 11, "XYZ987", 6, "Marta", 28, dep, arr))

	list, err := BusAssignmentRepository{DB: db}.List(context.Background(), BusAssignmentFilter{ManifestID: 5})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(list))
	}
	if list[0].Status != models.AssignmentInTransit {
		t.Fatalf("expected in transit, got %v", list[0].Status)
	}
	if list[1].Status != models.AssignmentCompleted || list[1].ArrivalAt == nil {
		t.Fatalf("expected completed, got %+v", list[1])
	}
}
