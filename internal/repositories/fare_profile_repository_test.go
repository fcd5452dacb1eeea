package repositories

import (
	"context"
	"reflect"
	"testing"

	"planillabus/internal/domain"
	"planillabus/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var fareProfileCols = []string{"id", "id_ruta", "dias_semana", "hora_inicio", "hora_fin", "valor", "activo"}

func TestFareProfileListByRouteDecodesRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM perfiles_rutas WHERE id_ruta = \\? ORDER BY id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(fareProfileCols).
			AddRow(1, 7, "1,2,3,4,5", "06:00:00", "12:00:00", 20000.0, true).
			AddRow(2, 7, "6;7", "22:00", "02:00", "25000", false))

	repo := FareProfileRepository{DB: db}
	got, err := repo.ListByRoute(context.Background(), 7)
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 profiles, got %d", len(got))
	}
	if got[0].StartTime != "06:00" || got[0].EndTime != "12:00" {
		t.Fatalf("TIME columns not trimmed: %q-%q", got[0].StartTime, got[0].EndTime)
	}
	if !reflect.DeepEqual(got[0].Weekdays, []int{1, 2, 3, 4, 5}) {
		t.Fatalf("weekdays decoded wrong: %v", got[0].Weekdays)
	}
	if !reflect.DeepEqual(got[1].Weekdays, []int{6, 7}) || got[1].Active {
		t.Fatalf("second profile decoded wrong: %+v", got[1])
	}
	if got[1].Price != 25000 {
		t.Fatalf("price decoded wrong: %v", got[1].Price)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFareProfileGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM perfiles_rutas WHERE id = \\?").
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(fareProfileCols))

	_, err = FareProfileRepository{DB: db}.GetByID(context.Background(), 99)
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFareProfileCreateEncodesWeekdays(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO perfiles_rutas").
		WithArgs(int64(3), "1,3,5", "06:00", "09:00", 18000.0, true).
		WillReturnResult(sqlmock.NewResult(11, 1))

	in := models.FareProfile{RouteID: 3, Weekdays: []int{5, 1, 3, 1}, StartTime: "06:00", EndTime: "09:00", Price: 18000, Active: true}
	out, err := FareProfileRepository{DB: db}.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if out.ID != 11 {
		t.Fatalf("expected id 11, got %d", out.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestFareProfileDeleteMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("DELETE FROM perfiles_rutas").WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := (FareProfileRepository{DB: db}).Delete(context.Background(), 4); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWeekdayCodec(t *testing.T) {
	if got := EncodeWeekdays([]int{7, 1, 7, 3}); got != "1,3,7" {
		t.Fatalf("encode: got %q", got)
	}
	if got := EncodeWeekdays(nil); got != "" {
		t.Fatalf("encode empty: got %q", got)
	}
	if got := DecodeWeekdays(" 1, x ,4;5 "); !reflect.DeepEqual(got, []int{1, 4, 5}) {
		t.Fatalf("decode: got %v", got)
	}
	if got := DecodeWeekdays(""); len(got) != 0 {
		t.Fatalf("decode empty: got %v", got)
	}
}
