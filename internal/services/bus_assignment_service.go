package services

import (
	"context"
	"fmt"
	"time"

	"planillabus/internal/clock"
	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
	"planillabus/internal/repositories"
	"planillabus/internal/utils"
)

// BusAssignmentService manages the buses dispatched under a manifest.
type BusAssignmentService struct {
	Assignments repositories.BusAssignmentRepository
	Clock       clock.Clock
	RequestID   string
}

func (s BusAssignmentService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}

func (s BusAssignmentService) List(ctx context.Context, f repositories.BusAssignmentFilter) ([]models.BusAssignment, error) {
	return s.Assignments.List(ctx, f)
}

func (s BusAssignmentService) Get(ctx context.Context, id int64) (models.BusAssignment, error) {
	return s.Assignments.GetByID(ctx, id)
}

func (s BusAssignmentService) Create(ctx context.Context, in models.BusAssignment) (models.BusAssignment, error) {
	if err := validateAssignment(in); err != nil {
		return models.BusAssignment{}, err
	}
	if in.DepartureAt == nil {
		t := s.now()
		in.DepartureAt = &t
	}
	out, err := s.Assignments.Create(ctx, in)
	if err != nil {
		return models.BusAssignment{}, err
	}
	out.Status = out.DeriveStatus()
	utils.LogEvent(s.RequestID, "bus_assignment", "create", fmt.Sprintf("id=%d planilla=%d bus=%d", out.ID, out.ManifestID, out.BusID))
	return out, nil
}

func (s BusAssignmentService) Update(ctx context.Context, in models.BusAssignment) (models.BusAssignment, error) {
	if err := validateAssignment(in); err != nil {
		return models.BusAssignment{}, err
	}
	if in.ArrivalAt != nil && in.DepartureAt != nil && in.ArrivalAt.Before(*in.DepartureAt) {
		return models.BusAssignment{}, domain.ValidationError{Field: "fecha_llegada", Msg: "anterior a la salida"}
	}
	if err := s.Assignments.Update(ctx, in); err != nil {
		return models.BusAssignment{}, err
	}
	in.Status = in.DeriveStatus()
	utils.LogEvent(s.RequestID, "bus_assignment", "update", fmt.Sprintf("id=%d", in.ID))
	return in, nil
}

// RegisterArrival records the arrival at "at" (now when zero). An assignment
// that already arrived is a conflict.
func (s BusAssignmentService) RegisterArrival(ctx context.Context, id int64, at time.Time) (models.BusAssignment, error) {
	a, err := s.Assignments.GetByID(ctx, id)
	if err != nil {
		return models.BusAssignment{}, err
	}
	if a.DeriveStatus() == models.AssignmentCompleted {
		return models.BusAssignment{}, domain.ConflictError{Resource: "planilla bus", Msg: "la llegada ya fue registrada"}
	}
	if at.IsZero() {
		at = s.now()
	}
	if a.DepartureAt != nil && at.Before(*a.DepartureAt) {
		return models.BusAssignment{}, domain.ValidationError{Field: "fecha_llegada", Msg: "anterior a la salida"}
	}
	if err := s.Assignments.RegisterArrival(ctx, id, at); err != nil {
		return models.BusAssignment{}, err
	}
	a.ArrivalAt = &at
	a.Status = a.DeriveStatus()
	utils.LogEvent(s.RequestID, "bus_assignment", "arrival", fmt.Sprintf("id=%d", id))
	return a, nil
}

func (s BusAssignmentService) Delete(ctx context.Context, id int64) error {
	if err := s.Assignments.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "bus_assignment", "delete", fmt.Sprintf("id=%d", id))
	return nil
}

func validateAssignment(a models.BusAssignment) error {
	switch {
	case a.ManifestID <= 0:
		return domain.ValidationError{Field: "id_planilla", Msg: "requerido"}
	case a.BusID <= 0:
		return domain.ValidationError{Field: "id_bus", Msg: "requerido"}
	case a.DriverID <= 0:
		return domain.ValidationError{Field: "id_conductor", Msg: "requerido"}
	case a.Passengers < 0:
		return domain.ValidationError{Field: "numero_pasajeros", Msg: "no puede ser negativo"}
	}
	return nil
}
