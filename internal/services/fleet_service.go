package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
	"planillabus/internal/repositories"
	"planillabus/internal/utils"
)

// Colombian bus plates: three letters and three digits.
var platePattern = regexp.MustCompile(`^[A-Z]{3}[0-9]{3}$`)

type BusService struct {
	Buses     repositories.BusRepository
	RequestID string
}

func (s BusService) List(ctx context.Context, f repositories.BusFilter) ([]models.Bus, error) {
	return s.Buses.List(ctx, f)
}

func (s BusService) Get(ctx context.Context, id int64) (models.Bus, error) {
	return s.Buses.GetByID(ctx, id)
}

func (s BusService) Create(ctx context.Context, in models.Bus) (models.Bus, error) {
	in, err := normalizeBus(in)
	if err != nil {
		return models.Bus{}, err
	}
	out, err := s.Buses.Create(ctx, in)
	if err != nil {
		return models.Bus{}, err
	}
	utils.LogEvent(s.RequestID, "bus", "create", fmt.Sprintf("id=%d placa=%s", out.ID, out.Plate))
	return out, nil
}

func (s BusService) Update(ctx context.Context, in models.Bus) (models.Bus, error) {
	in, err := normalizeBus(in)
	if err != nil {
		return models.Bus{}, err
	}
	if err := s.Buses.Update(ctx, in); err != nil {
		return models.Bus{}, err
	}
	utils.LogEvent(s.RequestID, "bus", "update", fmt.Sprintf("id=%d placa=%s", in.ID, in.Plate))
	return in, nil
}

func (s BusService) Delete(ctx context.Context, id int64) error {
	if err := s.Buses.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "bus", "delete", fmt.Sprintf("id=%d", id))
	return nil
}

// normalizeBus upper-cases the plate and checks the fields the bus form requires.
func normalizeBus(b models.Bus) (models.Bus, error) {
	b.Plate = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(b.Plate), " ", ""))
	b.Model = utils.NormalizeSpace(b.Model)
	switch {
	case b.Plate == "":
		return b, domain.ValidationError{Field: "placa", Msg: "requerida"}
	case !platePattern.MatchString(b.Plate):
		return b, domain.ValidationError{Field: "placa", Msg: "formato ABC123"}
	case b.Model == "":
		return b, domain.ValidationError{Field: "modelo", Msg: "requerido"}
	case b.Capacity < 1:
		return b, domain.ValidationError{Field: "capacidad", Msg: "mínimo 1 pasajero"}
	}
	var err error
	if b.SOATDate, err = normalizeDocDate("fecha_soat", b.SOATDate); err != nil {
		return b, err
	}
	if b.TechnoDate, err = normalizeDocDate("fecha_tecno", b.TechnoDate); err != nil {
		return b, err
	}
	return b, nil
}

// normalizeDocDate requires a YYYY-MM-DD date. Only the calendar date matters.
func normalizeDocDate(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", domain.ValidationError{Field: field, Msg: "requerida"}
	}
	d, err := utils.ParseDate(v, time.UTC)
	if err != nil {
		return "", domain.ValidationError{Field: field, Msg: "formato YYYY-MM-DD", Err: err}
	}
	return d.Format("2006-01-02"), nil
}

type DriverService struct {
	Drivers   repositories.DriverRepository
	RequestID string
}

func (s DriverService) List(ctx context.Context, onlyActive bool) ([]models.Driver, error) {
	return s.Drivers.List(ctx, onlyActive)
}

func (s DriverService) Get(ctx context.Context, id int64) (models.Driver, error) {
	return s.Drivers.GetByID(ctx, id)
}

func (s DriverService) Create(ctx context.Context, in models.Driver) (models.Driver, error) {
	in, err := normalizeDriver(in)
	if err != nil {
		return models.Driver{}, err
	}
	out, err := s.Drivers.Create(ctx, in)
	if err != nil {
		return models.Driver{}, err
	}
	utils.LogEvent(s.RequestID, "driver", "create", fmt.Sprintf("id=%d", out.ID))
	return out, nil
}

// Update returns the stored row so the joined bus plate is current.
func (s DriverService) Update(ctx context.Context, in models.Driver) (models.Driver, error) {
	in, err := normalizeDriver(in)
	if err != nil {
		return models.Driver{}, err
	}
	if err := s.Drivers.Update(ctx, in); err != nil {
		return models.Driver{}, err
	}
	utils.LogEvent(s.RequestID, "driver", "update", fmt.Sprintf("id=%d", in.ID))
	return s.Drivers.GetByID(ctx, in.ID)
}

func (s DriverService) Delete(ctx context.Context, id int64) error {
	if err := s.Drivers.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "driver", "delete", fmt.Sprintf("id=%d", id))
	return nil
}

func normalizeDriver(d models.Driver) (models.Driver, error) {
	d.Name = utils.NormalizeSpace(d.Name)
	d.DocumentNumber = strings.TrimSpace(d.DocumentNumber)
	d.Phone = strings.TrimSpace(d.Phone)
	switch {
	case d.Name == "":
		return d, domain.ValidationError{Field: "nombre", Msg: "requerido"}
	case d.DocumentNumber == "":
		return d, domain.ValidationError{Field: "numero_documento", Msg: "requerido"}
	case d.BusID < 0:
		return d, domain.ValidationError{Field: "id_bus", Msg: "inválido"}
	}
	d.BusPlate = ""
	return d, nil
}
