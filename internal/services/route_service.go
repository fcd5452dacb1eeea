package services

import (
	"context"
	"fmt"

	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
	"planillabus/internal/repositories"
	"planillabus/internal/utils"
)

type RouteService struct {
	Routes    repositories.RouteRepository
	RequestID string
}

func (s RouteService) List(ctx context.Context, onlyActive bool) ([]models.Route, error) {
	return s.Routes.List(ctx, onlyActive)
}

func (s RouteService) Get(ctx context.Context, id int64) (models.Route, error) {
	return s.Routes.GetByID(ctx, id)
}

func (s RouteService) Create(ctx context.Context, in models.Route) (models.Route, error) {
	if err := validateRoute(in); err != nil {
		return models.Route{}, err
	}
	out, err := s.Routes.Create(ctx, in)
	if err != nil {
		return models.Route{}, err
	}
	utils.LogEvent(s.RequestID, "route", "create", fmt.Sprintf("id=%d", out.ID))
	return out, nil
}

func (s RouteService) Update(ctx context.Context, in models.Route) (models.Route, error) {
	if err := validateRoute(in); err != nil {
		return models.Route{}, err
	}
	if err := s.Routes.Update(ctx, in); err != nil {
		return models.Route{}, err
	}
	utils.LogEvent(s.RequestID, "route", "update", fmt.Sprintf("id=%d", in.ID))
	return s.Routes.GetByID(ctx, in.ID)
}

func (s RouteService) Delete(ctx context.Context, id int64) error {
	if err := s.Routes.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "route", "delete", fmt.Sprintf("id=%d", id))
	return nil
}

func validateRoute(r models.Route) error {
	if r.OriginCityID <= 0 {
		return domain.ValidationError{Field: "id_ciudad_origen", Msg: "requerido"}
	}
	if r.DestinationCityID <= 0 {
		return domain.ValidationError{Field: "id_ciudad_destino", Msg: "requerido"}
	}
	if r.OriginCityID == r.DestinationCityID {
		return domain.ValidationError{Field: "id_ciudad_destino", Msg: "debe ser distinta del origen"}
	}
	return nil
}
