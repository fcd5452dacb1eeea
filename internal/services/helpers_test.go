package services

import (
	"context"
	"time"

	"planillabus/internal/clock"
	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
)

// Tuesday 09:00
var tuesdayNine = time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC)

var fixedClock = clock.NewFixed(tuesdayNine)

type stubRefs struct {
	manifests   map[int64]models.Manifest
	profiles    map[int64][]models.FareProfile
	profilesErr error
}

func (s stubRefs) Manifest(ctx context.Context, id int64) (models.Manifest, error) {
	m, ok := s.manifests[id]
	if !ok {
		return models.Manifest{}, domain.NotFoundError{Resource: "planilla"}
	}
	return m, nil
}

func (s stubRefs) FareProfilesByRoute(ctx context.Context, routeID int64) ([]models.FareProfile, error) {
	if s.profilesErr != nil {
		return nil, s.profilesErr
	}
	return s.profiles[routeID], nil
}

func weekdayProfile() models.FareProfile {
	return models.FareProfile{ID: 1, RouteID: 7, Weekdays: []int{1, 2, 3, 4, 5}, StartTime: "06:00", EndTime: "12:00", Price: 20000, Active: true}
}

func weekendProfile() models.FareProfile {
	return models.FareProfile{ID: 2, RouteID: 7, Weekdays: []int{6, 7}, StartTime: "00:00", EndTime: "23:59", Price: 25000, Active: true}
}

func sampleRefs(status models.ManifestStatus, profiles ...models.FareProfile) stubRefs {
	return stubRefs{
		manifests: map[int64]models.Manifest{5: {ID: 5, Number: "PL-005", RouteID: 7, Status: status}},
		profiles:  map[int64][]models.FareProfile{7: profiles},
	}
}

var ticketCols = []string{"id", "id_tipo_documento", "numero_documento", "nombre", "correo", "num_asientos",
	"id_planilla", "id_perfil_ruta", "id_vendedor", "valor_unitario", "total", "fecha_creacion"}
