package services

import (
	"context"
	"fmt"
	"time"

	"planillabus/internal/clock"
	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
	"planillabus/internal/gateway"
	"planillabus/internal/metrics"
	"planillabus/internal/repositories"
	"planillabus/internal/utils"
)

// FareService manages fare profiles and answers "which price applies now".
type FareService struct {
	Profiles  repositories.FareProfileRepository
	Refs      gateway.ReferenceData
	Clock     clock.Clock
	Resolver  domain.FareResolver
	RequestID string
}

func (s FareService) refs() gateway.ReferenceData {
	if s.Refs != nil {
		return s.Refs
	}
	return gateway.Local{Profiles: s.Profiles, Manifests: repositories.ManifestRepository{DB: s.Profiles.DB}}
}

func (s FareService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}

// ResolveForRoute picks the profile that applies to routeID at "at" (now
// when zero). A failed fetch is returned as UnavailableError together with
// a no_profiles resolution so callers can still render the empty state.
func (s FareService) ResolveForRoute(ctx context.Context, routeID int64, at time.Time) (domain.FareResolution, error) {
	if routeID <= 0 {
		return domain.FareResolution{}, domain.ValidationError{Field: "ruta_id", Msg: "requerido"}
	}
	if at.IsZero() {
		at = s.now()
	}
	profiles, err := s.refs().FareProfilesByRoute(ctx, routeID)
	if err != nil {
		if domain.IsNotFound(err) {
			profiles = nil
		} else {
			utils.LogError(s.RequestID, "fare", "resolve", err)
			metrics.FareResolved(string(domain.ResolveNoProfiles))
			return domain.FareResolution{Reason: domain.ResolveNoProfiles}, domain.UnavailableError{Resource: "perfiles de ruta", Err: err}
		}
	}
	res := s.Resolver.ResolveAt(profiles, at)
	metrics.FareResolved(string(res.Reason))
	utils.LogEvent(s.RequestID, "fare", "resolve", fmt.Sprintf("ruta_id=%d candidates=%d reason=%s", routeID, len(profiles), res.Reason))
	return res, nil
}

func (s FareService) List(ctx context.Context, onlyActive bool) ([]models.FareProfile, error) {
	return s.Profiles.List(ctx, onlyActive)
}

func (s FareService) ListByRoute(ctx context.Context, routeID int64) ([]models.FareProfile, error) {
	if routeID <= 0 {
		return nil, domain.ValidationError{Field: "ruta_id", Msg: "requerido"}
	}
	return s.Profiles.ListByRoute(ctx, routeID)
}

func (s FareService) Get(ctx context.Context, id int64) (models.FareProfile, error) {
	return s.Profiles.GetByID(ctx, id)
}

func (s FareService) Create(ctx context.Context, in models.FareProfile) (models.FareProfile, error) {
	in, err := normalizeFareProfile(in)
	if err != nil {
		return models.FareProfile{}, err
	}
	out, err := s.Profiles.Create(ctx, in)
	if err != nil {
		return models.FareProfile{}, err
	}
	utils.LogEvent(s.RequestID, "fare", "create_profile", fmt.Sprintf("id=%d ruta_id=%d", out.ID, out.RouteID))
	return out, nil
}

func (s FareService) Update(ctx context.Context, in models.FareProfile) (models.FareProfile, error) {
	if in.ID <= 0 {
		return models.FareProfile{}, domain.ValidationError{Field: "id", Msg: "id inválido"}
	}
	in, err := normalizeFareProfile(in)
	if err != nil {
		return models.FareProfile{}, err
	}
	if err := s.Profiles.Update(ctx, in); err != nil {
		return models.FareProfile{}, err
	}
	utils.LogEvent(s.RequestID, "fare", "update_profile", fmt.Sprintf("id=%d", in.ID))
	return in, nil
}

func (s FareService) Delete(ctx context.Context, id int64) error {
	if err := s.Profiles.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "fare", "delete_profile", fmt.Sprintf("id=%d", id))
	return nil
}

// normalizeFareProfile validates what the admin screen posts. Stored windows
// are always "HH:MM" so the resolver never sees a malformed value from here.
func normalizeFareProfile(p models.FareProfile) (models.FareProfile, error) {
	if p.RouteID <= 0 {
		return p, domain.ValidationError{Field: "id_ruta", Msg: "requerido"}
	}
	if len(p.Weekdays) == 0 {
		return p, domain.ValidationError{Field: "dias_semana", Msg: "seleccione al menos un día"}
	}
	for _, d := range p.Weekdays {
		if d < 1 || d > 7 {
			return p, domain.ValidationError{Field: "dias_semana", Msg: fmt.Sprintf("día %d fuera de rango 1-7", d)}
		}
	}
	start, ok := domain.ParseClock(p.StartTime)
	if !ok {
		return p, domain.ValidationError{Field: "hora_inicio", Msg: "formato HH:MM"}
	}
	end, ok := domain.ParseClock(p.EndTime)
	if !ok {
		return p, domain.ValidationError{Field: "hora_fin", Msg: "formato HH:MM"}
	}
	if p.Price < 0 {
		return p, domain.ValidationError{Field: "valor", Msg: "no puede ser negativo"}
	}
	p.StartTime = domain.FormatClock(start)
	p.EndTime = domain.FormatClock(end)
	return p, nil
}
