package services

import (
	"context"
	"fmt"
	"time"

	"planillabus/internal/clock"
	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
	"planillabus/internal/metrics"
	"planillabus/internal/repositories"
	"planillabus/internal/utils"
)

type ManifestService struct {
	Manifests repositories.ManifestRepository
	Clock     clock.Clock
	RequestID string
}

func (s ManifestService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}

func (s ManifestService) List(ctx context.Context, f repositories.ManifestFilter) ([]models.Manifest, error) {
	return s.Manifests.List(ctx, f)
}

// ListOpen returns manifests still accepting sales.
func (s ManifestService) ListOpen(ctx context.Context) ([]models.Manifest, error) {
	return s.Manifests.List(ctx, repositories.ManifestFilter{
		Statuses: []models.ManifestStatus{models.ManifestOpen, models.ManifestOnSale},
	})
}

func (s ManifestService) ListClosed(ctx context.Context) ([]models.Manifest, error) {
	return s.Manifests.List(ctx, repositories.ManifestFilter{
		Statuses: []models.ManifestStatus{models.ManifestClosed},
	})
}

func (s ManifestService) ListByDate(ctx context.Context, r domain.DateRange) ([]models.Manifest, error) {
	if r.From.IsZero() || r.To.IsZero() {
		return nil, domain.ValidationError{Field: "fecha_inicio/fecha_fin", Msg: "requeridos"}
	}
	if r.To.Before(r.From) {
		return nil, domain.ValidationError{Field: "fecha_fin", Msg: "anterior a fecha_inicio"}
	}
	return s.Manifests.List(ctx, repositories.ManifestFilter{Created: r})
}

func (s ManifestService) Get(ctx context.Context, id int64) (models.Manifest, error) {
	return s.Manifests.GetByID(ctx, id)
}

// Availability is the gate verdict for selling on manifest id.
func (s ManifestService) Availability(ctx context.Context, id int64) (domain.Availability, error) {
	m, err := s.Manifests.GetByID(ctx, id)
	if err != nil {
		return domain.Availability{}, err
	}
	return domain.CheckManifestAvailability(m.Status), nil
}

// Create opens a new manifest. Status defaults to Open; creating one already
// closed or voided is not allowed.
func (s ManifestService) Create(ctx context.Context, in models.Manifest) (models.Manifest, error) {
	if in.RouteID <= 0 {
		return models.Manifest{}, domain.ValidationError{Field: "id_ruta", Msg: "requerido"}
	}
	if in.Status == 0 {
		in.Status = models.ManifestOpen
	}
	if in.Status != models.ManifestOpen && in.Status != models.ManifestOnSale {
		return models.Manifest{}, domain.ValidationError{Field: "estado", Msg: "una planilla nueva debe estar abierta"}
	}
	if in.DeclaredValue < 0 {
		return models.Manifest{}, domain.ValidationError{Field: "valor_planilla", Msg: "no puede ser negativo"}
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = s.now()
	}
	in.ClosedAt = nil
	out, err := s.Manifests.Create(ctx, in)
	if err != nil {
		return models.Manifest{}, err
	}
	utils.LogEvent(s.RequestID, "manifest", "create", fmt.Sprintf("id=%d ruta_id=%d", out.ID, out.RouteID))
	return out, nil
}

// Update edits a manifest's data. Closed or voided manifests are frozen and
// status changes go through Transition.
func (s ManifestService) Update(ctx context.Context, in models.Manifest) (models.Manifest, error) {
	cur, err := s.Manifests.GetByID(ctx, in.ID)
	if err != nil {
		return models.Manifest{}, err
	}
	if err := domain.RequireAvailable(cur); err != nil {
		return models.Manifest{}, err
	}
	if in.RouteID <= 0 {
		return models.Manifest{}, domain.ValidationError{Field: "id_ruta", Msg: "requerido"}
	}
	if in.Status != 0 && in.Status != cur.Status {
		return models.Manifest{}, domain.ValidationError{Field: "estado", Msg: "use cerrar/anular para cambiar el estado"}
	}
	if in.CreatedAt.IsZero() {
		in.CreatedAt = cur.CreatedAt
	}
	in.Status = cur.Status
	in.ClosedAt = cur.ClosedAt
	if err := s.Manifests.Update(ctx, in); err != nil {
		return models.Manifest{}, err
	}
	utils.LogEvent(s.RequestID, "manifest", "update", fmt.Sprintf("id=%d", in.ID))
	return in, nil
}

func (s ManifestService) Delete(ctx context.Context, id int64) error {
	if err := s.Manifests.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "manifest", "delete", fmt.Sprintf("id=%d", id))
	return nil
}

func (s ManifestService) StartSale(ctx context.Context, id int64) (models.Manifest, error) {
	return s.Transition(ctx, id, models.ManifestOnSale)
}

func (s ManifestService) Close(ctx context.Context, id int64) (models.Manifest, error) {
	return s.Transition(ctx, id, models.ManifestClosed)
}

func (s ManifestService) Void(ctx context.Context, id int64) (models.Manifest, error) {
	return s.Transition(ctx, id, models.ManifestVoided)
}

// Transition moves manifest id forward to next. Closing stamps fecha_cierre.
func (s ManifestService) Transition(ctx context.Context, id int64, next models.ManifestStatus) (models.Manifest, error) {
	m, err := s.Manifests.GetByID(ctx, id)
	if err != nil {
		return models.Manifest{}, err
	}
	if !m.Status.CanTransitionTo(next) {
		return models.Manifest{}, domain.ConflictError{
			Resource: "planilla",
			Msg:      fmt.Sprintf("no se puede pasar de %s a %s", m.Status, next),
		}
	}
	var closedAt *time.Time
	if next == models.ManifestClosed {
		t := s.now()
		closedAt = &t
		m.ClosedAt = &t
	}
	if err := s.Manifests.UpdateStatus(ctx, id, m.Status, next, closedAt); err != nil {
		return models.Manifest{}, err
	}
	utils.LogEvent(s.RequestID, "manifest", "transition", fmt.Sprintf("id=%d from=%s to=%s", id, m.Status, next))
	m.Status = next
	return m, nil
}

func (s ManifestService) Stats(ctx context.Context) (models.ManifestStats, error) {
	return s.Manifests.Stats(ctx)
}

// requireSellable loads a manifest through refs and applies the gate,
// counting refusals.
func requireSellable(ctx context.Context, get func(context.Context, int64) (models.Manifest, error), id int64) (models.Manifest, error) {
	if id <= 0 {
		return models.Manifest{}, domain.ValidationError{Field: "id_planilla", Msg: "requerido"}
	}
	m, err := get(ctx, id)
	if err != nil {
		if domain.IsNotFound(err) {
			return models.Manifest{}, domain.ValidationError{Field: "id_planilla", Msg: "planilla no existe", Err: err}
		}
		return models.Manifest{}, err
	}
	if err := domain.RequireAvailable(m); err != nil {
		metrics.ManifestBlocked(domain.CheckManifestAvailability(m.Status).Reason)
		return m, err
	}
	return m, nil
}
