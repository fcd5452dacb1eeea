// Package gateway fetches the reference data the ticket workflow needs: the
// fare profiles of a route and a manifest with its route and status.
package gateway

import (
	"context"

	"planillabus/internal/domain/models"
)

type ReferenceData interface {
	FareProfilesByRoute(ctx context.Context, routeID int64) ([]models.FareProfile, error)
	Manifest(ctx context.Context, id int64) (models.Manifest, error)
}

type profileLister interface {
	ListByRoute(ctx context.Context, routeID int64) ([]models.FareProfile, error)
}

type manifestGetter interface {
	GetByID(ctx context.Context, id int64) (models.Manifest, error)
}

// Local serves reference data from this service's own repositories.
type Local struct {
	Profiles  profileLister
	Manifests manifestGetter
}

func (l Local) FareProfilesByRoute(ctx context.Context, routeID int64) ([]models.FareProfile, error) {
	return l.Profiles.ListByRoute(ctx, routeID)
}

func (l Local) Manifest(ctx context.Context, id int64) (models.Manifest, error) {
	return l.Manifests.GetByID(ctx, id)
}
