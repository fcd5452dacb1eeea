package services

import (
	"context"
	"fmt"
	"time"

	"planillabus/internal/clock"
	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
	"planillabus/internal/gateway"
	"planillabus/internal/repositories"
	"planillabus/internal/ticketform"
	"planillabus/internal/utils"

	"golang.org/x/sync/errgroup"
)

// TicketFormService backs the ticket screen: the selectable reference lists
// and one-event-at-a-time form updates.
type TicketFormService struct {
	Routes    repositories.RouteRepository
	Manifests repositories.ManifestRepository
	Users     repositories.UserRepository
	Refs      gateway.ReferenceData
	Clock     clock.Clock
	Resolver  domain.FareResolver
	RequestID string
}

// FormReferences are the dropdown sources of the ticket screen.
type FormReferences struct {
	Routes    []models.Route    `json:"rutas"`
	Manifests []models.Manifest `json:"planillas"`
	Sellers   []models.User     `json:"vendedores"`
	Form      ticketform.State  `json:"formulario"`
}

func (s TicketFormService) refs() gateway.ReferenceData {
	if s.Refs != nil {
		return s.Refs
	}
	return gateway.Local{Profiles: repositories.FareProfileRepository{DB: s.Manifests.DB}, Manifests: s.Manifests}
}

func (s TicketFormService) now() time.Time {
	if s.Clock != nil {
		return s.Clock.Now()
	}
	return time.Now()
}

// References loads the three lists concurrently. Only manifests that can
// still sell are offered.
func (s TicketFormService) References(ctx context.Context) (FormReferences, error) {
	var out FormReferences
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		routes, err := s.Routes.List(gctx, true)
		out.Routes = routes
		return err
	})
	g.Go(func() error {
		manifests, err := s.Manifests.List(gctx, repositories.ManifestFilter{
			Statuses: []models.ManifestStatus{models.ManifestOpen, models.ManifestOnSale},
		})
		out.Manifests = manifests
		return err
	})
	g.Go(func() error {
		users, err := s.Users.List(gctx)
		if err != nil {
			return err
		}
		out.Sellers = make([]models.User, 0, len(users))
		for _, u := range users {
			if u.Active {
				out.Sellers = append(out.Sellers, u)
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		utils.LogError(s.RequestID, "ticket_form", "references", err)
		return FormReferences{}, err
	}
	out.Form = ticketform.New()
	utils.LogEvent(s.RequestID, "ticket_form", "references",
		fmt.Sprintf("rutas=%d planillas=%d vendedores=%d", len(out.Routes), len(out.Manifests), len(out.Sellers)))
	return out, nil
}

// Apply runs one posted event against the posted form state.
func (s TicketFormService) Apply(ctx context.Context, st ticketform.State, ev ticketform.Event) (ticketform.State, error) {
	next, err := ticketform.Apply(ctx, st, ev, s.refs(), s.now(), s.Resolver)
	if err != nil {
		return st, err
	}
	if ev.Type == ticketform.EventSelectManifest {
		utils.LogEvent(s.RequestID, "ticket_form", "select_manifest",
			fmt.Sprintf("planilla=%d disponible=%t aviso=%s", next.ManifestID, next.Availability.Available, next.Notice))
	}
	return next, nil
}
