package handlers

import (
	"database/sql"
	"time"

	"planillabus/internal/clock"
	"planillabus/internal/domain"
	"planillabus/internal/gateway"
	"planillabus/internal/http/middleware"
	"planillabus/internal/repositories"
	"planillabus/internal/services"
	"planillabus/internal/ticketform"

	"github.com/gin-gonic/gin"
)

// Handlers carries what the endpoints share. Services are built per request
// so each one logs with that request's id.
type Handlers struct {
	DB       *sql.DB
	Refs     gateway.ReferenceData
	Clock    clock.Clock
	Resolver domain.FareResolver
	Tokens   services.TicketTokens
	Location *time.Location
	// Forms keeps the server-side ticket forms; nil disables those endpoints.
	Forms *ticketform.Sessions
}

func (h Handlers) refs() gateway.ReferenceData {
	if h.Refs != nil {
		return h.Refs
	}
	return gateway.Local{
		Profiles:  repositories.FareProfileRepository{DB: h.DB},
		Manifests: repositories.ManifestRepository{DB: h.DB},
	}
}

func (h Handlers) location() *time.Location {
	if h.Location != nil {
		return h.Location
	}
	return time.Local
}

func (h Handlers) routeService(c *gin.Context) services.RouteService {
	return services.RouteService{Routes: repositories.RouteRepository{DB: h.DB}, RequestID: middleware.GetRequestID(c)}
}

func (h Handlers) fareService(c *gin.Context) services.FareService {
	return services.FareService{
		Profiles:  repositories.FareProfileRepository{DB: h.DB},
		Refs:      h.refs(),
		Clock:     h.Clock,
		Resolver:  h.Resolver,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h Handlers) manifestService(c *gin.Context) services.ManifestService {
	return services.ManifestService{
		Manifests: repositories.ManifestRepository{DB: h.DB},
		Clock:     h.Clock,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h Handlers) ticketService(c *gin.Context) services.TicketService {
	return services.TicketService{
		Tickets:   repositories.TicketRepository{DB: h.DB},
		Refs:      h.refs(),
		Tokens:    h.Tokens,
		Clock:     h.Clock,
		Resolver:  h.Resolver,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h Handlers) ticketFormService(c *gin.Context) services.TicketFormService {
	return services.TicketFormService{
		Routes:    repositories.RouteRepository{DB: h.DB},
		Manifests: repositories.ManifestRepository{DB: h.DB},
		Users:     repositories.UserRepository{DB: h.DB},
		Refs:      h.refs(),
		Clock:     h.Clock,
		Resolver:  h.Resolver,
		RequestID: middleware.GetRequestID(c),
	}
}

func (h Handlers) assignmentService(c *gin.Context) services.BusAssignmentService {
	return services.BusAssignmentService{
		Assignments: repositories.BusAssignmentRepository{DB: h.DB},
		Clock:       h.Clock,
		RequestID:   middleware.GetRequestID(c),
	}
}

func (h Handlers) distributionService(c *gin.Context) services.DistributionService {
	return services.DistributionService{
		Distributions: repositories.DistributionRepository{DB: h.DB},
		RequestID:     middleware.GetRequestID(c),
	}
}

func (h Handlers) busService(c *gin.Context) services.BusService {
	return services.BusService{Buses: repositories.BusRepository{DB: h.DB}, RequestID: middleware.GetRequestID(c)}
}

func (h Handlers) driverService(c *gin.Context) services.DriverService {
	return services.DriverService{Drivers: repositories.DriverRepository{DB: h.DB}, RequestID: middleware.GetRequestID(c)}
}

func (h Handlers) userService(c *gin.Context) services.UserService {
	return services.UserService{Users: repositories.UserRepository{DB: h.DB}, RequestID: middleware.GetRequestID(c)}
}

func (h Handlers) docsService(c *gin.Context) services.DocsService {
	return services.DocsService{
		Tickets:       repositories.TicketRepository{DB: h.DB},
		Manifests:     repositories.ManifestRepository{DB: h.DB},
		Routes:        repositories.RouteRepository{DB: h.DB},
		Profiles:      repositories.FareProfileRepository{DB: h.DB},
		Assignments:   repositories.BusAssignmentRepository{DB: h.DB},
		Distributions: repositories.DistributionRepository{DB: h.DB},
		Tokens:        h.Tokens,
		Location:      h.location(),
		RequestID:     middleware.GetRequestID(c),
	}
}
