package api

import (
	"log"
	stdhttp "net/http"

	intconfig "planillabus/internal/config"
	h "planillabus/internal/http/handlers"
	"planillabus/internal/http/middleware"
	"planillabus/internal/metrics"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env, hs h.Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.CORSAllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "ruta no encontrada",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", hs.DBCheck)
		api.GET("/routes", h.Routes)

		// Routes and their fare profiles
		rutas := api.Group("/rutas")
		mountRoutes(rutas.Group("/rutas"), hs)
		mountFareProfiles(rutas.Group("/perfiles-rutas"), hs)

		// Fleet
		buses := api.Group("/buses")
		mountBuses(buses.Group("/buses"), hs)
		mountDrivers(buses.Group("/conductores"), hs)

		// Manifests, bus assignments, distributions
		planillas := api.Group("/planillas")
		mountManifests(planillas.Group("/planillas"), hs)
		mountBusAssignments(planillas.Group("/planillas-buses"), hs)
		mountDistributions(planillas.Group("/planillas-distribuciones"), hs)

		// Tickets and the sale form
		tiquetes := api.Group("/tiquetes")
		mountTickets(tiquetes.Group("/tiquetes"), hs)
		form := tiquetes.Group("/formulario")
		form.GET("/referencias", hs.TicketFormReferences)
		form.POST("", hs.ApplyTicketForm)
		form.POST("/enviar", hs.SubmitTicketForm)
		form.POST("/sesiones", hs.OpenTicketFormSession)
		form.GET("/sesiones/:sid", hs.GetTicketFormSession)
		form.POST("/sesiones/:sid/eventos", hs.DispatchTicketFormEvent)
		form.POST("/sesiones/:sid/enviar", hs.SubmitTicketFormSession)
		form.DELETE("/sesiones/:sid", hs.CloseTicketFormSession)

		// Users (sellers)
		users := api.Group("/usuarios/usuarios")
		users.GET("", hs.ListUsers)
		users.GET("/:id", hs.GetUser)
		users.POST("", hs.CreateUser)
		users.PUT("/:id", hs.UpdateUser)
		users.DELETE("/:id", hs.DeleteUser)
	}

	return r
}

func mountRoutes(g *gin.RouterGroup, hs h.Handlers) {
	g.GET("", hs.ListRoutes)
	g.GET("/:id", hs.GetRoute)
	g.POST("", hs.CreateRoute)
	g.PUT("/:id", hs.UpdateRoute)
	g.DELETE("/:id", hs.DeleteRoute)
}

func mountFareProfiles(g *gin.RouterGroup, hs h.Handlers) {
	g.GET("", hs.ListFareProfiles)
	g.GET("/por_ruta", hs.FareProfilesByRoute)
	g.GET("/resolve", hs.ResolveFareProfile)
	g.GET("/:id", hs.GetFareProfile)
	g.POST("", hs.CreateFareProfile)
	g.PUT("/:id", hs.UpdateFareProfile)
	g.DELETE("/:id", hs.DeleteFareProfile)
}

func mountBuses(g *gin.RouterGroup, hs h.Handlers) {
	g.GET("", hs.ListBuses)
	g.GET("/:id", hs.GetBus)
	g.POST("", hs.CreateBus)
	g.PUT("/:id", hs.UpdateBus)
	g.DELETE("/:id", hs.DeleteBus)
}

func mountDrivers(g *gin.RouterGroup, hs h.Handlers) {
	g.GET("", hs.ListDrivers)
	g.GET("/:id", hs.GetDriver)
	g.POST("", hs.CreateDriver)
	g.PUT("/:id", hs.UpdateDriver)
	g.DELETE("/:id", hs.DeleteDriver)
}

func mountManifests(g *gin.RouterGroup, hs h.Handlers) {
	g.GET("", hs.ListManifests)
	g.GET("/abiertas", hs.OpenManifests)
	g.GET("/cerradas", hs.ClosedManifests)
	g.GET("/por_fecha", hs.ManifestsByDate)
	g.GET("/estadisticas", hs.ManifestStats)
	g.GET("/:id", hs.GetManifest)
	g.GET("/:id/disponibilidad", hs.ManifestAvailability)
	g.POST("", hs.CreateManifest)
	g.PUT("/:id", hs.UpdateManifest)
	g.DELETE("/:id", hs.DeleteManifest)
	g.POST("/:id/en_venta", hs.StartManifestSale)
	g.POST("/:id/cerrar", hs.CloseManifest)
	g.POST("/:id/anular", hs.VoidManifest)
}

func mountBusAssignments(g *gin.RouterGroup, hs h.Handlers) {
	g.GET("", hs.ListBusAssignments)
	g.GET("/por_planilla", hs.BusAssignmentsByManifest)
	g.GET("/por_bus", hs.BusAssignmentsByBus)
	g.GET("/por_conductor", hs.BusAssignmentsByDriver)
	g.GET("/:id", hs.GetBusAssignment)
	g.POST("", hs.CreateBusAssignment)
	g.PUT("/:id", hs.UpdateBusAssignment)
	g.DELETE("/:id", hs.DeleteBusAssignment)
	g.POST("/:id/registrar_llegada", hs.RegisterBusArrival)
}

func mountDistributions(g *gin.RouterGroup, hs h.Handlers) {
	g.GET("", hs.ListDistributions)
	g.GET("/por_planilla_bus", hs.DistributionsByAssignment)
	g.GET("/por_propietario", hs.DistributionsByOwner)
	g.GET("/resumen", hs.DistributionSummary)
	g.GET("/reporte/:id", hs.DistributionReportPDF)
	g.GET("/:id", hs.GetDistribution)
	g.POST("", hs.CreateDistribution)
	g.PUT("/:id", hs.UpdateDistribution)
	g.DELETE("/:id", hs.DeleteDistribution)
}

func mountTickets(g *gin.RouterGroup, hs h.Handlers) {
	g.GET("", hs.ListTickets)
	g.GET("/por_planilla", hs.TicketsByManifest)
	g.GET("/por_vendedor", hs.TicketsBySeller)
	g.GET("/por_fecha", hs.TicketsByDate)
	g.GET("/estadisticas", hs.TicketStats)
	g.GET("/verificar", hs.VerifyTicket)
	g.POST("/cotizar", hs.QuoteTicket)
	g.GET("/:id", hs.GetTicket)
	g.GET("/:id/pdf", hs.TicketPDF)
	g.POST("", hs.CreateTicket)
	g.PUT("/:id", hs.UpdateTicket)
	g.DELETE("/:id", hs.DeleteTicket)
}
