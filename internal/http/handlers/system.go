package handlers

import (
	"net/http"
	"sync"

	intconfig "planillabus/internal/config"
	intdb "planillabus/internal/db"

	"github.com/gin-gonic/gin"
)

var (
	routerMu sync.RWMutex
	router   *gin.Engine
)

// tables the service expects; /api/db-check reports which are missing.
var requiredTables = []string{
	"rutas", "perfiles_rutas", "planillas", "tiquetes",
	"planillas_buses", "planillas_distribuciones", "usuarios",
	"buses", "conductores",
}

// SetRouter stores the active gin engine for later inspection (e.g., /api/routes).
func SetRouter(r *gin.Engine) {
	routerMu.Lock()
	defer routerMu.Unlock()
	router = r
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "planillabus en ejecución"})
}

func (h Handlers) DBCheck(c *gin.Context) {
	ctx := c.Request.Context()
	var err error
	if h.DB != nil {
		err = h.DB.PingContext(ctx)
	} else {
		err = intconfig.Ping(ctx)
	}
	if err != nil {
		RespondError(c, http.StatusServiceUnavailable, "base de datos no disponible", err)
		return
	}
	db := h.DB
	if db == nil {
		db = intconfig.DB
	}
	missing := []string{}
	for _, t := range requiredTables {
		if !intdb.HasTable(ctx, db, t) {
			missing = append(missing, t)
		}
	}
	status := http.StatusOK
	if len(missing) > 0 {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"message": "conexión a base de datos OK", "tablas_faltantes": missing})
}

func Routes(c *gin.Context) {
	routerMu.RLock()
	r := router
	routerMu.RUnlock()
	if r == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "router no listo"})
		return
	}

	routes := r.Routes()
	out := make([]gin.H, 0, len(routes))
	for _, rt := range routes {
		out = append(out, gin.H{
			"method":  rt.Method,
			"path":    rt.Path,
			"handler": rt.Handler,
		})
	}
	c.JSON(http.StatusOK, gin.H{"routes": out})
}
