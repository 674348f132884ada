package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Jcrispin99/gym-app-sub000/internal/infrastructure/storage/postgres"
)

// HealthHandler serves the liveness, readiness, and info probes.
type HealthHandler struct {
	pool    *postgres.Pool
	version string
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(pool *postgres.Pool, version string) *HealthHandler {
	return &HealthHandler{pool: pool, version: version}
}

// RegisterRoutes mounts the probes on rg. They sit outside the
// authenticated API group.
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Live)
	rg.GET("/ready", h.Ready)
	rg.GET("/info", h.Info)
}

// Live reports that the process is running. It makes no external
// calls, so an overloaded database never fails the liveness probe.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the service can take traffic, which here
// means the database answers a ping.
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := map[string]string{"database": "healthy"}
	status := http.StatusOK
	state := "ok"

	if err := h.pool.Ping(c.Request.Context()); err != nil {
		checks["database"] = "unhealthy: " + err.Error()
		status = http.StatusServiceUnavailable
		state = "error"
	}

	c.JSON(status, gin.H{"status": state, "checks": checks})
}

// Info returns the build version and connection pool statistics.
func (h *HealthHandler) Info(c *gin.Context) {
	stats := postgres.GetPoolStats(h.pool.Unwrap())

	c.JSON(http.StatusOK, gin.H{
		"app":     "gym-app",
		"version": h.version,
		"database": map[string]any{
			"total_conns":    stats.TotalConns,
			"acquired_conns": stats.AcquiredConns,
			"idle_conns":     stats.IdleConns,
			"max_conns":      stats.MaxConns,
		},
	})
}
