package handler

import (
	"context"
	"math"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// Pinger checks one backing service.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	environment string
	started     time.Time
	checks      map[string]Pinger
	now         func() time.Time
	logger      *log.Logger
}

// NewHealthHandler builds the health endpoints. checks maps a dependency
// name such as "database" to its probe.
func NewHealthHandler(environment string, checks map[string]Pinger, logger *log.Logger) *HealthHandler {
	return &HealthHandler{
		environment: environment,
		started:     time.Now(),
		checks:      checks,
		now:         time.Now,
		logger:      logger,
	}
}

// Basic godoc
// @Summary      Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Router       /health [get]
func (h *HealthHandler) Basic(c *gin.Context) {
	c.JSON(http.StatusOK, h.base("ok"))
}

// Detailed godoc
// @Summary      Readiness probe with dependency status
// @Tags         Health
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Failure      503 {object} map[string]interface{}
// @Router       /health/detailed [get]
func (h *HealthHandler) Detailed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	body := gin.H{}
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			h.logger.WithError(err).WithField("dependency", name).Warn("health check failed")
			body[name] = "error"
			status = "error"
			continue
		}
		body[name] = "ok"
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	body["memory"] = gin.H{
		"used":  megabytes(mem.HeapAlloc),
		"total": megabytes(mem.HeapSys),
		"sys":   megabytes(mem.Sys),
	}
	for k, v := range h.base(status) {
		body[k] = v
	}

	code := http.StatusOK
	if status != "ok" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, body)
}

func (h *HealthHandler) base(status string) gin.H {
	now := h.now()
	return gin.H{
		"status":      status,
		"timestamp":   now.UTC().Format(time.RFC3339),
		"uptime":      now.Sub(h.started).Seconds(),
		"environment": h.environment,
	}
}

func megabytes(b uint64) float64 {
	return math.Round(float64(b)/1024/1024*100) / 100
}
