// Package handlers holds the gin handlers for the catalog API and the
// internal /-/ routes.
package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsamuelsen/pokedex-service/internal/ports"
)

// BuildInfo describes the running binary. The first three fields come from
// -ldflags.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
}

func NewBuildInfo(version, commit, buildTime string) BuildInfo {
	return BuildInfo{Version: version, Commit: commit, BuildTime: buildTime, GoVersion: runtime.Version()}
}

// HealthHandler serves /-/live, /-/ready, /-/build and /-/metrics.
type HealthHandler struct {
	registry  ports.HealthRegistry
	build     BuildInfo
	metrics   http.Handler
	startedAt time.Time
	now       func() time.Time
}

// NewHealthHandler starts the uptime clock.
func NewHealthHandler(registry ports.HealthRegistry, build BuildInfo) *HealthHandler {
	return &HealthHandler{
		registry:  registry,
		build:     build,
		metrics:   promhttp.Handler(),
		startedAt: time.Now(),
		now:       time.Now,
	}
}

// RegisterHealthRoutes mounts the probe routes on rg, normally /-.
func (h *HealthHandler) RegisterHealthRoutes(rg *gin.RouterGroup) {
	rg.GET("/live", h.Liveness)
	rg.GET("/ready", h.Readiness)
	rg.GET("/build", h.Build)
	rg.GET("/metrics", gin.WrapH(h.metrics))
}

type livenessResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
}

// Liveness answers without touching the upstream, so a PokeAPI outage never
// gets the process restarted.
func (h *HealthHandler) Liveness(c *gin.Context) {
	noStore(c)
	c.JSON(http.StatusOK, livenessResponse{
		Status:        "ok",
		UptimeSeconds: h.now().Sub(h.startedAt).Seconds(),
	})
}

type readinessResponse struct {
	Status    string                        `json:"status"`
	Checks    map[string]*ports.CheckResult `json:"checks,omitempty"`
	CheckedAt time.Time                     `json:"checkedAt"`
}

// Readiness is 503 while any registered check fails. The registry may answer
// from its recent result.
func (h *HealthHandler) Readiness(c *gin.Context) {
	result := h.registry.CheckAll(c.Request.Context())

	code := http.StatusOK
	if result.Status == ports.HealthStatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	noStore(c)
	c.JSON(code, readinessResponse{Status: string(result.Status), Checks: result.Checks, CheckedAt: result.Timestamp})
}

func (h *HealthHandler) Build(c *gin.Context) {
	c.JSON(http.StatusOK, h.build)
}

func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
}
