package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/pokedex-service/internal/adapters/http/dto"
	"github.com/jsamuelsen/pokedex-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/pokedex-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/pokedex-service/internal/platform/config"
	"github.com/jsamuelsen/pokedex-service/internal/platform/telemetry"
)

// DefaultRequestTimeout bounds an /api request. A cold list makes one
// upstream call per catalog entry, so it sits well above the client timeout.
const DefaultRequestTimeout = 45 * time.Second

const defaultServiceName = "pokedex-service"

type RouterConfig struct {
	Logger    *slog.Logger
	AppConfig *config.AppConfig

	// CORSConfig is the /api origin whitelist. Nil allows every origin.
	CORSConfig *config.CORSConfig

	HealthHandler  *handlers.HealthHandler
	CatalogHandler *handlers.CatalogHandler

	// Timeout is the /api request deadline. Zero means none.
	Timeout time.Duration

	// AdminRoutes mounts the catalog's operator routes (DELETE /-/cache).
	AdminRoutes bool
}

// NewDefaultRouterConfig fills a RouterConfig with DefaultRequestTimeout.
func NewDefaultRouterConfig(
	logger *slog.Logger,
	appCfg *config.AppConfig,
	corsCfg *config.CORSConfig,
	health *handlers.HealthHandler,
	catalog *handlers.CatalogHandler,
) RouterConfig {
	return RouterConfig{
		Logger:         logger,
		AppConfig:      appCfg,
		CORSConfig:     corsCfg,
		HealthHandler:  health,
		CatalogHandler: catalog,
		Timeout:        DefaultRequestTimeout,
	}
}

// SetupRouter installs the global middleware and both route groups.
//
// Every request passes, in order: Recovery, request ID, correlation ID,
// tracing and metrics, then access logging.
//
//   - /-/   probes, build info and metrics, plus cache admin when AdminRoutes
//     is set; no CORS or deadline
//   - /api  catalog endpoints behind the CORS whitelist and Timeout
func SetupRouter(engine *gin.Engine, cfg RouterConfig) {
	serviceName := defaultServiceName
	if cfg.AppConfig != nil && cfg.AppConfig.Name != "" {
		serviceName = cfg.AppConfig.Name
	}

	engine.Use(middleware.Recovery(cfg.Logger), middleware.RequestID(), middleware.CorrelationID())
	engine.Use(telemetry.Middleware(serviceName)...)
	engine.Use(middleware.Logging(cfg.Logger))

	engine.NoRoute(func(c *gin.Context) {
		dto.AbortWithError(c, http.StatusNotFound, dto.MsgNotFound)
	})

	internal := engine.Group("/-")
	api := engine.Group("/api", middleware.CORS(cfg.CORSConfig), middleware.SimpleTimeout(cfg.Timeout))

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterHealthRoutes(internal)
	}
	if cfg.CatalogHandler != nil {
		cfg.CatalogHandler.RegisterCatalogRoutes(api)
		if cfg.AdminRoutes {
			cfg.CatalogHandler.RegisterAdminRoutes(internal)
		}
	}
}
