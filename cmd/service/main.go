// Command service runs the creature catalog API.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jsamuelsen/pokedex-service/internal/adapters/clients"
	"github.com/jsamuelsen/pokedex-service/internal/adapters/clients/acl"
	"github.com/jsamuelsen/pokedex-service/internal/adapters/http"
	"github.com/jsamuelsen/pokedex-service/internal/adapters/http/handlers"
	"github.com/jsamuelsen/pokedex-service/internal/app"
	"github.com/jsamuelsen/pokedex-service/internal/platform/config"
	"github.com/jsamuelsen/pokedex-service/internal/platform/logging"
	"github.com/jsamuelsen/pokedex-service/internal/platform/telemetry"
	"github.com/jsamuelsen/pokedex-service/internal/ports"
)

// Set with -ldflags "-X main.Version=... -X main.Commit=... -X main.BuildTime=...".
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := newLogger(cfg)
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("upstream", cfg.Services.Pokeapi.BaseURL),
	)

	tel, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		if err := tel.Shutdown(ctx); err != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", err))
		}
	}()

	// A readiness check never outlives one upstream call.
	health := ports.NewHealthRegistry(ports.WithCheckTimeout(cfg.Client.Timeout))

	catalog, err := newCatalogClient(cfg, logger)
	if err != nil {
		return err
	}

	if err := health.Register(catalog); err != nil {
		return fmt.Errorf("registering health check: %w", err)
	}

	service := app.NewCatalogService(app.CatalogServiceConfig{
		Client:     catalog,
		BatchSize:  cfg.Catalog.BatchSize,
		CacheTTL:   cfg.Catalog.CacheTTL,
		SortByName: cfg.Catalog.SortByName,
		Logger:     logger,
	})

	server := http.New(&cfg.Server, logger)

	routerCfg := http.NewDefaultRouterConfig(logger, &cfg.App, &cfg.CORS,
		handlers.NewHealthHandler(health, handlers.NewBuildInfo(Version, Commit, BuildTime)),
		handlers.NewCatalogHandler(service),
	)
	routerCfg.Timeout = cfg.Server.RequestTimeout
	routerCfg.AdminRoutes = cfg.Catalog.AdminRoutesEnabled
	http.SetupRouter(server.Engine(), routerCfg)

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Run(sigCtx); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
}

// newCatalogClient builds the upstream HTTP client and wraps it in the
// catalog adapter.
func newCatalogClient(cfg *config.Config, logger *slog.Logger) (*acl.PokeAPIClient, error) {
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Services.Pokeapi.BaseURL,
		ServiceName: cfg.Services.Pokeapi.Name,
		Timeout:     cfg.Client.Timeout,
		Retry:       cfg.Client.Retry,
		Circuit:     cfg.Client.CircuitBreaker,
		Transport:   cfg.Client.Transport,
		UserAgent:   cfg.Client.UserAgent,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating HTTP client: %w", err)
	}

	return acl.NewPokeAPIClient(acl.PokeAPIClientConfig{Client: httpClient, Logger: logger}), nil
}
