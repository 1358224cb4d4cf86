// Package config loads the service configuration with koanf and validates it.
package config

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	kfs "github.com/knadh/koanf/providers/fs"
	"github.com/knadh/koanf/v2"
)

//go:embed defaults.yaml
var defaultsFS embed.FS

const defaultsFile = "defaults.yaml"

// Config is the root of the configuration tree. Keys follow the koanf tags,
// e.g. catalog.batch_size.
type Config struct {
	App       AppConfig       `koanf:"app" validate:"required"`
	Server    ServerConfig    `koanf:"server" validate:"required"`
	Log       LogConfig       `koanf:"log" validate:"required"`
	Telemetry TelemetryConfig `koanf:"telemetry"`
	Client    ClientConfig    `koanf:"client" validate:"required"`
	Services  ServicesConfig  `koanf:"services" validate:"required"`
	Catalog   CatalogConfig   `koanf:"catalog" validate:"required"`
	CORS      CORSConfig      `koanf:"cors"`
}

type AppConfig struct {
	Name        string `koanf:"name" validate:"required"`
	Version     string `koanf:"version" validate:"required"`
	Environment string `koanf:"environment" validate:"required,oneof=local dev qa prod test"`
}

// ServerConfig configures the inbound HTTP server.
type ServerConfig struct {
	Host string `koanf:"host" validate:"required"`
	Port int    `koanf:"port" validate:"required,min=1,max=65535"`

	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"required,min=1s"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"required,min=1s"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"required,min=1s"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required,min=1s"`

	// RequestTimeout bounds each API request's context. Zero disables it.
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"min=0"`

	MaxRequestSize int64 `koanf:"max_request_size" validate:"required,min=1"`
}

type LogConfig struct {
	Level  string        `koanf:"level" validate:"required,oneof=trace debug info warn error"`
	Format string        `koanf:"format" validate:"required,oneof=json text pretty"`
	File   LogFileConfig `koanf:"file"`
}

// LogFileConfig adds a rotating JSON file sink next to stdout.
type LogFileConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path" validate:"required_if=Enabled true"`
	MaxSizeMB  int    `koanf:"max_size" validate:"omitempty,min=1,max=1024"`
	MaxBackups int    `koanf:"max_backups" validate:"omitempty,min=0,max=100"`
	MaxAgeDays int    `koanf:"max_age" validate:"omitempty,min=0,max=365"`
	Compress   bool   `koanf:"compress"`
}

// TelemetryConfig configures OTLP export. Disabled, the global no-op
// providers stay in place.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint" validate:"required_if=Enabled true,omitempty,url"`
	ServiceName  string  `koanf:"service_name" validate:"required_if=Enabled true"`
	SamplingRate float64 `koanf:"sampling_rate" validate:"min=0,max=1"`
}

// ClientConfig configures the outbound client used for the catalog upstream.
type ClientConfig struct {
	Timeout        time.Duration        `koanf:"timeout" validate:"required,min=100ms"`
	UserAgent      string               `koanf:"user_agent"`
	Retry          RetryConfig          `koanf:"retry" validate:"required"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker" validate:"required"`
	Transport      TransportConfig      `koanf:"transport" validate:"required"`
}

// RetryConfig shapes the exponential backoff between attempts. MaxAttempts
// of 1 disables retries.
type RetryConfig struct {
	MaxAttempts     int           `koanf:"max_attempts" validate:"required,min=1,max=10"`
	InitialInterval time.Duration `koanf:"initial_interval" validate:"required,min=10ms"`
	MaxInterval     time.Duration `koanf:"max_interval" validate:"required,min=100ms"`
	Multiplier      float64       `koanf:"multiplier" validate:"required,min=1.1,max=10"`
	JitterFactor    float64       `koanf:"jitter_factor" validate:"min=0,max=1"`
}

type CircuitBreakerConfig struct {
	MaxFailures   int           `koanf:"max_failures" validate:"required,min=1"`
	Timeout       time.Duration `koanf:"timeout" validate:"required,min=1s"`
	HalfOpenLimit int           `koanf:"half_open_limit" validate:"required,min=1"`
}

type TransportConfig struct {
	MaxIdleConns        int           `koanf:"max_idle_conns" validate:"required,min=1"`
	MaxIdleConnsPerHost int           `koanf:"max_idle_conns_per_host" validate:"required,min=1"`
	IdleConnTimeout     time.Duration `koanf:"idle_conn_timeout" validate:"required,min=1s"`
}

type ServicesConfig struct {
	Pokeapi ServiceEndpointConfig `koanf:"pokeapi" validate:"required"`
}

type ServiceEndpointConfig struct {
	Name    string `koanf:"name" validate:"required"`
	BaseURL string `koanf:"base_url" validate:"required,url"`
}

// CatalogConfig tunes list aggregation and the list cache.
type CatalogConfig struct {
	BatchSize  int           `koanf:"batch_size" validate:"required,min=1,max=500"`
	CacheTTL   time.Duration `koanf:"cache_ttl" validate:"required,min=1s"`
	SortByName bool          `koanf:"sort_by_name"`

	// AdminRoutesEnabled mounts DELETE /-/cache. Off by default: the route is
	// unauthenticated and every clear costs a full re-aggregation.
	AdminRoutesEnabled bool `koanf:"admin_routes_enabled"`
}

// CORSConfig is the origin whitelist for /api.
type CORSConfig struct {
	// AllowedOrigins match case-insensitively; "*" allows any origin.
	AllowedOrigins []string `koanf:"allowed_origins" validate:"dive,required"`

	// AllowTools admits requests without an Origin header, such as curl.
	AllowTools bool `koanf:"allow_tools"`
}

// Load builds the configuration from, lowest to highest precedence:
//
//	defaults.yaml (embedded)
//	configs/base.yaml
//	configs/<profile>.yaml
//	APP_* variables, e.g. APP_CATALOG_BATCH_SIZE=20
//	the flat variables listed in legacyEnv, e.g. PORT
//
// Missing files are skipped. The result is not validated; call Validate.
func Load(profile string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(kfs.Provider(defaultsFS, defaultsFile), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if err := loadOptionalFile(k, "configs/base.yaml"); err != nil {
		return nil, fmt.Errorf("loading base config: %w", err)
	}

	if profile != "" {
		if err := loadOptionalFile(k, "configs/"+profile+".yaml"); err != nil {
			return nil, fmt.Errorf("loading profile config %q: %w", profile, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKeyMapper(k.Keys())), nil); err != nil {
		return nil, fmt.Errorf("loading env vars: %w", err)
	}

	if err := k.Load(confmap.Provider(legacyOverrides(os.Environ()), "."), nil); err != nil {
		return nil, fmt.Errorf("loading legacy env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return &cfg, nil
}

func loadOptionalFile(k *koanf.Koanf, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return k.Load(file.Provider(path), yaml.Parser())
}
