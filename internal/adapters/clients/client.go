package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/pokedex-service/internal/adapters/http/middleware"
	"github.com/jsamuelsen/pokedex-service/internal/platform/config"
	"github.com/jsamuelsen/pokedex-service/internal/platform/logging"
)

const instrumentationName = "github.com/jsamuelsen/pokedex-service/internal/adapters/clients"

const (
	defaultTimeout = 30 * time.Second

	// Detail records run to a few hundred KB; anything past this is not a
	// catalog payload.
	defaultMaxBodyBytes = 8 << 20

	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// Config configures a Client. Zero values get defaults in New.
type Config struct {
	BaseURL     string
	ServiceName string

	// Timeout bounds a single attempt. Retries and backoff come on top.
	Timeout time.Duration

	Retry     config.RetryConfig
	Circuit   config.CircuitBreakerConfig
	Transport config.TransportConfig

	// UserAgent is sent on every attempt; the public API asks callers to
	// identify themselves.
	UserAgent string

	// MaxBodyBytes caps what Fetch buffers per response.
	MaxBodyBytes int64

	Logger *slog.Logger
}

// Client is the outbound HTTP client for the catalog upstream. Every call
// goes through the circuit breaker and the retry loop, and is traced,
// counted and logged.
type Client struct {
	http    *http.Client
	baseURL string
	cfg     *Config
	logger  *slog.Logger
	cb      *CircuitBreaker
	tracer  trace.Tracer
	inst    instruments
}

type instruments struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
}

// New builds a Client from cfg, filling unset values with defaults.
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	if cfg.ServiceName == "" {
		return nil, errors.New("service name is required")
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}

	if cfg.Retry.MaxAttempts <= 0 {
		cfg.Retry.MaxAttempts = 1
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With(slog.String("component", "clients"), slog.String("downstream", cfg.ServiceName))

	inst, err := newInstruments(otel.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		MaxFailures:   cfg.Circuit.MaxFailures,
		Timeout:       cfg.Circuit.Timeout,
		HalfOpenLimit: cfg.Circuit.HalfOpenLimit,
	})
	cb.OnStateChange(func(from, to State) {
		logger.Warn("circuit breaker state changed", slog.String("from", from.String()), slog.String("to", to.String()))
	})

	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: newTransport(cfg.Transport),
		},
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		cfg:     cfg,
		logger:  logger,
		cb:      cb,
		tracer:  otel.Tracer(instrumentationName),
		inst:    inst,
	}, nil
}

func newInstruments(meter metric.Meter) (instruments, error) {
	duration, err := meter.Float64Histogram("http.client.request.duration",
		metric.WithDescription("Duration of upstream requests, retries included"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return instruments{}, fmt.Errorf("creating duration histogram: %w", err)
	}

	total, err := meter.Int64Counter("http.client.request.total",
		metric.WithDescription("Upstream requests by result"),
	)
	if err != nil {
		return instruments{}, fmt.Errorf("creating request counter: %w", err)
	}

	return instruments{duration: duration, total: total}, nil
}

// newTransport pools connections to the upstream. A batch fans out to one
// host, so MaxIdleConnsPerHost should be close to the batch width.
func newTransport(tc config.TransportConfig) *http.Transport {
	t := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
	}

	if tc.MaxIdleConns > 0 {
		t.MaxIdleConns = tc.MaxIdleConns
	}
	if tc.MaxIdleConnsPerHost > 0 {
		t.MaxIdleConnsPerHost = tc.MaxIdleConnsPerHost
	}
	if tc.IdleConnTimeout > 0 {
		t.IdleConnTimeout = tc.IdleConnTimeout
	}

	return t
}

// Get issues a GET for path, which is either base-relative or an absolute
// URL handed out by the upstream.
func (c *Client) Get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(path), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errBuildRequest, err)
	}

	return c.Do(ctx, req)
}

// Do sends req behind the breaker and the retry loop. Any received response
// is returned whatever its status; an error means no response was obtained.
// Retries resend req unchanged, which is only safe without a body.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	logger := logging.FromContext(ctx).With(
		slog.String("downstream", c.cfg.ServiceName),
		slog.String("method", req.Method),
		slog.String("path", req.URL.Path),
	)

	ticket, err := c.cb.Acquire()
	if err != nil {
		c.record(ctx, req.Method, 0, time.Since(start), "circuit_open")
		logger.Warn("request blocked by circuit breaker")
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "HTTP "+req.Method+" "+c.cfg.ServiceName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.url", req.URL.String()),
			attribute.String("peer.service", c.cfg.ServiceName),
		),
	)
	defer span.End()

	c.setHeaders(ctx, req)

	resp, err := c.retry(ctx, req, logger)
	outcome := classifyOutcome(ctx, resp, err)
	c.cb.Release(ticket, outcome)

	elapsed := time.Since(start)

	switch {
	case err != nil && outcome == OutcomeIgnored:
		span.SetStatus(codes.Error, err.Error())
		c.record(ctx, req.Method, 0, elapsed, "abandoned")
		logger.Debug("request abandoned by caller", slog.Duration("duration", elapsed), slog.Any("error", err))
		return nil, err

	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.record(ctx, req.Method, 0, elapsed, "error")
		logger.Error("request failed", slog.Duration("duration", elapsed), slog.Any("error", err))
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= http.StatusBadRequest {
		span.SetStatus(codes.Error, resp.Status)
	}

	c.record(ctx, req.Method, resp.StatusCode, elapsed, fmt.Sprintf("%dxx", resp.StatusCode/100))
	logger.Debug("request completed", slog.Int("status", resp.StatusCode), slog.Duration("duration", elapsed))

	return resp, nil
}

// CircuitState reports the breaker state, for health checks.
func (c *Client) CircuitState() State {
	return c.cb.State()
}

// setHeaders propagates the inbound request and correlation IDs and the
// trace context, and identifies the service.
func (c *Client) setHeaders(ctx context.Context, req *http.Request) {
	if id := middleware.RequestIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderRequestID, id)
	}
	if id := middleware.CorrelationIDFromContext(ctx); id != "" {
		req.Header.Set(middleware.HeaderCorrelationID, id)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// buildURL joins path onto the base URL. Absolute URLs pass through.
func (c *Client) buildURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	return c.baseURL + "/" + strings.TrimPrefix(path, "/")
}

func (c *Client) record(ctx context.Context, method string, status int, d time.Duration, result string) {
	attrs := []attribute.KeyValue{
		attribute.String("http.method", method),
		attribute.String("peer.service", c.cfg.ServiceName),
		attribute.String("result", result),
	}
	if status > 0 {
		attrs = append(attrs, attribute.Int("http.status_code", status))
	}

	opt := metric.WithAttributes(attrs...)
	c.inst.duration.Record(ctx, d.Seconds(), opt)
	c.inst.total.Add(ctx, 1, opt)
}
