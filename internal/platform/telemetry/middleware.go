package telemetry

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/pokedex-service/internal/platform/logging"
)

const (
	instrumentationName = "github.com/jsamuelsen/pokedex-service/internal/platform/telemetry"

	// TraceIDHeader echoes the request's trace ID to the caller.
	TraceIDHeader = "X-Trace-ID"

	// Probe, metrics and admin routes live under this prefix and get no span.
	probePrefix = "/-/"

	unmatchedRoute = "unmatched"
)

// serverMetrics are the inbound HTTP instruments.
type serverMetrics struct {
	duration metric.Float64Histogram
	total    metric.Int64Counter
	inFlight metric.Int64UpDownCounter
}

func newServerMetrics(meter metric.Meter) (*serverMetrics, error) {
	var (
		m    serverMetrics
		errs [3]error
	)

	m.duration, errs[0] = meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"), metric.WithUnit("s"))
	m.total, errs[1] = meter.Int64Counter("http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"))
	m.inFlight, errs[2] = meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"))

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return &m, nil
}

// Middleware returns two handlers: an otelgin server span for everything
// outside /-/, then one that sets X-Trace-ID, tags the request logger with
// the trace ID and records request metrics.
func Middleware(serviceName string) gin.HandlersChain {
	spans := otelgin.Middleware(serviceName, otelgin.WithFilter(func(r *http.Request) bool {
		return !strings.HasPrefix(r.URL.Path, probePrefix)
	}))

	m, err := newServerMetrics(otel.Meter(instrumentationName))
	if err != nil {
		// Requests are still served, only unmeasured.
		otel.Handle(err)
	}

	return gin.HandlersChain{spans, m.handler}
}

func (m *serverMetrics) handler(c *gin.Context) {
	ctx := c.Request.Context()

	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		id := sc.TraceID().String()
		c.Header(TraceIDHeader, id)
		ctx = logging.WithTraceID(ctx, id)
		c.Request = c.Request.WithContext(ctx)
	}

	if m == nil {
		c.Next()
		return
	}

	route := c.FullPath()
	if route == "" {
		route = unmatchedRoute
	}
	method := attribute.String("http.method", c.Request.Method)
	path := attribute.String("http.route", route)

	live := metric.WithAttributes(method, path)
	m.inFlight.Add(ctx, 1, live)
	defer m.inFlight.Add(ctx, -1, live)

	began := time.Now()
	c.Next()

	done := metric.WithAttributes(method, path, attribute.Int("http.status_code", c.Writer.Status()))
	m.duration.Record(ctx, time.Since(began).Seconds(), done)
	m.total.Add(ctx, 1, done)
}
