package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/pokedex-service/internal/app"
	"github.com/jsamuelsen/pokedex-service/internal/domain"
	"github.com/jsamuelsen/pokedex-service/internal/ports"
)

// staticCatalog is an in-memory ports.CatalogClient without mock bookkeeping.
type staticCatalog struct {
	summaries map[string]*domain.Summary
	locators  []string
}

func newStaticCatalog(size int) *staticCatalog {
	c := &staticCatalog{summaries: make(map[string]*domain.Summary, size)}
	for i := range size {
		locator := "/pokemon/" + strconv.Itoa(i+1)
		c.locators = append(c.locators, locator)
		c.summaries[locator] = &domain.Summary{Name: "entry-" + strconv.Itoa(i+1), Types: []string{"normal"}}
	}

	return c
}

func (c *staticCatalog) Count(context.Context) (int, error) { return len(c.locators), nil }

func (c *staticCatalog) ListLocators(_ context.Context, limit int) ([]string, error) {
	return c.locators[:limit], nil
}

func (c *staticCatalog) FetchSummary(_ context.Context, locator string) (*domain.Summary, error) {
	return c.summaries[locator], nil
}

func (c *staticCatalog) FetchDetail(_ context.Context, name string) (*domain.Detail, error) {
	return &domain.Detail{ID: 1, Name: name, Types: []string{"normal"}}, nil
}

var _ ports.CatalogClient = (*staticCatalog)(nil)

func benchRouter(catalog ports.CatalogClient) *gin.Engine {
	service := app.NewCatalogService(app.CatalogServiceConfig{
		Client: catalog,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	handler := NewCatalogHandler(service)

	router := gin.New()
	handler.RegisterCatalogRoutes(router.Group("/api"))
	handler.RegisterAdminRoutes(router.Group("/-"))

	return router
}

// BenchmarkListAll_CacheHit measures serving the cached list (1000 entries).
func BenchmarkListAll_CacheHit(b *testing.B) {
	router := benchRouter(newStaticCatalog(1000))
	req := httptest.NewRequest(http.MethodGet, "/api/pokemons", http.NoBody)
	router.ServeHTTP(httptest.NewRecorder(), req)

	b.ReportAllocs()

	for b.Loop() {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
}

// BenchmarkListAll_ColdAggregation measures a full batched aggregation per iteration.
func BenchmarkListAll_ColdAggregation(b *testing.B) {
	router := benchRouter(newStaticCatalog(1000))
	list := httptest.NewRequest(http.MethodGet, "/api/pokemons", http.NoBody)
	reset := httptest.NewRequest(http.MethodDelete, "/-/cache", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		router.ServeHTTP(httptest.NewRecorder(), reset)
		router.ServeHTTP(httptest.NewRecorder(), list)
	}
}

// BenchmarkGetByName measures the uncached single-item path.
func BenchmarkGetByName(b *testing.B) {
	router := benchRouter(newStaticCatalog(1))
	req := httptest.NewRequest(http.MethodGet, "/api/pokemons/Pikachu", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
}

// BenchmarkLivenessHandler measures the liveness probe.
func BenchmarkLivenessHandler(b *testing.B) {
	handler := NewHealthHandler(ports.NewHealthRegistry(), NewBuildInfo("1.0.0", "abc123", "2024-01-01T00:00:00Z"))
	req := httptest.NewRequest(http.MethodGet, "/-/live", http.NoBody)

	b.ReportAllocs()

	for b.Loop() {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = req
		handler.Liveness(c)
	}
}
