package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/pokedex-service/internal/mocks"
	"github.com/jsamuelsen/pokedex-service/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serveHealth(handler *HealthHandler, path string) *httptest.ResponseRecorder {
	router := gin.New()
	handler.RegisterHealthRoutes(router.Group("/-"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	return w
}

func TestNewBuildInfo(t *testing.T) {
	bi := NewBuildInfo("1.0.0", "abc123", "2024-01-15T10:00:00Z")

	assert.Equal(t, BuildInfo{
		Version:   "1.0.0",
		Commit:    "abc123",
		BuildTime: "2024-01-15T10:00:00Z",
		GoVersion: runtime.Version(),
	}, bi)
}

func TestHealthHandler_Liveness(t *testing.T) {
	handler := NewHealthHandler(mocks.NewMockHealthRegistry(t), BuildInfo{})
	handler.now = func() time.Time { return handler.startedAt.Add(90 * time.Second) }

	w := serveHealth(handler, "/-/live")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	var resp livenessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.InDelta(t, 90.0, resp.UptimeSeconds, 0.001)
}

func TestHealthHandler_Readiness(t *testing.T) {
	checkedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		result         *ports.HealthResult
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "upstream healthy",
			result: &ports.HealthResult{
				Status: ports.HealthStatusHealthy,
				Checks: map[string]*ports.CheckResult{
					"pokeapi": {Status: ports.HealthStatusHealthy},
				},
				Timestamp: checkedAt,
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "healthy",
		},
		{
			name: "upstream unreachable",
			result: &ports.HealthResult{
				Status: ports.HealthStatusUnhealthy,
				Checks: map[string]*ports.CheckResult{
					"pokeapi": {Status: ports.HealthStatusUnhealthy, Message: "Failed to fetch pokemon count: network"},
				},
				Timestamp: checkedAt,
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "Failed to fetch pokemon count: network",
		},
		{
			name: "no checks registered",
			result: &ports.HealthResult{
				Status:    ports.HealthStatusHealthy,
				Checks:    map[string]*ports.CheckResult{},
				Timestamp: checkedAt,
			},
			expectedStatus: http.StatusOK,
			expectedBody:   "healthy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := mocks.NewMockHealthRegistry(t)
			registry.EXPECT().CheckAll(mock.Anything).Return(tt.result)

			w := serveHealth(NewHealthHandler(registry, BuildInfo{}), "/-/ready")

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
			assert.Contains(t, w.Body.String(), tt.expectedBody)

			var resp readinessResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.True(t, checkedAt.Equal(resp.CheckedAt))
		})
	}
}

func TestHealthHandler_Build(t *testing.T) {
	buildInfo := BuildInfo{
		Version:   "1.2.3",
		Commit:    "def456",
		BuildTime: "2024-02-01T12:00:00Z",
		GoVersion: "go1.25.0",
	}

	w := serveHealth(NewHealthHandler(mocks.NewMockHealthRegistry(t), buildInfo), "/-/build")

	assert.Equal(t, http.StatusOK, w.Code)

	var resp BuildInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, buildInfo, resp)
}

func TestHealthHandler_Metrics(t *testing.T) {
	w := serveHealth(NewHealthHandler(mocks.NewMockHealthRegistry(t), BuildInfo{}), "/-/metrics")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}

func TestHealthHandler_RegisterHealthRoutes(t *testing.T) {
	router := gin.New()
	NewHealthHandler(mocks.NewMockHealthRegistry(t), BuildInfo{}).RegisterHealthRoutes(router.Group("/-"))

	var got []string
	for _, r := range router.Routes() {
		got = append(got, r.Method+" "+r.Path)
	}

	assert.ElementsMatch(t, []string{"GET /-/live", "GET /-/ready", "GET /-/build", "GET /-/metrics"}, got)
}
