package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/jsamuelsen/pokedex-service/internal/platform/config"
)

func corsRouter(cfg *config.CORSConfig) *gin.Engine {
	router := gin.New()
	router.Use(CORS(cfg))
	router.GET("/api/pokemons", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	return router
}

func TestCORS(t *testing.T) {
	t.Parallel()

	whitelist := &config.CORSConfig{AllowedOrigins: []string{"https://dex.example.com/"}}

	tests := []struct {
		name           string
		cfg            *config.CORSConfig
		method         string
		origin         string
		expectedStatus int
		expectedAllow  string
	}{
		{
			name:           "whitelisted origin",
			cfg:            whitelist,
			method:         http.MethodGet,
			origin:         "https://dex.example.com",
			expectedStatus: http.StatusOK,
			expectedAllow:  "https://dex.example.com",
		},
		{
			name:           "origin match ignores case",
			cfg:            whitelist,
			method:         http.MethodGet,
			origin:         "https://DEX.example.com",
			expectedStatus: http.StatusOK,
			expectedAllow:  "https://DEX.example.com",
		},
		{
			name:           "preflight short-circuits",
			cfg:            whitelist,
			method:         http.MethodOptions,
			origin:         "https://dex.example.com",
			expectedStatus: http.StatusNoContent,
			expectedAllow:  "https://dex.example.com",
		},
		{
			name:           "unknown origin rejected",
			cfg:            whitelist,
			method:         http.MethodGet,
			origin:         "https://evil.example.com",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "no origin rejected without tools",
			cfg:            whitelist,
			method:         http.MethodGet,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "no origin allowed with tools",
			cfg:            &config.CORSConfig{AllowedOrigins: []string{"https://dex.example.com"}, AllowTools: true},
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wildcard allows any origin",
			cfg:            &config.CORSConfig{AllowedOrigins: []string{"*"}},
			method:         http.MethodGet,
			origin:         "https://anything.example.com",
			expectedStatus: http.StatusOK,
			expectedAllow:  "https://anything.example.com",
		},
		{
			name:           "nil config allows everything",
			cfg:            nil,
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/api/pokemons", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}

			w := httptest.NewRecorder()
			corsRouter(tt.cfg).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, tt.expectedAllow, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCORS_RejectionBody(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/api/pokemons", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	w := httptest.NewRecorder()
	corsRouter(&config.CORSConfig{}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Not allowed by CORS","statusCode":403}`, w.Body.String())
}

func TestCORS_PreflightHeaders(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodOptions, "/api/pokemons", nil)
	req.Header.Set("Origin", "http://localhost:3000")

	w := httptest.NewRecorder()
	corsRouter(&config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}).ServeHTTP(w, req)

	assert.Equal(t, "GET, DELETE, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "X-Request-ID")
	assert.Equal(t, "Origin", w.Header().Get("Vary"))
	assert.Equal(t, "600", w.Header().Get("Access-Control-Max-Age"))
}
