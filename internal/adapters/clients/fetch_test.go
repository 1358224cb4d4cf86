package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pokemon", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":1302}`))
	}))
	defer server.Close()

	cfg := defaultConfig()
	cfg.BaseURL = server.URL

	client, err := New(cfg)
	require.NoError(t, err)

	resp, err := client.Fetch(context.Background(), "/pokemon?limit=1")
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.NoError(t, resp.Err())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "OK", resp.StatusText)
	assert.JSONEq(t, `{"count":1302}`, string(resp.Body))
}

func TestClient_Fetch_NonSuccessIsResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	cfg := defaultConfig()
	cfg.BaseURL = server.URL

	client, err := New(cfg)
	require.NoError(t, err)

	resp, err := client.Fetch(context.Background(), server.URL+"/pokemon/missingno")
	require.NoError(t, err)

	assert.False(t, resp.OK())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not Found", resp.StatusText)

	var statusErr *StatusError
	require.ErrorAs(t, resp.Err(), &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "Not Found", statusErr.StatusText)
}

func TestClient_Fetch_TransportErrors(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer slow.Close()

	tests := []struct {
		name     string
		baseURL  string
		locator  string
		timeout  time.Duration
		ctx      func() (context.Context, context.CancelFunc)
		expected TransportErrorKind
	}{
		{
			name:     "connection refused",
			baseURL:  "http://127.0.0.1:1",
			locator:  "/pokemon",
			expected: KindNetwork,
		},
		{
			name:     "client timeout",
			baseURL:  slow.URL,
			locator:  "/pokemon",
			timeout:  20 * time.Millisecond,
			expected: KindTimeout,
		},
		{
			name:    "caller canceled",
			baseURL: slow.URL,
			locator: "/pokemon",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, func() {}
			},
			expected: KindCanceled,
		},
		{
			name:     "malformed locator",
			baseURL:  slow.URL,
			locator:  "http://[::1]:namedport",
			expected: KindRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			cfg.BaseURL = tt.baseURL
			cfg.Retry.MaxAttempts = 1
			if tt.timeout > 0 {
				cfg.Timeout = tt.timeout
			}

			client, err := New(cfg)
			require.NoError(t, err)

			ctx, cancel := context.Background(), context.CancelFunc(func() {})
			if tt.ctx != nil {
				ctx, cancel = tt.ctx()
			}
			defer cancel()

			resp, err := client.Fetch(ctx, tt.locator)
			assert.Nil(t, resp)

			var te *TransportError
			require.ErrorAs(t, err, &te)
			assert.Equal(t, tt.expected, te.Kind)
		})
	}
}

func TestClient_Fetch_CircuitOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := defaultConfig()
	cfg.BaseURL = server.URL
	cfg.Retry.MaxAttempts = 1
	cfg.Circuit.MaxFailures = 1

	client, err := New(cfg)
	require.NoError(t, err)

	resp, err := client.Fetch(context.Background(), "/pokemon")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	_, err = client.Fetch(context.Background(), "/pokemon")

	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, KindCircuitOpen, te.Kind)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, "upstream temporarily unavailable", te.Kind.String())
}

func TestTransportError_Message(t *testing.T) {
	err := &TransportError{Kind: KindTimeout, Err: errors.New("deadline")}
	assert.Equal(t, "upstream request timed out: deadline", err.Error())

	bare := &TransportError{Kind: KindNetwork}
	assert.Equal(t, "upstream unreachable", bare.Error())
}

func TestStatusText(t *testing.T) {
	tests := []struct {
		name     string
		resp     *http.Response
		expected string
	}{
		{"standard", &http.Response{StatusCode: 404, Status: "404 Not Found"}, "Not Found"},
		{"custom reason", &http.Response{StatusCode: 503, Status: "503 Down For Maintenance"}, "Down For Maintenance"},
		{"missing reason", &http.Response{StatusCode: 502, Status: "502"}, "Bad Gateway"},
		{"empty status", &http.Response{StatusCode: 429}, "Too Many Requests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, statusText(tt.resp))
		})
	}
}
