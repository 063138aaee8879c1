package httpserver

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsearch "github.com/janhq/searxng-tools/internal/domain/search"
	"github.com/janhq/searxng-tools/internal/infrastructure/auth"
	"github.com/janhq/searxng-tools/internal/infrastructure/config"
	"github.com/janhq/searxng-tools/internal/infrastructure/searxng"
	"github.com/janhq/searxng-tools/internal/infrastructure/webfetch"
	"github.com/janhq/searxng-tools/internal/interfaces/httpserver/routes/api"
	"github.com/janhq/searxng-tools/internal/interfaces/httpserver/routes/mcp"
)

func newTestServer(t *testing.T) *HTTPServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":"golang","results":[]}`))
	}))
	t.Cleanup(upstream.Close)

	svc := domainsearch.NewSearchService(
		searxng.NewClient(searxng.ClientConfig{BaseURL: upstream.URL}),
		webfetch.NewFetcher(webfetch.FetcherConfig{}),
		domainsearch.ServiceConfig{},
	)
	validator, err := auth.NewValidator(context.Background(), &config.Config{})
	require.NoError(t, err)

	return NewHTTPServer(
		&config.Config{HTTPPort: "0"},
		validator,
		mcp.NewMCPRoute(mcp.NewSearchMCP(svc, mcp.SearchMCPConfig{})),
		api.NewSearchRoute(svc, api.SearchRouteConfig{}),
	)
}

func serve(s *HTTPServer, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz", "/health"} {
		rec := serve(s, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodGet, "/healthz", "", map[string]string{"X-Request-Id": "req-123"})
	assert.Equal(t, "req-123", rec.Header().Get("X-Request-Id"))

	rec = serve(s, http.MethodGet, "/healthz", "", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestSearchAndToolsAreMounted(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodPost, "/search", `{"query":"golang"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"query":"golang","results":[]}`, rec.Body.String())

	rec = serve(s, http.MethodGet, "/tools", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"crawl"`)
}

func TestMCPEndpointIsGuarded(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodPost, "/v1/mcp", `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unsupported MCP method")
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	serve(s, http.MethodPost, "/search", `{"query":"golang"}`, nil)
	rec := serve(s, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "jan_searxng_tools_requests_total")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodOptions, "/search", "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
