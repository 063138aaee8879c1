package mcp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPMethodGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/mcp", MCPMethodGuard(allowedMCPMethods), func(c *gin.Context) {
		c.String(http.StatusOK, "passed")
	})

	cases := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{name: "tools list", body: `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`, wantStatus: http.StatusOK},
		{name: "tools call", body: `{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"search"}}`, wantStatus: http.StatusOK},
		{name: "empty body", body: ``, wantStatus: http.StatusBadRequest},
		{name: "not json", body: `{`, wantStatus: http.StatusBadRequest},
		{name: "missing method", body: `{"jsonrpc":"2.0","id":1}`, wantStatus: http.StatusBadRequest},
		{name: "unsupported method", body: `{"jsonrpc":"2.0","id":1,"method":"resources/list"}`, wantStatus: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/mcp", bytes.NewBufferString(tc.body)))
			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusBadRequest {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.NotEmpty(t, body["error"])
				assert.NotEmpty(t, body["code"])
			}
		})
	}
}

func TestToolDefinitions(t *testing.T) {
	defs := ToolDefinitions()
	require.Len(t, defs, 3)

	crawl := defs[2]
	assert.Equal(t, ToolKeyCrawl, crawl.Name)
	assert.Equal(t, toolDescriptions[ToolKeyCrawl], crawl.Description)
	assert.Equal(t, []string{"url"}, crawl.InputSchema.Required)

	limit, ok := crawl.InputSchema.Properties.Get("subpage_limit")
	require.True(t, ok)
	assert.Equal(t, "integer", limit.Type)
	assert.NotEmpty(t, limit.Description)
}

func TestNewMCPRouteRegistersServer(t *testing.T) {
	route := NewMCPRoute(NewSearchMCP(nil, SearchMCPConfig{}))
	assert.NotNil(t, route.Server())
}
