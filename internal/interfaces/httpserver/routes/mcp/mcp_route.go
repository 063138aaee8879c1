package mcp

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/janhq/searxng-tools/internal/interfaces/httpserver/responses"
	"github.com/janhq/searxng-tools/utils/platformerrors"
)

// ServerName and ServerVersion identify the server in the MCP handshake.
const (
	ServerName    = "searxng-mcp"
	ServerVersion = "1.0.0"
)

var allowedMCPMethods = map[string]bool{
	// Initialization / handshake
	"initialize":                true,
	"notifications/initialized": true,
	"ping":                      true,

	// Tools
	"tools/list": true,
	"tools/call": true,
}

type MCPRoute struct {
	searchMCP   *SearchMCP
	mcpServer   *mcp.Server
	httpHandler http.Handler
}

func NewMCPRoute(searchMCP *SearchMCP) *MCPRoute {
	impl := &mcp.Implementation{
		Name:    ServerName,
		Version: ServerVersion,
	}
	server := mcp.NewServer(impl, nil)
	searchMCP.RegisterTools(server)

	return &MCPRoute{
		searchMCP: searchMCP,
		mcpServer: server,
		httpHandler: mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
			return server
		}, &mcp.StreamableHTTPOptions{Stateless: true}),
	}
}

// Server returns the MCP server, used directly for the stdio transport.
func (route *MCPRoute) Server() *mcp.Server {
	return route.mcpServer
}

func (route *MCPRoute) RegisterRouter(router gin.IRouter) {
	router.POST("/mcp",
		MCPMethodGuard(allowedMCPMethods),
		route.serveMCP,
	)
}

// serveMCP streams Model Context Protocol responses using the underlying MCP server.
// @Summary MCP endpoint for tool execution
// @Description Handles Model Context Protocol (MCP) requests over HTTP. Supports MCP methods: initialize, ping, tools/list, tools/call.
// @Description
// @Description **Available Tools:**
// @Description - `search`: Query the SearXNG instance (params: query, categories, engines, language). Returns the top results as text.
// @Description - `fetch`: Fetch a URL (params: url, headers) and return its text content.
// @Description - `crawl`: Fetch a page and the linked subpages whose link text matches a filter (params: url, filters, headers, subpage_limit).
// @Description
// @Description **MCP Protocol:**
// @Description - Request format: JSON-RPC 2.0 with method and params
// @Description - Response format: Server-Sent Events (SSE) stream
// @Description - Stateless mode (no session management)
// @Tags MCP API
// @Accept json
// @Produce text/event-stream
// @Param request body object true "MCP JSON-RPC request payload (e.g., {\"jsonrpc\":\"2.0\",\"method\":\"tools/list\",\"id\":1})"
// @Success 200 {string} string "Streamed MCP response in SSE format"
// @Failure 400 {object} responses.ErrorResponse "Invalid MCP request payload or unsupported method"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /v1/mcp [post]
func (route *MCPRoute) serveMCP(reqCtx *gin.Context) {
	// Force acceptable content types for go-sdk streamable handler even if client omits Accept.
	reqCtx.Request.Header.Set("Accept", "application/json, text/event-stream")
	route.httpHandler.ServeHTTP(reqCtx.Writer, reqCtx.Request)
}

func MCPMethodGuard(allowedMethods map[string]bool) gin.HandlerFunc {
	return func(reqCtx *gin.Context) {
		bodyBytes, err := io.ReadAll(reqCtx.Request.Body)
		if err != nil {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeInternal, "failed to read MCP request body")
			return
		}
		_ = reqCtx.Request.Body.Close()

		if len(bodyBytes) == 0 {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "empty MCP request body")
			return
		}

		reqCtx.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var payload struct {
			Method string `json:"method"`
		}

		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid MCP request payload")
			return
		}

		if payload.Method == "" {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "missing method field in MCP request")
			return
		}

		if !allowedMethods[payload.Method] {
			responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "unsupported MCP method: "+payload.Method)
			return
		}

		reqCtx.Next()
	}
}
