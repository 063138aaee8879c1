package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	domainsearch "github.com/janhq/searxng-tools/internal/domain/search"
	"github.com/janhq/searxng-tools/internal/infrastructure/metrics"
	"github.com/janhq/searxng-tools/internal/infrastructure/telemetry"
	"github.com/janhq/searxng-tools/internal/interfaces/httpserver/requests"
	"github.com/janhq/searxng-tools/internal/interfaces/httpserver/responses"
	"github.com/janhq/searxng-tools/internal/interfaces/httpserver/routes/mcp"
	"github.com/janhq/searxng-tools/utils/htmltext"
	"github.com/janhq/searxng-tools/utils/platformerrors"
)

const surfaceHTTP = "http"

// SearchRouteConfig contains the display budgets for crawl responses.
type SearchRouteConfig struct {
	MaxPageChars    int
	MaxSnippetChars int
	Sanitizer       *telemetry.Sanitizer
}

// SearchRoute serves the JSON API over the search service.
type SearchRoute struct {
	searchService   *domainsearch.SearchService
	maxPageChars    int
	maxSnippetChars int
	sanitizer       *telemetry.Sanitizer
}

// ToolsResponse is the body of GET /tools.
type ToolsResponse struct {
	Tools []mcp.ToolDefinition `json:"tools"`
}

func NewSearchRoute(searchService *domainsearch.SearchService, cfg SearchRouteConfig) *SearchRoute {
	maxPage := cfg.MaxPageChars
	if maxPage <= 0 {
		maxPage = 16000
	}
	maxSnippet := cfg.MaxSnippetChars
	if maxSnippet <= 0 {
		maxSnippet = 200
	}
	return &SearchRoute{
		searchService:   searchService,
		maxPageChars:    maxPage,
		maxSnippetChars: maxSnippet,
		sanitizer:       cfg.Sanitizer,
	}
}

// RegisterRouter registers the tool endpoints. The server mounts them behind
// the auth middleware when auth is enabled.
func (route *SearchRoute) RegisterRouter(router gin.IRouter) {
	router.POST("/search", route.search)
	router.POST("/fetch", route.fetch)
	router.POST("/crawl", route.crawl)
}

// RegisterPublicRouter registers the endpoints that never require auth.
func (route *SearchRoute) RegisterPublicRouter(router gin.IRouter) {
	router.GET("/health", route.health)
	router.GET("/tools", route.tools)
}

// search godoc
// @Summary Search the web
// @Description Runs a query against the SearXNG instance and returns its JSON response unchanged. Upstream failures are reported with status 200 and an error field.
// @Tags Search API
// @Accept json
// @Produce json
// @Param request body requests.SearchRequest true "Search query"
// @Success 200 {object} map[string]interface{} "Upstream search response"
// @Failure 400 {object} responses.ErrorResponse "Missing query or malformed body"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /search [post]
func (route *SearchRoute) search(reqCtx *gin.Context) {
	startTime := time.Now()
	var req requests.SearchRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "Query is required")
		return
	}

	log.Debug().
		Str("query", route.sanitizer.SanitizeText(req.Query)).
		Str("categories", req.Categories).
		Str("engines", req.Engines).
		Msg("search request")

	resp, err := route.searchService.Search(reqCtx.Request.Context(), domainsearch.SearchRequest{
		Query:      req.Query,
		Categories: []string{req.Categories},
		Engines:    []string{req.Engines},
		Language:   req.Language,
		Format:     domainsearch.FormatJSON,
	})
	if err != nil {
		metrics.RecordToolCall(mcp.ToolKeySearch, surfaceHTTP, "error", time.Since(startTime).Seconds())
		responses.HandleError(reqCtx, err)
		return
	}

	metrics.RecordToolCall(mcp.ToolKeySearch, surfaceHTTP, "success", time.Since(startTime).Seconds())
	reqCtx.JSON(http.StatusOK, resp)
}

// fetch godoc
// @Summary Fetch a URL
// @Description Fetches a URL and returns its cleaned text with status, headers and lengths. Upstream failures are reported with status 200 and an error field.
// @Tags Search API
// @Accept json
// @Produce json
// @Param request body requests.FetchRequest true "URL to fetch"
// @Success 200 {object} domainsearch.FetchResult
// @Failure 400 {object} responses.ErrorResponse "Missing url or malformed body"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /fetch [post]
func (route *SearchRoute) fetch(reqCtx *gin.Context) {
	startTime := time.Now()
	var req requests.FetchRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "URL is required")
		return
	}

	log.Debug().
		Str("url", req.URL).
		Interface("headers", route.sanitizer.SanitizeHeaders(req.Headers)).
		Msg("fetch request")

	result, err := route.searchService.Fetch(reqCtx.Request.Context(), domainsearch.FetchRequest{
		URL:             req.URL,
		Headers:         req.Headers,
		IncludeMarkdown: req.IncludeMarkdown,
	})
	if err != nil {
		metrics.RecordToolCall(mcp.ToolKeyFetch, surfaceHTTP, "error", time.Since(startTime).Seconds())
		responses.HandleError(reqCtx, err)
		return
	}

	metrics.RecordToolCall(mcp.ToolKeyFetch, surfaceHTTP, "success", time.Since(startTime).Seconds())
	reqCtx.JSON(http.StatusOK, result)
}

// crawl godoc
// @Summary Crawl a page and its matching links
// @Description Fetches a page, then up to subpage_limit linked pages whose link text matches any filter. Main page content is cut at 16000 characters and subpage content at 200; lengths and counts are not affected.
// @Tags Search API
// @Accept json
// @Produce json
// @Param request body requests.CrawlRequest true "Crawl parameters"
// @Success 200 {object} domainsearch.CrawlResult
// @Failure 400 {object} responses.ErrorResponse "Missing url or malformed body"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /crawl [post]
func (route *SearchRoute) crawl(reqCtx *gin.Context) {
	startTime := time.Now()
	var req requests.CrawlRequest
	if err := reqCtx.ShouldBindJSON(&req); err != nil {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "invalid request body")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		responses.HandleNewError(reqCtx, platformerrors.ErrorTypeValidation, "URL is required")
		return
	}

	log.Debug().
		Str("url", req.URL).
		Strs("filters", req.Filters).
		Interface("headers", route.sanitizer.SanitizeHeaders(req.Headers)).
		Msg("crawl request")

	result, err := route.searchService.Crawl(reqCtx.Request.Context(), domainsearch.CrawlRequest{
		URL:          req.URL,
		Filters:      req.Filters,
		Headers:      req.Headers,
		SubpageLimit: req.SubpageLimit,
	})
	if err != nil {
		metrics.RecordToolCall(mcp.ToolKeyCrawl, surfaceHTTP, "error", time.Since(startTime).Seconds())
		responses.HandleError(reqCtx, err)
		return
	}

	metrics.RecordToolCall(mcp.ToolKeyCrawl, surfaceHTTP, "success", time.Since(startTime).Seconds())
	reqCtx.JSON(http.StatusOK, route.truncateCrawl(result))
}

// truncateCrawl shortens content for display only.
func (route *SearchRoute) truncateCrawl(result *domainsearch.CrawlResult) domainsearch.CrawlResult {
	out := *result
	out.MainPage.Content = htmltext.Truncate(result.MainPage.Content, route.maxPageChars, "...\n[Content truncated]")
	out.Subpages = make([]domainsearch.Subpage, len(result.Subpages))
	for i, sub := range result.Subpages {
		sub.Content = htmltext.Truncate(sub.Content, route.maxSnippetChars, "...")
		out.Subpages[i] = sub
	}
	return out
}

// health godoc
// @Summary Health check
// @Tags Server API
// @Produce json
// @Success 200 {object} responses.HealthResponse
// @Router /health [get]
func (route *SearchRoute) health(reqCtx *gin.Context) {
	reqCtx.JSON(http.StatusOK, responses.HealthResponse{Status: "healthy"})
}

// tools godoc
// @Summary List tools
// @Description Lists the tools with their JSON input schemas.
// @Tags Server API
// @Produce json
// @Success 200 {object} ToolsResponse
// @Router /tools [get]
func (route *SearchRoute) tools(reqCtx *gin.Context) {
	reqCtx.JSON(http.StatusOK, ToolsResponse{Tools: mcp.ToolDefinitions()})
}
