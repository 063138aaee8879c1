package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	domainsearch "github.com/janhq/searxng-tools/internal/domain/search"
	"github.com/janhq/searxng-tools/internal/infrastructure/metrics"
	"github.com/janhq/searxng-tools/internal/infrastructure/telemetry"
)

const surfaceMCP = "mcp"

// SearchMCPConfig contains the display budgets for tool results.
type SearchMCPConfig struct {
	MaxSearchResults int
	MaxSnippetChars  int
	MaxPageChars     int
	Sanitizer        *telemetry.Sanitizer
}

// SearchMCP handles MCP tool registration for search, fetch and crawl.
type SearchMCP struct {
	searchService    *domainsearch.SearchService
	maxSearchResults int
	maxSnippetChars  int
	maxPageChars     int
	sanitizer        *telemetry.Sanitizer
}

// NewSearchMCP creates a new search MCP handler.
func NewSearchMCP(searchService *domainsearch.SearchService, cfg SearchMCPConfig) *SearchMCP {
	// Apply defaults if not set
	maxResults := cfg.MaxSearchResults
	if maxResults <= 0 {
		maxResults = 10
	}
	maxSnippet := cfg.MaxSnippetChars
	if maxSnippet <= 0 {
		maxSnippet = 200
	}
	maxPage := cfg.MaxPageChars
	if maxPage <= 0 {
		maxPage = 16000
	}

	return &SearchMCP{
		searchService:    searchService,
		maxSearchResults: maxResults,
		maxSnippetChars:  maxSnippet,
		maxPageChars:     maxPage,
		sanitizer:        cfg.Sanitizer,
	}
}

// RegisterTools registers search tools with the MCP server
func (s *SearchMCP) RegisterTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolKeySearch,
		Description: toolDescriptions[ToolKeySearch],
	}, s.handleSearch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolKeyFetch,
		Description: toolDescriptions[ToolKeyFetch],
	}, s.handleFetch)

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolKeyCrawl,
		Description: toolDescriptions[ToolKeyCrawl],
	}, s.handleCrawl)
}

func (s *SearchMCP) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchArgs) (*mcp.CallToolResult, any, error) {
	startTime := time.Now()
	query := strings.TrimSpace(input.Query)
	if query == "" {
		metrics.RecordToolCall(ToolKeySearch, surfaceMCP, "invalid", time.Since(startTime).Seconds())
		return errorResult("Error: Query is required"), nil, nil
	}

	log.Debug().
		Str("tool", ToolKeySearch).
		Str("query", s.sanitizer.SanitizeText(query)).
		Str("categories", input.Categories).
		Str("engines", input.Engines).
		Msg("search request details")

	resp, err := s.searchService.Search(ctx, domainsearch.SearchRequest{
		Query:      query,
		Categories: []string{input.Categories},
		Engines:    []string{input.Engines},
		Language:   input.Language,
		Format:     domainsearch.FormatJSON,
	})
	if err != nil {
		log.Warn().Err(err).Str("tool", ToolKeySearch).Str("query", s.sanitizer.SanitizeText(query)).Msg("search service failed")
		metrics.RecordToolCall(ToolKeySearch, surfaceMCP, "error", time.Since(startTime).Seconds())
		return errorResult("Search error: " + err.Error()), nil, nil
	}
	if msg, ok := resp.ErrorMessage(); ok {
		metrics.RecordToolCall(ToolKeySearch, surfaceMCP, "error", time.Since(startTime).Seconds())
		return errorResult("Search error: " + msg), nil, nil
	}

	metrics.RecordToolCall(ToolKeySearch, surfaceMCP, "success", time.Since(startTime).Seconds())
	return textResult(formatSearchResults(query, resp, s.maxSearchResults, s.maxSnippetChars)), nil, nil
}

func (s *SearchMCP) handleFetch(ctx context.Context, _ *mcp.CallToolRequest, input FetchArgs) (*mcp.CallToolResult, any, error) {
	startTime := time.Now()
	url := strings.TrimSpace(input.URL)
	if url == "" {
		metrics.RecordToolCall(ToolKeyFetch, surfaceMCP, "invalid", time.Since(startTime).Seconds())
		return errorResult("Error: URL is required"), nil, nil
	}

	log.Debug().
		Str("tool", ToolKeyFetch).
		Str("url", url).
		Interface("headers", s.sanitizer.SanitizeHeaders(input.Headers)).
		Msg("fetch request details")

	result, err := s.searchService.Fetch(ctx, domainsearch.FetchRequest{
		URL:     url,
		Headers: input.Headers,
	})
	if err != nil {
		log.Warn().Err(err).Str("tool", ToolKeyFetch).Str("url", url).Msg("fetch failed")
		metrics.RecordToolCall(ToolKeyFetch, surfaceMCP, "error", time.Since(startTime).Seconds())
		return errorResult("Fetch error: " + err.Error()), nil, nil
	}

	metrics.RecordToolCall(ToolKeyFetch, surfaceMCP, "success", time.Since(startTime).Seconds())
	return textResult(formatFetchResult(result, s.maxPageChars)), nil, nil
}

func (s *SearchMCP) handleCrawl(ctx context.Context, _ *mcp.CallToolRequest, input CrawlArgs) (*mcp.CallToolResult, any, error) {
	startTime := time.Now()
	url := strings.TrimSpace(input.URL)
	if url == "" {
		metrics.RecordToolCall(ToolKeyCrawl, surfaceMCP, "invalid", time.Since(startTime).Seconds())
		return errorResult("Error: URL is required"), nil, nil
	}

	log.Debug().
		Str("tool", ToolKeyCrawl).
		Str("url", url).
		Strs("filters", input.Filters).
		Interface("headers", s.sanitizer.SanitizeHeaders(input.Headers)).
		Msg("crawl request details")

	result, err := s.searchService.Crawl(ctx, domainsearch.CrawlRequest{
		URL:          url,
		Filters:      input.Filters,
		Headers:      input.Headers,
		SubpageLimit: input.SubpageLimit,
	})
	if err != nil {
		log.Warn().Err(err).Str("tool", ToolKeyCrawl).Str("url", url).Msg("crawl failed")
		metrics.RecordToolCall(ToolKeyCrawl, surfaceMCP, "error", time.Since(startTime).Seconds())
		return errorResult("Crawl error: " + err.Error()), nil, nil
	}

	log.Info().
		Str("tool", ToolKeyCrawl).
		Str("url", url).
		Int("subpages_found", result.TotalSubpagesFound).
		Int("subpages_returned", result.SubpagesReturned).
		Dur("duration", time.Since(startTime)).
		Msg("crawl completed")

	metrics.RecordToolCall(ToolKeyCrawl, surfaceMCP, "success", time.Since(startTime).Seconds())
	return textResult(formatCrawlResult(result, s.maxPageChars, s.maxSnippetChars)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
