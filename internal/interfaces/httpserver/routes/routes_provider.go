package routes

import (
	"github.com/google/wire"

	domainsearch "github.com/janhq/searxng-tools/internal/domain/search"
	"github.com/janhq/searxng-tools/internal/infrastructure/config"
	"github.com/janhq/searxng-tools/internal/infrastructure/telemetry"
	"github.com/janhq/searxng-tools/internal/interfaces/httpserver/routes/api"
	"github.com/janhq/searxng-tools/internal/interfaces/httpserver/routes/mcp"
)

// RoutesProvider provides all route dependencies
var RoutesProvider = wire.NewSet(
	ProvideSearchMCP,
	mcp.NewMCPRoute,
	ProvideSearchRoute,
)

// ProvideSearchMCP creates the MCP tool handlers with configured budgets
func ProvideSearchMCP(searchService *domainsearch.SearchService, cfg *config.Config, sanitizer *telemetry.Sanitizer) *mcp.SearchMCP {
	return mcp.NewSearchMCP(searchService, mcp.SearchMCPConfig{
		MaxSearchResults: cfg.MaxSearchResults,
		MaxSnippetChars:  cfg.MaxSnippetChars,
		MaxPageChars:     cfg.MaxPageChars,
		Sanitizer:        sanitizer,
	})
}

// ProvideSearchRoute creates the JSON API routes with configured budgets
func ProvideSearchRoute(searchService *domainsearch.SearchService, cfg *config.Config, sanitizer *telemetry.Sanitizer) *api.SearchRoute {
	return api.NewSearchRoute(searchService, api.SearchRouteConfig{
		MaxPageChars:    cfg.MaxPageChars,
		MaxSnippetChars: cfg.MaxSnippetChars,
		Sanitizer:       sanitizer,
	})
}
