package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/janhq/searxng-tools/internal/infrastructure/config"
	"github.com/janhq/searxng-tools/internal/infrastructure/observability"
	"github.com/janhq/searxng-tools/internal/interfaces/httpserver"
	mcproutes "github.com/janhq/searxng-tools/internal/interfaces/httpserver/routes/mcp"
)

type Application struct {
	config     *config.Config
	httpServer *httpserver.HTTPServer
	mcpRoute   *mcproutes.MCPRoute
}

// @title SearXNG Tools Service
// @version 1.0
// @description Search, fetch and crawl tools on top of a SearXNG instance, exposed as a JSON API and as Model Context Protocol (MCP) tools.
// @contact.name Jan Server Team
// @contact.url https://github.com/janhq/jan-server
// @BasePath /
func (app *Application) StartWeb(ctx context.Context) error {
	shutdown, err := observability.Setup(ctx, app.config, log.Logger)
	if err != nil {
		log.Error().Err(err).Msg("Failed to set up tracing, continuing without it")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				log.Warn().Err(err).Msg("Failed to flush traces")
			}
		}()
	}

	log.Info().
		Str("http_port", app.config.HTTPPort).
		Str("searxng_url", app.config.SearxngBaseURL()).
		Msg("Starting SearXNG tools web server")
	return app.httpServer.Run(ctx)
}

// StartStdio serves the MCP tools over stdin/stdout until the client
// disconnects or ctx is cancelled.
func (app *Application) StartStdio(ctx context.Context) error {
	log.Info().
		Str("searxng_url", app.config.SearxngBaseURL()).
		Msg("Starting SearXNG MCP server on stdio")
	return app.mcpRoute.Server().Run(ctx, &mcp.StdioTransport{})
}
