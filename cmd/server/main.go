package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/janhq/searxng-tools/internal/infrastructure/config"
	"github.com/janhq/searxng-tools/internal/infrastructure/logger"
)

var version = "1.0.0"

var webMode bool

var rootCmd = &cobra.Command{
	Use:   "searxng-tools",
	Short: "SearXNG search, fetch and crawl tools over MCP or HTTP",
	Long: `searxng-tools exposes a SearXNG instance as tools.

By default it speaks the Model Context Protocol on stdin/stdout. With --web
it serves a JSON API (POST /search, /fetch, /crawl) plus the MCP streamable
HTTP endpoint at /v1/mcp.

Environment:
  SEARXNG_PROTOCOL, SEARXNG_HOST, SEARXNG_PORT   upstream instance (http, searxng, 7777)
  SEARXNG_URL                                    full upstream URL, overrides the above
  PORT / SEARXNG_TOOLS_HTTP_PORT                 web server port (7778)`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	// Initialize logger with default settings
	logger.Init("info", "json")

	rootCmd.Flags().BoolVar(&webMode, "web", false, "Run the HTTP server instead of the stdio MCP server")
}

func run(cmd *cobra.Command, _ []string) error {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Re-initialize logger with config settings
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create application with dependency injection
	application, err := CreateApplication()
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}

	if webMode {
		return application.StartWeb(ctx)
	}
	return application.StartStdio(ctx)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("searxng-tools exited with error")
		os.Exit(1)
	}
}
