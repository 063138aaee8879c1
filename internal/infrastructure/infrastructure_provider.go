package infrastructure

import (
	"context"

	"github.com/google/wire"

	domainsearch "github.com/janhq/searxng-tools/internal/domain/search"
	"github.com/janhq/searxng-tools/internal/infrastructure/auth"
	"github.com/janhq/searxng-tools/internal/infrastructure/config"
	"github.com/janhq/searxng-tools/internal/infrastructure/searxng"
	"github.com/janhq/searxng-tools/internal/infrastructure/telemetry"
	"github.com/janhq/searxng-tools/internal/infrastructure/webfetch"
)

// InfrastructureProvider provides all infrastructure dependencies
var InfrastructureProvider = wire.NewSet(
	// Config
	ProvideConfig,

	// SearXNG client
	ProvideSearxngClient,
	wire.Bind(new(domainsearch.SearchClient), new(*searxng.Client)),

	// Page fetcher
	ProvidePageFetcher,
	wire.Bind(new(domainsearch.PageFetcher), new(*webfetch.Fetcher)),

	// Log sanitization
	ProvideSanitizer,

	// Bearer token auth for the HTTP tool endpoints
	ProvideAuthValidator,

	// Service limits
	ProvideServiceConfig,
)

// ProvideConfig loads and provides the application configuration
func ProvideConfig() (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideSearxngClient provides the metasearch client
func ProvideSearxngClient(cfg *config.Config) *searxng.Client {
	return searxng.NewClient(searxng.ClientConfig{
		BaseURL:   cfg.SearxngBaseURL(),
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout(),
	})
}

// ProvidePageFetcher provides the fetcher used by fetch and crawl
func ProvidePageFetcher(cfg *config.Config) *webfetch.Fetcher {
	return webfetch.NewFetcher(webfetch.FetcherConfig{
		UserAgent:        cfg.UserAgent,
		Timeout:          cfg.RequestTimeout(),
		MaxResponseBytes: cfg.MaxResponseBytes,
	})
}

// ProvideSanitizer provides the scrubber for queries and forwarded headers
func ProvideSanitizer(cfg *config.Config) *telemetry.Sanitizer {
	return telemetry.NewSanitizer(telemetry.ParsePIILevel(cfg.LogPIILevel), cfg.LogHashSalt)
}

// ProvideAuthValidator provides the JWT validator. JWKS refresh runs for the
// life of the process.
func ProvideAuthValidator(cfg *config.Config) (*auth.Validator, error) {
	return auth.NewValidator(context.Background(), cfg)
}

// ProvideServiceConfig provides the crawl limits enforced by the core
func ProvideServiceConfig(cfg *config.Config, sanitizer *telemetry.Sanitizer) domainsearch.ServiceConfig {
	return domainsearch.ServiceConfig{
		DefaultSubpageLimit: cfg.DefaultSubpageLimit,
		MaxSubpageLimit:     cfg.MaxSubpageLimit,
		CrawlTimeout:        cfg.CrawlDeadline(),
		Sanitizer:           sanitizer,
	}
}
