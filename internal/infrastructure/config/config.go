package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the SearXNG tools service
type Config struct {
	// HTTP Server - using SEARXNG_TOOLS_ prefix to avoid collisions
	HTTPPort  string `env:"SEARXNG_TOOLS_HTTP_PORT" envDefault:"7778"`
	LogLevel  string `env:"SEARXNG_TOOLS_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"SEARXNG_TOOLS_LOG_FORMAT" envDefault:"json"` // json or console

	// Log sanitization for queries and forwarded headers: none, hashed or full
	LogPIILevel string `env:"SEARXNG_TOOLS_LOG_PII_LEVEL" envDefault:"hashed"`
	LogHashSalt string `env:"SEARXNG_TOOLS_LOG_HASH_SALT"`

	// SearXNG upstream
	SearxngProtocol string `env:"SEARXNG_PROTOCOL" envDefault:"http"`
	SearxngHost     string `env:"SEARXNG_HOST" envDefault:"searxng"`
	SearxngPort     string `env:"SEARXNG_PORT" envDefault:"7777"`
	SearxngURL      string `env:"SEARXNG_URL"` // overrides protocol/host/port when set

	// HTTP client
	UserAgent        string `env:"SEARXNG_TOOLS_USER_AGENT" envDefault:"SearXNG-MCP-Server/1.0"`
	HTTPTimeout      int    `env:"SEARXNG_TOOLS_HTTP_TIMEOUT" envDefault:"30"` // seconds
	MaxResponseBytes int64  `env:"SEARXNG_TOOLS_MAX_RESPONSE_BYTES" envDefault:"10485760"`

	// Crawl limits
	DefaultSubpageLimit int `env:"SEARXNG_TOOLS_DEFAULT_SUBPAGE_LIMIT" envDefault:"5"`
	MaxSubpageLimit     int `env:"SEARXNG_TOOLS_MAX_SUBPAGE_LIMIT" envDefault:"10"`
	CrawlTimeout        int `env:"SEARXNG_TOOLS_CRAWL_TIMEOUT" envDefault:"0"` // seconds, 0 disables

	// Tool result limits - display budgets for tool and HTTP responses
	MaxSnippetChars  int `env:"SEARXNG_TOOLS_MAX_SNIPPET_CHARS" envDefault:"200"`
	MaxPageChars     int `env:"SEARXNG_TOOLS_MAX_PAGE_CHARS" envDefault:"16000"`
	MaxSearchResults int `env:"SEARXNG_TOOLS_MAX_SEARCH_RESULTS" envDefault:"10"`

	// Tracing
	TracingEnabled bool   `env:"SEARXNG_TOOLS_TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"searxng-tools"`
	Environment    string `env:"ENVIRONMENT" envDefault:"development"`

	// Authentication for the HTTP tool endpoints
	AuthEnabled  bool   `env:"AUTH_ENABLED" envDefault:"false"`
	AuthIssuer   string `env:"AUTH_ISSUER"`
	AuthAudience string `env:"AUTH_AUDIENCE"`
	AuthJWKSURL  string `env:"AUTH_JWKS_URL"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(os.Getenv("SEARXNG_TOOLS_HTTP_PORT")) == "" {
		if global := strings.TrimSpace(os.Getenv("PORT")); global != "" {
			cfg.HTTPPort = global
		}
	}
	if strings.TrimSpace(os.Getenv("SEARXNG_TOOLS_LOG_LEVEL")) == "" {
		if global := strings.TrimSpace(os.Getenv("LOG_LEVEL")); global != "" {
			cfg.LogLevel = global
		}
	}
	if strings.TrimSpace(os.Getenv("SEARXNG_TOOLS_LOG_FORMAT")) == "" {
		if global := strings.TrimSpace(os.Getenv("LOG_FORMAT")); global != "" {
			cfg.LogFormat = global
		}
	}

	if cfg.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("SEARXNG_TOOLS_HTTP_TIMEOUT must be positive, got %d", cfg.HTTPTimeout)
	}
	if cfg.MaxSubpageLimit < 0 {
		return nil, fmt.Errorf("SEARXNG_TOOLS_MAX_SUBPAGE_LIMIT must not be negative, got %d", cfg.MaxSubpageLimit)
	}
	if cfg.CrawlTimeout < 0 {
		return nil, fmt.Errorf("SEARXNG_TOOLS_CRAWL_TIMEOUT must not be negative, got %d", cfg.CrawlTimeout)
	}
	if cfg.AuthEnabled {
		if strings.TrimSpace(cfg.AuthIssuer) == "" {
			return nil, fmt.Errorf("AUTH_ISSUER is required when AUTH_ENABLED is true")
		}
		if strings.TrimSpace(cfg.AuthJWKSURL) == "" {
			return nil, fmt.Errorf("AUTH_JWKS_URL is required when AUTH_ENABLED is true")
		}
	}
	return cfg, nil
}

// SearxngBaseURL returns the metasearch base URL without a trailing slash.
func (c *Config) SearxngBaseURL() string {
	if u := strings.TrimSpace(c.SearxngURL); u != "" {
		return strings.TrimRight(u, "/")
	}
	return fmt.Sprintf("%s://%s:%s", c.SearxngProtocol, c.SearxngHost, c.SearxngPort)
}

// RequestTimeout is the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.HTTPTimeout) * time.Second
}

// CrawlDeadline is the whole-crawl deadline, zero when disabled.
func (c *Config) CrawlDeadline() time.Duration {
	return time.Duration(c.CrawlTimeout) * time.Second
}
