package searxng

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	domainsearch "github.com/janhq/searxng-tools/internal/domain/search"
	"github.com/janhq/searxng-tools/internal/infrastructure/metrics"
	"github.com/janhq/searxng-tools/utils/platformerrors"
)

const (
	searchPath  = "/search"
	enginesPath = "/engines"

	defaultUserAgent = "SearXNG-MCP-Server/1.0"
	defaultTimeout   = 30 * time.Second
)

// ClientConfig contains configuration for the SearXNG client.
type ClientConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client queries a SearXNG instance. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *resty.Client
}

var _ domainsearch.SearchClient = (*Client)(nil)

// NewClient creates a SearXNG client. No retries are configured.
func NewClient(cfg ClientConfig) *Client {
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")

	httpClient := resty.New().
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetBaseURL(baseURL)

	return &Client{
		baseURL: baseURL,
		http:    httpClient,
	}
}

// BaseURL returns the instance URL the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Search runs a JSON search and returns the decoded object unchanged.
func (c *Client) Search(ctx context.Context, req domainsearch.SearchRequest) (domainsearch.SearchResponse, error) {
	resp, err := c.doSearch(ctx, req, domainsearch.FormatJSON)
	if err != nil {
		return nil, err
	}

	var result domainsearch.SearchResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil || result == nil {
		if err == nil {
			err = fmt.Errorf("response is not a JSON object")
		}
		log.Error().Err(err).Str("service", "searxng").Str("url", c.baseURL+searchPath).Msg("failed to decode SearXNG response")
		return nil, c.externalError(ctx, "invalid JSON from search engine", err, resp.StatusCode())
	}
	return result, nil
}

// SearchPage runs an HTML search and returns the raw page.
func (c *Client) SearchPage(ctx context.Context, req domainsearch.SearchRequest) (*domainsearch.Page, error) {
	resp, err := c.doSearch(ctx, req, domainsearch.FormatHTML)
	if err != nil {
		return nil, err
	}
	return &domainsearch.Page{
		URL:        c.baseURL + searchPath,
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       resp.Body(),
	}, nil
}

// Engines lists the engines the instance reports.
func (c *Client) Engines(ctx context.Context) (domainsearch.EngineCatalog, error) {
	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.RecordUpstream("engines", status, time.Since(startTime).Seconds())
	}()

	resp, err := c.http.R().SetContext(ctx).Get(enginesPath)
	if err != nil {
		status = "error"
		log.Error().Err(err).Str("service", "searxng").Str("url", c.baseURL+enginesPath).Msg("failed to query SearXNG engines")
		return nil, c.externalError(ctx, "failed to reach search engine", err, 0)
	}
	if resp.IsError() {
		status = "error"
		log.Error().Int("status", resp.StatusCode()).Str("service", "searxng").Msg("SearXNG engines error")
		return nil, c.externalError(ctx, fmt.Sprintf("search engine returned status %d", resp.StatusCode()), nil, resp.StatusCode())
	}

	var catalog domainsearch.EngineCatalog
	if err := json.Unmarshal(resp.Body(), &catalog); err != nil {
		status = "error"
		return nil, c.externalError(ctx, "invalid JSON from search engine", err, resp.StatusCode())
	}
	if catalog == nil {
		catalog = domainsearch.EngineCatalog{}
	}
	return catalog, nil
}

func (c *Client) doSearch(ctx context.Context, query domainsearch.SearchRequest, format string) (*resty.Response, error) {
	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.RecordUpstream("search", status, time.Since(startTime).Seconds())
	}()

	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", query.Query).
		SetQueryParam("format", format)

	if query.Language != "" {
		req.SetQueryParam("lang", query.Language)
	}
	if len(query.Categories) > 0 {
		req.SetQueryParam("categories", strings.Join(query.Categories, ","))
	}
	if len(query.Engines) > 0 {
		req.SetQueryParam("engines", strings.Join(query.Engines, ","))
	}

	resp, err := req.Get(searchPath)
	if err != nil {
		status = "error"
		log.Error().Err(err).Str("service", "searxng").Str("url", c.baseURL+searchPath).Msg("failed to query SearXNG API")
		return nil, c.externalError(ctx, "failed to reach search engine", err, 0)
	}
	if resp.IsError() {
		status = "error"
		log.Error().Int("status", resp.StatusCode()).Str("service", "searxng").Str("response", truncateForLog(resp.String())).Msg("SearXNG API error")
		return nil, c.externalError(ctx, fmt.Sprintf("search engine returned status %d", resp.StatusCode()), nil, resp.StatusCode())
	}
	return resp, nil
}

func (c *Client) externalError(ctx context.Context, message string, cause error, statusCode int) *platformerrors.PlatformError {
	fields := map[string]any{
		platformerrors.ContextURL: c.baseURL,
	}
	if statusCode > 0 {
		fields[platformerrors.ContextStatusCode] = statusCode
	}
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, cause, fields)
}

func truncateForLog(s string) string {
	if len(s) <= 500 {
		return s
	}
	return s[:500]
}
