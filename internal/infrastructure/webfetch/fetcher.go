package webfetch

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"

	domainsearch "github.com/janhq/searxng-tools/internal/domain/search"
	"github.com/janhq/searxng-tools/internal/infrastructure/metrics"
	"github.com/janhq/searxng-tools/utils/platformerrors"
)

const (
	defaultUserAgent        = "SearXNG-MCP-Server/1.0"
	defaultTimeout          = 30 * time.Second
	defaultMaxResponseBytes = 10 << 20
)

// FetcherConfig contains configuration for the page fetcher.
type FetcherConfig struct {
	UserAgent        string
	Timeout          time.Duration
	MaxResponseBytes int64
}

// Fetcher performs single HTTP GETs for fetch and crawl.
type Fetcher struct {
	http     *resty.Client
	maxBytes int64
}

var _ domainsearch.PageFetcher = (*Fetcher)(nil)

// NewFetcher creates a fetcher. Redirects follow resty's default policy and
// no retries are configured.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxBytes := cfg.MaxResponseBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxResponseBytes
	}

	httpClient := resty.New().
		SetHeader("User-Agent", userAgent).
		SetTimeout(timeout).
		SetRetryCount(0)

	return &Fetcher{
		http:     httpClient,
		maxBytes: maxBytes,
	}
}

// Fetch GETs url. Caller headers are applied on top of the client defaults,
// so a caller supplied User-Agent wins.
func (f *Fetcher) Fetch(ctx context.Context, url string, headers map[string]string) (*domainsearch.Page, error) {
	startTime := time.Now()
	status := "success"
	defer func() {
		metrics.RecordUpstream("fetch", status, time.Since(startTime).Seconds())
	}()

	req := f.http.R().
		SetContext(ctx).
		SetDoNotParseResponse(true)
	for key, value := range headers {
		req.SetHeader(key, value)
	}

	resp, err := req.Get(url)
	if err != nil {
		status = "error"
		if resp != nil && resp.RawBody() != nil {
			resp.RawBody().Close()
		}
		log.Warn().Err(err).Str("url", url).Msg("page fetch failed")
		return nil, fetchError(ctx, url, "failed to fetch URL", err, 0)
	}

	raw := resp.RawBody()
	defer raw.Close()

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		status = "error"
		log.Warn().Int("status", resp.StatusCode()).Str("url", url).Msg("page fetch returned error status")
		return nil, fetchError(ctx, url, fmt.Sprintf("HTTP %d", resp.StatusCode()), nil, resp.StatusCode())
	}

	body, err := io.ReadAll(io.LimitReader(raw, f.maxBytes+1))
	if err != nil {
		status = "error"
		return nil, fetchError(ctx, url, "failed to read response body", err, resp.StatusCode())
	}
	truncated := int64(len(body)) > f.maxBytes
	if truncated {
		body = body[:f.maxBytes]
		log.Warn().Str("url", url).Int64("max_bytes", f.maxBytes).Msg("response body exceeded byte budget, truncated")
	}

	return &domainsearch.Page{
		URL:        url,
		StatusCode: resp.StatusCode(),
		Header:     resp.Header(),
		Body:       body,
		Truncated:  truncated,
	}, nil
}

func fetchError(ctx context.Context, url, message string, cause error, statusCode int) *platformerrors.PlatformError {
	fields := map[string]any{
		platformerrors.ContextURL: url,
	}
	if statusCode > 0 {
		fields[platformerrors.ContextStatusCode] = statusCode
	}
	return platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, message, cause, fields)
}
