package search

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/janhq/searxng-tools/internal/infrastructure/telemetry"
	"github.com/janhq/searxng-tools/utils/htmltext"
	"github.com/janhq/searxng-tools/utils/platformerrors"
)

const tracerName = "searxng-tools/search"

const (
	// DefaultSubpageLimit is used when a crawl request does not set a limit.
	DefaultSubpageLimit = 5
	// DefaultMaxSubpageLimit caps the number of subpages any surface may ask for.
	DefaultMaxSubpageLimit = 10
)

// ServiceConfig holds the limits the core enforces for every transport.
type ServiceConfig struct {
	DefaultSubpageLimit int
	MaxSubpageLimit     int
	// CrawlTimeout bounds a whole crawl. Zero disables the deadline.
	CrawlTimeout time.Duration
	// Sanitizer scrubs queries before they are attached to spans.
	Sanitizer *telemetry.Sanitizer
}

// SearchService implements search, fetch and crawl on top of a metasearch
// client and a page fetcher. It keeps no per-request state and is shared by
// the CLI, MCP and HTTP surfaces.
type SearchService struct {
	client  SearchClient
	fetcher PageFetcher
	cfg     ServiceConfig
}

// NewSearchService creates a new search service.
func NewSearchService(client SearchClient, fetcher PageFetcher, cfg ServiceConfig) *SearchService {
	if cfg.MaxSubpageLimit <= 0 {
		cfg.MaxSubpageLimit = DefaultMaxSubpageLimit
	}
	if cfg.DefaultSubpageLimit <= 0 {
		cfg.DefaultSubpageLimit = DefaultSubpageLimit
	}
	if cfg.DefaultSubpageLimit > cfg.MaxSubpageLimit {
		cfg.DefaultSubpageLimit = cfg.MaxSubpageLimit
	}
	return &SearchService{
		client:  client,
		fetcher: fetcher,
		cfg:     cfg,
	}
}

// Search validates the request and forwards it to the metasearch engine.
// An empty query never reaches the upstream.
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "query is required", nil)
	}
	if strings.TrimSpace(req.Language) == "" {
		req.Language = DefaultLanguage
	}
	req.Categories = splitList(req.Categories)
	req.Engines = splitList(req.Engines)

	ctx, span := startSpan(ctx, "search.query",
		attribute.String("search.query", s.cfg.Sanitizer.SanitizeText(req.Query)),
		attribute.String("search.format", req.Format),
	)
	defer span.End()

	if strings.EqualFold(req.Format, FormatHTML) {
		page, err := s.client.SearchPage(ctx, req)
		if err != nil {
			recordError(span, err)
			return nil, err
		}
		return SearchResponse{
			"content":     string(page.Body),
			"status_code": page.StatusCode,
			"headers":     flattenHeader(page.Header),
		}, nil
	}

	resp, err := s.client.Search(ctx, req)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("search.result_count", len(resp.Results())))
	return resp, nil
}

// Engines lists the engines configured on the metasearch instance.
func (s *SearchService) Engines(ctx context.Context) (EngineCatalog, error) {
	ctx, span := startSpan(ctx, "search.engines")
	defer span.End()

	catalog, err := s.client.Engines(ctx)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	return catalog, nil
}

// Fetch retrieves one URL and returns its cleaned text.
func (s *SearchService) Fetch(ctx context.Context, req FetchRequest) (*FetchResult, error) {
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "url is required", nil)
	}

	ctx, span := startSpan(ctx, "search.fetch", attribute.String("fetch.url", req.URL))
	defer span.End()

	page, err := s.fetcher.Fetch(ctx, req.URL, req.Headers)
	if err != nil {
		recordError(span, err)
		return nil, err
	}

	result := buildFetchResult(req.URL, page)
	if req.IncludeMarkdown {
		markdown, mdErr := htmltext.ToMarkdown(string(page.Body))
		if mdErr != nil {
			log.Warn().Err(mdErr).Str("url", req.URL).Msg("markdown conversion failed, returning text only")
		} else {
			result.Markdown = markdown
		}
	}
	span.SetAttributes(
		attribute.Int("fetch.status_code", result.StatusCode),
		attribute.Int("fetch.content_length", result.ContentLength),
	)
	return result, nil
}

func buildFetchResult(url string, page *Page) *FetchResult {
	text, originalLength := htmltext.ExtractText(string(page.Body))
	return &FetchResult{
		URL:            url,
		StatusCode:     page.StatusCode,
		Headers:        flattenHeader(page.Header),
		Content:        text,
		ContentLength:  htmltext.Length(text),
		OriginalLength: originalLength,
		Truncated:      page.Truncated,
	}
}

// flattenHeader joins multi-valued headers the way HTTP allows them to be
// combined. Keys stay in canonical form.
func flattenHeader(header http.Header) map[string]string {
	flat := make(map[string]string, len(header))
	for key, values := range header {
		flat[http.CanonicalHeaderKey(key)] = strings.Join(values, ", ")
	}
	return flat
}

// splitList accepts both ["a","b"] and ["a,b"] and drops blank entries.
func splitList(values []string) []string {
	var out []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

func recordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
