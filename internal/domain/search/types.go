package search

import (
	"context"
	"net/http"
)

// Response formats understood by the metasearch /search endpoint.
const (
	FormatJSON = "json"
	FormatHTML = "html"
)

// DefaultLanguage is sent upstream when the caller does not pick one.
const DefaultLanguage = "en"

// SearchRequest represents a query against the metasearch engine.
type SearchRequest struct {
	Query      string
	Categories []string
	Engines    []string
	Language   string
	Format     string
}

// SearchResponse is the upstream JSON object, passed through untouched.
type SearchResponse map[string]any

// ErrorMessage returns the upstream "error" value, if the engine sent one.
func (r SearchResponse) ErrorMessage() (string, bool) {
	val, ok := r["error"]
	if !ok || val == nil {
		return "", false
	}
	if msg, ok := val.(string); ok {
		return msg, true
	}
	return "upstream reported an error", true
}

// Results returns the "results" array entries that are JSON objects.
func (r SearchResponse) Results() []map[string]any {
	raw, ok := r["results"].([]any)
	if !ok {
		return nil
	}
	results := make([]map[string]any, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			results = append(results, m)
		}
	}
	return results
}

// HasResults reports whether the response carries a "results" key at all.
func (r SearchResponse) HasResults() bool {
	_, ok := r["results"]
	return ok
}

// EngineCatalog maps engine name to whatever metadata the upstream reports.
type EngineCatalog map[string]any

// Page is a raw HTTP response body as returned by a PageFetcher.
type Page struct {
	URL        string
	StatusCode int
	Header     http.Header
	Body       []byte
	// Truncated is set when the body hit the fetcher's byte budget.
	Truncated bool
}

// FetchRequest asks for a single URL to be fetched and cleaned.
type FetchRequest struct {
	URL             string
	Headers         map[string]string
	IncludeMarkdown bool
}

// FetchResult is the cleaned form of one fetched page.
type FetchResult struct {
	URL            string            `json:"url"`
	StatusCode     int               `json:"status_code"`
	Headers        map[string]string `json:"headers"`
	Content        string            `json:"content"`
	ContentLength  int               `json:"content_length"`
	OriginalLength int               `json:"original_length"`
	Truncated      bool              `json:"truncated,omitempty"`
	Markdown       string            `json:"markdown,omitempty"`
}

// LinkCandidate is an anchor on the seed page that may become a subpage.
type LinkCandidate struct {
	URL  string
	Text string
}

// CrawlRequest describes a one-hop crawl from a seed page.
type CrawlRequest struct {
	URL     string
	Filters []string
	Headers map[string]string
	// SubpageLimit is clamped to the service maximum; nil uses the default.
	SubpageLimit *int
}

// MainPage is the seed page part of a crawl.
type MainPage struct {
	URL           string `json:"url"`
	Content       string `json:"content"`
	ContentLength int    `json:"content_length"`
}

// Subpage is one successfully fetched link target.
type Subpage struct {
	URL           string `json:"url"`
	LinkText      string `json:"link_text"`
	Content       string `json:"content"`
	ContentLength int    `json:"content_length"`
}

// CrawlResult is the outcome of a crawl whose seed page could be fetched.
type CrawlResult struct {
	URL                string    `json:"url"`
	MainPage           MainPage  `json:"main_page"`
	Subpages           []Subpage `json:"subpages"`
	TotalSubpagesFound int       `json:"total_subpages_found"`
	SubpagesReturned   int       `json:"subpages_returned"`
	FiltersApplied     []string  `json:"filters_applied"`
}

// SearchClient talks to the metasearch engine.
type SearchClient interface {
	Search(ctx context.Context, req SearchRequest) (SearchResponse, error)
	SearchPage(ctx context.Context, req SearchRequest) (*Page, error)
	Engines(ctx context.Context) (EngineCatalog, error)
}

// PageFetcher performs the raw HTTP GET behind fetch and crawl.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (*Page, error)
}
