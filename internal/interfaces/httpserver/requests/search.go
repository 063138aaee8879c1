package requests

// SearchRequest is the body of POST /search.
type SearchRequest struct {
	Query      string `json:"query" example:"golang generics"`
	Categories string `json:"categories,omitempty" example:"general,it"` // comma separated
	Engines    string `json:"engines,omitempty" example:"duckduckgo"`    // comma separated
	Language   string `json:"language,omitempty" example:"en"`
}

// FetchRequest is the body of POST /fetch.
type FetchRequest struct {
	URL             string            `json:"url" example:"https://go.dev/doc/"`
	Headers         map[string]string `json:"headers,omitempty"`
	IncludeMarkdown bool              `json:"include_markdown,omitempty"`
}

// CrawlRequest is the body of POST /crawl.
type CrawlRequest struct {
	URL          string            `json:"url" example:"https://go.dev/doc/"`
	Filters      []string          `json:"filters,omitempty" example:"tutorial"`
	Headers      map[string]string `json:"headers,omitempty"`
	SubpageLimit *int              `json:"subpage_limit,omitempty" example:"5"`
}
