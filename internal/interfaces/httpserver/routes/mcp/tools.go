package mcp

import (
	"github.com/invopop/jsonschema"
)

// Tool names exposed over MCP and listed by GET /tools.
const (
	ToolKeySearch = "search"
	ToolKeyFetch  = "fetch"
	ToolKeyCrawl  = "crawl"
)

var toolDescriptions = map[string]string{
	ToolKeySearch: "Search using SearXNG metasearch engine",
	ToolKeyFetch:  "Fetch content from a URL",
	ToolKeyCrawl:  "Fetch a page and then the linked subpages whose link text matches any of the filters",
}

// The jsonschema tag carries the description for the MCP SDK schema
// inference; jsonschema_description carries it for the /tools listing.

// SearchArgs defines the arguments for the search tool
type SearchArgs struct {
	Query      string `json:"query" jsonschema:"Search query" jsonschema_description:"Search query"`
	Categories string `json:"categories,omitempty" jsonschema:"Comma-separated categories (optional)" jsonschema_description:"Comma-separated categories (optional)"`
	Engines    string `json:"engines,omitempty" jsonschema:"Comma-separated engines (optional)" jsonschema_description:"Comma-separated engines (optional)"`
	Language   string `json:"language,omitempty" jsonschema:"Language code (default: en)" jsonschema_description:"Language code (default: en)"`
}

// FetchArgs defines the arguments for the fetch tool
type FetchArgs struct {
	URL     string            `json:"url" jsonschema:"URL to fetch content from" jsonschema_description:"URL to fetch content from"`
	Headers map[string]string `json:"headers,omitempty" jsonschema:"Optional custom headers as key-value pairs" jsonschema_description:"Optional custom headers as key-value pairs"`
}

// CrawlArgs defines the arguments for the crawl tool
type CrawlArgs struct {
	URL          string            `json:"url" jsonschema:"URL of the page to start from" jsonschema_description:"URL of the page to start from"`
	Filters      []string          `json:"filters,omitempty" jsonschema:"Keep links whose text contains any of these words (case-insensitive)" jsonschema_description:"Keep links whose text contains any of these words (case-insensitive)"`
	Headers      map[string]string `json:"headers,omitempty" jsonschema:"Optional custom headers as key-value pairs" jsonschema_description:"Optional custom headers as key-value pairs"`
	SubpageLimit *int              `json:"subpage_limit,omitempty" jsonschema:"Maximum number of subpages to fetch (default 5 and at most 10)" jsonschema_description:"Maximum number of subpages to fetch (default 5 and at most 10)"`
}

// ToolDefinition describes one tool for GET /tools.
type ToolDefinition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	InputSchema *jsonschema.Schema `json:"inputSchema"`
}

// ToolDefinitions lists the tools with schemas reflected from their
// argument structs, in registration order.
func ToolDefinitions() []ToolDefinition {
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	reflect := func(v any) *jsonschema.Schema {
		schema := reflector.Reflect(v)
		schema.Version = ""
		return schema
	}

	return []ToolDefinition{
		{Name: ToolKeySearch, Description: toolDescriptions[ToolKeySearch], InputSchema: reflect(&SearchArgs{})},
		{Name: ToolKeyFetch, Description: toolDescriptions[ToolKeyFetch], InputSchema: reflect(&FetchArgs{})},
		{Name: ToolKeyCrawl, Description: toolDescriptions[ToolKeyCrawl], InputSchema: reflect(&CrawlArgs{})},
	}
}
