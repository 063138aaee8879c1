package mcp

import (
	"fmt"
	"strings"

	domainsearch "github.com/janhq/searxng-tools/internal/domain/search"
	"github.com/janhq/searxng-tools/utils/htmltext"
)

const (
	snippetMarker   = "..."
	truncatedMarker = "...\n[Content truncated]"
)

// formatSearchResults renders the first maxResults results as numbered
// text blocks.
func formatSearchResults(query string, resp domainsearch.SearchResponse, maxResults, snippetChars int) string {
	results := resp.Results()
	if len(results) == 0 {
		return "No results found"
	}
	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}

	blocks := make([]string, 0, len(results))
	for i, result := range results {
		content := htmltext.Truncate(stringField(result, "content", ""), snippetChars, snippetMarker)
		blocks = append(blocks, fmt.Sprintf("%d. %s\n   URL: %s\n   Engine: %s\n   Content: %s\n",
			i+1,
			stringField(result, "title", "N/A"),
			stringField(result, "url", "N/A"),
			stringField(result, "engine", "N/A"),
			content,
		))
	}
	return fmt.Sprintf("Search results for '%s':\n\n", query) + strings.Join(blocks, "\n")
}

func formatFetchResult(result *domainsearch.FetchResult, pageChars int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fetched content from: %s\n", result.URL)
	fmt.Fprintf(&b, "Status Code: %d\n", result.StatusCode)
	fmt.Fprintf(&b, "Content Length: %d characters\n\n", result.ContentLength)
	b.WriteString("Content:\n")
	b.WriteString(htmltext.Truncate(result.Content, pageChars, truncatedMarker))
	return b.String()
}

func formatCrawlResult(result *domainsearch.CrawlResult, pageChars, snippetChars int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Crawl results for: %s\n", result.URL)
	fmt.Fprintf(&b, "Main page content length: %d characters\n", result.MainPage.ContentLength)
	fmt.Fprintf(&b, "Subpages found: %d, returned: %d\n", result.TotalSubpagesFound, result.SubpagesReturned)
	if len(result.FiltersApplied) > 0 {
		fmt.Fprintf(&b, "Filters applied: %s\n", strings.Join(result.FiltersApplied, ", "))
	}
	b.WriteString("\nMain page content:\n")
	b.WriteString(htmltext.Truncate(result.MainPage.Content, pageChars, truncatedMarker))
	b.WriteString("\n\n")

	if len(result.Subpages) == 0 {
		b.WriteString("Subpages: none")
		return b.String()
	}

	b.WriteString("Subpages:\n")
	for i, sub := range result.Subpages {
		fmt.Fprintf(&b, "\n%d. %s\n   URL: %s\n   Content Length: %d characters\n   Content: %s\n",
			i+1,
			sub.LinkText,
			sub.URL,
			sub.ContentLength,
			htmltext.Truncate(sub.Content, snippetChars, snippetMarker),
		)
	}
	return b.String()
}

func stringField(m map[string]any, key, fallback string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
