package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	domainsearch "github.com/janhq/searxng-tools/internal/domain/search"
	"github.com/janhq/searxng-tools/utils/htmltext"
)

// Output styles accepted by --output.
const (
	OutputPretty = "pretty"
	OutputJSON   = "json"
	OutputSimple = "simple"
	OutputYAML   = "yaml"
)

const (
	prettyContentChars = 300
	simpleContentChars = 200

	notAvailable = "N/A"
)

var outputStyles = []string{OutputPretty, OutputJSON, OutputSimple, OutputYAML}

func validOutput(style string) bool {
	for _, s := range outputStyles {
		if s == style {
			return true
		}
	}
	return false
}

// formatResults renders a search response for the terminal. An upstream
// "error" field wins over every output style.
func formatResults(resp domainsearch.SearchResponse, style string) (string, error) {
	if msg, ok := resp.ErrorMessage(); ok {
		return "Error: " + msg, nil
	}

	switch style {
	case OutputJSON:
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return "", fmt.Errorf("encode json: %w", err)
		}
		return string(data), nil
	case OutputYAML:
		data, err := yaml.Marshal(map[string]any(resp))
		if err != nil {
			return "", fmt.Errorf("encode yaml: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	}

	if !resp.HasResults() {
		return "No results found or invalid response format.", nil
	}

	if style == OutputSimple {
		return formatSimple(resp.Results()), nil
	}
	return formatPretty(resp), nil
}

func formatSimple(results []map[string]any) string {
	var lines []string
	for _, result := range results {
		lines = append(lines,
			"Title: "+field(result, "title"),
			"URL: "+field(result, "url"),
			"Content: "+htmltext.Truncate(field(result, "content"), simpleContentChars, "")+"...",
			strings.Repeat("-", 50),
		)
	}
	return strings.Join(lines, "\n")
}

func formatPretty(resp domainsearch.SearchResponse) string {
	results := resp.Results()
	total := resp["number_of_results"]
	if total == nil {
		total = 0
	}

	lines := []string{
		"Query: " + field(resp, "query"),
		fmt.Sprintf("Number of results: %d", len(results)),
		fmt.Sprintf("Search time: %v results", total),
		strings.Repeat("=", 60),
	}
	for i, result := range results {
		lines = append(lines,
			fmt.Sprintf("\n%d. %s", i+1, field(result, "title")),
			"   URL: "+field(result, "url"),
			"   Engine: "+field(result, "engine"),
		)
		if content, _ := result["content"].(string); content != "" {
			lines = append(lines, "   Content: "+htmltext.Truncate(content, prettyContentChars, "")+"...")
		}
		lines = append(lines, strings.Repeat("-", 40))
	}
	return strings.Join(lines, "\n")
}

// formatEngines renders the engine catalog as "name: description" lines,
// sorted by name.
func formatEngines(catalog domainsearch.EngineCatalog) string {
	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := []string{"Available search engines:"}
	for _, name := range names {
		description := "No description"
		if info, ok := catalog[name].(map[string]any); ok {
			if d, ok := info["description"].(string); ok && d != "" {
				description = d
			}
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", name, description))
	}
	return strings.Join(lines, "\n")
}

func field(m map[string]any, key string) string {
	val, ok := m[key]
	if !ok || val == nil {
		return notAvailable
	}
	if s, ok := val.(string); ok {
		return s
	}
	return fmt.Sprint(val)
}
