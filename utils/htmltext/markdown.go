package htmltext

import (
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

var excessiveNewlines = regexp.MustCompile(`\n{3,}`)

// ToMarkdown converts raw HTML to Markdown and squeezes blank-line runs.
func ToMarkdown(raw string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(raw)
	if err != nil {
		return "", err
	}
	markdown = excessiveNewlines.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown), nil
}
