// Package htmltext turns fetched HTML into the plain text and link lists the
// search tools hand back to callers.
package htmltext

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ExtractText strips script and style content from raw HTML and returns the
// remaining text, one fragment per line, together with the character length
// of the original input.
//
// The parser is permissive: malformed markup is repaired the way browsers do
// it and ExtractText never fails. If the parser does give up, the input is
// cleaned as if it were plain text.
func ExtractText(raw string) (string, int) {
	originalLength := utf8.RuneCountInString(raw)

	doc, err := html.ParseWithOptions(strings.NewReader(raw), html.ParseOptionEnableScripting(false))
	if err != nil {
		return collapse(raw), originalLength
	}

	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.Script || n.DataAtom == atom.Style) {
			return
		}
		if n.Type == html.TextNode {
			builder.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return collapse(builder.String()), originalLength
}

// collapse trims every line, breaks lines further on double spaces and joins
// the non-empty fragments with single newlines.
func collapse(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	fragments := make([]string, 0, 64)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		for _, phrase := range strings.Split(line, "  ") {
			phrase = strings.TrimSpace(phrase)
			if phrase != "" {
				fragments = append(fragments, phrase)
			}
		}
	}
	return strings.Join(fragments, "\n")
}
