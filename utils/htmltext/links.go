package htmltext

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Link is an anchor found on a page, already resolved to an absolute URL.
type Link struct {
	URL  string
	Text string
}

// ExtractLinks returns every anchor with a non-empty href and non-empty
// visible text, in document order. Relative hrefs are resolved against
// baseURL. Duplicates are kept; anchors whose href cannot be parsed are
// skipped.
func ExtractLinks(raw string, baseURL string) []Link {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return nil
	}

	links := make([]Link, 0, 32)
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		text := strings.Join(strings.Fields(s.Text()), " ")
		if text == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		links = append(links, Link{
			URL:  base.ResolveReference(ref).String(),
			Text: text,
		})
	})
	return links
}
