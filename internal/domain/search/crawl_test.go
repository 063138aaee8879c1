package search

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/searxng-tools/utils/platformerrors"
)

const seedURL = "https://ex.com/docs/index.html"

func seedPage(links ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>\n<h1>Docs</h1>\n")
	for _, l := range links {
		b.WriteString(l)
		b.WriteString("\n")
	}
	b.WriteString("</body></html>")
	return b.String()
}

func TestCrawlFiltersAnchorTextCaseInsensitively(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		seedURL:                   seedPage(`<a href="/x">FOO bar</a>`, `<a href="/y">baz</a>`),
		"https://ex.com/x":        "<p>x page</p>",
		"https://ex.com/y":        "<p>y page</p>",
		"https://ex.com/ignored/": "<p>never</p>",
	})
	svc := NewSearchService(&fakeSearchClient{}, fetcher, ServiceConfig{})

	result, err := svc.Crawl(context.Background(), CrawlRequest{URL: seedURL, Filters: []string{"foo"}})
	require.NoError(t, err)

	assert.Equal(t, 1, result.TotalSubpagesFound)
	assert.Equal(t, 1, result.SubpagesReturned)
	require.Len(t, result.Subpages, 1)
	assert.Equal(t, "https://ex.com/x", result.Subpages[0].URL)
	assert.Equal(t, "FOO bar", result.Subpages[0].LinkText)
	assert.Equal(t, "x page", result.Subpages[0].Content)
	assert.Equal(t, len("x page"), result.Subpages[0].ContentLength)
	assert.Equal(t, []string{"foo"}, result.FiltersApplied)
	assert.Equal(t, []string{seedURL, "https://ex.com/x"}, fetcher.fetched)
}

func TestCrawlFiltersAreORed(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		seedURL: seedPage(`<a href="a">Alpha</a>`, `<a href="b">Beta</a>`, `<a href="c">Gamma</a>`),
		"https://ex.com/docs/a": "a", "https://ex.com/docs/b": "b", "https://ex.com/docs/c": "c",
	})
	svc := NewSearchService(&fakeSearchClient{}, fetcher, ServiceConfig{})

	result, err := svc.Crawl(context.Background(), CrawlRequest{URL: seedURL, Filters: []string{"alp", "GAM"}})
	require.NoError(t, err)
	require.Len(t, result.Subpages, 2)
	assert.Equal(t, "Alpha", result.Subpages[0].LinkText)
	assert.Equal(t, "Gamma", result.Subpages[1].LinkText)
}

func TestCrawlWithoutFiltersKeepsEveryLink(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		seedURL: seedPage(`<a href="/a">one</a>`, `<a href="/b">two</a>`),
		"https://ex.com/a": "<p>A</p>", "https://ex.com/b": "<p>B</p>",
	})
	svc := NewSearchService(&fakeSearchClient{}, fetcher, ServiceConfig{})

	for _, filters := range [][]string{nil, {}, {"", "  "}} {
		result, err := svc.Crawl(context.Background(), CrawlRequest{URL: seedURL, Filters: filters})
		require.NoError(t, err)
		assert.Equal(t, 2, result.TotalSubpagesFound)
		assert.Equal(t, 2, result.SubpagesReturned)
		assert.Empty(t, result.FiltersApplied)
	}
}

func TestCrawlMainPage(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		seedURL: seedPage(`<script>var x = 1;</script>`, `<p>Intro  text</p>`),
	})
	svc := NewSearchService(&fakeSearchClient{}, fetcher, ServiceConfig{})

	result, err := svc.Crawl(context.Background(), CrawlRequest{URL: seedURL})
	require.NoError(t, err)

	assert.Equal(t, seedURL, result.URL)
	assert.Equal(t, seedURL, result.MainPage.URL)
	assert.Equal(t, "Docs\nIntro\ntext", result.MainPage.Content)
	assert.Equal(t, len("Docs\nIntro\ntext"), result.MainPage.ContentLength)
	assert.Empty(t, result.Subpages)
	assert.Zero(t, result.TotalSubpagesFound)
}

func TestCrawlLimitZeroFetchesOnlySeed(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		seedURL: seedPage(`<a href="/a">one</a>`, `<a href="/b">two</a>`, `<a href="/c">three</a>`),
	})
	svc := NewSearchService(&fakeSearchClient{}, fetcher, ServiceConfig{})

	result, err := svc.Crawl(context.Background(), CrawlRequest{URL: seedURL, SubpageLimit: intPtr(0)})
	require.NoError(t, err)

	assert.NotEmpty(t, result.MainPage.Content)
	assert.Empty(t, result.Subpages)
	assert.Equal(t, 0, result.SubpagesReturned)
	assert.Equal(t, 3, result.TotalSubpagesFound)
	assert.Equal(t, []string{seedURL}, fetcher.fetched)
}

func TestCrawlLimitIsClamped(t *testing.T) {
	links := make([]string, 0, 15)
	pages := map[string]string{}
	for i := 0; i < 15; i++ {
		links = append(links, fmt.Sprintf(`<a href="/p%d">page %d</a>`, i, i))
		pages[fmt.Sprintf("https://ex.com/p%d", i)] = fmt.Sprintf("<p>content %d</p>", i)
	}
	pages[seedURL] = seedPage(links...)

	cases := []struct {
		name     string
		limit    *int
		expected int
	}{
		{name: "default", limit: nil, expected: DefaultSubpageLimit},
		{name: "within range", limit: intPtr(3), expected: 3},
		{name: "above maximum", limit: intPtr(50), expected: DefaultMaxSubpageLimit},
		{name: "negative", limit: intPtr(-4), expected: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewSearchService(&fakeSearchClient{}, newFakeFetcher(pages), ServiceConfig{})
			result, err := svc.Crawl(context.Background(), CrawlRequest{URL: seedURL, SubpageLimit: tc.limit})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result.SubpagesReturned)
			assert.Len(t, result.Subpages, tc.expected)
			assert.Equal(t, 15, result.TotalSubpagesFound)
			for i, sub := range result.Subpages {
				assert.Equal(t, fmt.Sprintf("page %d", i), sub.LinkText)
			}
		})
	}
}

func TestCrawlSeedFailureFailsWholeCrawl(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{})
	svc := NewSearchService(&fakeSearchClient{}, fetcher, ServiceConfig{})

	result, err := svc.Crawl(context.Background(), CrawlRequest{URL: seedURL})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
	assert.Equal(t, []string{seedURL}, fetcher.fetched)
}

func TestCrawlSubpageFailureIsOmitted(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		seedURL:             seedPage(`<a href="/ok">good one</a>`, `<a href="/broken">bad one</a>`, `<a href="/ok2">good two</a>`),
		"https://ex.com/ok":  "<p>fine</p>",
		"https://ex.com/ok2": "<p>also fine</p>",
	})
	svc := NewSearchService(&fakeSearchClient{}, fetcher, ServiceConfig{})

	result, err := svc.Crawl(context.Background(), CrawlRequest{URL: seedURL})
	require.NoError(t, err)

	assert.Equal(t, 3, result.TotalSubpagesFound)
	assert.Equal(t, 2, result.SubpagesReturned)
	require.Len(t, result.Subpages, 2)
	assert.Equal(t, "https://ex.com/ok", result.Subpages[0].URL)
	assert.Equal(t, "https://ex.com/ok2", result.Subpages[1].URL)
}

func TestCrawlKeepsDuplicatesAndSkipsUnusableAnchors(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		seedURL: seedPage(
			`<a href="/same">Same</a>`,
			`<a href="/same">Same</a>`,
			`<a href="">empty href</a>`,
			`<a href="/img"><img src="x.png"></a>`,
			`<a name="anchor">no href</a>`,
		),
		"https://ex.com/same": "<p>same</p>",
	})
	svc := NewSearchService(&fakeSearchClient{}, fetcher, ServiceConfig{})

	result, err := svc.Crawl(context.Background(), CrawlRequest{URL: seedURL})
	require.NoError(t, err)
	assert.Equal(t, 2, result.TotalSubpagesFound)
	require.Len(t, result.Subpages, 2)
	assert.Equal(t, result.Subpages[0].URL, result.Subpages[1].URL)
}

func TestCrawlForwardsHeaders(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		seedURL:            seedPage(`<a href="/a">one</a>`),
		"https://ex.com/a": "<p>A</p>",
	})
	svc := NewSearchService(&fakeSearchClient{}, fetcher, ServiceConfig{})
	headers := map[string]string{"Cookie": "session=1"}

	_, err := svc.Crawl(context.Background(), CrawlRequest{URL: seedURL, Headers: headers})
	require.NoError(t, err)
	require.Len(t, fetcher.headers, 2)
	assert.Equal(t, headers, fetcher.headers[0])
	assert.Equal(t, headers, fetcher.headers[1])
}

func TestCrawlRequiresURL(t *testing.T) {
	fetcher := newFakeFetcher(nil)
	svc := NewSearchService(&fakeSearchClient{}, fetcher, ServiceConfig{})

	_, err := svc.Crawl(context.Background(), CrawlRequest{URL: ""})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeValidation))
	assert.Empty(t, fetcher.fetched)
}

func TestCrawlDeadlineStopsRemainingSubpages(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		seedURL:            seedPage(`<a href="/a">one</a>`, `<a href="/b">two</a>`, `<a href="/c">three</a>`),
		"https://ex.com/a": "<p>A</p>", "https://ex.com/b": "<p>B</p>", "https://ex.com/c": "<p>C</p>",
	})
	fetcher.onFetch = func(url string) {
		if url == "https://ex.com/a" {
			time.Sleep(80 * time.Millisecond)
		}
	}
	svc := NewSearchService(&fakeSearchClient{}, fetcher, ServiceConfig{CrawlTimeout: 30 * time.Millisecond})

	result, err := svc.Crawl(context.Background(), CrawlRequest{URL: seedURL})
	require.NoError(t, err)
	assert.Equal(t, 3, result.TotalSubpagesFound)
	assert.Empty(t, result.Subpages)
	assert.NotContains(t, fetcher.fetched, "https://ex.com/c")
}
