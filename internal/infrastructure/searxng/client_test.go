package searxng

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainsearch "github.com/janhq/searxng-tools/internal/domain/search"
	"github.com/janhq/searxng-tools/utils/platformerrors"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*Client, *url.Values) {
	t.Helper()
	var captured url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.URL.Query()
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return NewClient(ClientConfig{BaseURL: server.URL + "/"}), &captured
}

func TestSearchBuildsQueryParameters(t *testing.T) {
	var userAgent, path string
	client, captured := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":"golang","results":[{"title":"Go","url":"https://go.dev"}]}`))
	})

	resp, err := client.Search(context.Background(), domainsearch.SearchRequest{
		Query:      "golang",
		Categories: []string{"general", "it"},
		Engines:    []string{"duckduckgo"},
		Language:   "de",
	})
	require.NoError(t, err)

	assert.Equal(t, "/search", path)
	assert.Equal(t, "SearXNG-MCP-Server/1.0", userAgent)
	assert.Equal(t, "golang", captured.Get("q"))
	assert.Equal(t, "json", captured.Get("format"))
	assert.Equal(t, "de", captured.Get("lang"))
	assert.Equal(t, "general,it", captured.Get("categories"))
	assert.Equal(t, "duckduckgo", captured.Get("engines"))

	assert.Equal(t, "golang", resp["query"])
	require.Len(t, resp.Results(), 1)
	assert.Equal(t, "Go", resp.Results()[0]["title"])
}

func TestSearchOmitsEmptyFilters(t *testing.T) {
	client, captured := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	_, err := client.Search(context.Background(), domainsearch.SearchRequest{Query: "x"})
	require.NoError(t, err)

	assert.False(t, captured.Has("categories"))
	assert.False(t, captured.Has("engines"))
	assert.False(t, captured.Has("lang"))
}

func TestSearchPassesUpstreamErrorObjectThrough(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"engine timeout"}`))
	})

	resp, err := client.Search(context.Background(), domainsearch.SearchRequest{Query: "x"})
	require.NoError(t, err)
	msg, ok := resp.ErrorMessage()
	assert.True(t, ok)
	assert.Equal(t, "engine timeout", msg)
}

func TestSearchStatusError(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.Search(context.Background(), domainsearch.SearchRequest{Query: "x"})
	require.Error(t, err)

	var platformErr *platformerrors.PlatformError
	require.ErrorAs(t, err, &platformErr)
	assert.Equal(t, platformerrors.ErrorTypeExternal, platformErr.GetErrorType())
	code, ok := platformErr.StatusCode()
	assert.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, code)
	assert.NotEmpty(t, platformErr.URL())
}

func TestSearchMalformedJSON(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	})

	_, err := client.Search(context.Background(), domainsearch.SearchRequest{Query: "x"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
}

func TestSearchNonObjectJSON(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	_, err := client.Search(context.Background(), domainsearch.SearchRequest{Query: "x"})
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
}

func TestSearchConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(ClientConfig{BaseURL: baseURL})
	_, err := client.Search(context.Background(), domainsearch.SearchRequest{Query: "x"})
	require.Error(t, err)

	var platformErr *platformerrors.PlatformError
	require.ErrorAs(t, err, &platformErr)
	assert.Equal(t, platformerrors.ErrorTypeExternal, platformErr.GetErrorType())
	_, ok := platformErr.StatusCode()
	assert.False(t, ok)
}

func TestSearchPageReturnsRawHTML(t *testing.T) {
	client, captured := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>results</body></html>`))
	})

	page, err := client.SearchPage(context.Background(), domainsearch.SearchRequest{Query: "x"})
	require.NoError(t, err)
	assert.Equal(t, "html", captured.Get("format"))
	assert.Equal(t, http.StatusOK, page.StatusCode)
	assert.Equal(t, "text/html", page.Header.Get("Content-Type"))
	assert.Equal(t, `<html><body>results</body></html>`, string(page.Body))
}

func TestEngines(t *testing.T) {
	var path string
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_, _ = w.Write([]byte(`{"duckduckgo":{"shortcut":"ddg"},"wikipedia":"encyclopedia"}`))
	})

	catalog, err := client.Engines(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/engines", path)
	assert.Len(t, catalog, 2)
	assert.Equal(t, "encyclopedia", catalog["wikipedia"])
}

func TestEnginesStatusError(t *testing.T) {
	client, _ := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Engines(context.Background())
	require.Error(t, err)
	assert.True(t, platformerrors.IsErrorType(err, platformerrors.ErrorTypeExternal))
}
