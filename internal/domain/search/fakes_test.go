package search

import (
	"context"
	"net/http"
	"sync"

	"github.com/janhq/searxng-tools/utils/platformerrors"
)

type fakeSearchClient struct {
	response SearchResponse
	page     *Page
	engines  EngineCatalog
	err      error

	calls []SearchRequest
}

func (f *fakeSearchClient) Search(_ context.Context, req SearchRequest) (SearchResponse, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func (f *fakeSearchClient) SearchPage(_ context.Context, req SearchRequest) (*Page, error) {
	f.calls = append(f.calls, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeSearchClient) Engines(context.Context) (EngineCatalog, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.engines, nil
}

// fakeFetcher serves pages from a map. URLs not in the map fail with a 404.
type fakeFetcher struct {
	mu      sync.Mutex
	pages   map[string]string
	fail    map[string]bool
	onFetch func(url string)

	fetched []string
	headers []map[string]string
}

func newFakeFetcher(pages map[string]string) *fakeFetcher {
	return &fakeFetcher{pages: pages, fail: map[string]bool{}}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (*Page, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	f.headers = append(f.headers, headers)
	body, ok := f.pages[url]
	failed := f.fail[url]
	hook := f.onFetch
	f.mu.Unlock()

	if hook != nil {
		hook(url)
	}
	if err := ctx.Err(); err != nil {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "failed to fetch URL", err)
	}
	if failed {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "failed to fetch URL", nil,
			map[string]any{platformerrors.ContextURL: url})
	}
	if !ok {
		return nil, platformerrors.NewErrorWithContext(ctx, platformerrors.LayerInfrastructure, platformerrors.ErrorTypeExternal, "HTTP 404", nil,
			map[string]any{platformerrors.ContextURL: url, platformerrors.ContextStatusCode: http.StatusNotFound})
	}
	return &Page{
		URL:        url,
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": {"text/html"}},
		Body:       []byte(body),
	}, nil
}

func intPtr(v int) *int {
	return &v
}
