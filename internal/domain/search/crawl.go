package search

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"github.com/janhq/searxng-tools/internal/infrastructure/metrics"
	"github.com/janhq/searxng-tools/utils/htmltext"
	"github.com/janhq/searxng-tools/utils/platformerrors"
)

// Crawl fetches the seed page, picks up to SubpageLimit of its links whose
// anchor text matches any filter and fetches those one at a time.
//
// A seed page failure fails the crawl. A subpage failure only drops that
// subpage. If the crawl deadline passes, the remaining subpages are skipped
// and the crawl returns what it has.
func (s *SearchService) Crawl(ctx context.Context, req CrawlRequest) (*CrawlResult, error) {
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerDomain, platformerrors.ErrorTypeValidation, "url is required", nil)
	}

	limit := s.clampLimit(req.SubpageLimit)
	filters := normalizeFilters(req.Filters)

	ctx, span := startSpan(ctx, "search.crawl",
		attribute.String("crawl.url", req.URL),
		attribute.Int("crawl.subpage_limit", limit),
		attribute.StringSlice("crawl.filters", filters),
	)
	defer span.End()

	if s.cfg.CrawlTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.CrawlTimeout)
		defer cancel()
	}

	seed, err := s.fetcher.Fetch(ctx, req.URL, req.Headers)
	if err != nil {
		recordError(span, err)
		return nil, err
	}
	seedResult := buildFetchResult(req.URL, seed)

	candidates := filterCandidates(collectCandidates(string(seed.Body), req.URL), filters)
	selected := candidates
	if len(selected) > limit {
		selected = selected[:limit]
	}

	subpages := make([]Subpage, 0, len(selected))
	for _, candidate := range selected {
		if ctx.Err() != nil {
			log.Warn().
				Str("url", req.URL).
				Int("fetched", len(subpages)).
				Int("selected", len(selected)).
				Msg("crawl deadline reached, skipping remaining subpages")
			break
		}

		page, err := s.fetcher.Fetch(ctx, candidate.URL, req.Headers)
		if err != nil {
			metrics.RecordCrawlSubpage("dropped")
			log.Warn().
				Err(err).
				Str("seed_url", req.URL).
				Str("subpage_url", candidate.URL).
				Msg("subpage fetch failed, omitting from crawl result")
			continue
		}
		metrics.RecordCrawlSubpage("fetched")

		cleaned := buildFetchResult(candidate.URL, page)
		subpages = append(subpages, Subpage{
			URL:           candidate.URL,
			LinkText:      candidate.Text,
			Content:       cleaned.Content,
			ContentLength: cleaned.ContentLength,
		})
	}

	span.SetAttributes(
		attribute.Int("crawl.candidates", len(candidates)),
		attribute.Int("crawl.subpages_returned", len(subpages)),
	)

	return &CrawlResult{
		URL: req.URL,
		MainPage: MainPage{
			URL:           seedResult.URL,
			Content:       seedResult.Content,
			ContentLength: seedResult.ContentLength,
		},
		Subpages:           subpages,
		TotalSubpagesFound: len(candidates),
		SubpagesReturned:   len(subpages),
		FiltersApplied:     filters,
	}, nil
}

// clampLimit applies the one subpage limit policy shared by all surfaces.
func (s *SearchService) clampLimit(requested *int) int {
	limit := s.cfg.DefaultSubpageLimit
	if requested != nil {
		limit = *requested
	}
	if limit < 0 {
		return 0
	}
	if limit > s.cfg.MaxSubpageLimit {
		return s.cfg.MaxSubpageLimit
	}
	return limit
}

func collectCandidates(raw string, baseURL string) []LinkCandidate {
	links := htmltext.ExtractLinks(raw, baseURL)
	candidates := make([]LinkCandidate, 0, len(links))
	for _, link := range links {
		candidates = append(candidates, LinkCandidate{URL: link.URL, Text: link.Text})
	}
	return candidates
}

// normalizeFilters trims filters and drops blank ones. An empty result means
// no filtering.
func normalizeFilters(filters []string) []string {
	out := make([]string, 0, len(filters))
	for _, f := range filters {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// filterCandidates keeps candidates whose text contains at least one filter,
// ignoring case. No filters keeps everything.
func filterCandidates(candidates []LinkCandidate, filters []string) []LinkCandidate {
	if len(filters) == 0 {
		return candidates
	}
	lowered := make([]string, len(filters))
	for i, f := range filters {
		lowered[i] = strings.ToLower(f)
	}

	kept := make([]LinkCandidate, 0, len(candidates))
	for _, candidate := range candidates {
		text := strings.ToLower(candidate.Text)
		for _, f := range lowered {
			if strings.Contains(text, f) {
				kept = append(kept, candidate)
				break
			}
		}
	}
	return kept
}
