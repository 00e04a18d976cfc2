// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search queries the web and biomedical literature sources and
// collects both result sets for the pipeline.
//
// The two sources are independent: each gets a single attempt bounded by its
// own timeout, and failure of one never blocks or invalidates the other.
// Results pass through in provider order, without deduplication or
// re-ranking; ordering and duplicate policy belong to the providers.
package search

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/pdiddy/answer-engine/pkg/types"
)

// Backend searches a single source. Each source (SerpAPI web search, PubMed)
// implements this interface per the Strategy pattern.
type Backend interface {
	Name() string
	Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.SearchResult, error)
}

// Output holds both result sets and the per-source failures. Result slices
// are never nil: a failed source yields an empty set plus its error.
type Output struct {
	Web           []types.SearchResult
	Literature    []types.SearchResult
	WebErr        error
	LiteratureErr error
}

// Aggregator fans a query out to the web and literature backends.
type Aggregator struct {
	web        Backend
	literature Backend
	cfg        types.SearchConfig
	logger     *zap.Logger
}

// NewAggregator builds an aggregator over the two backends.
func NewAggregator(web, literature Backend, cfg types.SearchConfig, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{web: web, literature: literature, cfg: cfg, logger: logger}
}

// sourceResult is one backend's outcome, tagged by fan-out slot.
type sourceResult struct {
	slot    int
	results []types.SearchResult
	err     error
}

// Search queries both backends concurrently and joins the results. The
// passed context bounds both calls; each backend additionally respects the
// shared HTTP timeout, so a slow source cannot stall the other indefinitely.
func (a *Aggregator) Search(ctx context.Context, query string) Output {
	backends := [2]Backend{a.web, a.literature}

	ch := make(chan sourceResult, len(backends))
	var wg sync.WaitGroup
	for i, b := range backends {
		wg.Add(1)
		go func(slot int, b Backend) {
			defer wg.Done()
			results, err := b.Search(ctx, query, a.cfg)
			ch <- sourceResult{slot: slot, results: results, err: err}
		}(i, b)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	out := Output{
		Web:        []types.SearchResult{},
		Literature: []types.SearchResult{},
	}
	for sr := range ch {
		name := backends[sr.slot].Name()
		if sr.err != nil {
			a.logger.Warn("search source failed",
				zap.String("source", name), zap.Error(sr.err))
		}
		results := sr.results
		if results == nil {
			results = []types.SearchResult{}
		}
		switch sr.slot {
		case 0:
			out.Web, out.WebErr = results, sr.err
		case 1:
			out.Literature, out.LiteratureErr = results, sr.err
		}
	}
	return out
}
