// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the answer-engine pipeline.
package types

// SearchResult is a normalized record returned by a search backend. Both the
// web backend and the literature backend produce this shape, so downstream
// stages never care which source a result came from. Ordering within a result
// list is provider-determined and preserved: position reflects the provider's
// own relevance ranking. The pipeline does not deduplicate.
type SearchResult struct {
	// Title is the result title as returned by the source.
	Title string `json:"title" yaml:"title"`

	// Snippet is a short excerpt: the search-engine snippet for web results,
	// a truncated abstract for literature results.
	Snippet string `json:"snippet" yaml:"snippet"`

	// URL is the canonical link for the result.
	URL string `json:"url" yaml:"url"`

	// Source identifies which backend found this result (e.g. "google", "pubmed").
	Source string `json:"source" yaml:"source"`
}
