// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/answer-engine/internal/httputil"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// serpAPIBase is the SerpAPI search endpoint. Declared as a var so tests can
// substitute an httptest server.
var serpAPIBase = "https://serpapi.com/search"

// SerpAPIBackend queries Google web search through SerpAPI.
type SerpAPIBackend struct {
	Client *http.Client
}

// serpAPIResponse is the subset of the SerpAPI payload the pipeline uses.
type serpAPIResponse struct {
	OrganicResults []serpAPIOrganic `json:"organic_results"`
	Error          string           `json:"error,omitempty"`
}

// serpAPIOrganic is one organic search hit.
type serpAPIOrganic struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// Name returns the backend identifier.
func (b *SerpAPIBackend) Name() string { return "web" }

// Search queries SerpAPI and maps the organic results in provider order.
func (b *SerpAPIBackend) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	if cfg.SerpAPIKey == "" {
		return nil, fmt.Errorf("SerpAPI key is not configured")
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	params := url.Values{
		"q":       {query},
		"api_key": {cfg.SerpAPIKey},
		"engine":  {"google"},
		"num":     {fmt.Sprintf("%d", maxResults)},
		"safe":    {"active"},
	}

	var sr serpAPIResponse
	if err := httputil.GetJSON(ctx, b.Client, serpAPIBase+"?"+params.Encode(), cfg.UserAgent, &sr); err != nil {
		return nil, fmt.Errorf("SerpAPI request: %w", err)
	}
	if sr.Error != "" {
		return nil, fmt.Errorf("SerpAPI error: %s", sr.Error)
	}

	results := make([]types.SearchResult, 0, len(sr.OrganicResults))
	for _, hit := range sr.OrganicResults {
		source := hit.Source
		if source == "" {
			source = "google"
		}
		results = append(results, types.SearchResult{
			Title:   hit.Title,
			Snippet: hit.Snippet,
			URL:     hit.Link,
			Source:  source,
		})
	}
	return results, nil
}
