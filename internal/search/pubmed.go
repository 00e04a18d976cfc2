// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/pdiddy/answer-engine/internal/format"
	"github.com/pdiddy/answer-engine/internal/httputil"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// NCBI E-utilities endpoints. Declared as vars so tests can substitute an
// httptest server.
var (
	pubmedESearchBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/esearch.fcgi"
	pubmedEFetchBase  = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"
)

// snippetLimit caps the abstract excerpt carried in a SearchResult.
const snippetLimit = 500

// PubMedBackend queries the PubMed literature database through the NCBI
// E-utilities: ESearch finds PMIDs by relevance, EFetch retrieves titles and
// abstracts.
type PubMedBackend struct {
	Client *http.Client
}

// esearchResponse is the JSON envelope returned by ESearch.
type esearchResponse struct {
	Result esearchResult `json:"esearchresult"`
}

// esearchResult holds the matched PMIDs.
type esearchResult struct {
	IDList []string `json:"idlist"`
}

// pubmedArticleSet is the XML envelope returned by EFetch.
type pubmedArticleSet struct {
	XMLName  xml.Name        `xml:"PubmedArticleSet"`
	Articles []pubmedArticle `xml:"PubmedArticle"`
}

// pubmedArticle is one fetched article.
type pubmedArticle struct {
	PMID     string   `xml:"MedlineCitation>PMID"`
	Title    string   `xml:"MedlineCitation>Article>ArticleTitle"`
	Abstract []string `xml:"MedlineCitation>Article>Abstract>AbstractText"`
	Journal  string   `xml:"MedlineCitation>Article>Journal>Title"`
}

// Name returns the backend identifier.
func (b *PubMedBackend) Name() string { return "pubmed" }

// Search finds relevant PMIDs and fetches their abstracts. Results keep the
// ESearch relevance order.
func (b *PubMedBackend) Search(ctx context.Context, query string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	ids, err := b.searchIDs(ctx, query, cfg)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []types.SearchResult{}, nil
	}
	return b.fetchArticles(ctx, ids, cfg)
}

// searchIDs calls ESearch and returns PMIDs in relevance order.
func (b *PubMedBackend) searchIDs(ctx context.Context, query string, cfg types.SearchConfig) ([]string, error) {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	params := url.Values{
		"db":      {"pubmed"},
		"term":    {query},
		"retmode": {"json"},
		"retmax":  {fmt.Sprintf("%d", maxResults)},
		"sort":    {"relevance"},
	}
	addNCBIIdentity(params, cfg)

	var er esearchResponse
	if err := httputil.GetJSON(ctx, b.Client, pubmedESearchBase+"?"+params.Encode(), cfg.UserAgent, &er); err != nil {
		return nil, fmt.Errorf("PubMed search request: %w", err)
	}
	return er.Result.IDList, nil
}

// fetchArticles calls EFetch for the given PMIDs and maps each article to a
// SearchResult, preserving the requested ID order as returned.
func (b *PubMedBackend) fetchArticles(ctx context.Context, ids []string, cfg types.SearchConfig) ([]types.SearchResult, error) {
	params := url.Values{
		"db":      {"pubmed"},
		"id":      {strings.Join(ids, ",")},
		"retmode": {"xml"},
	}
	addNCBIIdentity(params, cfg)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		pubmedEFetchBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := b.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("PubMed fetch request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("PubMed fetch: %w", &httputil.StatusError{Code: resp.StatusCode})
	}

	var set pubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&set); err != nil {
		return nil, fmt.Errorf("parsing PubMed response: %w", err)
	}

	results := make([]types.SearchResult, 0, len(set.Articles))
	for _, article := range set.Articles {
		if article.PMID == "" {
			continue
		}
		results = append(results, types.SearchResult{
			Title:   strings.TrimSpace(article.Title),
			Snippet: abstractSnippet(article.Abstract, article.Journal),
			URL:     fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", article.PMID),
			Source:  "pubmed",
		})
	}
	return results, nil
}

// abstractSnippet joins abstract paragraphs and truncates to snippetLimit
// runes. Articles without an abstract fall back to the journal title.
func abstractSnippet(paragraphs []string, journal string) string {
	text := strings.TrimSpace(strings.Join(paragraphs, " "))
	if text == "" {
		return journal
	}
	return format.Truncate(text, snippetLimit)
}

// addNCBIIdentity attaches the optional tool and email parameters the NCBI
// usage policy asks clients to send.
func addNCBIIdentity(params url.Values, cfg types.SearchConfig) {
	if cfg.NCBITool != "" {
		params.Set("tool", cfg.NCBITool)
	}
	if cfg.NCBIEmail != "" {
		params.Set("email", cfg.NCBIEmail)
	}
}
