// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Degraded records which pipeline stages fell back during a request. A set
// flag never means the request failed outright: the pipeline always returns a
// well-formed result, substituting documented fallbacks for missing stages.
type Degraded struct {
	// Refine is set when query refinement failed and the raw question was
	// used as the search query.
	Refine bool `json:"refine" yaml:"refine"`

	// WebSearch is set when the web search source failed and its result set
	// is empty.
	WebSearch bool `json:"web_search" yaml:"web_search"`

	// Literature is set when the literature search source failed and its
	// result set is empty.
	Literature bool `json:"literature" yaml:"literature"`

	// Research is set when answer synthesis failed and the final answer is
	// the fixed overload message.
	Research bool `json:"research" yaml:"research"`

	// Validate is set when validation failed and the final answer is the
	// fixed overload message.
	Validate bool `json:"validate" yaml:"validate"`
}

// Any reports whether any stage degraded.
func (d Degraded) Any() bool {
	return d.Refine || d.WebSearch || d.Literature || d.Research || d.Validate
}

// PipelineResult is the final artifact of one question. It is created once by
// the orchestrator and immutable afterwards; nothing about it outlives the
// request unless the caller chooses to archive it.
type PipelineResult struct {
	// ID is a UUID assigned when the result is constructed.
	ID string `json:"id" yaml:"id"`

	// Question is the original, user-supplied question.
	Question string `json:"question" yaml:"question"`

	// RefinedQuery is the query actually sent to the search backends. Equal
	// to Question when refinement degraded.
	RefinedQuery string `json:"refined_query" yaml:"refined_query"`

	// FinalAnswerHTML is the formatted answer, or the fixed overload message
	// when research or validation degraded.
	FinalAnswerHTML string `json:"final_answer_html" yaml:"final_answer_html"`

	// WebResults holds the web search results in provider order. Never nil;
	// empty when the source failed or found nothing.
	WebResults []SearchResult `json:"web_results" yaml:"web_results"`

	// LiteratureResults holds the PubMed results in provider order. Never
	// nil; empty when the source failed or found nothing.
	LiteratureResults []SearchResult `json:"literature_results" yaml:"literature_results"`

	// Degraded flags the stages that fell back.
	Degraded Degraded `json:"degraded" yaml:"degraded"`

	// Timestamp records when the pipeline finished.
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
}

// Response is the serialized shape consumed by the presentation layer. The
// two result arrays are JSON-encoded strings rather than nested arrays, which
// is the contract the front end expects.
type Response struct {
	FinalAnswer      string `json:"final_answer" yaml:"final_answer"`
	WebSearchResults string `json:"web_search_results" yaml:"web_search_results"`
	PubmedResults    string `json:"pubmed_results" yaml:"pubmed_results"`
	Error            string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ToResponse converts a PipelineResult into the presentation-layer shape.
func (r *PipelineResult) ToResponse() (Response, error) {
	web, err := json.Marshal(r.WebResults)
	if err != nil {
		return Response{}, fmt.Errorf("encoding web results: %w", err)
	}
	lit, err := json.Marshal(r.LiteratureResults)
	if err != nil {
		return Response{}, fmt.Errorf("encoding literature results: %w", err)
	}
	return Response{
		FinalAnswer:      r.FinalAnswerHTML,
		WebSearchResults: string(web),
		PubmedResults:    string(lit),
	}, nil
}
