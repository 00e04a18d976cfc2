// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline sequences the agent roles and search into one answer.
//
// Stages run in strict linear order: REFINE, SEARCH, RESEARCH, VALIDATE,
// FORMAT. There is no branching back. Refinement is an optimization, so its
// failure degrades silently to the raw question. Research and validation are
// the answer itself, so their failure is surfaced honestly as a fixed
// overload message rather than a fabricated answer.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/answer-engine/internal/format"
	"github.com/pdiddy/answer-engine/internal/roles"
	"github.com/pdiddy/answer-engine/internal/search"
	"github.com/pdiddy/answer-engine/pkg/types"
)

// OverloadedMessage is the fixed user-facing text returned when research or
// validation fails. Non-technical on purpose: upstream error detail never
// reaches users.
const OverloadedMessage = "The model is currently overloaded due to a high volume of requests. " +
	"Please try again during off peak hours."

// Invoker is the single-role agent contract the orchestrator depends on.
type Invoker interface {
	Invoke(ctx context.Context, role roles.Role, fields map[string]string) (string, error)
}

// Searcher is the search aggregator contract.
type Searcher interface {
	Search(ctx context.Context, query string) search.Output
}

// Pipeline orchestrates one question through the agent roles. Stateless
// across requests; every request produces its own isolated result.
type Pipeline struct {
	agent    Invoker
	searcher Searcher
	logger   *zap.Logger
}

// New builds a pipeline over the given agent and searcher.
func New(agent Invoker, searcher Searcher, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{agent: agent, searcher: searcher, logger: logger}
}

// Process answers one question. It returns an error only when the question
// is empty after trimming; every other failure mode yields a well-formed,
// possibly degraded, PipelineResult.
func (p *Pipeline) Process(ctx context.Context, question string) (*types.PipelineResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("question is empty")
	}

	result := &types.PipelineResult{
		ID:                uuid.NewString(),
		Question:          question,
		WebResults:        []types.SearchResult{},
		LiteratureResults: []types.SearchResult{},
	}

	// REFINE: any failure falls back to the raw question and the search
	// stage proceeds as if refinement had returned it.
	refined, err := p.agent.Invoke(ctx, roles.QueryRefiner, map[string]string{
		"question": question,
	})
	refined = cleanQuery(refined)
	if err != nil || refined == "" {
		refined = question
		result.Degraded.Refine = true
		p.logger.Info("refine degraded, using raw question", zap.Error(err))
	}
	result.RefinedQuery = refined

	// SEARCH: always proceeds; per-source failures become empty sets.
	out := p.searcher.Search(ctx, refined)
	result.WebResults = out.Web
	result.LiteratureResults = out.Literature
	result.Degraded.WebSearch = out.WebErr != nil
	result.Degraded.Literature = out.LiteratureErr != nil
	p.logger.Info("search complete",
		zap.Int("web_results", len(out.Web)),
		zap.Int("literature_results", len(out.Literature)),
		zap.Bool("web_degraded", out.WebErr != nil),
		zap.Bool("literature_degraded", out.LiteratureErr != nil))

	// RESEARCH: terminal on failure. The gathered search results stay
	// attached so the caller still sees what was found.
	draft, err := p.agent.Invoke(ctx, roles.Researcher, map[string]string{
		"question":           question,
		"query":              refined,
		"web_results":        renderResults(out.Web),
		"literature_results": renderResults(out.Literature),
	})
	if err != nil {
		result.Degraded.Research = true
		result.FinalAnswerHTML = OverloadedMessage
		result.Timestamp = time.Now()
		p.logger.Warn("research degraded", zap.Error(err))
		return result, nil
	}

	// VALIDATE: terminal on failure, identical policy; the draft is
	// discarded so unvalidated text never reaches the caller.
	final, err := p.agent.Invoke(ctx, roles.Validator, map[string]string{
		"draft": draft,
	})
	if err != nil {
		result.Degraded.Validate = true
		result.FinalAnswerHTML = OverloadedMessage
		result.Timestamp = time.Now()
		p.logger.Warn("validate degraded", zap.Error(err))
		return result, nil
	}

	// FORMAT.
	result.FinalAnswerHTML = format.Render(final)
	result.Timestamp = time.Now()
	p.logger.Info("pipeline complete", zap.String("id", result.ID))
	return result, nil
}

// cleanQuery trims the refiner's output and strips wrapping quotes some
// models add around the query.
func cleanQuery(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

// renderResults serializes a result set for an agent prompt, preserving
// provider order.
func renderResults(results []types.SearchResult) string {
	if len(results) == 0 {
		return "(no results available)"
	}
	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "%d. %s (%s)\n", i+1, r.Title, r.Source)
		if r.URL != "" {
			fmt.Fprintf(&sb, "   %s\n", r.URL)
		}
		if r.Snippet != "" {
			fmt.Fprintf(&sb, "   %s\n", r.Snippet)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
