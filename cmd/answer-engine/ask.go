// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/answer-engine/internal/agent"
	"github.com/pdiddy/answer-engine/internal/archive"
	"github.com/pdiddy/answer-engine/internal/format"
	"github.com/pdiddy/answer-engine/internal/httputil"
	"github.com/pdiddy/answer-engine/internal/pipeline"
	"github.com/pdiddy/answer-engine/internal/search"
	"github.com/pdiddy/answer-engine/pkg/types"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a medical question through the agent pipeline",
	Long: `Ask runs one question through the full pipeline: query refinement,
concurrent web and PubMed search, research synthesis, and safety validation.
The answer is printed as HTML with a source table; --json and --yaml emit
the serialized response instead. --save archives the result for "history".`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Bool("json", false, "output the serialized response as JSON")
	askCmd.Flags().Bool("yaml", false, "output the serialized response as YAML")
	askCmd.Flags().Bool("save", false, "archive the result")
	askCmd.Flags().Bool("verbose", false, "log pipeline stage transitions to stderr")

	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("question is empty")
	}

	cfg := buildConfig()

	logger := zap.NewNop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		defer l.Sync()
		logger = l
	}

	ag, err := agent.New(cfg.Agents, logger)
	if err != nil {
		return err
	}

	client := httputil.NewClient(cfg.Search.Timeout)
	aggregator := search.NewAggregator(
		&search.SerpAPIBackend{Client: client},
		&search.PubMedBackend{Client: client},
		cfg.Search, logger)

	p := pipeline.New(ag, aggregator, logger)
	result, err := p.Process(context.Background(), question)
	if err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := archive.NewStore(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(context.Background(), result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved answer %s\n", result.ID)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	asYAML, _ := cmd.Flags().GetBool("yaml")
	if asJSON || asYAML {
		response, err := result.ToResponse()
		if err != nil {
			return err
		}
		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(response)
		}
		return yaml.NewEncoder(os.Stdout).Encode(response)
	}

	printResult(result)
	return nil
}

// printResult writes the answer and its sources in human-readable form.
func printResult(r *types.PipelineResult) {
	fmt.Println(r.FinalAnswerHTML)
	fmt.Println()

	if r.Degraded.Any() {
		fmt.Printf("Degraded stages: %s\n\n", degradedStages(r.Degraded))
	}
	fmt.Printf("Refined query: %s\n", r.RefinedQuery)

	printSources("Web results", r.WebResults)
	printSources("PubMed results", r.LiteratureResults)
}

func printSources(heading string, results []types.SearchResult) {
	fmt.Printf("\n%s (%d):\n", heading, len(results))
	for i, res := range results {
		fmt.Printf("%2d. %s\n    %s\n", i+1, format.Truncate(res.Title, 70), res.URL)
	}
}

func degradedStages(d types.Degraded) string {
	var stages []string
	if d.Refine {
		stages = append(stages, "refine")
	}
	if d.WebSearch {
		stages = append(stages, "web-search")
	}
	if d.Literature {
		stages = append(stages, "literature")
	}
	if d.Research {
		stages = append(stages, "research")
	}
	if d.Validate {
		stages = append(stages, "validate")
	}
	return strings.Join(stages, ", ")
}
