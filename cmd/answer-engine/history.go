// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/answer-engine/internal/archive"
	"github.com/pdiddy/answer-engine/internal/format"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List archived answers",
	Long: `History lists answers previously archived with "ask --save",
newest first. Use "history show <id>" to display one answer in full.`,
	RunE: runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Display one archived answer",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of answers to list")
	historyCmd.AddCommand(historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := archive.NewStore(buildConfig().Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	summaries, err := store.List(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		fmt.Println("No archived answers.")
		return nil
	}

	for _, s := range summaries {
		marker := " "
		if s.Degraded {
			marker = "!"
		}
		fmt.Printf("%s %s  %s  %s\n",
			marker, s.ID, s.CreatedAt.Format("2006-01-02 15:04"),
			format.Truncate(s.Question, 60))
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := archive.NewStore(buildConfig().Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := store.Get(context.Background(), args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Question: %s\n\n", result.Question)
	printResult(result)
	return nil
}
