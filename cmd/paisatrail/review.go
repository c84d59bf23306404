package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kalyanig/paisa-trail/internal/classify"
	"github.com/kalyanig/paisa-trail/internal/cli"
	"github.com/kalyanig/paisa-trail/internal/tui"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Review low-confidence classifications interactively",
		Long: `Open an interactive screen over the stored messages whose classification
confidence fell below the model-consultation threshold. Accepting or
relabeling a message records the decision at full confidence.`,
		RunE: runReview,
	}

	cmd.Flags().Float64("threshold", classify.ConfidenceThreshold, "review messages below this confidence")
	cmd.Flags().Int("limit", 100, "maximum messages to load")

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	limit, _ := cmd.Flags().GetInt("limit")
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	messages, err := store.GetLowConfidenceMessages(ctx, threshold, limit)
	if err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}
	if len(messages) == 0 {
		fmt.Println(cli.FormatSuccess("No low-confidence messages to review."))
		return nil
	}

	return tui.Run(ctx, store, messages)
}
