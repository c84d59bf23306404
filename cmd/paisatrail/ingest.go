package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kalyanig/paisa-trail/internal/cli"
	"github.com/kalyanig/paisa-trail/internal/engine"
	"github.com/kalyanig/paisa-trail/internal/model"
)

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Ingest a JSON feed of SMS messages",
		Long: `Ingest messages from a JSON file (or stdin with "-") and run each one
through the full pipeline. The feed is a JSON array of objects:

  [{"id": "m1", "sender": "VM-HDFCBK", "body": "...", "timestamp_ms": 1718000000000}]

Re-ingesting the same feed is safe: duplicate messages and transactions
are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
	}

	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	return cmd
}

type feedMessage struct {
	ID          string `json:"id"`
	Sender      string `json:"sender"`
	Body        string `json:"body"`
	TimestampMs int64  `json:"timestamp_ms"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	ctx := cmd.Context()

	msgs, err := readFeed(args[0])
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		return fmt.Errorf("feed contains no messages")
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	eng := engine.New(store, slog.Default())

	var progress func(done int)
	if !noProgress {
		bar := progressbar.NewOptions(len(msgs),
			progressbar.OptionSetDescription("Classifying messages"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		progress = func(int) { _ = bar.Add(1) }
	}

	summary, err := eng.ProcessBatch(ctx, msgs, progress)
	if err != nil {
		return fmt.Errorf("ingestion aborted: %w", err)
	}

	printSummary(summary)
	return nil
}

func readFeed(path string) ([]model.RawMessage, error) {
	var reader io.Reader
	if path == "-" {
		reader = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open feed: %w", err)
		}
		defer func() { _ = f.Close() }()
		reader = f
	}

	var feed []feedMessage
	if err := json.NewDecoder(reader).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	msgs := make([]model.RawMessage, 0, len(feed))
	for _, fm := range feed {
		msgs = append(msgs, model.RawMessage{
			ID:          fm.ID,
			Sender:      fm.Sender,
			Body:        fm.Body,
			TimestampMs: fm.TimestampMs,
		})
	}
	return msgs, nil
}

func printSummary(summary engine.BatchSummary) {
	pairs := [][2]string{
		{"Messages", fmt.Sprintf("%d", summary.Total)},
	}
	for _, label := range []model.Label{
		model.LabelFinancialTransaction,
		model.LabelFinancialAlert,
		model.LabelOTP,
		model.LabelSpam,
		model.LabelPromotional,
		model.LabelPersonal,
	} {
		if count := summary.ByLabel[label]; count > 0 {
			pairs = append(pairs, [2]string{string(label), fmt.Sprintf("%d", count)})
		}
	}
	pairs = append(pairs,
		[2]string{"Transactions stored", fmt.Sprintf("%d", summary.Transactions)},
		[2]string{"Duplicates", fmt.Sprintf("%d", summary.Duplicates)},
		[2]string{"Discarded", fmt.Sprintf("%d", summary.Discarded)},
		[2]string{"Spam", fmt.Sprintf("%d", summary.Spam)},
		[2]string{"Anomalies", fmt.Sprintf("%d", summary.Anomalies)},
	)
	if summary.Errors > 0 {
		pairs = append(pairs, [2]string{"Errors", cli.ErrorStyle.Render(fmt.Sprintf("%d", summary.Errors))})
	}

	fmt.Println(cli.RenderBox("Ingestion summary", cli.KeyValueLines(pairs)))
}
