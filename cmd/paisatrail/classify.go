package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalyanig/paisa-trail/internal/classify"
	"github.com/kalyanig/paisa-trail/internal/cli"
	"github.com/kalyanig/paisa-trail/internal/extract"
	"github.com/kalyanig/paisa-trail/internal/fraud"
	"github.com/kalyanig/paisa-trail/internal/model"
	"github.com/kalyanig/paisa-trail/internal/patterns"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [message body]",
		Short: "Classify a single message without storing it",
		Long: `Classify one SMS message and show the full pipeline verdict:
label, extracted transaction fields, and spam assessment.

Examples:
  paisatrail classify --sender VM-HDFCBK "Rs.500 debited from a/c XX1234 to AMAZON via UPI"
  paisatrail classify --sender +919876543210 "Lunch tomorrow?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().StringP("sender", "s", "", "sender id of the message")
	cmd.Flags().Int64P("timestamp", "t", 0, "delivery timestamp in epoch milliseconds")

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	sender, _ := cmd.Flags().GetString("sender")
	timestamp, _ := cmd.Flags().GetInt64("timestamp")

	msg := model.RawMessage{
		Sender:      sender,
		Body:        strings.Join(args, " "),
		TimestampMs: timestamp,
	}

	lib := patterns.Default()
	router := classify.NewRouter(lib, nil, nil)
	detector := fraud.New(lib)

	result := router.Classify(cmd.Context(), msg.Body, msg.Sender)
	assessment := detector.DetectSpam(msg)

	pairs := [][2]string{
		{"Label", cli.StyleLabel(result.Label)},
		{"Sub-label", result.SubLabel},
		{"Confidence", fmt.Sprintf("%.2f", result.Confidence)},
		{"Method", string(result.Method)},
	}
	if assessment.IsSpam {
		pairs = append(pairs,
			[2]string{"Spam", cli.StyleLabel(model.LabelSpam) + " " + string(*assessment.SpamType)},
			[2]string{"Reasons", strings.Join(assessment.Reasons, "; ")})
	}
	fmt.Println(cli.RenderBox("Classification", cli.KeyValueLines(pairs)))

	if result.Label == model.LabelFinancialTransaction && !assessment.IsSpam {
		txn := extract.New(lib).Extract(msg)
		fmt.Println(cli.RenderBox("Transaction", cli.KeyValueLines(transactionPairs(txn))))
	}

	return nil
}

func transactionPairs(txn model.ExtractedTransaction) [][2]string {
	return [][2]string{
		{"Amount", floatField(txn.Amount)},
		{"Direction", directionField(txn.Direction)},
		{"Account", stringField(txn.AccountNumber)},
		{"Bank", stringField(txn.BankName)},
		{"Counterparty", stringField(txn.Counterparty)},
		{"Method", stringField(txn.PaymentMethod)},
		{"Reference", stringField(txn.ReferenceNumber)},
		{"Date", stringField(txn.TransactionDate)},
		{"Balance", floatField(txn.BalanceAfter)},
		{"Description", txn.Description},
	}
}

func floatField(v *float64) string {
	if v == nil {
		return ""
	}
	return "Rs." + strconv.FormatFloat(*v, 'f', -1, 64)
}

func stringField(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func directionField(d *model.Direction) string {
	if d == nil {
		return ""
	}
	return string(*d)
}
