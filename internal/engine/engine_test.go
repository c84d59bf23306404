package engine_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalyanig/paisa-trail/internal/engine"
	"github.com/kalyanig/paisa-trail/internal/model"
	"github.com/kalyanig/paisa-trail/internal/testutil"
)

const debitBody = "Rs.500 debited from A/c XX1234 on 05-02-24 to AMAZON via UPI. Avl Bal Rs.10,000 -HDFC"

func TestProcess_TransactionMessage(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := engine.New(db, nil)
	ctx := context.Background()

	outcome, err := eng.Process(ctx, model.RawMessage{
		ID:          "m1",
		Sender:      "HDFC-Bank",
		Body:        debitBody,
		TimestampMs: 1718000000000,
	})
	require.NoError(t, err)

	assert.Equal(t, model.LabelFinancialTransaction, outcome.Classification.Label)
	assert.Equal(t, model.SubLabelDebit, outcome.Classification.SubLabel)
	assert.False(t, outcome.Fraud.IsSpam)
	require.NotNil(t, outcome.Transaction)
	assert.NotEmpty(t, outcome.DedupKey)
	assert.True(t, outcome.Stored)
	assert.False(t, outcome.Duplicate)
	assert.False(t, outcome.Discarded)

	history, err := db.GetRecentTransactions(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestProcess_DuplicateTransactionSkipped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := engine.New(db, nil)
	ctx := context.Background()

	first, err := eng.Process(ctx, model.RawMessage{
		ID: "m1", Sender: "HDFC-Bank", Body: debitBody, TimestampMs: 1718000000000,
	})
	require.NoError(t, err)
	require.True(t, first.Stored)

	// Same movement of money reported again under a new message id.
	second, err := eng.Process(ctx, model.RawMessage{
		ID: "m2", Sender: "HDFC-Bank", Body: debitBody, TimestampMs: 1718000090000,
	})
	require.NoError(t, err)

	assert.Equal(t, first.DedupKey, second.DedupKey)
	assert.False(t, second.Stored)
	assert.True(t, second.Duplicate)

	history, err := db.GetRecentTransactions(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestProcess_SpamShortCircuitsExtraction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := engine.New(db, nil)

	outcome, err := eng.Process(context.Background(), model.RawMessage{
		ID:     "m1",
		Sender: "BX-LUCKY",
		Body:   "Congratulations! You have won Rs 5,00,000 lottery prize. Claim now at bit.ly/xyz",
	})
	require.NoError(t, err)

	assert.Equal(t, model.LabelSpam, outcome.Classification.Label)
	assert.True(t, outcome.Fraud.IsSpam)
	assert.Nil(t, outcome.Transaction)
	assert.False(t, outcome.Stored)
}

func TestProcess_DirectionlessTransactionDiscarded(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := engine.New(db, nil)

	outcome, err := eng.Process(context.Background(), model.RawMessage{
		ID:     "m1",
		Sender: "VM-HDFCBK",
		Body:   "Txn of Rs.2,500 on A/c XX1234",
	})
	require.NoError(t, err)

	assert.Equal(t, model.LabelFinancialTransaction, outcome.Classification.Label)
	assert.True(t, outcome.Discarded)
	assert.Nil(t, outcome.Transaction)
	assert.False(t, outcome.Stored)
}

func TestProcess_AssignsMissingID(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := engine.New(db, nil)

	outcome, err := eng.Process(context.Background(), model.RawMessage{
		Sender: "9876543210",
		Body:   "Call me when you reach home",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, outcome.Message.ID)
	assert.Equal(t, model.LabelPersonal, outcome.Classification.Label)
}

func TestProcessBatch_Summary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := engine.New(db, nil)

	msgs := []model.RawMessage{
		{ID: "m1", Sender: "HDFC-Bank", Body: debitBody, TimestampMs: 1718000000000},
		{ID: "m2", Sender: "HDFC-Bank", Body: debitBody, TimestampMs: 1718000090000},
		{ID: "m3", Sender: "BX-LUCKY", Body: "Congratulations! You have won Rs 5,00,000 lottery prize. Claim now at bit.ly/xyz"},
		{ID: "m4", Sender: "VM-HDFCBK", Body: "Txn of Rs.2,500 on A/c XX1234"},
		{ID: "m5", Sender: "9876543210", Body: "Call me when you reach home"},
	}

	var ticks int
	summary, err := eng.ProcessBatch(context.Background(), msgs, func(int) { ticks++ })
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 5, ticks)
	assert.Equal(t, 3, summary.ByLabel[model.LabelFinancialTransaction])
	assert.Equal(t, 1, summary.ByLabel[model.LabelSpam])
	assert.Equal(t, 1, summary.ByLabel[model.LabelPersonal])
	assert.Equal(t, 1, summary.Spam)
	assert.Equal(t, 1, summary.Transactions)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 1, summary.Discarded)
	assert.Zero(t, summary.Errors)
}

func TestProcessBatch_ContextCancellation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	eng := engine.New(db, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := eng.ProcessBatch(ctx, []model.RawMessage{{ID: "m1", Sender: "s", Body: "b"}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
