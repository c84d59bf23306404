package fraud

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalyanig/paisa-trail/internal/model"
	"github.com/kalyanig/paisa-trail/internal/patterns"
)

func TestDetectSpam_LotteryWithShortURL(t *testing.T) {
	detector := New(patterns.Default())

	result := detector.DetectSpam(model.RawMessage{
		Sender: "BX-LUCKY",
		Body:   "Congratulations! You have won Rs 5,00,000 lottery prize. Claim now at bit.ly/xyz",
	})

	require.True(t, result.IsSpam)
	require.NotNil(t, result.SpamType)
	assert.InDelta(t, 0.60, result.Confidence, 0.001)
	assert.Contains(t, result.Reasons, "Contains lottery/prize scam language")
	assert.Contains(t, result.Reasons, "Contains shortened/suspicious URL")
}

func TestDetectSpam_KYCPhishing(t *testing.T) {
	detector := New(patterns.Default())

	result := detector.DetectSpam(model.RawMessage{
		Sender: "AB123XY",
		Body:   "Dear customer your KYC expired. Click http://kyc-update.xyz/verify to update your bank account",
	})

	require.True(t, result.IsSpam)
	require.NotNil(t, result.SpamType)
	assert.Equal(t, model.SpamFakeBankAlert, *result.SpamType)
	assert.InDelta(t, 0.65, result.Confidence, 0.001)
	assert.Contains(t, result.Reasons, "Non-standard sender claiming financial content")
	assert.Contains(t, result.Reasons, "Unknown URL (kyc-update.xyz) with urgency language")
}

func TestDetectSpam_GenuineTransactionMessage(t *testing.T) {
	detector := New(patterns.Default())

	result := detector.DetectSpam(model.RawMessage{
		Sender: "VM-HDFCBK",
		Body:   "Rs.500 debited from A/c XX1234 on 05-02-24 to AMAZON via UPI. Avl Bal Rs.10,000 -HDFC",
	})

	assert.False(t, result.IsSpam)
	assert.Nil(t, result.SpamType)
	assert.Empty(t, result.Reasons)
}

func debitTxn(amount float64, ts int64) model.ExtractedTransaction {
	direction := model.DirectionDebit
	return model.ExtractedTransaction{
		Amount:      &amount,
		Direction:   &direction,
		TimestampMs: ts,
	}
}

func creditTxn(amount float64, ts int64) model.ExtractedTransaction {
	direction := model.DirectionCredit
	return model.ExtractedTransaction{
		Amount:      &amount,
		Direction:   &direction,
		TimestampMs: ts,
	}
}

// History with mean 500 spread over many days so the debit-burst rule
// stays quiet.
func spreadHistory() []model.ExtractedTransaction {
	amounts := []float64{450, 460, 470, 480, 490, 510, 520, 530, 540, 550}
	history := make([]model.ExtractedTransaction, 0, len(amounts))
	for i, a := range amounts {
		history = append(history, debitTxn(a, int64(i)*2*dayMs))
	}
	return history
}

func TestDetectAnomaly_ExtremeAmount(t *testing.T) {
	detector := New(patterns.Default())

	result := detector.DetectAnomaly(debitTxn(5000, 100*dayMs), spreadHistory())

	require.True(t, result.IsAnomaly)
	assert.InDelta(t, 0.40, result.Score, 0.001)
	require.Len(t, result.Reasons, 1)
	assert.Contains(t, result.Reasons[0], "std devs from mean")
}

func TestDetectAnomaly_MonotonicInDistanceFromMean(t *testing.T) {
	detector := New(patterns.Default())
	history := spreadHistory()

	near := detector.DetectAnomaly(creditTxn(500, 100*dayMs), history)
	unusual := detector.DetectAnomaly(creditTxn(580, 100*dayMs), history)
	extreme := detector.DetectAnomaly(creditTxn(5000, 100*dayMs), history)

	assert.LessOrEqual(t, near.Score, unusual.Score)
	assert.LessOrEqual(t, unusual.Score, extreme.Score)
	assert.InDelta(t, 0.0, near.Score, 0.001)
	assert.InDelta(t, 0.20, unusual.Score, 0.001)
	assert.InDelta(t, 0.40, extreme.Score, 0.001)
}

func TestDetectAnomaly_DebitBurst(t *testing.T) {
	detector := New(patterns.Default())

	// Eight debits inside one day, amounts identical so the z-score rule
	// contributes nothing.
	history := make([]model.ExtractedTransaction, 0, 8)
	for i := range 8 {
		history = append(history, debitTxn(500, int64(i)*1000))
	}

	result := detector.DetectAnomaly(debitTxn(500, 10000), history)

	require.True(t, result.IsAnomaly)
	assert.InDelta(t, 0.30, result.Score, 0.001)
	require.Len(t, result.Reasons, 1)
	assert.Contains(t, result.Reasons[0], "debits in 24 hours is unusual")
}

func TestDetectAnomaly_NewCounterparty(t *testing.T) {
	detector := New(patterns.Default())

	history := make([]model.ExtractedTransaction, 0, 5)
	for i, name := range []string{"SWIGGY", "ZOMATO", "BIGBASKET", "DMART", "SWIGGY"} {
		txn := creditTxn(500, int64(i)*2*dayMs)
		n := name
		txn.Counterparty = &n
		history = append(history, txn)
	}

	newShop := "NEWSHOP"
	txn := creditTxn(500, 100*dayMs)
	txn.Counterparty = &newShop

	result := detector.DetectAnomaly(txn, history)

	assert.False(t, result.IsAnomaly)
	assert.InDelta(t, 0.10, result.Score, 0.001)
	assert.Contains(t, result.Reasons, "New counterparty: NEWSHOP")
}

func TestDetectAnomaly_InertWithThinHistory(t *testing.T) {
	detector := New(patterns.Default())

	tests := []struct {
		name    string
		history []model.ExtractedTransaction
	}{
		{name: "no history", history: nil},
		{name: "two entries", history: []model.ExtractedTransaction{
			debitTxn(500, 0), debitTxn(510, dayMs),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := detector.DetectAnomaly(debitTxn(99999, 100*dayMs), tt.history)
			assert.False(t, result.IsAnomaly)
			assert.InDelta(t, 0.0, result.Score, 0.001)
		})
	}
}

func TestDetectAnomaly_IgnoresTransactionsWithoutAmount(t *testing.T) {
	detector := New(patterns.Default())

	direction := model.DirectionDebit
	result := detector.DetectAnomaly(model.ExtractedTransaction{Direction: &direction}, spreadHistory())

	assert.False(t, result.IsAnomaly)
	assert.InDelta(t, 0.0, result.Score, 0.001)
}
