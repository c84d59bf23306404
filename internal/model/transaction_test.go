package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleTransaction() ExtractedTransaction {
	amount := 500.0
	direction := DirectionDebit
	bank := "HDFC Bank"
	counterparty := "AMAZON"
	date := "05-02-24"
	return ExtractedTransaction{
		Sender:          "HDFC-Bank",
		Amount:          &amount,
		Direction:       &direction,
		BankName:        &bank,
		Counterparty:    &counterparty,
		TransactionDate: &date,
	}
}

func TestDedupKey_Deterministic(t *testing.T) {
	a := sampleTransaction()
	b := sampleTransaction()

	assert.Equal(t, a.DedupKey(), b.DedupKey())
	assert.Equal(t, a.DedupKey(), a.DedupKey())
	assert.Len(t, a.DedupKey(), 64)
}

func TestDedupKey_SensitiveToSemanticFields(t *testing.T) {
	base := sampleTransaction()

	changedAmount := sampleTransaction()
	*changedAmount.Amount = 501.0
	assert.NotEqual(t, base.DedupKey(), changedAmount.DedupKey())

	changedDirection := sampleTransaction()
	*changedDirection.Direction = DirectionCredit
	assert.NotEqual(t, base.DedupKey(), changedDirection.DedupKey())

	changedCounterparty := sampleTransaction()
	*changedCounterparty.Counterparty = "FLIPKART"
	assert.NotEqual(t, base.DedupKey(), changedCounterparty.DedupKey())
}

func TestDedupKey_IgnoresNonSemanticFields(t *testing.T) {
	a := sampleTransaction()
	a.MessageID = "m1"
	a.RawBody = "one rendering of the alert"
	a.TimestampMs = 1718000000000

	b := sampleTransaction()
	b.MessageID = "m2"
	b.RawBody = "an independent notification for the same payment"
	b.TimestampMs = 1718000999999

	assert.Equal(t, a.DedupKey(), b.DedupKey())
}

func TestDedupKey_NormalizesWhitespaceAndMissingFields(t *testing.T) {
	a := sampleTransaction()
	*a.BankName = "  HDFC Bank  "
	b := sampleTransaction()
	assert.Equal(t, a.DedupKey(), b.DedupKey())

	c := sampleTransaction()
	c.Counterparty = nil
	assert.NotEqual(t, b.DedupKey(), c.DedupKey())
	assert.NotPanics(t, func() { c.DedupKey() })
}
