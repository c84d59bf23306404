package model

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"
)

// Direction indicates whether money moved into or out of the account.
type Direction string

// Transaction directions.
const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// ExtractedTransaction is the structured record pulled out of a message
// already labeled financial_transaction. Every field except Description
// and RawBody is independently optional: extraction never fails, it just
// leaves gaps. A record whose Direction is nil must not be persisted.
type ExtractedTransaction struct {
	MessageID       string
	Sender          string
	Amount          *float64
	AllAmounts      []float64
	Direction       *Direction
	AccountNumber   *string
	BankName        *string
	Counterparty    *string
	PaymentMethod   *string
	ReferenceNumber *string
	TransactionDate *string // as printed in the body, or DD-MM-YYYY from the delivery timestamp
	BalanceAfter    *float64
	Description     string
	RawBody         string
	TimestampMs     int64
}

// DedupKey derives the content hash used for idempotent ingestion:
// SHA-256 over amount|date|direction|sender|bank|counterparty. Two
// records describing the same movement of money collide even when they
// come from independent sources or re-ingestion of the same message.
func (t *ExtractedTransaction) DedupKey() string {
	parts := []string{
		normalizeAmount(t.Amount),
		normalizeField(t.TransactionDate),
		string(directionOrEmpty(t.Direction)),
		strings.TrimSpace(t.Sender),
		normalizeField(t.BankName),
		normalizeField(t.Counterparty),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%x", sum)
}

func normalizeAmount(a *float64) string {
	if a == nil {
		return ""
	}
	return strconv.FormatFloat(*a, 'f', -1, 64)
}

func normalizeField(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func directionOrEmpty(d *Direction) Direction {
	if d == nil {
		return ""
	}
	return *d
}
