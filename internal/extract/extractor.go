// Package extract pulls structured transaction fields out of message
// bodies already labeled as financial transactions.
package extract

import (
	"strconv"
	"strings"
	"time"

	"github.com/kalyanig/paisa-trail/internal/model"
	"github.com/kalyanig/paisa-trail/internal/patterns"
)

// Extractor turns one message into a partially-filled transaction
// record. Every field is independently optional; extraction never
// fails. Safe for concurrent use.
type Extractor struct {
	lib *patterns.Library
}

// New creates an extractor backed by the given pattern library.
func New(lib *patterns.Library) *Extractor {
	return &Extractor{lib: lib}
}

// Extract parses all recoverable transaction fields from the message.
// Direction is re-validated here against the non-transaction exclusions
// rather than trusting the upstream label: a record whose Direction
// stays nil must not be persisted by the caller.
func (e *Extractor) Extract(msg model.RawMessage) model.ExtractedTransaction {
	txn := model.ExtractedTransaction{
		MessageID:   msg.ID,
		Sender:      msg.Sender,
		RawBody:     msg.Body,
		TimestampMs: msg.TimestampMs,
	}

	txn.Amount = e.parseAmount(msg.Body)
	txn.AllAmounts = e.parseAllAmounts(msg.Body)
	txn.Direction = e.parseDirection(msg.Body)
	txn.AccountNumber = e.parseAccount(msg.Body)
	txn.BankName = e.parseBank(msg.Sender, msg.Body)
	txn.Counterparty = e.parseCounterparty(msg.Body)
	txn.PaymentMethod = e.parsePaymentMethod(msg.Body)
	txn.ReferenceNumber = e.parseReference(msg.Body)
	txn.TransactionDate = e.parseDate(msg.Body, msg.TimestampMs)
	txn.BalanceAfter = e.parseBalance(msg.Body)
	txn.Description = e.buildDescription(txn)

	return txn
}

func (e *Extractor) parseAmount(body string) *float64 {
	m := e.lib.Amount.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	return parseAmountGroups(m)
}

func (e *Extractor) parseAllAmounts(body string) []float64 {
	var amounts []float64
	for _, m := range e.lib.Amount.FindAllStringSubmatch(body, -1) {
		if amt := parseAmountGroups(m); amt != nil {
			amounts = append(amounts, *amt)
		}
	}
	return amounts
}

// parseAmountGroups handles the two alternations of the amount pattern:
// currency-symbol-then-number and number-then-currency-symbol. Indian
// grouping separators are stripped before parsing.
func parseAmountGroups(m []string) *float64 {
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	if raw == "" {
		return nil
	}
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	amt, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &amt
}

func (e *Extractor) parseDirection(body string) *model.Direction {
	bodyLower := strings.ToLower(body)

	// Statement/due/legal/mandate/declined wording means no money moved,
	// regardless of how transactional the rest of the body reads. Same
	// gate the labeler applies before transaction scoring.
	if e.lib.NonTransaction.MatchString(body) {
		return nil
	}
	for _, re := range e.lib.DirectionExclusions {
		if re.MatchString(bodyLower) {
			return nil
		}
	}

	creditIdx := firstKeywordIndex(bodyLower, e.lib.CreditKeywords)
	debitIdx := firstKeywordIndex(bodyLower, e.lib.DebitKeywords)

	switch {
	case creditIdx >= 0 && debitIdx < 0:
		return directionPtr(model.DirectionCredit)
	case debitIdx >= 0 && creditIdx < 0:
		return directionPtr(model.DirectionDebit)
	case creditIdx >= 0 && debitIdx >= 0:
		// Both present: first textual occurrence wins.
		if creditIdx <= debitIdx {
			return directionPtr(model.DirectionCredit)
		}
		return directionPtr(model.DirectionDebit)
	}
	return nil
}

func firstKeywordIndex(bodyLower string, keywords []string) int {
	first := -1
	for _, kw := range keywords {
		if idx := strings.Index(bodyLower, kw); idx >= 0 && (first < 0 || idx < first) {
			first = idx
		}
	}
	return first
}

func (e *Extractor) parseAccount(body string) *string {
	if m := e.lib.AccountCapture.FindStringSubmatch(body); m != nil {
		return stringPtr(strings.TrimSpace(m[1]))
	}
	if m := e.lib.CardCapture.FindStringSubmatch(body); m != nil {
		return stringPtr(strings.TrimSpace(m[1]))
	}
	return nil
}

func (e *Extractor) parseBank(sender, body string) *string {
	senderUpper := strings.ToUpper(sender)
	bodyUpper := strings.ToUpper(body)

	for _, code := range e.lib.BankCodes {
		if strings.Contains(senderUpper, code) || strings.Contains(bodyUpper, code) {
			return stringPtr(e.lib.BankNames[code])
		}
	}

	if m := e.lib.BodyBankToken.FindStringSubmatch(bodyUpper); m != nil {
		if name, ok := e.lib.BankNames[m[1]]; ok {
			return stringPtr(name)
		}
		return stringPtr(m[1])
	}

	// "- BANK NAME" footer, a very common SMS convention.
	if m := e.lib.TrailingBank.FindStringSubmatch(strings.TrimSpace(body)); m != nil {
		name := strings.TrimSpace(m[1])
		if len(name) > 2 && len(name) < 40 {
			return stringPtr(name)
		}
	}

	return nil
}

func (e *Extractor) parseCounterparty(body string) *string {
	if m := e.lib.Counterparty.FindStringSubmatch(body); m != nil {
		name := strings.TrimSpace(m[1])
		if !isStopword(name, "your", "the", "a", "an", "rs", "inr") {
			return stringPtr(name)
		}
	}
	if m := e.lib.Merchant.FindStringSubmatch(body); m != nil {
		name := strings.TrimSpace(m[1])
		if !isStopword(name, "your", "the", "a", "an") {
			return stringPtr(name)
		}
	}
	return nil
}

func isStopword(name string, stopwords ...string) bool {
	lower := strings.ToLower(name)
	for _, sw := range stopwords {
		if lower == sw {
			return true
		}
	}
	return false
}

func (e *Extractor) parsePaymentMethod(body string) *string {
	for _, pm := range e.lib.PaymentMethods {
		if pm.Regex.MatchString(body) {
			return stringPtr(pm.Name)
		}
	}
	return nil
}

func (e *Extractor) parseReference(body string) *string {
	if m := e.lib.UPIReference.FindStringSubmatch(body); m != nil {
		return stringPtr(m[1])
	}
	if m := e.lib.GenericReference.FindStringSubmatch(body); m != nil {
		return stringPtr(m[1])
	}
	return nil
}

func (e *Extractor) parseDate(body string, timestampMs int64) *string {
	for _, re := range e.lib.Dates {
		if m := re.FindStringSubmatch(body); m != nil {
			return stringPtr(m[1])
		}
	}
	if timestampMs > 0 {
		return stringPtr(time.UnixMilli(timestampMs).Format("02-01-2006"))
	}
	return nil
}

func (e *Extractor) parseBalance(body string) *float64 {
	m := e.lib.BalanceCapture.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	raw := strings.TrimSpace(strings.ReplaceAll(m[1], ",", ""))
	bal, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &bal
}

// buildDescription synthesizes a one-line summary from whatever fields
// were recovered, falling back to the first 100 characters of the body.
func (e *Extractor) buildDescription(txn model.ExtractedTransaction) string {
	var parts []string
	if txn.Direction != nil {
		parts = append(parts, capitalize(string(*txn.Direction)))
	}
	if txn.Amount != nil {
		parts = append(parts, "Rs."+strconv.FormatFloat(*txn.Amount, 'f', -1, 64))
	}
	if txn.Counterparty != nil {
		prep := "from"
		if txn.Direction != nil && *txn.Direction == model.DirectionDebit {
			prep = "to"
		}
		parts = append(parts, prep+" "+*txn.Counterparty)
	}
	if txn.PaymentMethod != nil {
		parts = append(parts, "via "+*txn.PaymentMethod)
	}
	if len(parts) > 0 {
		return strings.Join(parts, " ")
	}

	body := []rune(txn.RawBody)
	if len(body) > 100 {
		body = body[:100]
	}
	return string(body)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func stringPtr(s string) *string {
	return &s
}

func directionPtr(d model.Direction) *model.Direction {
	return &d
}
