// Package fraud scores messages for spam likelihood and extracted
// transactions for statistical anomaly against a user's history.
package fraud

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/kalyanig/paisa-trail/internal/model"
	"github.com/kalyanig/paisa-trail/internal/patterns"
)

// Scoring constants, preserved as contractual tunables.
const (
	spamPatternWeight   = 0.30
	spamSenderWeight    = 0.15
	spamURLWeight       = 0.20
	spamThreshold       = 0.30
	anomalyZHighWeight  = 0.40
	anomalyZMidWeight   = 0.20
	anomalyBurstWeight  = 0.30
	anomalyNewCptWeight = 0.10
	anomalyThreshold    = 0.30

	// Anomaly scoring needs at least this many historical amounts.
	minHistoryForStats = 5
	// Debit-burst counting needs at least this many historical entries.
	minHistoryForBurst = 3
	// More than this many debits inside 24 hours is flagged.
	maxDailyDebits = 5
	// Counterparty novelty only fires once the known set is this large.
	minKnownCounterparties = 3

	dayMs = 86400000
)

// Detector is stateless apart from the immutable pattern library and is
// safe for concurrent use. History snapshots are read, never retained.
type Detector struct {
	lib *patterns.Library
}

// New creates a detector backed by the given pattern library.
func New(lib *patterns.Library) *Detector {
	return &Detector{lib: lib}
}

// DetectSpam scores one message for phishing/scam likelihood. A spam
// message is never also anomaly-scored: spam short-circuits the
// pipeline and the record is marked not genuine.
func (d *Detector) DetectSpam(msg model.RawMessage) model.FraudAssessment {
	var (
		confidence float64
		spamType   *model.SpamType
		reasons    []string
	)

	for _, cat := range d.lib.SpamCategories {
		for _, re := range cat.Regexes {
			if re.MatchString(msg.Body) {
				confidence += spamPatternWeight
				t := cat.Type
				spamType = &t
				reasons = append(reasons, cat.Reason)
			}
		}
	}

	// A sender that is neither a recognized shortcode nor a plain phone
	// number, yet talks about banking, is suspicious on its own.
	bodyLower := strings.ToLower(msg.Body)
	if !d.lib.ShortcodeSender.MatchString(msg.Sender) && !d.lib.PhoneSender.MatchString(msg.Sender) {
		if containsAny(bodyLower, "bank", "account", "card", "upi") {
			confidence += spamSenderWeight
			reasons = append(reasons, "Non-standard sender claiming financial content")
		}
	}

	for _, m := range d.lib.URLHost.FindAllStringSubmatch(msg.Body, -1) {
		host := strings.ToLower(m[1])
		if !d.isKnownBankDomain(host) && containsAny(bodyLower, "click", "verify", "update", "kyc") {
			confidence += spamURLWeight
			reasons = append(reasons, fmt.Sprintf("Unknown URL (%s) with urgency language", m[1]))
		}
	}

	if confidence > 1.0 {
		confidence = 1.0
	}
	if confidence < spamThreshold {
		return model.FraudAssessment{Confidence: confidence}
	}
	return model.FraudAssessment{
		IsSpam:     true,
		SpamType:   spamType,
		Confidence: confidence,
		Reasons:    reasons,
	}
}

// DetectAnomaly scores a transaction against the caller's history
// snapshot. With fewer than five historical amounts the detector is
// inert rather than erroring.
func (d *Detector) DetectAnomaly(txn model.ExtractedTransaction, history []model.ExtractedTransaction) model.AnomalyAssessment {
	if txn.Amount == nil || *txn.Amount == 0 || len(history) == 0 {
		return model.AnomalyAssessment{}
	}

	var (
		score   float64
		reasons []string
	)
	amount := *txn.Amount

	amounts := historicalAmounts(history)
	if len(amounts) >= minHistoryForStats {
		mean, std := meanStddev(amounts)
		z := math.Abs(amount-mean) / math.Max(std, 1.0)
		switch {
		case z > 3.0:
			score += anomalyZHighWeight
			reasons = append(reasons, fmt.Sprintf(
				"Amount Rs.%s is %.1f std devs from mean Rs.%.0f", formatAmount(amount), z, mean))
		case z > 2.0:
			score += anomalyZMidWeight
			side := "low"
			if amount > mean {
				side = "high"
			}
			reasons = append(reasons, fmt.Sprintf("Amount Rs.%s is unusually %s", formatAmount(amount), side))
		}
	}

	if isDebit(txn.Direction) && len(history) >= minHistoryForBurst {
		recentDebits := countRecentDebits(history, txn.TimestampMs)
		if recentDebits > maxDailyDebits {
			score += anomalyBurstWeight
			reasons = append(reasons, fmt.Sprintf("%d debits in 24 hours is unusual", recentDebits))
		}
	}

	if txn.Counterparty != nil && *txn.Counterparty != "" {
		known := knownCounterparties(history)
		if _, seen := known[*txn.Counterparty]; !seen && len(known) > minKnownCounterparties {
			score += anomalyNewCptWeight
			reasons = append(reasons, "New counterparty: "+*txn.Counterparty)
		}
	}

	if score > 1.0 {
		score = 1.0
	}
	return model.AnomalyAssessment{
		IsAnomaly: score >= anomalyThreshold,
		Score:     score,
		Reasons:   reasons,
	}
}

func historicalAmounts(history []model.ExtractedTransaction) []float64 {
	amounts := make([]float64, 0, len(history))
	for _, t := range history {
		if t.Amount != nil && *t.Amount != 0 {
			amounts = append(amounts, *t.Amount)
		}
	}
	return amounts
}

// meanStddev returns the mean and population standard deviation.
func meanStddev(values []float64) (mean, std float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var variance float64
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	variance /= float64(len(values))
	return mean, math.Sqrt(variance)
}

func countRecentDebits(history []model.ExtractedTransaction, currentTs int64) int {
	count := 0
	for _, t := range history {
		if isDebit(t.Direction) && abs64(t.TimestampMs-currentTs) < dayMs {
			count++
		}
	}
	return count
}

func knownCounterparties(history []model.ExtractedTransaction) map[string]struct{} {
	known := make(map[string]struct{})
	for _, t := range history {
		if t.Counterparty != nil && *t.Counterparty != "" {
			known[*t.Counterparty] = struct{}{}
		}
	}
	return known
}

func isDebit(d *model.Direction) bool {
	return d != nil && *d == model.DirectionDebit
}

func (d *Detector) isKnownBankDomain(host string) bool {
	for _, domain := range d.lib.KnownBankDomains {
		if strings.Contains(host, domain) {
			return true
		}
	}
	return false
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func formatAmount(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
