// Package labeler assigns a primary label and sub-label to a message by
// running a fixed-priority rule cascade over the pattern library.
package labeler

import (
	"strings"

	"github.com/kalyanig/paisa-trail/internal/model"
	"github.com/kalyanig/paisa-trail/internal/patterns"
)

// Scoring constants. These are contractual: they were tuned against a
// large message corpus and downstream thresholds depend on them.
const (
	spamConfidence    = 0.90
	otpConfidence     = 0.95
	promoConfidence   = 0.80
	p2pConfidence     = 0.70
	defaultConfidence = 0.60

	weightAmount     = 0.25
	weightAccount    = 0.20
	weightDirection  = 0.30
	weightBankSender = 0.15
	weightRail       = 0.10

	alertWeightBankSender     = 0.30
	alertWeightAmount         = 0.15
	alertWeightBalance        = 0.20
	alertWeightNonTransaction = 0.25
	alertWeightAccount        = 0.10

	transactionThreshold = 0.50
	alertThreshold       = 0.40
	confidenceBoost      = 0.10
)

// Labeler classifies messages deterministically. It holds only a
// reference to the immutable pattern library and is safe for concurrent
// use.
type Labeler struct {
	lib *patterns.Library
}

// New creates a labeler backed by the given pattern library.
func New(lib *patterns.Library) *Labeler {
	return &Labeler{lib: lib}
}

// Label classifies one message body and sender. It is total: every
// input yields a result, falling back to promotional/informational.
//
// The cascade order is load-bearing. In particular the non-transaction
// gate must suppress transaction scoring so that bill reminders and
// legal notices, which often carry amount+account+debit wording, are
// never filed as completed transactions.
func (l *Labeler) Label(body, sender string) model.ClassificationResult {
	bodyLower := strings.ToLower(strings.TrimSpace(body))
	senderUpper := strings.ToUpper(strings.TrimSpace(sender))

	// 1. Spam gate.
	if l.lib.Spam.MatchString(body) {
		return ruleResult(model.LabelSpam, model.SubLabelPhishing, spamConfidence)
	}

	hasAmount := l.lib.Amount.MatchString(body)
	hasCredit := l.lib.CreditIndicator.MatchString(body)
	hasDebit := l.lib.DebitIndicator.MatchString(body)

	// 2. OTP gate. OTPs carrying an amount plus a credit/debit keyword
	// are transaction OTPs and fall through to transaction scoring.
	if l.lib.OTP.MatchString(body) {
		if !(hasAmount && (hasCredit || hasDebit)) {
			return ruleResult(model.LabelOTP, model.SubLabelVerification, otpConfidence)
		}
	}

	hasAccount := l.lib.Account.MatchString(body)
	isBankSender := l.lib.BankSender.MatchString(senderUpper)
	hasRail := l.lib.UPI.MatchString(body) || l.lib.NEFT.MatchString(body) || l.lib.IMPS.MatchString(body)
	hasBalance := l.lib.Balance.MatchString(body)

	// 3. Non-transaction gate: financial language without money movement.
	// Covers both the alert-style wording (statements, reminders, offers)
	// and the exclusion wording shared with the extractor (bill-due,
	// legal notices, mandate failures, declined transactions).
	isNonTransaction := l.lib.NonTransaction.MatchString(body)
	if !isNonTransaction {
		for _, re := range l.lib.DirectionExclusions {
			if re.MatchString(bodyLower) {
				isNonTransaction = true
				break
			}
		}
	}

	// 4. Transaction scoring, suppressed entirely by the gate above.
	var transactionScore float64
	if hasAmount {
		transactionScore += weightAmount
	}
	if hasAccount {
		transactionScore += weightAccount
	}
	if hasCredit || hasDebit {
		transactionScore += weightDirection
	}
	if isBankSender {
		transactionScore += weightBankSender
	}
	if hasRail {
		transactionScore += weightRail
	}

	if transactionScore >= transactionThreshold && !isNonTransaction {
		subLabel := model.SubLabelUnknownDirection
		switch {
		case hasCredit && !hasDebit:
			subLabel = model.SubLabelCredit
		case hasDebit && !hasCredit:
			subLabel = model.SubLabelDebit
		case hasCredit && hasDebit:
			subLabel = l.firstMention(body)
		}
		return ruleResult(model.LabelFinancialTransaction, subLabel, capped(transactionScore+confidenceBoost))
	}

	// 5. Financial-alert scoring.
	var alertScore float64
	if isBankSender {
		alertScore += alertWeightBankSender
	}
	if hasAmount {
		alertScore += alertWeightAmount
	}
	if hasBalance {
		alertScore += alertWeightBalance
	}
	if isNonTransaction {
		alertScore += alertWeightNonTransaction
	}
	if hasAccount {
		alertScore += alertWeightAccount
	}

	if alertScore >= alertThreshold {
		subLabel := model.SubLabelGeneralAlert
		switch {
		case strings.Contains(bodyLower, "statement"):
			subLabel = model.SubLabelStatement
		case strings.Contains(bodyLower, "emi"),
			strings.Contains(bodyLower, "payment due"),
			strings.Contains(bodyLower, "overdue"):
			subLabel = model.SubLabelPaymentReminder
		case strings.Contains(bodyLower, "balance"), strings.Contains(bodyLower, "bal"):
			subLabel = model.SubLabelBalanceInfo
		case strings.Contains(bodyLower, "block"), strings.Contains(bodyLower, "suspend"):
			subLabel = model.SubLabelSecurityAlert
		}
		return ruleResult(model.LabelFinancialAlert, subLabel, capped(alertScore+confidenceBoost))
	}

	// 6. Promotional gate.
	if l.lib.Promo.MatchString(body) {
		return ruleResult(model.LabelPromotional, model.SubLabelMarketing, promoConfidence)
	}

	// 7. Personal fallback: bare phone-number sender.
	if l.lib.PhoneSender.MatchString(strings.TrimSpace(sender)) {
		return ruleResult(model.LabelPersonal, model.SubLabelP2PMessage, p2pConfidence)
	}

	// 8. Default.
	return ruleResult(model.LabelPromotional, model.SubLabelInformational, defaultConfidence)
}

// firstMention resolves bodies that carry both credit and debit wording:
// whichever indicator occurs earlier in the text wins.
func (l *Labeler) firstMention(body string) string {
	creditPos := l.lib.CreditIndicator.FindStringIndex(body)
	debitPos := l.lib.DebitIndicator.FindStringIndex(body)
	if debitPos[0] < creditPos[0] {
		return model.SubLabelDebit
	}
	return model.SubLabelCredit
}

func ruleResult(label model.Label, subLabel string, confidence float64) model.ClassificationResult {
	return model.ClassificationResult{
		Label:      label,
		SubLabel:   subLabel,
		Method:     model.MethodRuleBased,
		Confidence: confidence,
	}
}

func capped(score float64) float64 {
	if score > 1.0 {
		return 1.0
	}
	return score
}
