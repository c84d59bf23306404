package model

// Label is the primary classification assigned to a message. Every
// message receives exactly one label; there is no unclassified state.
type Label string

// Primary labels.
const (
	LabelFinancialTransaction Label = "financial_transaction"
	LabelFinancialAlert       Label = "financial_alert"
	LabelOTP                  Label = "otp"
	LabelPromotional          Label = "promotional"
	LabelPersonal             Label = "personal"
	LabelSpam                 Label = "spam"
)

// Sub-labels nested under the primary labels.
const (
	SubLabelCredit           = "credit"
	SubLabelDebit            = "debit"
	SubLabelUnknownDirection = "unknown_direction"
	SubLabelPhishing         = "phishing"
	SubLabelVerification     = "verification"
	SubLabelStatement        = "statement"
	SubLabelPaymentReminder  = "payment_reminder"
	SubLabelBalanceInfo      = "balance_info"
	SubLabelSecurityAlert    = "security_alert"
	SubLabelGeneralAlert     = "general_alert"
	SubLabelMarketing        = "marketing"
	SubLabelInformational    = "informational"
	SubLabelP2PMessage       = "p2p_message"
)

// Method indicates which classifier produced a result.
type Method string

// Classification methods.
const (
	MethodRuleBased   Method = "rule_based"
	MethodStatistical Method = "statistical"
)

// ClassificationResult is the outcome of classifying one message.
type ClassificationResult struct {
	Label      Label
	SubLabel   string
	Method     Method
	Confidence float64 // 0.0 - 1.0
}
