package model

// SpamType categorizes why a message was judged to be spam.
type SpamType string

// Spam categories, in the order the detector checks them.
const (
	SpamLotteryScam   SpamType = "lottery_scam"
	SpamFakeBankAlert SpamType = "fake_bank_alert"
	SpamLoanScam      SpamType = "loan_scam"
	SpamPhishingURL   SpamType = "phishing_url"
	SpamOTPTheft      SpamType = "otp_theft"
)

// FraudAssessment is the spam verdict for one message.
type FraudAssessment struct {
	IsSpam     bool
	SpamType   *SpamType
	Confidence float64
	Reasons    []string
}

// AnomalyAssessment scores how statistically unusual a transaction is
// against the caller-supplied history snapshot.
type AnomalyAssessment struct {
	IsAnomaly bool
	Score     float64 // 0.0 - 1.0
	Reasons   []string
}
