package classify

import (
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/kalyanig/paisa-trail/internal/patterns"
)

// FeatureVector is the hand-crafted feature set handed to the trained
// model alongside the cleaned text. The booleans mirror the pattern
// groups the rule cascade evaluates, so model and rules see the same
// signals.
type FeatureVector struct {
	CleanText string

	BodyLength     int
	WordCount      int
	HasURL         bool
	HasPhoneNumber bool

	HasAmount     bool
	HasAccount    bool
	HasCreditWord bool
	HasDebitWord  bool
	HasBalance    bool

	HasUPI    bool
	HasNEFT   bool
	HasIMPS   bool
	HasRTGS   bool
	HasCard   bool
	HasWallet bool

	IsBankSender      bool
	IsShortcodeSender bool
	IsPhoneSender     bool

	HasOTP bool

	FinancialKeywordCount int
}

// FeatureExtractor builds feature vectors. The financial-vocabulary
// counter uses an Aho-Corasick matcher so one pass over the body covers
// the whole keyword set.
type FeatureExtractor struct {
	lib      *patterns.Library
	keywords *ahocorasick.Matcher
}

// NewFeatureExtractor creates a feature extractor backed by the given
// pattern library.
func NewFeatureExtractor(lib *patterns.Library) *FeatureExtractor {
	return &FeatureExtractor{
		lib:      lib,
		keywords: ahocorasick.NewStringMatcher(lib.FinancialKeywords),
	}
}

// Extract computes the feature vector for one message.
func (f *FeatureExtractor) Extract(body, sender string) FeatureVector {
	clean := f.cleanText(body)
	senderUpper := strings.ToUpper(sender)

	return FeatureVector{
		CleanText: clean,

		BodyLength:     len(clean),
		WordCount:      len(strings.Fields(clean)),
		HasURL:         f.lib.URL.MatchString(body),
		HasPhoneNumber: f.lib.PhoneInBody.MatchString(body),

		HasAmount:     f.lib.Amount.MatchString(body),
		HasAccount:    f.lib.Account.MatchString(body),
		HasCreditWord: f.lib.CreditIndicator.MatchString(body),
		HasDebitWord:  f.lib.DebitIndicator.MatchString(body),
		HasBalance:    f.lib.Balance.MatchString(body),

		HasUPI:    f.lib.UPI.MatchString(body),
		HasNEFT:   f.lib.NEFT.MatchString(body),
		HasIMPS:   f.lib.IMPS.MatchString(body),
		HasRTGS:   f.lib.RTGS.MatchString(body),
		HasCard:   f.lib.Card.MatchString(body),
		HasWallet: f.lib.Wallet.MatchString(body),

		IsBankSender:      f.lib.BankSender.MatchString(senderUpper),
		IsShortcodeSender: f.lib.ShortcodeSender.MatchString(senderUpper),
		IsPhoneSender:     f.lib.PhoneSender.MatchString(sender),

		HasOTP: f.lib.OTP.MatchString(body),

		// Distinct keywords present, not total occurrences.
		FinancialKeywordCount: len(f.keywords.Match([]byte(strings.ToLower(clean)))),
	}
}

func (f *FeatureExtractor) cleanText(body string) string {
	clean := f.lib.URLToken.ReplaceAllString(body, "")
	clean = f.lib.Whitespace.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}
