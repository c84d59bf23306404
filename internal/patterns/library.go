// Package patterns holds the compiled pattern tables shared by the
// labeler, extractor and fraud detector. A Library is built once at
// process start and never mutated afterwards, so it is safe to share
// across goroutines without locking.
package patterns

import (
	"regexp"
	"sync"

	"github.com/kalyanig/paisa-trail/internal/model"
)

// SpamCategory groups phishing patterns that share a spam type and a
// human-readable reason.
type SpamCategory struct {
	Type    model.SpamType
	Reason  string
	Regexes []*regexp.Regexp
}

// PaymentMethod pairs a payment-rail name with its detection pattern.
// Order in the Library slice is the detection precedence.
type PaymentMethod struct {
	Name  string
	Regex *regexp.Regexp
}

// Library is the immutable table of compiled patterns covering Indian
// bank, wallet, UPI and telecom message vocabulary. Construct with New
// or share the process-wide Default.
type Library struct {
	// Sender shapes.
	BankSender      *regexp.Regexp
	ShortcodeSender *regexp.Regexp
	PhoneSender     *regexp.Regexp

	// Transaction signals.
	Amount          *regexp.Regexp // capture groups: symbol-first, symbol-last
	Account         *regexp.Regexp
	AccountCapture  *regexp.Regexp
	CardCapture     *regexp.Regexp
	CreditIndicator *regexp.Regexp
	DebitIndicator  *regexp.Regexp
	Balance         *regexp.Regexp
	BalanceCapture  *regexp.Regexp

	// Payment rails.
	UPI            *regexp.Regexp
	NEFT           *regexp.Regexp
	IMPS           *regexp.Regexp
	RTGS           *regexp.Regexp
	Card           *regexp.Regexp
	Wallet         *regexp.Regexp
	PaymentMethods []PaymentMethod

	// Non-transaction cues.
	OTP            *regexp.Regexp
	Spam           *regexp.Regexp
	Promo          *regexp.Regexp
	NonTransaction *regexp.Regexp
	// Body-level exclusions re-checked by the extractor before it will
	// commit to a direction (bill-due, legal, mandate, declined wording).
	DirectionExclusions []*regexp.Regexp

	// Extraction helpers.
	UPIReference     *regexp.Regexp
	GenericReference *regexp.Regexp
	Counterparty     *regexp.Regexp
	Merchant         *regexp.Regexp
	BodyBankToken    *regexp.Regexp
	TrailingBank     *regexp.Regexp
	Dates            []*regexp.Regexp

	// Fraud signals.
	SpamCategories []SpamCategory
	URLHost        *regexp.Regexp
	URL            *regexp.Regexp
	URLToken       *regexp.Regexp
	PhoneInBody    *regexp.Regexp
	Whitespace     *regexp.Regexp

	// Static vocabulary.
	BankCodes         []string // lookup order for BankNames containment matching
	BankNames         map[string]string
	KnownBankDomains  []string
	CreditKeywords    []string
	DebitKeywords     []string
	FinancialKeywords []string
}

// New compiles a fresh pattern library. Patterns are constants, so a
// compile failure is a programming error and panics via MustCompile.
func New() *Library {
	return &Library{
		BankSender: regexp.MustCompile(
			`(?i)(SBI|HDFC|ICICI|AXIS|KOTAK|BOB|PNB|UNION|CANARA|CENTBK|IPPB|` +
				`IDBI|INDBNK|FEDERAL|BARODA|SYNDCT|ANDHRA|ALLAHABAD|UCO|IOB|` +
				`MAHABK|DENABNK|VIJAYA|CORPBNK|INDUSIND|YESBNK|BANDHAN|RBL|` +
				`CITI|HSBC|STANCHART|AMEX|PAYTM|PHONEPE|GPAY|AMAZONPAY|` +
				`BAJFIN|TATACAP|MUTHOOT|MANAPPURAM|LICHFL|` +
				`SBIUPI|HDFCUPI|ICICUPI|AXISUPI|BOBUPI|PNBUPI|` +
				`SBICRD|HDFCCC|ICICICC|AXISCC|KOTAKCC|` +
				`SBIBNK|HDFCBN|ICICBN|AXISBN)`),
		ShortcodeSender: regexp.MustCompile(`^[A-Z]{2}-[A-Z]+`),
		PhoneSender:     regexp.MustCompile(`^\+?\d{10,}$`),

		Amount: regexp.MustCompile(
			`(?i)(?:Rs\.?|INR|₹)\s*([\d,]+(?:\.\d{1,2})?)` +
				`|([\d,]+(?:\.\d{1,2})?)\s*(?:Rs\.?|INR|₹)`),
		Account: regexp.MustCompile(
			`(?i)(?:a/?c|account|acct|card)\s*(?:no\.?|number|#|ending)?\s*` +
				`[:\s]*[Xx*]*\s*\d{3,}`),
		AccountCapture: regexp.MustCompile(
			`(?i)(?:a/?c|account|acct)\s*(?:no\.?|number|#)?\s*` +
				`[:\s]*([Xx*]*\s*\d{3,})`),
		CardCapture: regexp.MustCompile(
			`(?i)(?:card|debit\s*card|credit\s*card)\s*` +
				`(?:ending\s*(?:with|in)?|no\.?|number)?\s*` +
				`[:\s]*(?:[Xx*]*\s*)?(\d{2,6})`),
		CreditIndicator: regexp.MustCompile(
			`(?i)\b(credited|credit|received|deposited|added|refund(?:ed)?|cashback|reversed|cr\b)`),
		DebitIndicator: regexp.MustCompile(
			`(?i)\b(debited|debit|withdrawn|spent|paid|transferred|purchase|charged|dr\b)`),
		Balance: regexp.MustCompile(
			`(?i)\b(balance|bal|avl\.?\s*bal|available\s*bal(?:ance)?|` +
				`outstanding|total\s*(?:amt|amount)\s*due|min\s*(?:amt|amount)\s*due)\b`),
		BalanceCapture: regexp.MustCompile(
			`(?i)(?:(?:avl\.?\s*|available\s*)?bal(?:ance)?\.?)\s*` +
				`(?:is|:)?\s*` +
				`(?:Rs\.?|INR|₹)?\s*([\d,]+(?:\.\d{1,2})?)`),

		UPI:    regexp.MustCompile(`(?i)\bUPI\b|VPA|@\w+bank|@\w+psp`),
		NEFT:   regexp.MustCompile(`(?i)\bNEFT\b`),
		IMPS:   regexp.MustCompile(`(?i)\bIMPS\b`),
		RTGS:   regexp.MustCompile(`(?i)\bRTGS\b`),
		Card:   regexp.MustCompile(`(?i)\b(card|debit\s*card|credit\s*card|ATM|POS|swipe)\b`),
		Wallet: regexp.MustCompile(`(?i)\b(wallet|paytm|phonepe|gpay|amazon\s*pay|freecharge|mobikwik)\b`),
		PaymentMethods: []PaymentMethod{
			{Name: "UPI", Regex: regexp.MustCompile(`(?i)\bUPI\b`)},
			{Name: "NEFT", Regex: regexp.MustCompile(`(?i)\bNEFT\b`)},
			{Name: "IMPS", Regex: regexp.MustCompile(`(?i)\bIMPS\b`)},
			{Name: "RTGS", Regex: regexp.MustCompile(`(?i)\bRTGS\b`)},
			{Name: "ATM", Regex: regexp.MustCompile(`(?i)\bATM\b`)},
			{Name: "POS", Regex: regexp.MustCompile(`(?i)\bPOS\b`)},
			{Name: "NACH", Regex: regexp.MustCompile(`(?i)\bNACH\b`)},
			{Name: "ECS", Regex: regexp.MustCompile(`(?i)\bECS\b`)},
			{Name: "Card", Regex: regexp.MustCompile(`(?i)\b(?:debit|credit)\s*card\b`)},
			{Name: "Wallet", Regex: regexp.MustCompile(`(?i)\b(?:wallet|paytm|phonepe|gpay)\b`)},
			{Name: "Net Banking", Regex: regexp.MustCompile(`(?i)\bnet\s*banking\b`)},
			{Name: "DBT", Regex: regexp.MustCompile(`(?i)\bDBT(?:L)?\b`)},
		},

		OTP: regexp.MustCompile(
			`(?i)\b(OTP|one.?time|verification\s*code|security\s*code|pin\s*is|code\s*is|password\s*is)\b`),
		Spam: regexp.MustCompile(
			`(?i)(congratulations.*won|winner|lottery|crore.*prize|` +
				`lakh.*prize|claim\s*now|lucky\s*draw|free\s*gift|` +
				`urgent.*kyc.*expire|suspend.*account.*click|` +
				`verify.*immediately.*link)`),
		Promo: regexp.MustCompile(
			`(?i)(offer|discount|sale|cashback\s*up\s*to|off\s*on|` +
				`subscribe|install\s*now|download|` +
				`coupon|voucher|flat\s*\d+%|upto\s*\d+%|` +
				`exclusive|limited\s*time|special\s*offer|` +
				`free\s*trial|premium\s*free|unlock)`),
		NonTransaction: regexp.MustCompile(
			`(?i)(statement.*generated|statement.*ready|` +
				`emi\s*reminder|payment\s*reminder|` +
				`payment\s*due|overdue|` +
				`credit\s*score|cibil|` +
				`insurance.*renew|policy.*expire|` +
				`loan\s*(?:offer|approved|eligible)|` +
				`pre.?approved|` +
				`upgrade\s*(?:card|limit)|` +
				`increase.*limit|` +
				`reward\s*points)`),
		DirectionExclusions: []*regexp.Regexp{
			regexp.MustCompile(`(?:bill|amount|total|min|outstanding|amt)[.\s]*(?:due|payable)`),
			regexp.MustCompile(`statement.*(?:generated|ready|available)`),
			regexp.MustCompile(`legal\s*(?:action|notice)`),
			regexp.MustCompile(`despite.*reminder`),
			regexp.MustCompile(`several\s*reminders`),
			regexp.MustCompile(`(?:pay|click).*quickpay`),
			regexp.MustCompile(`please\s*(?:pay|clear|settle)`),
			regexp.MustCompile(`further\s*delay`),
			regexp.MustCompile(`mandate.*(?:revoked|failed|rejected)`),
			regexp.MustCompile(`(?:txn|transaction).*(?:declined|failed)`),
			regexp.MustCompile(`(?:declined|failed).*insufficient`),
			regexp.MustCompile(`fund\s*bal|securities\s*bal`),
			regexp.MustCompile(`reported.*(?:fund|securities)`),
			regexp.MustCompile(`is\s+due\s+on`),
			regexp.MustCompile(`payable\s*by`),
		},

		UPIReference: regexp.MustCompile(
			`(?i)(?:UPI\s*(?:Ref|ref\.?|reference|txn)\s*(?:no\.?|number|#|id)?` +
				`|Ref\s*(?:No\.?|number|#)?)\s*[:\s]*(\d{6,})`),
		GenericReference: regexp.MustCompile(`(?i)Ref\.?\s*(?:No\.?\s*)?[:\s]*(\w{6,})`),
		Counterparty: regexp.MustCompile(
			`(?i)(?:to|from|transfer\s*(?:to|from)|for\s*UPI\s*to|UPI\s*(?:to|from))\s+` +
				`([A-Z][A-Za-z\s.]+?)(?:\s+(?:on|Ref|ref|via|at|for|Rs|INR|UPI|$))`),
		Merchant: regexp.MustCompile(
			`(?i)(?:at|@)\s+([A-Za-z][A-Za-z\s.&'-]+?)(?:\s+(?:on|Ref|ref|Rs|INR|$))`),
		BodyBankToken: regexp.MustCompile(
			`\b(SBI|HDFC|ICICI|AXIS|KOTAK|BOB|PNB|CENTBK|IPPB|IDBI)\b`),
		TrailingBank: regexp.MustCompile(`-\s*([A-Za-z\s]+?)$`),
		Dates: []*regexp.Regexp{
			regexp.MustCompile(`(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})`),
			regexp.MustCompile(`(?i)(\d{1,2}(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\d{2,4})`),
			regexp.MustCompile(`(?i)(\d{1,2}\s*(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s*\d{2,4})`),
			regexp.MustCompile(`(?i)((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2},?\s*\d{2,4})`),
		},

		SpamCategories: spamCategories(),
		URLHost:        regexp.MustCompile(`https?://([^\s/]+)`),
		URL:            regexp.MustCompile(`https?://`),
		URLToken:       regexp.MustCompile(`https?://\S+`),
		PhoneInBody:    regexp.MustCompile(`\b\d{10}\b`),
		Whitespace:     regexp.MustCompile(`\s+`),

		BankCodes:        bankCodes(),
		BankNames:        bankNames(),
		KnownBankDomains: knownBankDomains(),
		CreditKeywords: []string{
			"credited", "received", "deposited", "refund", "cashback", "reversed", "added",
		},
		DebitKeywords: []string{
			"debited", "withdrawn", "spent", "paid", "transferred", "purchase", "charged", "deducted",
		},
		FinancialKeywords: []string{
			"rs", "inr", "credited", "debited", "a/c", "account", "balance",
			"transaction", "transfer", "payment", "upi", "neft", "imps",
			"card", "emi", "loan", "bank",
		},
	}
}

func spamCategories() []SpamCategory {
	return []SpamCategory{
		{
			Type:   model.SpamLotteryScam,
			Reason: "Contains lottery/prize scam language",
			Regexes: []*regexp.Regexp{
				regexp.MustCompile(`(?i)congratulations.*(?:won|winner|prize|crore|lakh)`),
				regexp.MustCompile(`(?i)lucky\s*(?:draw|winner|customer)`),
				regexp.MustCompile(`(?i)(?:won|win)\s*(?:Rs|INR|₹)?\s*[\d,]+\s*(?:crore|lakh)`),
			},
		},
		{
			Type:   model.SpamFakeBankAlert,
			Reason: "Contains fake bank alert / KYC scam language",
			Regexes: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:kyc|pan|aadhar|aadhaar)\s*(?:expired?|expir|update|link|verify|suspend)`),
				regexp.MustCompile(`(?i)(?:account|a/c)\s*(?:will\s*be\s*)?(?:block|suspend|close|deactivat)`),
				regexp.MustCompile(`(?i)click\s*(?:here|below|link).*(?:verify|update|kyc|pan|aadhar)`),
			},
		},
		{
			Type:   model.SpamLoanScam,
			Reason: "Contains suspicious loan offer",
			Regexes: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:instant|quick|fast)\s*(?:loan|cash)\s*(?:approved|available)`),
				regexp.MustCompile(`(?i)pre.?approved\s*(?:loan|credit)\s*(?:of|upto|up\s*to)\s*(?:Rs|INR)`),
			},
		},
		{
			Type:   model.SpamPhishingURL,
			Reason: "Contains shortened/suspicious URL",
			Regexes: []*regexp.Regexp{
				regexp.MustCompile(`(?i)(?:bit\.ly|tinyurl|goo\.gl|rb\.gy|is\.gd)/`),
			},
		},
		{
			Type:   model.SpamOTPTheft,
			Reason: "Attempting OTP theft",
			Regexes: []*regexp.Regexp{
				regexp.MustCompile(`(?i)share\s*(?:your\s*)?otp.*(?:to\s*(?:verify|confirm|complete))`),
				regexp.MustCompile(`(?i)(?:call|contact)\s*(?:us|customer).*(?:otp|password)`),
			},
		},
	}
}

func bankCodes() []string {
	return []string{
		"SBI", "HDFC", "ICICI", "AXIS", "KOTAK", "BOB", "PNB", "UNION",
		"CANARA", "CENTBK", "IPPB", "IDBI", "INDBNK", "FEDERAL", "BARODA",
		"UCO", "IOB", "INDUSIND", "YESBNK", "BANDHAN", "RBL", "CITI",
		"HSBC", "STANCHART", "AMEX", "PAYTM", "BAJFIN", "TATACAP",
		"MUTHOOT", "LICHFL", "CBOI",
	}
}

func bankNames() map[string]string {
	return map[string]string{
		"SBI":       "State Bank of India",
		"HDFC":      "HDFC Bank",
		"ICICI":     "ICICI Bank",
		"AXIS":      "Axis Bank",
		"KOTAK":     "Kotak Mahindra Bank",
		"BOB":       "Bank of Baroda",
		"PNB":       "Punjab National Bank",
		"UNION":     "Union Bank of India",
		"CANARA":    "Canara Bank",
		"CENTBK":    "Central Bank of India",
		"IPPB":      "India Post Payments Bank",
		"IDBI":      "IDBI Bank",
		"INDBNK":    "Indian Bank",
		"FEDERAL":   "Federal Bank",
		"BARODA":    "Bank of Baroda",
		"UCO":       "UCO Bank",
		"IOB":       "Indian Overseas Bank",
		"INDUSIND":  "IndusInd Bank",
		"YESBNK":    "Yes Bank",
		"BANDHAN":   "Bandhan Bank",
		"RBL":       "RBL Bank",
		"CITI":      "Citibank",
		"HSBC":      "HSBC",
		"STANCHART": "Standard Chartered",
		"AMEX":      "American Express",
		"PAYTM":     "Paytm Payments Bank",
		"BAJFIN":    "Bajaj Finance",
		"TATACAP":   "Tata Capital",
		"MUTHOOT":   "Muthoot Finance",
		"LICHFL":    "LIC Housing Finance",
		"CBOI":      "Central Bank of India",
	}
}

func knownBankDomains() []string {
	return []string{
		"sbicard.com", "onlinesbi.com", "hdfcbank.com", "icicibank.com",
		"axisbank.com", "kotak.com", "bobfinancial.com", "pnbindia.in",
		"unionbankofindia.co.in", "canarabank.com", "ippbonline.com",
		"idbidirect.in", "federalbank.co.in", "yesbank.in", "rblbank.com",
		"paytm.com", "phonepe.com", "airtel.in", "jio.com",
	}
}

var defaultLibrary = sync.OnceValue(New)

// Default returns the shared process-wide library.
func Default() *Library {
	return defaultLibrary()
}
