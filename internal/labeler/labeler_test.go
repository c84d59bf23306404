package labeler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kalyanig/paisa-trail/internal/model"
	"github.com/kalyanig/paisa-trail/internal/patterns"
)

func TestLabel_Cascade(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		sender         string
		wantLabel      model.Label
		wantSubLabel   string
		wantConfidence float64
	}{
		{
			name:           "upi debit with full signal set",
			body:           "Rs.500 debited from A/c XX1234 on 05-02-24 to AMAZON via UPI. Avl Bal Rs.10,000 -HDFC",
			sender:         "HDFC-Bank",
			wantLabel:      model.LabelFinancialTransaction,
			wantSubLabel:   model.SubLabelDebit,
			wantConfidence: 1.0,
		},
		{
			name:           "lottery spam beats transaction wording",
			body:           "Congratulations! You have won lottery. Rs.500 debited from A/c XX1234",
			sender:         "VM-HDFCBK",
			wantLabel:      model.LabelSpam,
			wantSubLabel:   model.SubLabelPhishing,
			wantConfidence: 0.90,
		},
		{
			name:           "lottery prize claim",
			body:           "Congratulations! You have won Rs 5,00,000 lottery prize. Claim now at bit.ly/xyz",
			sender:         "BX-LUCKY",
			wantLabel:      model.LabelSpam,
			wantSubLabel:   model.SubLabelPhishing,
			wantConfidence: 0.90,
		},
		{
			name:           "plain otp",
			body:           "123456 is your OTP. Do not share.",
			sender:         "VM-HDFCBK",
			wantLabel:      model.LabelOTP,
			wantSubLabel:   model.SubLabelVerification,
			wantConfidence: 0.95,
		},
		{
			name:           "transaction otp falls through to transaction scoring",
			body:           "Use OTP 482913 to confirm payment of Rs.4,999 debited from your SBI card",
			sender:         "VM-SBIBNK",
			wantLabel:      model.LabelFinancialTransaction,
			wantSubLabel:   model.SubLabelDebit,
			wantConfidence: 0.80,
		},
		{
			name:           "bill due is an alert despite amount and credit wording",
			body:           "Your credit card bill of Rs.2000 is due on 15-03-24. Pay now.",
			sender:         "",
			wantLabel:      model.LabelFinancialAlert,
			wantSubLabel:   model.SubLabelGeneralAlert,
			wantConfidence: 0.50,
		},
		{
			name:           "statement ready",
			body:           "Your ICICI Bank credit card statement is ready. Total amount due Rs.15,000.",
			sender:         "VM-ICICIB",
			wantLabel:      model.LabelFinancialAlert,
			wantSubLabel:   model.SubLabelStatement,
			wantConfidence: 1.0,
		},
		{
			name:           "emi reminder despite debit wording",
			body:           "EMI reminder: Rs.3,500 will be debited from A/c XX9921 on 05-07-2024. Please pay any outstanding dues.",
			sender:         "VM-BAJFIN",
			wantLabel:      model.LabelFinancialAlert,
			wantSubLabel:   model.SubLabelPaymentReminder,
			wantConfidence: 1.0,
		},
		{
			name:           "card blocked security alert",
			body:           "Your SBI card no. 4412 has been blocked due to suspicious activity.",
			sender:         "VM-SBIBNK",
			wantLabel:      model.LabelFinancialAlert,
			wantSubLabel:   model.SubLabelSecurityAlert,
			wantConfidence: 0.50,
		},
		{
			name:           "both directions present, first mention wins",
			body:           "Rs.5000 transferred from A/c XX1111 and credited to A/c XX2222",
			sender:         "AX-SBIBNK",
			wantLabel:      model.LabelFinancialTransaction,
			wantSubLabel:   model.SubLabelDebit,
			wantConfidence: 1.0,
		},
		{
			name:           "amount and account without direction keywords",
			body:           "Txn of Rs.2,500 on A/c XX1234",
			sender:         "VM-HDFCBK",
			wantLabel:      model.LabelFinancialTransaction,
			wantSubLabel:   model.SubLabelUnknownDirection,
			wantConfidence: 0.70,
		},
		{
			name:           "marketing promo",
			body:           "Flat 50% off on best brands this weekend!",
			sender:         "VM-MYNTRA",
			wantLabel:      model.LabelPromotional,
			wantSubLabel:   model.SubLabelMarketing,
			wantConfidence: 0.80,
		},
		{
			name:           "personal message from phone number",
			body:           "Call me when you reach home",
			sender:         "9876543210",
			wantLabel:      model.LabelPersonal,
			wantSubLabel:   model.SubLabelP2PMessage,
			wantConfidence: 0.70,
		},
		{
			name:           "default informational",
			body:           "Your recharge plan expires tomorrow.",
			sender:         "VK-AIRTEL",
			wantLabel:      model.LabelPromotional,
			wantSubLabel:   model.SubLabelInformational,
			wantConfidence: 0.60,
		},
	}

	labeler := New(patterns.Default())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := labeler.Label(tt.body, tt.sender)
			assert.Equal(t, tt.wantLabel, result.Label)
			assert.Equal(t, tt.wantSubLabel, result.SubLabel)
			assert.Equal(t, model.MethodRuleBased, result.Method)
			assert.InDelta(t, tt.wantConfidence, result.Confidence, 0.001)
		})
	}
}

func TestLabel_NonTransactionGateSuppressesScoring(t *testing.T) {
	// Amount, account, debit keyword and bank sender are all present, so
	// transaction scoring alone would clear its threshold easily. The
	// gate must still keep it out of financial_transaction.
	labeler := New(patterns.Default())

	result := labeler.Label(
		"Payment due: Rs.8,000 will be debited from A/c XX4567 unless cleared.",
		"VM-HDFCBK")

	require.NotEqual(t, model.LabelFinancialTransaction, result.Label)
	assert.Equal(t, model.LabelFinancialAlert, result.Label)
	assert.Equal(t, model.SubLabelPaymentReminder, result.SubLabel)
}

func TestLabel_ConfidenceCappedAtOne(t *testing.T) {
	labeler := New(patterns.Default())

	result := labeler.Label(
		"Rs.500 debited from A/c XX1234 to AMAZON via UPI",
		"VM-HDFCBK")

	assert.LessOrEqual(t, result.Confidence, 1.0)
}
