package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault_SharedInstance(t *testing.T) {
	assert.Same(t, Default(), Default())
}

func TestBankCodes_AllHaveNames(t *testing.T) {
	lib := New()
	for _, code := range lib.BankCodes {
		assert.Contains(t, lib.BankNames, code, "bank code %s has no full name", code)
	}
}

func TestSenderShapes(t *testing.T) {
	lib := New()

	assert.True(t, lib.ShortcodeSender.MatchString("VM-HDFCBK"))
	assert.False(t, lib.ShortcodeSender.MatchString("9876543210"))

	assert.True(t, lib.PhoneSender.MatchString("9876543210"))
	assert.True(t, lib.PhoneSender.MatchString("+919876543210"))
	assert.False(t, lib.PhoneSender.MatchString("VM-HDFCBK"))
}
