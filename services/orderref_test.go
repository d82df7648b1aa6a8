package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-bot/models"
)

func TestExtractOrderRef_Deposit(t *testing.T) {
	ref := ExtractOrderRef("my order s052602010000079447000 is stuck")
	require.NotNil(t, ref)
	assert.Equal(t, "s052602010000079447000", ref.Number)
	assert.Equal(t, models.LedgerDeposit, ref.Ledger)
}

func TestExtractOrderRef_Withdrawal(t *testing.T) {
	ref := ExtractOrderRef("w051234567890123456789 not received")
	require.NotNil(t, ref)
	assert.Equal(t, "w051234567890123456789", ref.Number)
	assert.Equal(t, models.LedgerWithdrawal, ref.Ledger)
}

func TestExtractOrderRef_UppercaseNormalized(t *testing.T) {
	ref := ExtractOrderRef("order S052602010000079447000")
	require.NotNil(t, ref)
	assert.Equal(t, "s052602010000079447000", ref.Number)
	assert.Equal(t, models.LedgerDeposit, ref.Ledger)
}

func TestExtractOrderRef_LabelledForms(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"order no", "order no: s052602010000079447000"},
		{"utr", "UTR s052602010000079447000"},
		{"txn dash", "txn-s052602010000079447000"},
		{"transaction id", "transaction id #s052602010000079447000"},
		{"embedded sentence", "i paid yesterday, ref s052602010000079447000, please check"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref := ExtractOrderRef(tt.text)
			require.NotNil(t, ref)
			assert.Equal(t, "s052602010000079447000", ref.Number)
		})
	}
}

func TestExtractOrderRef_Rejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no reference", "my deposit failed"},
		{"too short", "order s0512345"},
		{"too many digits", "order s05260201000007944700099"},
		{"wrong prefix digits", "order s991234567890123456789"},
		{"wrong letter", "order x052602010000079447000"},
		{"letters inside digits", "order s0526020100000794470ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ExtractOrderRef(tt.text))
		})
	}
}

func TestExtractOrderRef_SkipsInvalidCandidate(t *testing.T) {
	// The first token is order-shaped but one digit short; the valid token
	// later in the text still wins.
	ref := ExtractOrderRef("not s05123 but w051234567890123456789")
	require.NotNil(t, ref)
	assert.Equal(t, models.LedgerWithdrawal, ref.Ledger)
}
