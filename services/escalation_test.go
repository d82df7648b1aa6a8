package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"support-bot/config"
)

func TestShouldEscalate_Keywords(t *testing.T) {
	lex := config.DefaultLexicon()

	tests := []struct {
		name       string
		text       string
		wantReason string
	}{
		{"human request", "i want to talk to a human", "human_requested"},
		{"live agent", "connect me to a live agent now", "human_requested"},
		{"legal threat", "i will take legal action against you", "legal_threat"},
		{"police", "i am going to the police", "legal_threat"},
		{"payment dispute", "this is a scam, you stole my money", "payment_dispute"},
		{"chargeback", "i will raise a chargeback with my bank", "payment_dispute"},
		{"account suspension", "why is my account blocked", "account_suspension"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			escalate, reason := ShouldEscalate(tt.text, config.CategoryGeneral, 0, config.LangEnglish, lex)
			assert.True(t, escalate)
			assert.Equal(t, tt.wantReason, reason)
		})
	}
}

func TestShouldEscalate_Attempts(t *testing.T) {
	lex := config.DefaultLexicon()

	escalate, _ := ShouldEscalate("still no luck with this", config.CategoryGeneral, 2, config.LangEnglish, lex)
	assert.False(t, escalate)

	escalate, reason := ShouldEscalate("still no luck with this", config.CategoryGeneral, 3, config.LangEnglish, lex)
	assert.True(t, escalate)
	assert.Equal(t, "attempts_exhausted", reason)
}

func TestShouldEscalate_SystemFailureOnlyForTechnical(t *testing.T) {
	lex := config.DefaultLexicon()

	escalate, reason := ShouldEscalate("the server is down again", config.CategoryTechnical, 0, config.LangEnglish, lex)
	assert.True(t, escalate)
	assert.Equal(t, "system_failure", reason)

	// The same words outside the technical category do not escalate.
	escalate, _ = ShouldEscalate("the server is down again", config.CategoryGeneral, 0, config.LangEnglish, lex)
	assert.False(t, escalate)
}

func TestShouldEscalate_Hindi(t *testing.T) {
	lex := config.DefaultLexicon()

	escalate, reason := ShouldEscalate("मुझे इंसान से बात करनी है", config.CategoryGeneral, 0, config.LangHindi, lex)
	assert.True(t, escalate)
	assert.Equal(t, "human_requested", reason)
}

func TestShouldEscalate_BenignMessage(t *testing.T) {
	lex := config.DefaultLexicon()

	escalate, reason := ShouldEscalate("how do i add money to my wallet", config.CategoryDeposit, 1, config.LangEnglish, lex)
	assert.False(t, escalate)
	assert.Empty(t, reason)
}
