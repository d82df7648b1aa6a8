package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"support-bot/config"
)

func TestClassifyIntent_English(t *testing.T) {
	lex := config.DefaultLexicon()

	tests := []struct {
		name string
		text string
		want config.Category
	}{
		{"deposit", "i paid but money not added to wallet", config.CategoryDeposit},
		{"withdrawal", "my withdrawal is still processing", config.CategoryWithdrawal},
		{"account", "i forgot my password", config.CategoryAccount},
		{"bonus", "where is my cashback", config.CategoryBonus},
		{"technical", "the app keeps loading forever", config.CategoryTechnical},
		{"complaint", "i want to file a complaint", config.CategoryComplaint},
		{"responsible gaming", "i think i have a gambling problem", config.CategoryResponsibleGaming},
		{"general fallback", "hello, can you help me", config.CategoryGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyIntent(tt.text, config.LangEnglish, lex))
		})
	}
}

func TestClassifyIntent_DepositPrecedesWithdrawal(t *testing.T) {
	lex := config.DefaultLexicon()

	// Both categories match; category order decides.
	got := ClassifyIntent("i made a deposit but now i cannot withdraw", config.LangEnglish, lex)
	assert.Equal(t, config.CategoryDeposit, got)
}

func TestClassifyIntent_CaseInsensitive(t *testing.T) {
	lex := config.DefaultLexicon()

	assert.Equal(t, config.CategoryDeposit,
		ClassifyIntent("DEPOSIT NOT WORKING", config.LangEnglish, lex))
}

func TestClassifyIntent_SubstringContainment(t *testing.T) {
	lex := config.DefaultLexicon()

	// Keyword matching is plain substring containment, so "otp" inside a
	// larger word still classifies as account.
	assert.Equal(t, config.CategoryAccount,
		ClassifyIntent("we ordered hotpot yesterday", config.LangEnglish, lex))
}

func TestClassifyIntent_Hindi(t *testing.T) {
	lex := config.DefaultLexicon()

	assert.Equal(t, config.CategoryDeposit,
		ClassifyIntent("मैंने पैसे डाले लेकिन नहीं आए", config.LangHindi, lex))
	assert.Equal(t, config.CategoryWithdrawal,
		ClassifyIntent("मेरी निकासी अटकी है", config.LangHindi, lex))
}

func TestClassifyIntent_UnconfiguredLanguageFallsBack(t *testing.T) {
	lex := config.DefaultLexicon()

	// Tamil has no keyword lists, so the default-language lists apply.
	assert.Equal(t, config.CategoryDeposit,
		ClassifyIntent("deposit பிரச்சனை", config.LangTamil, lex))
}

func TestSubIntentOf(t *testing.T) {
	lex := config.DefaultLexicon()

	tests := []struct {
		name     string
		text     string
		category config.Category
		want     string
	}{
		{"deposit failed", "my deposit failed and money was deducted", config.CategoryDeposit, "failed"},
		{"deposit how to", "how do i deposit money", config.CategoryDeposit, "how_to"},
		{"withdrawal pending", "withdrawal still pending since yesterday", config.CategoryWithdrawal, "pending"},
		{"password reset", "i forgot my password", config.CategoryAccount, "password_reset"},
		{"bonus not credited", "bonus not credited to my account", config.CategoryBonus, "not_credited"},
		{"no sub intent", "tell me about deposits", config.CategoryDeposit, ""},
		{"category without sub intents", "app error", config.CategoryTechnical, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubIntentOf(tt.text, tt.category, config.LangEnglish, lex))
		})
	}
}
