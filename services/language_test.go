package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"support-bot/config"
)

func TestDetectLanguage_Scripts(t *testing.T) {
	lex := config.DefaultLexicon()

	tests := []struct {
		name string
		text string
		want config.Language
	}{
		{"devanagari", "मेरा पैसा नहीं आया", config.LangHindi},
		{"bengali", "টাকা জমা হয়নি", config.LangBengali},
		{"gurmukhi", "ਮੇਰਾ ਪੈਸਾ ਨਹੀਂ ਆਇਆ", config.LangPunjabi},
		{"gujarati", "મારા પૈસા નથી આવ્યા", config.LangGujarati},
		{"oriya", "ମୋ ଟଙ୍କା ଆସିନି", config.LangOdia},
		{"tamil", "என் பணம் வரவில்லை", config.LangTamil},
		{"telugu", "నా డబ్బు రాలేదు", config.LangTelugu},
		{"kannada", "ನನ್ನ ಹಣ ಬಂದಿಲ್ಲ", config.LangKannada},
		{"malayalam", "എന്റെ പണം വന്നില്ല", config.LangMalayalam},
		{"arabic script", "میرا پیسہ نہیں آیا", config.LangUrdu},
		{"plain english", "my deposit has not arrived", config.LangEnglish},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.text, lex))
		})
	}
}

func TestDetectLanguage_MixedScriptFirstMatchWins(t *testing.T) {
	lex := config.DefaultLexicon()

	// Devanagari is checked before Telugu, so a message containing both
	// resolves to Hindi regardless of character order.
	got := DetectLanguage("డబ్బు रुपया problem", lex)
	assert.Equal(t, config.LangHindi, got)
}

func TestDetectLanguage_Romanized(t *testing.T) {
	lex := config.DefaultLexicon()

	tests := []struct {
		name string
		text string
		want config.Language
	}{
		{"two hindi words", "bhai mera paisa nahi aaya", config.LangHindi},
		{"two telugu words", "dabbu inka ledu", config.LangTelugu},
		{"single word is not enough", "what hai this", config.LangEnglish},
		{"substring does not count", "chainsaw karaoke", config.LangEnglish},
		{"repeated word counts once", "hai hai hai", config.LangEnglish},
		{"punctuation boundaries", "paisa, nahi!", config.LangHindi},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLanguage(tt.text, lex))
		})
	}
}

func TestDetectLanguage_EmptyText(t *testing.T) {
	lex := config.DefaultLexicon()

	assert.Equal(t, lex.DefaultLanguage, DetectLanguage("", lex))
	assert.Equal(t, lex.DefaultLanguage, DetectLanguage("   \t  ", lex))
}
