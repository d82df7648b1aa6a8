package services

import (
	"strings"
	"unicode"

	"support-bot/config"
)

// scriptRanges maps Unicode script blocks to language tags. The order is
// fixed and the first script with at least one character present in the text
// wins, so mixed-script messages resolve deterministically.
var scriptRanges = []struct {
	lo, hi rune
	lang   config.Language
}{
	{0x0900, 0x097F, config.LangHindi},     // Devanagari
	{0x0980, 0x09FF, config.LangBengali},   // Bengali
	{0x0A00, 0x0A7F, config.LangPunjabi},   // Gurmukhi
	{0x0A80, 0x0AFF, config.LangGujarati},  // Gujarati
	{0x0B00, 0x0B7F, config.LangOdia},      // Oriya
	{0x0B80, 0x0BFF, config.LangTamil},     // Tamil
	{0x0C00, 0x0C7F, config.LangTelugu},    // Telugu
	{0x0C80, 0x0CFF, config.LangKannada},   // Kannada
	{0x0D00, 0x0D7F, config.LangMalayalam}, // Malayalam
	{0x0600, 0x06FF, config.LangUrdu},      // Arabic
}

// romanizedLanguages are the languages checked by the romanized-word
// heuristic, in order.
var romanizedLanguages = []config.Language{config.LangHindi, config.LangTelugu}

// DetectLanguage classifies a text fragment into a language tag. It is pure
// and runs independently on every message; a user switching languages
// mid-conversation gets a different tag per message.
func DetectLanguage(text string, lex *config.Lexicon) config.Language {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return lex.DefaultLanguage
	}

	for _, sr := range scriptRanges {
		for _, r := range trimmed {
			if r >= sr.lo && r <= sr.hi {
				return sr.lang
			}
		}
	}

	// Romanized check: word-boundary matched, and at least two distinct
	// words from the list must appear. A single word like "hai" inside an
	// otherwise English sentence is not enough.
	words := wordSet(trimmed)
	for _, lang := range romanizedLanguages {
		distinct := 0
		for _, w := range lex.Romanized[lang] {
			if words[w] {
				distinct++
				if distinct >= 2 {
					return lang
				}
			}
		}
	}

	return lex.DefaultLanguage
}

// wordSet lowercases the text and splits it into a set of words on any
// non-letter, non-digit boundary.
func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range fields {
		set[w] = true
	}
	return set
}
