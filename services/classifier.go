package services

import (
	"strings"

	"support-bot/config"
)

// ClassifyIntent maps a message to an issue category using the per-language
// keyword tables. Categories are evaluated in the lexicon's fixed order and
// the first category with any keyword contained in the message wins; the
// ordering carries the precedence (deposit before withdrawal, and so on).
// Matching is raw case-insensitive substring containment, deliberately
// without word-boundary guards.
func ClassifyIntent(message string, lang config.Language, lex *config.Lexicon) config.Category {
	lower := strings.ToLower(message)
	for _, ck := range lex.Categories {
		if containsAny(lower, lex.Terms(ck.Keywords, lang)) {
			return ck.Category
		}
	}
	return config.CategoryGeneral
}

// SubIntentOf runs the narrower second keyword pass within a category.
// Returns "" when no sub-intent matches.
func SubIntentOf(message string, category config.Category, lang config.Language, lex *config.Lexicon) string {
	lower := strings.ToLower(message)
	for _, si := range lex.SubIntents[category] {
		if containsAny(lower, lex.Terms(si.Keywords, lang)) {
			return si.Name
		}
	}
	return ""
}

// containsAny reports whether the lowercased message contains any of the
// given keywords.
func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
