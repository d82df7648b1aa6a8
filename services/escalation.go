package services

import (
	"strings"

	"support-bot/config"
)

// maxAttempts is the rolling per-user attempt threshold: after three
// non-escalated turns without resolution, the next turn is handed to a
// human regardless of content.
const maxAttempts = 3

// ShouldEscalate decides whether the conversation must be handed to a human
// operator. It returns the reason for logging. The caller owns the attempt
// counter; on escalation the counter is reset there.
func ShouldEscalate(message string, category config.Category, attempts int, lang config.Language, lex *config.Lexicon) (bool, string) {
	lower := strings.ToLower(message)

	if containsAny(lower, lex.Terms(lex.Escalation.HumanRequest, lang)) {
		return true, "human_requested"
	}
	if containsAny(lower, lex.Terms(lex.Escalation.LegalThreat, lang)) {
		return true, "legal_threat"
	}
	if containsAny(lower, lex.Terms(lex.Escalation.PaymentDispute, lang)) {
		return true, "payment_dispute"
	}
	if containsAny(lower, lex.Terms(lex.Escalation.AccountSuspension, lang)) {
		return true, "account_suspension"
	}
	if attempts >= maxAttempts {
		return true, "attempts_exhausted"
	}
	if category == config.CategoryTechnical && containsAny(lower, lex.Terms(lex.Escalation.SystemFailure, lang)) {
		return true, "system_failure"
	}
	return false, ""
}
