package services

import (
	"regexp"
	"strings"

	"support-bot/models"
)

// OrderRef is a validated transaction reference extracted from free text.
type OrderRef struct {
	Number string
	Ledger models.Ledger
}

// Canonical order number formats: a three-character ledger prefix followed
// by exactly 19 digits. s05 is the deposit ledger, w05 the withdrawal
// ledger.
var (
	depositOrderPattern    = regexp.MustCompile(`^s05\d{19}$`)
	withdrawalOrderPattern = regexp.MustCompile(`^w05\d{19}$`)
)

// orderRefPatterns is the ordered extraction pattern list. The first pattern
// whose match survives canonical validation wins; a match that fails
// validation falls through to the next pattern.
var orderRefPatterns = []*regexp.Regexp{
	// Labelled references: "order no: s05...", "UTR s05...", "txn-s05...".
	regexp.MustCompile(`(?i)\b(?:order|utr|txn|transaction|ref)(?:\s*(?:no|number|id))?\s*[:#.-]?\s*([sw]05\d{19})\b`),
	// Bare canonical token anywhere in the text.
	regexp.MustCompile(`(?i)\b([sw]05\d{19})\b`),
	// Loose candidate: ledger letter plus a long digit run, caught so that a
	// mistyped reference still gets validated (and rejected) explicitly.
	regexp.MustCompile(`(?i)\b([sw]\d{15,25})\b`),
}

// ExtractOrderRef scans free text for a transaction reference. It returns
// nil when no token validates against the canonical formats. Matching is
// case-insensitive; returned numbers are lowercase.
func ExtractOrderRef(text string) *OrderRef {
	for _, pattern := range orderRefPatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if ref := canonicalOrderRef(match[1]); ref != nil {
				return ref
			}
		}
	}
	return nil
}

// canonicalOrderRef validates a candidate token against the two ledger
// formats and resolves which ledger it belongs to.
func canonicalOrderRef(token string) *OrderRef {
	token = strings.ToLower(strings.TrimSpace(token))
	switch {
	case depositOrderPattern.MatchString(token):
		return &OrderRef{Number: token, Ledger: models.LedgerDeposit}
	case withdrawalOrderPattern.MatchString(token):
		return &OrderRef{Number: token, Ledger: models.LedgerWithdrawal}
	}
	return nil
}
