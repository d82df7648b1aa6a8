package services

import (
	"strconv"
	"strings"

	"support-bot/config"
	"support-bot/models"
)

// Responder turns classification results and ledger records into localized
// reply text. Reconciliation results take precedence over the generic
// category templates; the chat pipeline decides which path runs.
type Responder struct {
	lex  *config.Lexicon
	tmpl *config.Templates
}

func NewResponder(lex *config.Lexicon, tmpl *config.Templates) *Responder {
	return &Responder{lex: lex, tmpl: tmpl}
}

// Greeting returns the localized first-message greeting.
func (r *Responder) Greeting(lang config.Language) string {
	return r.tmpl.Text(r.tmpl.Greeting, lang)
}

// Escalation returns the localized hand-off message.
func (r *Responder) Escalation(lang config.Language) string {
	return r.tmpl.Text(r.tmpl.Escalation, lang)
}

// Reconciliation builds a status report from a matched ledger record.
func (r *Responder) Reconciliation(rec *models.TransactionRecord, ledger models.Ledger, lang config.Language) string {
	format := r.tmpl.DepositStatus
	if ledger == models.LedgerWithdrawal {
		format = r.tmpl.WithdrawalStatus
	}

	date := rec.CreatedAt
	if rec.ImportDate != nil {
		date = *rec.ImportDate
	}

	replacer := strings.NewReplacer(
		"{order}", rec.OrderNumber,
		"{amount}", formatAmount(rec.Amount),
		"{type}", orDash(rec.DeliveryType),
		"{status}", orDash(rec.PaymentStatus),
		"{date}", date.Format("02 Jan 2006"),
	)
	return replacer.Replace(r.tmpl.Text(format, lang))
}

// OrderNotFound builds the miss message for a syntactically valid reference
// absent from both ledgers.
func (r *Responder) OrderNotFound(orderNumber string, lang config.Language) string {
	return strings.ReplaceAll(r.tmpl.Text(r.tmpl.OrderNotFound, lang), "{order}", orderNumber)
}

// CategoryResponse selects the template for a classified message, running
// the sub-intent pass first, and prepends the apology line when the message
// contains angry keywords. Returns the response and the matched sub-intent.
func (r *Responder) CategoryResponse(message string, category config.Category, lang config.Language) (string, string) {
	sub := SubIntentOf(message, category, lang, r.lex)
	response := r.tmpl.CategoryText(category, sub, lang)

	if containsAny(strings.ToLower(message), r.lex.Terms(r.lex.Angry, lang)) {
		response = r.tmpl.Text(r.tmpl.Apology, lang) + " " + response
	}
	return response, sub
}

func formatAmount(amount float64) string {
	if amount == 0 {
		return "-"
	}
	return "₹" + strconv.FormatFloat(amount, 'f', 2, 64)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
