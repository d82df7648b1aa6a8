package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"support-bot/config"
	"support-bot/models"
)

// ErrInvalidInput is returned for requests with a missing user ID or
// message. No session mutation or persistence happens in that case.
var ErrInvalidInput = errors.New("user id and message are required")

// Store is the record-store contract the chat pipeline depends on.
type Store interface {
	SaveOrUpdateCustomer(ctx context.Context, userID, lastMessage, language string) error
	SaveTurn(ctx context.Context, msg *models.Message) error
	ConversationHistory(ctx context.Context, userID string, limit int) ([]models.Message, error)
	FindTransaction(ctx context.Context, ledger models.Ledger, orderNumber string) (*models.TransactionRecord, error)
	UpsertDepositProblem(ctx context.Context, userID, orderNumber, description string) error
	MarkDepositProblemNotified(ctx context.Context, userID string) error
}

// Notifier delivers problem reports to the human operator channel.
// Best-effort: the pipeline logs failures and moves on.
type Notifier interface {
	NotifyProblem(ctx context.Context, userID, description, orderNumber string) error
}

// ChatResult is what a single inbound message produces. Category, Language
// and Escalated are observable outputs the transport layer logs and persists
// alongside the response.
type ChatResult struct {
	Response  string                    `json:"response"`
	Language  config.Language           `json:"language"`
	Category  config.Category           `json:"category,omitempty"`
	SubIntent string                    `json:"sub_intent,omitempty"`
	Escalated bool                      `json:"escalated"`
	Greeting  bool                      `json:"greeting,omitempty"`
	OrderRef  *OrderRef                 `json:"-"`
	Record    *models.TransactionRecord `json:"-"`

	// ProblemReported is set when this turn produced a deposit problem
	// upsert, with the order number that was resolved for it (may be "").
	ProblemReported   bool   `json:"-"`
	ProblemOrderNumber string `json:"-"`
}

// Pipeline composes the language detector, order reference extractor,
// classifier, escalation policy and response generator per inbound message.
type Pipeline struct {
	store    Store
	notifier Notifier
	sessions *SessionManager
	resp     *Responder
	lex      *config.Lexicon

	typingDelay    time.Duration // per rune of the response
	maxTypingDelay time.Duration
}

func NewPipeline(store Store, notifier Notifier, sessions *SessionManager, lex *config.Lexicon, tmpl *config.Templates, typingDelay, maxTypingDelay time.Duration) *Pipeline {
	return &Pipeline{
		store:          store,
		notifier:       notifier,
		sessions:       sessions,
		resp:           NewResponder(lex, tmpl),
		lex:            lex,
		typingDelay:    typingDelay,
		maxTypingDelay: maxTypingDelay,
	}
}

// HandleMessage runs the full pipeline for one inbound message and returns
// the reply plus its observable outputs. Messages from the same user are
// serialized on the session; distinct users proceed in parallel.
func (p *Pipeline) HandleMessage(ctx context.Context, userID, text string) (*ChatResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || strings.TrimSpace(text) == "" {
		return nil, ErrInvalidInput
	}

	sess := p.sessions.Get(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	lang := DetectLanguage(text, p.lex)
	result := &ChatResult{Language: lang}

	// Profile update and turn persistence are fire-and-forget: a storage
	// outage degrades durability, never the reply.
	p.persistAsync(&models.Message{
		UserID:    userID,
		Role:      models.RoleUser,
		Text:      text,
		Language:  string(lang),
		Timestamp: time.Now(),
	})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.store.SaveOrUpdateCustomer(ctx, userID, text, string(lang)); err != nil {
			slog.Warn("Failed to update customer profile", "userID", userID, "error", err)
		}
	}()

	sess.RecordTurn(models.RoleUser, text)

	if sess.FirstMessage {
		// The very first message gets the greeting, never classification or
		// escalation, and leaves the attempt counter untouched.
		sess.FirstMessage = false
		result.Greeting = true
		result.Response = p.resp.Greeting(lang)
	} else {
		p.respond(ctx, sess, text, lang, result)
	}

	p.typingPause(ctx, result.Response)

	sess.RecordTurn(models.RoleAssistant, result.Response)
	p.persistAsync(&models.Message{
		UserID:    userID,
		Role:      models.RoleAssistant,
		Text:      result.Response,
		Language:  string(lang),
		Category:  string(result.Category),
		Escalated: result.Escalated,
		Timestamp: time.Now(),
	})

	return result, nil
}

// RecordOperatorTurn appends an operator-authored reply to the user's live
// session, so in-memory signals like closing eligibility see replies that
// did not come from the bot. Durable persistence stays with the caller.
func (p *Pipeline) RecordOperatorTurn(userID, text string) {
	sess := p.sessions.Get(userID)
	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.RecordTurn(models.RoleAssistant, text)
}

// respond handles every message after the first: reconciliation short
// circuit when an order reference is present, otherwise classify, consult
// the escalation policy and emit the category response.
func (p *Pipeline) respond(ctx context.Context, sess *ChatSession, text string, lang config.Language, result *ChatResult) {
	if ref := ExtractOrderRef(text); ref != nil {
		p.reconcile(ctx, sess, text, lang, ref, result)
		return
	}

	category := ClassifyIntent(text, lang, p.lex)
	result.Category = category

	if escalate, reason := ShouldEscalate(text, category, sess.AttemptCount, lang, p.lex); escalate {
		slog.Info("Escalating conversation",
			"userID", sess.UserID,
			"category", category,
			"reason", reason,
			"attempts", sess.AttemptCount,
		)
		sess.AttemptCount = 0
		result.Escalated = true
		result.Response = p.resp.Escalation(lang)
		return
	}

	response, sub := p.resp.CategoryResponse(text, category, lang)
	result.Response = response
	result.SubIntent = sub
	sess.AttemptCount++

	// A deposit complaint with failure framing and no order reference in the
	// current message still becomes a problem report; the order number is
	// recovered from the turn history when one exists.
	if category == config.CategoryDeposit && sub == "failed" {
		p.reportDepositProblem(ctx, sess, text, "", result)
	}
}

// reconcile resolves an extracted order reference against its ledger and
// emits the status report or the not-found reply. Both bypass
// classification entirely.
func (p *Pipeline) reconcile(ctx context.Context, sess *ChatSession, text string, lang config.Language, ref *OrderRef, result *ChatResult) {
	result.OrderRef = ref

	rec, err := p.store.FindTransaction(ctx, ref.Ledger, ref.Number)
	if err != nil {
		// Degrade to the not-found reply rather than failing the chat.
		slog.Error("Ledger lookup failed", "userID", sess.UserID, "orderNumber", ref.Number, "error", err)
	}
	if rec != nil {
		result.Record = rec
		result.Response = p.resp.Reconciliation(rec, ref.Ledger, lang)
		return
	}

	result.Response = p.resp.OrderNotFound(ref.Number, lang)

	if ref.Ledger == models.LedgerDeposit && SubIntentOf(text, config.CategoryDeposit, lang, p.lex) == "failed" {
		p.reportDepositProblem(ctx, sess, text, ref.Number, result)
	}
}

// reportDepositProblem upserts the user's open problem and notifies the
// operator channel asynchronously. Delivery is fire-and-forget: a failure is
// logged, never retried, and never changes the reply already produced.
func (p *Pipeline) reportDepositProblem(ctx context.Context, sess *ChatSession, description, orderNumber string, result *ChatResult) {
	if orderNumber == "" {
		orderNumber = p.lastKnownOrderNumber(ctx, sess)
	}
	result.ProblemReported = true
	result.ProblemOrderNumber = orderNumber

	if err := p.store.UpsertDepositProblem(ctx, sess.UserID, orderNumber, description); err != nil {
		slog.Error("Failed to record deposit problem", "userID", sess.UserID, "error", err)
	}

	userID := sess.UserID
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := p.notifier.NotifyProblem(ctx, userID, description, orderNumber); err != nil {
			slog.Error("Failed to notify operators about deposit problem",
				"userID", userID,
				"orderNumber", orderNumber,
				"error", err,
			)
			return
		}
		if err := p.store.MarkDepositProblemNotified(ctx, userID); err != nil {
			slog.Warn("Failed to mark deposit problem notified", "userID", userID, "error", err)
		}
	}()
}

// lastKnownOrderNumber scans the user's turn history, newest first, for the
// most recent order-shaped token. The in-memory session is consulted first;
// the durable history covers sessions that were evicted in between.
func (p *Pipeline) lastKnownOrderNumber(ctx context.Context, sess *ChatSession) string {
	for i := len(sess.Turns) - 1; i >= 0; i-- {
		if sess.Turns[i].Role != models.RoleUser {
			continue
		}
		if ref := ExtractOrderRef(sess.Turns[i].Text); ref != nil {
			return ref.Number
		}
	}

	history, err := p.store.ConversationHistory(ctx, sess.UserID, 50)
	if err != nil {
		slog.Warn("Failed to load history for order number recovery", "userID", sess.UserID, "error", err)
		return ""
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role != models.RoleUser {
			continue
		}
		if ref := ExtractOrderRef(history[i].Text); ref != nil {
			return ref.Number
		}
	}
	return ""
}

// typingPause suspends this request in proportion to the response length,
// simulating typing. It blocks only the calling goroutine; other requests
// are unaffected.
func (p *Pipeline) typingPause(ctx context.Context, response string) {
	if p.typingDelay <= 0 {
		return
	}
	d := time.Duration(utf8.RuneCountInString(response)) * p.typingDelay
	if p.maxTypingDelay > 0 && d > p.maxTypingDelay {
		d = p.maxTypingDelay
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// persistAsync writes a turn in the background with its own timeout.
func (p *Pipeline) persistAsync(msg *models.Message) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := p.store.SaveTurn(ctx, msg); err != nil {
			slog.Error("Failed to persist conversation turn", "userID", msg.UserID, "role", msg.Role, "error", err)
		}
	}()
}

// MongoStore adapts the package-level persistence functions to the Store
// interface the pipeline consumes.
type MongoStore struct{}

func (MongoStore) SaveOrUpdateCustomer(ctx context.Context, userID, lastMessage, language string) error {
	return SaveOrUpdateCustomer(ctx, userID, lastMessage, language)
}

func (MongoStore) SaveTurn(ctx context.Context, msg *models.Message) error {
	return SaveTurn(ctx, msg)
}

func (MongoStore) ConversationHistory(ctx context.Context, userID string, limit int) ([]models.Message, error) {
	return GetConversationHistory(ctx, userID, limit)
}

func (MongoStore) FindTransaction(ctx context.Context, ledger models.Ledger, orderNumber string) (*models.TransactionRecord, error) {
	return FindTransactionByOrderNumber(ctx, ledger, orderNumber)
}

func (MongoStore) UpsertDepositProblem(ctx context.Context, userID, orderNumber, description string) error {
	return UpsertDepositProblem(ctx, userID, orderNumber, description)
}

func (MongoStore) MarkDepositProblemNotified(ctx context.Context, userID string) error {
	return MarkDepositProblemNotified(ctx, userID)
}
