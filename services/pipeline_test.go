package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-bot/config"
	"support-bot/models"
)

// fakeStore is an in-memory Store double. All methods are safe for the
// pipeline's background goroutines.
type fakeStore struct {
	mu           sync.Mutex
	turns        []models.Message
	customers    map[string]int
	transactions map[string]*models.TransactionRecord
	problems     []problemUpsert
	history      []models.Message
}

type problemUpsert struct {
	userID      string
	orderNumber string
	description string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		customers:    make(map[string]int),
		transactions: make(map[string]*models.TransactionRecord),
	}
}

func (s *fakeStore) SaveOrUpdateCustomer(_ context.Context, userID, _, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers[userID]++
	return nil
}

func (s *fakeStore) SaveTurn(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, *msg)
	return nil
}

func (s *fakeStore) ConversationHistory(_ context.Context, _ string, _ int) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history, nil
}

func (s *fakeStore) FindTransaction(_ context.Context, _ models.Ledger, orderNumber string) (*models.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transactions[orderNumber], nil
}

func (s *fakeStore) UpsertDepositProblem(_ context.Context, userID, orderNumber, description string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.problems = append(s.problems, problemUpsert{userID, orderNumber, description})
	return nil
}

func (s *fakeStore) MarkDepositProblemNotified(_ context.Context, _ string) error {
	return nil
}

func (s *fakeStore) problemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.problems)
}

// fakeNotifier records problem notifications and signals each delivery.
type fakeNotifier struct {
	mu       sync.Mutex
	notified []string
	signal   chan struct{}
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{signal: make(chan struct{}, 16)}
}

func (n *fakeNotifier) NotifyProblem(_ context.Context, userID, _, orderNumber string) error {
	n.mu.Lock()
	n.notified = append(n.notified, userID+"/"+orderNumber)
	n.mu.Unlock()
	n.signal <- struct{}{}
	return nil
}

func (n *fakeNotifier) waitForNotification(t *testing.T) {
	t.Helper()
	select {
	case <-n.signal:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for problem notification")
	}
}

func newTestPipeline(store Store, notifier Notifier) *Pipeline {
	return NewPipeline(
		store,
		notifier,
		NewSessionManager(time.Hour),
		config.DefaultLexicon(),
		config.DefaultTemplates(),
		0, // no typing delay in tests
		0,
	)
}

func TestPipeline_RejectsInvalidInput(t *testing.T) {
	p := newTestPipeline(newFakeStore(), newFakeNotifier())

	_, err := p.HandleMessage(context.Background(), "", "hello")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = p.HandleMessage(context.Background(), "user-1", "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPipeline_FirstMessageIsGreeting(t *testing.T) {
	p := newTestPipeline(newFakeStore(), newFakeNotifier())

	// Even a message full of escalation keywords gets the greeting first.
	result, err := p.HandleMessage(context.Background(), "user-1", "i want a human, this is a scam")
	require.NoError(t, err)

	assert.True(t, result.Greeting)
	assert.False(t, result.Escalated)
	assert.Empty(t, result.Category)
	assert.NotEmpty(t, result.Response)

	sess := p.sessions.Get("user-1")
	assert.Equal(t, 0, sess.AttemptCount)
	assert.False(t, sess.FirstMessage)
}

func TestPipeline_ClassifiesAfterGreeting(t *testing.T) {
	p := newTestPipeline(newFakeStore(), newFakeNotifier())

	_, err := p.HandleMessage(context.Background(), "user-1", "hello")
	require.NoError(t, err)

	result, err := p.HandleMessage(context.Background(), "user-1", "how do i withdraw money")
	require.NoError(t, err)

	assert.False(t, result.Greeting)
	assert.Equal(t, config.CategoryWithdrawal, result.Category)
	assert.Equal(t, "how_to", result.SubIntent)
	assert.Equal(t, 1, p.sessions.Get("user-1").AttemptCount)
}

func TestPipeline_KeywordEscalationResetsCounter(t *testing.T) {
	p := newTestPipeline(newFakeStore(), newFakeNotifier())
	ctx := context.Background()

	_, err := p.HandleMessage(ctx, "user-1", "hello")
	require.NoError(t, err)
	_, err = p.HandleMessage(ctx, "user-1", "how do i add money")
	require.NoError(t, err)
	require.Equal(t, 1, p.sessions.Get("user-1").AttemptCount)

	result, err := p.HandleMessage(ctx, "user-1", "let me talk to a real person")
	require.NoError(t, err)

	assert.True(t, result.Escalated)
	assert.Equal(t, 0, p.sessions.Get("user-1").AttemptCount)
}

func TestPipeline_AttemptsExhaustedEscalation(t *testing.T) {
	p := newTestPipeline(newFakeStore(), newFakeNotifier())
	ctx := context.Background()

	_, err := p.HandleMessage(ctx, "user-1", "hello")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		result, err := p.HandleMessage(ctx, "user-1", "tell me about bonus offers")
		require.NoError(t, err)
		require.False(t, result.Escalated)
	}
	require.Equal(t, 3, p.sessions.Get("user-1").AttemptCount)

	result, err := p.HandleMessage(ctx, "user-1", "tell me about bonus offers")
	require.NoError(t, err)
	assert.True(t, result.Escalated)
	assert.Equal(t, 0, p.sessions.Get("user-1").AttemptCount)
}

func TestPipeline_ReconciliationFound(t *testing.T) {
	store := newFakeStore()
	store.transactions["s052602010000079447000"] = &models.TransactionRecord{
		OrderNumber:   "s052602010000079447000",
		Amount:        250,
		PaymentStatus: "success",
		CreatedAt:     time.Now(),
	}
	p := newTestPipeline(store, newFakeNotifier())
	ctx := context.Background()

	_, err := p.HandleMessage(ctx, "user-1", "hello")
	require.NoError(t, err)

	result, err := p.HandleMessage(ctx, "user-1", "my deposit failed, order s052602010000079447000")
	require.NoError(t, err)

	// A found reference short-circuits classification entirely, even with
	// failure wording in the message.
	assert.Empty(t, result.Category)
	assert.False(t, result.Escalated)
	require.NotNil(t, result.Record)
	assert.Contains(t, result.Response, "s052602010000079447000")
	assert.Contains(t, result.Response, "success")
	assert.False(t, result.ProblemReported)
	assert.Equal(t, 0, store.problemCount())
}

func TestPipeline_ReconciliationNotFoundReportsProblem(t *testing.T) {
	store := newFakeStore()
	notifier := newFakeNotifier()
	p := newTestPipeline(store, notifier)
	ctx := context.Background()

	_, err := p.HandleMessage(ctx, "user-1", "hello")
	require.NoError(t, err)

	result, err := p.HandleMessage(ctx, "user-1", "my deposit failed, order s052602010000079447000")
	require.NoError(t, err)

	assert.Contains(t, result.Response, "s052602010000079447000")
	assert.True(t, result.ProblemReported)
	assert.Equal(t, "s052602010000079447000", result.ProblemOrderNumber)

	require.Equal(t, 1, store.problemCount())
	assert.Equal(t, "user-1", store.problems[0].userID)
	assert.Equal(t, "s052602010000079447000", store.problems[0].orderNumber)

	notifier.waitForNotification(t)
}

func TestPipeline_NotFoundWithoutFailureFraming(t *testing.T) {
	store := newFakeStore()
	p := newTestPipeline(store, newFakeNotifier())
	ctx := context.Background()

	_, err := p.HandleMessage(ctx, "user-1", "hello")
	require.NoError(t, err)

	// A plain status check on an unknown reference is not a problem report.
	result, err := p.HandleMessage(ctx, "user-1", "please check order s052602010000079447000")
	require.NoError(t, err)

	assert.Contains(t, result.Response, "s052602010000079447000")
	assert.False(t, result.ProblemReported)
	assert.Equal(t, 0, store.problemCount())
}

func TestPipeline_DepositFailedRecoversOrderFromSession(t *testing.T) {
	store := newFakeStore()
	notifier := newFakeNotifier()
	p := newTestPipeline(store, notifier)
	ctx := context.Background()

	_, err := p.HandleMessage(ctx, "user-1", "hello")
	require.NoError(t, err)
	_, err = p.HandleMessage(ctx, "user-1", "please check order s052602010000079447000")
	require.NoError(t, err)

	result, err := p.HandleMessage(ctx, "user-1", "my deposit failed and money was deducted")
	require.NoError(t, err)

	assert.Equal(t, config.CategoryDeposit, result.Category)
	assert.Equal(t, "failed", result.SubIntent)
	assert.True(t, result.ProblemReported)
	assert.Equal(t, "s052602010000079447000", result.ProblemOrderNumber)

	notifier.waitForNotification(t)
}

func TestPipeline_LanguageRedetectedPerMessage(t *testing.T) {
	p := newTestPipeline(newFakeStore(), newFakeNotifier())
	ctx := context.Background()

	first, err := p.HandleMessage(ctx, "user-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, config.LangEnglish, first.Language)

	second, err := p.HandleMessage(ctx, "user-1", "मेरा पैसा नहीं आया")
	require.NoError(t, err)
	assert.Equal(t, config.LangHindi, second.Language)

	third, err := p.HandleMessage(ctx, "user-1", "it is still missing")
	require.NoError(t, err)
	assert.Equal(t, config.LangEnglish, third.Language)
}

func TestPipeline_ConcurrentSameUserKeepsCounterExact(t *testing.T) {
	p := newTestPipeline(newFakeStore(), newFakeNotifier())
	ctx := context.Background()

	_, err := p.HandleMessage(ctx, "user-1", "hello")
	require.NoError(t, err)

	// The per-session mutex serializes same-user handling, so N concurrent
	// messages behave exactly like N sequential ones: every 4th turn
	// escalates and resets the counter.
	const n = 30
	var (
		wg          sync.WaitGroup
		escalations int64
		failures    int64
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := p.HandleMessage(ctx, "user-1", "tell me about bonus offers")
			if err != nil {
				atomic.AddInt64(&failures, 1)
				return
			}
			if result.Escalated {
				atomic.AddInt64(&escalations, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 0, failures)
	assert.EqualValues(t, n/4, escalations)
	assert.Equal(t, n%4, p.sessions.Get("user-1").AttemptCount)
}

func TestPipeline_OperatorTurnFeedsSessionSignal(t *testing.T) {
	p := newTestPipeline(newFakeStore(), newFakeNotifier())
	ctx := context.Background()

	_, err := p.HandleMessage(ctx, "user-1", "hello")
	require.NoError(t, err)

	sess := p.sessions.Get("user-1")
	assert.False(t, sess.ClosingEligible())

	// An operator reply lands in the live session, so two assistant-authored
	// turns in a row make the conversation closing-eligible.
	p.RecordOperatorTurn("user-1", "is there anything else I can help with?")
	assert.True(t, sess.ClosingEligible())

	_, err = p.HandleMessage(ctx, "user-1", "yes one more thing")
	require.NoError(t, err)
	assert.False(t, sess.ClosingEligible())
}

func TestPipeline_SeparateUsersHaveSeparateState(t *testing.T) {
	p := newTestPipeline(newFakeStore(), newFakeNotifier())
	ctx := context.Background()

	first, err := p.HandleMessage(ctx, "user-1", "hello")
	require.NoError(t, err)
	assert.True(t, first.Greeting)

	other, err := p.HandleMessage(ctx, "user-2", "hello")
	require.NoError(t, err)
	assert.True(t, other.Greeting)

	followUp, err := p.HandleMessage(ctx, "user-1", "deposit question")
	require.NoError(t, err)
	assert.False(t, followUp.Greeting)
}
