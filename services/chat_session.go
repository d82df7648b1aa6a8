package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"support-bot/models"
)

// ChatTurn is one in-memory conversation turn. The durable copy lives in
// the messages collection; this one exists for the recent-context window.
type ChatTurn struct {
	Role      string
	Text      string
	Timestamp time.Time
}

// ChatSession is the volatile per-user conversation state. The mutex
// serializes handling of concurrent messages from the same user, so the
// attempt counter mutates atomically per turn.
type ChatSession struct {
	mu sync.Mutex

	UserID       string
	Turns        []ChatTurn
	AttemptCount int
	FirstMessage bool
	LastActive   time.Time
}

// RecordTurn appends a turn. Turns are never mutated or removed.
func (s *ChatSession) RecordTurn(role, text string) {
	now := time.Now()
	s.Turns = append(s.Turns, ChatTurn{Role: role, Text: text, Timestamp: now})
	s.LastActive = now
}

// ClosingEligible reports whether the user has gone silent after a
// follow-up: the two most recent turns are both assistant-authored. This is
// advisory only; the session keeps accepting input either way.
func (s *ChatSession) ClosingEligible() bool {
	n := len(s.Turns)
	if n < 2 {
		return false
	}
	return s.Turns[n-1].Role == models.RoleAssistant && s.Turns[n-2].Role == models.RoleAssistant
}

// SessionManager owns the in-process session map. Sessions are created
// lazily on the first message from a user ID and evicted after sitting idle
// for the configured TTL; the attempt counter and first-message flag restart
// cold after eviction while the turns stay durable in the record store.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*ChatSession
	ttl      time.Duration
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*ChatSession),
		ttl:      ttl,
	}
}

// Get returns the session for userID, creating it on first contact.
func (m *SessionManager) Get(userID string) *ChatSession {
	m.mu.RLock()
	sess, ok := m.sessions[userID]
	m.mu.RUnlock()
	if ok {
		return sess
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if sess, ok := m.sessions[userID]; ok {
		return sess
	}
	sess = &ChatSession{
		UserID:       userID,
		FirstMessage: true,
		LastActive:   time.Now(),
	}
	m.sessions[userID] = sess
	return sess
}

// Len returns the number of live sessions.
func (m *SessionManager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how many
// were removed. Sessions currently being handled are skipped.
func (m *SessionManager) Sweep() int {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for userID, sess := range m.sessions {
		if !sess.mu.TryLock() {
			continue // in use right now
		}
		idle := sess.LastActive.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(m.sessions, userID)
			removed++
		}
	}
	return removed
}

// StartCleanup starts a background goroutine that periodically evicts idle
// chat sessions.
func (m *SessionManager) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				slog.Info("Chat session cleanup stopped")
				return
			case <-ticker.C:
				if count := m.Sweep(); count > 0 {
					slog.Info("Evicted idle chat sessions", "count", count, "remaining", m.Len())
				}
			}
		}
	}()

	slog.Info("Chat session cleanup started", "ttl", m.ttl.String())
}
