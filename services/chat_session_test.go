package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"support-bot/models"
)

func TestSessionManager_GetCreatesLazily(t *testing.T) {
	m := NewSessionManager(time.Hour)
	assert.Equal(t, 0, m.Len())

	sess := m.Get("user-1")
	require.NotNil(t, sess)
	assert.True(t, sess.FirstMessage)
	assert.Equal(t, "user-1", sess.UserID)
	assert.Equal(t, 1, m.Len())

	// Same user ID returns the same session.
	again := m.Get("user-1")
	assert.Same(t, sess, again)
	assert.Equal(t, 1, m.Len())

	m.Get("user-2")
	assert.Equal(t, 2, m.Len())
}

func TestSessionManager_SweepEvictsIdle(t *testing.T) {
	m := NewSessionManager(time.Minute)

	idle := m.Get("idle")
	idle.LastActive = time.Now().Add(-2 * time.Minute)

	active := m.Get("active")
	active.LastActive = time.Now()

	removed := m.Sweep()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, m.Len())

	// The evicted user starts cold on the next message.
	fresh := m.Get("idle")
	assert.NotSame(t, idle, fresh)
	assert.True(t, fresh.FirstMessage)
}

func TestSessionManager_SweepSkipsSessionInUse(t *testing.T) {
	m := NewSessionManager(time.Minute)

	sess := m.Get("busy")
	sess.LastActive = time.Now().Add(-2 * time.Minute)
	sess.mu.Lock()
	defer sess.mu.Unlock()

	removed := m.Sweep()
	assert.Equal(t, 0, removed)
	assert.Equal(t, 1, m.Len())
}

func TestChatSession_RecordTurn(t *testing.T) {
	sess := &ChatSession{UserID: "u"}

	before := time.Now()
	sess.RecordTurn(models.RoleUser, "hello")
	sess.RecordTurn(models.RoleAssistant, "hi there")

	require.Len(t, sess.Turns, 2)
	assert.Equal(t, models.RoleUser, sess.Turns[0].Role)
	assert.Equal(t, "hello", sess.Turns[0].Text)
	assert.Equal(t, models.RoleAssistant, sess.Turns[1].Role)
	assert.False(t, sess.LastActive.Before(before))
}

func TestChatSession_ClosingEligible(t *testing.T) {
	sess := &ChatSession{UserID: "u"}
	assert.False(t, sess.ClosingEligible())

	sess.RecordTurn(models.RoleUser, "hello")
	sess.RecordTurn(models.RoleAssistant, "hi")
	assert.False(t, sess.ClosingEligible())

	sess.RecordTurn(models.RoleAssistant, "are you still there?")
	assert.True(t, sess.ClosingEligible())

	sess.RecordTurn(models.RoleUser, "yes")
	assert.False(t, sess.ClosingEligible())
}
