package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionStore_SweepEvictsIdleSessions(t *testing.T) {
	store := NewSessionStore(time.Hour, zap.NewNop())
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	var active []int
	store.OnChange(func(n int) { active = append(active, n) })

	idle := &Session{ID: "idle"}
	busy := &Session{ID: "busy"}
	store.Put(idle)
	store.Put(busy)

	now = now.Add(50 * time.Minute)
	_, ok := store.Get("busy")
	require.True(t, ok)

	now = now.Add(20 * time.Minute)
	assert.Equal(t, 1, store.Sweep())

	_, ok = store.Get("idle")
	assert.False(t, ok)
	assert.True(t, idle.closed)
	_, ok = store.Get("busy")
	assert.True(t, ok)

	assert.Equal(t, []int{1, 2, 1}, active)
}

func TestSessionStore_SweepSkipsLockedSessions(t *testing.T) {
	store := NewSessionStore(time.Minute, zap.NewNop())
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	session := &Session{ID: "s"}
	store.Put(session)
	now = now.Add(time.Hour)

	session.mu.Lock()
	assert.Equal(t, 0, store.Sweep())
	session.mu.Unlock()

	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Len())
}

func TestSessionStore_RemoveIgnoresReplacedSession(t *testing.T) {
	store := NewSessionStore(time.Hour, zap.NewNop())

	old := &Session{ID: "s"}
	store.Put(old)
	replacement := &Session{ID: "s"}
	store.Put(replacement)

	store.Remove(old)
	got, ok := store.Get("s")
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.True(t, old.closed)
}

func TestSessionStore_CloseIsIdempotent(t *testing.T) {
	store := NewSessionStore(time.Minute, zap.NewNop())
	store.StartSweeper(time.Millisecond)
	store.Close()
	store.Close()
}
