package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/stackcart/stackcart/internal/domain/aggregate"
	"github.com/stackcart/stackcart/internal/domain/catalog"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewSessionManager(ctx, catalog.Default(), nil, 0, nil, nil)
}

func TestSessionManagerDefault(t *testing.T) {
	sm := newTestManager(t)

	s, ok := sm.Get(DefaultSessionID)
	require.True(t, ok)
	assert.Equal(t, DefaultSessionID, s.ID)
	assert.Equal(t, 1, sm.Count())
	assert.Error(t, sm.Remove(DefaultSessionID))
}

func TestSessionManagerIsolation(t *testing.T) {
	sm := newTestManager(t)
	a := sm.Create()
	b := sm.Create()
	assert.NotEqual(t, a.ID, b.ID)

	react, _ := sm.Catalog().Tool("react")
	a.Add(react)
	assert.True(t, a.Has("react"))
	assert.False(t, b.Has("react"))

	list := sm.List()
	require.Len(t, list, 3)
	assert.Equal(t, DefaultSessionID, list[0].ID)

	require.NoError(t, sm.Remove(a.ID))
	_, ok := sm.Get(a.ID)
	assert.False(t, ok)
	assert.Error(t, sm.Remove(a.ID))
}

func TestSessionSubscribe(t *testing.T) {
	sm := newTestManager(t)
	s := sm.Create()
	ch := s.Subscribe()

	vitest, _ := sm.Catalog().Tool("vitest")
	assert.True(t, s.Add(vitest))

	select {
	case bundle := <-ch:
		assert.Equal(t, aggregate.Aggregate([]catalog.Tool{vitest}), bundle)
	case <-time.After(time.Second):
		t.Fatal("no bundle after add")
	}

	// No-op mutations don't notify
	assert.False(t, s.Add(vitest))
	assert.False(t, s.Remove("missing"))
	select {
	case <-ch:
		t.Fatal("unexpected notification")
	default:
	}

	require.NoError(t, sm.Remove(s.ID))
	_, open := <-ch
	assert.False(t, open, "channel should close with the session")
}

func TestSessionManagerRemoveIdle(t *testing.T) {
	sm := newTestManager(t)
	sm.idle = time.Minute
	stale := sm.Create()
	fresh := sm.Create()

	stale.mu.Lock()
	stale.lastUsed = time.Now().Add(-2 * time.Minute)
	stale.mu.Unlock()

	expired := sm.removeIdle(time.Now())
	assert.Equal(t, []string{stale.ID}, expired)

	_, ok := sm.Get(fresh.ID)
	assert.True(t, ok)
	_, ok = sm.Get(DefaultSessionID)
	assert.True(t, ok)
}

func TestSessionManagerMonitorStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	NewSessionManager(ctx, catalog.Default(), nil, time.Minute, nil, nil)
	cancel()
	time.Sleep(20 * time.Millisecond)
}
