package api

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stackcart/stackcart/internal/domain/aggregate"
	"github.com/stackcart/stackcart/internal/domain/catalog"
	"github.com/stackcart/stackcart/internal/domain/search"
	"github.com/stackcart/stackcart/internal/domain/selection"
	"github.com/stackcart/stackcart/internal/telemetry"
)

// DefaultSessionID names the session that always exists.
const DefaultSessionID = "default"

// Session is one independent stack: a selection plus its searcher.
type Session struct {
	ID        string
	CreatedAt time.Time

	store    *selection.Store
	searcher *search.Searcher
	onChange func(s *Session, op string)

	mu       sync.Mutex
	lastUsed time.Time
	subs     map[chan aggregate.CommandBundle]struct{}
}

// SessionInfo is the listing view of a session.
type SessionInfo struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	LastUsed  time.Time `json:"last_used"`
	Tools     int       `json:"tools"`
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastUsed = time.Now()
	s.mu.Unlock()
}

// Info summarizes the session.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{ID: s.ID, CreatedAt: s.CreatedAt, LastUsed: s.lastUsed, Tools: s.store.Len()}
}

// Tools returns the selected tools in order.
func (s *Session) Tools() []catalog.Tool {
	return s.store.Tools()
}

// Has reports whether a tool id is selected.
func (s *Session) Has(id string) bool {
	return s.store.Has(id)
}

// Bundle aggregates the current selection.
func (s *Session) Bundle() aggregate.CommandBundle {
	return aggregate.Aggregate(s.store.Tools())
}

// Searcher returns the session's searcher.
func (s *Session) Searcher() *search.Searcher {
	return s.searcher
}

// Add selects tool; it reports whether the selection changed.
func (s *Session) Add(tool catalog.Tool) bool {
	changed := s.store.Add(tool)
	if changed {
		s.changed("add")
	}
	return changed
}

// Remove deselects id; it reports whether the selection changed.
func (s *Session) Remove(id string) bool {
	changed := s.store.Remove(id)
	if changed {
		s.changed("remove")
	}
	return changed
}

// Toggle flips membership of tool and returns whether it is now selected.
func (s *Session) Toggle(tool catalog.Tool) bool {
	selected := s.store.Toggle(tool)
	s.changed("toggle")
	return selected
}

// Clear empties the selection.
func (s *Session) Clear() {
	s.store.Clear()
	s.changed("clear")
}

// ApplyPreset replaces the selection; missing preset ids are returned.
func (s *Session) ApplyPreset(p catalog.Preset, c *catalog.Catalog) []string {
	missing := s.store.ApplyPreset(p, c)
	s.changed("preset")
	return missing
}

// Subscribe returns a channel receiving the bundle after every change.
func (s *Session) Subscribe() chan aggregate.CommandBundle {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan aggregate.CommandBundle, 8)
	s.subs[ch] = struct{}{}
	return ch
}

// Unsubscribe removes and closes a subscriber channel.
func (s *Session) Unsubscribe(ch chan aggregate.CommandBundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subs[ch]; ok {
		delete(s.subs, ch)
		close(ch)
	}
}

func (s *Session) changed(op string) {
	s.touch()
	bundle := s.Bundle()

	s.mu.Lock()
	for ch := range s.subs {
		select {
		case ch <- bundle:
		default:
			// Drop if subscriber is slow
		}
	}
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(s, op)
	}
}

func (s *Session) close() {
	s.searcher.Cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs {
		close(ch)
	}
	s.subs = map[chan aggregate.CommandBundle]struct{}{}
}

// SessionManager owns the daemon's sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	catalog  *catalog.Catalog
	remote   search.Remote
	idle     time.Duration
	logger   *zap.Logger
	metrics  telemetry.Metrics
	ctx      context.Context
}

// NewSessionManager creates the manager with its default session. When idle
// is positive, non-default sessions unused for that long are removed.
func NewSessionManager(ctx context.Context, c *catalog.Catalog, remote search.Remote, idle time.Duration, logger *zap.Logger, metrics telemetry.Metrics) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = telemetry.NewNoopMetrics()
	}
	sm := &SessionManager{
		sessions: make(map[string]*Session),
		catalog:  c,
		remote:   remote,
		idle:     idle,
		logger:   logger,
		metrics:  metrics,
		ctx:      ctx,
	}
	sm.sessions[DefaultSessionID] = sm.newSession(DefaultSessionID)
	sm.metrics.SetActiveSessions(1)
	if idle > 0 {
		go sm.monitor()
	}
	return sm
}

func (sm *SessionManager) newSession(id string) *Session {
	now := time.Now()
	s := &Session{
		ID:        id,
		CreatedAt: now,
		lastUsed:  now,
		store:     selection.NewStore(),
		subs:      make(map[chan aggregate.CommandBundle]struct{}),
		onChange:  sm.observeChange,
	}
	s.searcher = search.NewSearcher(sm.catalog, sm.remote,
		search.WithSearcherLogger(sm.logger.With(zap.String("session", id))),
		search.WithSearcherMetrics(sm.metrics),
		search.OnPublish(func(query string, results []search.SearchResult) {
			sm.logger.Debug("search published", zap.String("session", id), zap.String("query", query), zap.Int("results", len(results)))
		}),
	)
	return s
}

func (sm *SessionManager) observeChange(s *Session, op string) {
	sm.metrics.ObserveSelectionChange(op)
	sm.metrics.SetSelectionSize(s.ID, s.store.Len())
	sm.logger.Debug("selection changed", zap.String("session", s.ID), zap.String("op", op), zap.Int("tools", s.store.Len()))
}

// Catalog returns the catalog sessions select from.
func (sm *SessionManager) Catalog() *catalog.Catalog {
	return sm.catalog
}

// Get returns a session and marks it used.
func (sm *SessionManager) Get(id string) (*Session, bool) {
	sm.mu.RLock()
	s, ok := sm.sessions[id]
	sm.mu.RUnlock()
	if ok {
		s.touch()
	}
	return s, ok
}

// Create starts a new empty session with a random id.
func (sm *SessionManager) Create() *Session {
	s := sm.newSession(uuid.NewString())

	sm.mu.Lock()
	sm.sessions[s.ID] = s
	n := len(sm.sessions)
	sm.mu.Unlock()

	sm.metrics.SetActiveSessions(n)
	sm.logger.Info("session created", zap.String("session", s.ID))
	return s
}

// Remove destroys a session and its selection. The default session cannot
// be removed.
func (sm *SessionManager) Remove(id string) error {
	if id == DefaultSessionID {
		return fmt.Errorf("the default session cannot be deleted")
	}

	sm.mu.Lock()
	s, ok := sm.sessions[id]
	if !ok {
		sm.mu.Unlock()
		return fmt.Errorf("session not found: %s", id)
	}
	delete(sm.sessions, id)
	n := len(sm.sessions)
	sm.mu.Unlock()

	s.close()
	sm.metrics.SetActiveSessions(n)
	sm.metrics.DeleteSelection(id)
	sm.logger.Info("session deleted", zap.String("session", id))
	return nil
}

// List returns all sessions, oldest first.
func (sm *SessionManager) List() []SessionInfo {
	sm.mu.RLock()
	infos := make([]SessionInfo, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		infos = append(infos, s.Info())
	}
	sm.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].ID < infos[j].ID
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Count returns the number of sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// removeIdle drops non-default sessions last used before now-idle.
func (sm *SessionManager) removeIdle(now time.Time) []string {
	var expired []string
	sm.mu.RLock()
	for id, s := range sm.sessions {
		if id == DefaultSessionID {
			continue
		}
		if now.Sub(s.Info().LastUsed) > sm.idle {
			expired = append(expired, id)
		}
	}
	sm.mu.RUnlock()

	for _, id := range expired {
		if err := sm.Remove(id); err == nil {
			sm.logger.Info("idle session removed", zap.String("session", id))
		}
	}
	return expired
}

func (sm *SessionManager) monitor() {
	interval := sm.idle / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-sm.ctx.Done():
			return
		case now := <-ticker.C:
			sm.removeIdle(now)
		}
	}
}
