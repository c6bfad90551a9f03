package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/stackcart/stackcart/internal/domain/aggregate"
	"github.com/stackcart/stackcart/internal/domain/catalog"
	"github.com/stackcart/stackcart/internal/domain/export"
	"github.com/stackcart/stackcart/internal/domain/search"
	"github.com/stackcart/stackcart/internal/domain/settings"
	"github.com/stackcart/stackcart/internal/logger"
	"github.com/stackcart/stackcart/internal/telemetry"
)

// Version is reported by /api/status.
var Version = "0.1.0"

// ControlServer serves the catalog, sessions and their stacks over HTTP.
type ControlServer struct {
	mux      *http.ServeMux
	store    *settings.Store
	sessions *SessionManager
	logger   *zap.Logger
	metrics  telemetry.Metrics
	gatherer prometheus.Gatherer
	started  time.Time
	pulse    time.Duration

	mu       sync.RWMutex
	settings settings.Settings
	presets  []catalog.Preset
}

// ServerOption configures a ControlServer.
type ServerOption func(*ControlServer)

// WithServerLogger sets the request logger.
func WithServerLogger(l *zap.Logger) ServerOption {
	return func(s *ControlServer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithServerMetrics sets the metrics sink and the gatherer served on /metrics.
func WithServerMetrics(m telemetry.Metrics, g prometheus.Gatherer) ServerOption {
	return func(s *ControlServer) {
		if m != nil {
			s.metrics = m
		}
		if g != nil {
			s.gatherer = g
		}
	}
}

// WithUserPresets sets the user presets saved alongside settings.
func WithUserPresets(p []catalog.Preset) ServerOption {
	return func(s *ControlServer) { s.presets = p }
}

// WithPulse sets the SSE keep-alive interval.
func WithPulse(d time.Duration) ServerOption {
	return func(s *ControlServer) {
		if d > 0 {
			s.pulse = d
		}
	}
}

// NewControlServer creates the control API. store may be nil, in which case
// settings are not persisted.
func NewControlServer(store *settings.Store, sessions *SessionManager, cfg settings.Settings, opts ...ServerOption) *ControlServer {
	s := &ControlServer{
		mux:      http.NewServeMux(),
		store:    store,
		sessions: sessions,
		settings: cfg,
		logger:   zap.NewNop(),
		metrics:  telemetry.NewNoopMetrics(),
		gatherer: prometheus.DefaultGatherer,
		started:  time.Now(),
		pulse:    15 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

func (s *ControlServer) routes() {
	s.mux.HandleFunc("GET /api/status", s.handleStatus)

	s.mux.HandleFunc("GET /api/catalog", s.handleGetCatalog)
	s.mux.HandleFunc("GET /api/categories", s.handleGetCategories)
	s.mux.HandleFunc("GET /api/tools", s.handleGetTools)
	s.mux.HandleFunc("GET /api/presets", s.handleGetPresets)

	s.mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	s.mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	s.mux.HandleFunc("DELETE /api/sessions", s.handleDeleteSession)

	s.mux.HandleFunc("GET /api/sessions/{id}/stack", s.withSession(s.handleGetStack))
	s.mux.HandleFunc("POST /api/sessions/{id}/stack", s.withSession(s.handleAddToStack))
	s.mux.HandleFunc("DELETE /api/sessions/{id}/stack", s.withSession(s.handleRemoveFromStack))
	s.mux.HandleFunc("POST /api/sessions/{id}/toggle", s.withSession(s.handleToggle))
	s.mux.HandleFunc("POST /api/sessions/{id}/clear", s.withSession(s.handleClear))
	s.mux.HandleFunc("POST /api/sessions/{id}/preset", s.withSession(s.handleApplyPreset))
	s.mux.HandleFunc("GET /api/sessions/{id}/bundle", s.withSession(s.handleGetBundle))
	s.mux.HandleFunc("GET /api/sessions/{id}/export", s.withSession(s.handleExport))
	s.mux.HandleFunc("GET /api/sessions/{id}/search", s.withSession(s.handleSearch))
	s.mux.HandleFunc("GET /api/sessions/{id}/events", s.withSession(s.handleEvents))

	s.mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	s.mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)
	s.mux.HandleFunc("GET /api/logs", s.handleGetLogs)
	s.mux.HandleFunc("DELETE /api/logs", s.handleClearLogs)
	s.mux.HandleFunc("GET /api/logs/stream", s.handleLogStream)

	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
}

func (s *ControlServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Global CORS headers
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)

	route := r.Pattern
	if route == "" {
		route = "unmatched"
	}
	s.metrics.ObserveRequest(route, rec.status, time.Since(start))
}

// statusRecorder captures the response status and keeps streaming working.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *ControlServer) withSession(h func(http.ResponseWriter, *http.Request, *Session)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		sess, ok := s.sessions.Get(id)
		if !ok {
			http.Error(w, fmt.Sprintf("session not found: %s", id), http.StatusNotFound)
			return
		}
		h(w, r, sess)
	}
}

func (s *ControlServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	c := s.sessions.Catalog()

	s.mu.RLock()
	cfg := s.settings
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"running":        true,
		"version":        Version,
		"uptime":         time.Since(s.started).Round(time.Second).String(),
		"sessions":       s.sessions.Count(),
		"remote_search":  cfg.RemoteSearch,
		"registry_url":   cfg.RegistryURL,
		"control_port":   cfg.ControlPort,
		"catalog_tools":  len(c.Tools),
		"catalog_groups": len(c.Categories),
		"presets":        len(c.Presets),
	})
}

func (s *ControlServer) handleGetCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.Catalog())
}

func (s *ControlServer) handleGetCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"categories": s.sessions.Catalog().Categories,
	})
}

func (s *ControlServer) handleGetTools(w http.ResponseWriter, r *http.Request) {
	c := s.sessions.Catalog()
	tools := c.Tools
	if category := r.URL.Query().Get("category"); category != "" {
		if _, ok := c.Category(category); !ok {
			http.Error(w, fmt.Sprintf("category not found: %s", category), http.StatusNotFound)
			return
		}
		tools = c.ToolsInCategory(category)
	}
	if tools == nil {
		tools = []catalog.Tool{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tools": tools,
	})
}

// PresetInfo is a preset with the ids that don't resolve in the catalog.
type PresetInfo struct {
	catalog.Preset
	Missing []string `json:"missing,omitempty"`
}

func (s *ControlServer) handleGetPresets(w http.ResponseWriter, r *http.Request) {
	c := s.sessions.Catalog()
	infos := make([]PresetInfo, len(c.Presets))
	for i, p := range c.Presets {
		_, missing := c.PresetTools(p)
		infos[i] = PresetInfo{Preset: p, Missing: missing}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"presets": infos,
	})
}

func (s *ControlServer) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": s.sessions.List(),
	})
}

func (s *ControlServer) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	writeJSON(w, http.StatusCreated, sess.Info())
}

func (s *ControlServer) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return
	}
	if id == DefaultSessionID {
		http.Error(w, "the default session cannot be deleted", http.StatusBadRequest)
		return
	}
	if err := s.sessions.Remove(id); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// stackRequest names a catalog tool or carries a search result to select.
type stackRequest struct {
	ToolID string               `json:"tool_id,omitempty"`
	Result *search.SearchResult `json:"result,omitempty"`
}

func (s *ControlServer) resolveTool(w http.ResponseWriter, r *http.Request) (catalog.Tool, bool) {
	var req stackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return catalog.Tool{}, false
	}

	c := s.sessions.Catalog()
	switch {
	case req.ToolID != "":
		t, ok := c.Tool(req.ToolID)
		if !ok {
			http.Error(w, fmt.Sprintf("tool not found: %s", req.ToolID), http.StatusNotFound)
			return catalog.Tool{}, false
		}
		return t, true
	case req.Result != nil && req.Result.Name != "":
		res := *req.Result
		if res.IsLocal && res.ID != "" {
			if t, ok := c.Tool(res.ID); ok {
				return t, true
			}
		}
		if !search.ValidPackageName(res.Name) {
			http.Error(w, fmt.Sprintf("invalid package name: %q", res.Name), http.StatusBadRequest)
			return catalog.Tool{}, false
		}
		// The install command and id always derive from the name.
		res.ID, res.InstallCommand, res.IsLocal = "", "", false
		return res.ToTool(), true
	default:
		http.Error(w, "tool_id or result is required", http.StatusBadRequest)
		return catalog.Tool{}, false
	}
}

func (s *ControlServer) handleGetStack(w http.ResponseWriter, r *http.Request, sess *Session) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": sess.ID,
		"tools":   sess.Tools(),
	})
}

func (s *ControlServer) handleAddToStack(w http.ResponseWriter, r *http.Request, sess *Session) {
	tool, ok := s.resolveTool(w, r)
	if !ok {
		return
	}
	added := sess.Add(tool)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"added": added,
		"tool":  tool,
		"tools": sess.Tools(),
	})
}

func (s *ControlServer) handleRemoveFromStack(w http.ResponseWriter, r *http.Request, sess *Session) {
	id := r.URL.Query().Get("tool")
	if id == "" {
		http.Error(w, "tool is required", http.StatusBadRequest)
		return
	}
	removed := sess.Remove(id)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"removed": removed,
		"tools":   sess.Tools(),
	})
}

func (s *ControlServer) handleToggle(w http.ResponseWriter, r *http.Request, sess *Session) {
	tool, ok := s.resolveTool(w, r)
	if !ok {
		return
	}
	selected := sess.Toggle(tool)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"selected": selected,
		"tool":     tool,
		"tools":    sess.Tools(),
	})
}

func (s *ControlServer) handleClear(w http.ResponseWriter, r *http.Request, sess *Session) {
	sess.Clear()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tools": sess.Tools(),
	})
}

func (s *ControlServer) handleApplyPreset(w http.ResponseWriter, r *http.Request, sess *Session) {
	var req struct {
		PresetID string `json:"preset_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c := s.sessions.Catalog()
	p, ok := c.Preset(req.PresetID)
	if !ok {
		http.Error(w, fmt.Sprintf("preset not found: %s", req.PresetID), http.StatusNotFound)
		return
	}

	missing := sess.ApplyPreset(p, c)
	if len(missing) > 0 {
		s.logger.Warn("preset references unknown tools",
			zap.String("preset", p.ID), zap.Strings("missing", missing))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"preset":  p.ID,
		"tools":   sess.Tools(),
		"missing": missing,
	})
}

func (s *ControlServer) handleGetBundle(w http.ResponseWriter, r *http.Request, sess *Session) {
	bundle := sess.Bundle()

	if section := r.URL.Query().Get("section"); section != "" {
		text, err := bundle.Section(section)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, text)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"session": sess.ID,
		"bundle":  bundle,
		"text":    bundle.Text(),
	})
}

func (s *ControlServer) handleExport(w http.ResponseWriter, r *http.Request, sess *Session) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "sh"
	}
	e, err := export.For(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	data, err := e.Render(export.NewDocument(sess.Tools()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", e.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=stack%s", e.Extension()))
	w.Write(data)
}

func (s *ControlServer) handleSearch(w http.ResponseWriter, r *http.Request, sess *Session) {
	var (
		query   string
		results []search.SearchResult
		ok      = true
	)
	if r.URL.Query().Has("q") {
		query = r.URL.Query().Get("q")
		results, ok = sess.Searcher().Search(r.Context(), query)
	} else {
		// Without q, report the last published search.
		query, results = sess.Searcher().Latest()
	}
	if results == nil {
		results = []search.SearchResult{}
	}

	type resultView struct {
		search.SearchResult
		Selected         bool   `json:"selected"`
		DownloadsDisplay string `json:"downloads_display,omitempty"`
	}
	views := make([]resultView, len(results))
	c := s.sessions.Catalog()
	for i, res := range results {
		views[i] = resultView{
			SearchResult:     res,
			Selected:         sess.Has(search.ToolFor(res, c).ID),
			DownloadsDisplay: search.FormatDownloads(res.Downloads),
		}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":      query,
		"results":    views,
		"superseded": !ok,
	})
}

func (s *ControlServer) handleEvents(w http.ResponseWriter, r *http.Request, sess *Session) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := sess.Subscribe()
	defer sess.Unsubscribe(ch)

	writeEvent(w, "bundle", sess.Bundle())
	flusher.Flush()

	ticker := time.NewTicker(s.pulse)
	defer ticker.Stop()

	for {
		select {
		case bundle, open := <-ch:
			if !open {
				return
			}
			writeEvent(w, "bundle", bundle)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, "event: pulse\ndata: {\"session\": %q, \"timestamp\": %q}\n\n", sess.ID, time.Now().Format(time.RFC3339))
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, bundle aggregate.CommandBundle) {
	data, _ := json.Marshal(bundle)
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

func (s *ControlServer) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	writeJSON(w, http.StatusOK, s.settings)
}

func (s *ControlServer) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	next := s.settings
	s.mu.RUnlock()

	if err := json.NewDecoder(r.Body).Decode(&next); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := next.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := logger.SetLevel(next.LogLevel); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.settings = next
	presets := s.presets
	s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Save(settings.Config{Settings: next, Presets: presets}); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
	s.logger.Info("settings updated", zap.Int("control_port", next.ControlPort), zap.String("registry_url", next.RegistryURL))

	writeJSON(w, http.StatusOK, next)
}

func (s *ControlServer) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"logs": logger.GetLogs(),
		"file": logger.GetLogFilePath(),
	})
}

func (s *ControlServer) handleLogStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported!", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := logger.Subscribe()
	defer logger.Unsubscribe(ch)
	flusher.Flush()

	for {
		select {
		case entry, open := <-ch:
			if !open {
				return
			}
			data, _ := json.Marshal(entry)
			fmt.Fprintf(w, "event: log\ndata: %s\n\n", data)
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}

func (s *ControlServer) handleClearLogs(w http.ResponseWriter, r *http.Request) {
	if err := logger.ClearLogs(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
