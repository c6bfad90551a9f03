package search

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/stackcart/stackcart/internal/domain/catalog"
)

// Combined returns local matches followed by remote results whose name,
// compared case-insensitively, is not already among the local ones. remote
// may be nil.
func Combined(ctx context.Context, query string, c *catalog.Catalog, remote Remote) []SearchResult {
	local := Local(query, c)
	if remote == nil || utf8.RuneCountInString(query) < MinQueryLength {
		return local
	}

	fetched := remote.FetchRemote(ctx, query)

	names := make(map[string]bool, len(local))
	for _, r := range local {
		names[strings.ToLower(r.Name)] = true
	}
	merged := local
	for _, r := range fetched {
		if names[strings.ToLower(r.Name)] {
			continue
		}
		merged = append(merged, r)
	}
	return merged
}

// Searcher runs combined searches with at most one in flight. Starting a
// search cancels the previous one, and a cancelled search never publishes.
type Searcher struct {
	catalog *catalog.Catalog
	remote  Remote
	logger  *zap.Logger
	metrics Metrics

	mu      sync.Mutex
	cancel  context.CancelFunc
	seq     uint64
	query   string
	results []SearchResult
	publish func(query string, results []SearchResult)
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithSearcherLogger sets the Searcher's logger.
func WithSearcherLogger(l *zap.Logger) SearcherOption {
	return func(s *Searcher) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSearcherMetrics sets the Searcher's metrics sink.
func WithSearcherMetrics(m Metrics) SearcherOption {
	return func(s *Searcher) {
		if m != nil {
			s.metrics = m
		}
	}
}

// OnPublish registers a callback run after each published search.
func OnPublish(fn func(query string, results []SearchResult)) SearcherOption {
	return func(s *Searcher) { s.publish = fn }
}

// NewSearcher creates a Searcher over c, enriched by remote when non-nil.
func NewSearcher(c *catalog.Catalog, remote Remote, opts ...SearcherOption) *Searcher {
	s := &Searcher{
		catalog: c,
		remote:  remote,
		logger:  zap.NewNop(),
		metrics: nopMetrics{},
		results: []SearchResult{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search runs a combined search. The boolean is false when the search was
// superseded or ctx was cancelled; its results are then discarded.
func (s *Searcher) Search(ctx context.Context, query string) ([]SearchResult, bool) {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	results := Combined(ctx, query, s.catalog, s.remote)

	s.mu.Lock()
	if seq != s.seq || ctx.Err() != nil {
		s.mu.Unlock()
		cancel()
		s.metrics.ObserveSuperseded()
		s.logger.Debug("search superseded", zap.String("query", query))
		return nil, false
	}
	s.cancel = nil
	s.query = query
	s.results = results
	publish := s.publish
	s.mu.Unlock()
	cancel()

	if publish != nil {
		publish(query, results)
	}
	return results, true
}

// Latest returns the most recently published query and results.
func (s *Searcher) Latest() (string, []SearchResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]SearchResult, len(s.results))
	copy(out, s.results)
	return s.query, out
}

// Cancel aborts the in-flight search, if any.
func (s *Searcher) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
}
