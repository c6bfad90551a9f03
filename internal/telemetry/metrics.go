// Package telemetry exposes stackcart's Prometheus metrics.
package telemetry

import (
	"time"

	"github.com/stackcart/stackcart/internal/domain/search"
)

// Metrics is everything the daemon reports.
type Metrics interface {
	search.Metrics
	ObserveRequest(route string, status int, d time.Duration)
	ObserveSelectionChange(op string)
	SetSelectionSize(session string, n int)
	DeleteSelection(session string)
	SetActiveSessions(n int)
}

type NoopMetrics struct{}

func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

func (n *NoopMetrics) ObserveRemoteSearch(_ string, _ time.Duration, _ int) {}

func (n *NoopMetrics) ObserveSuperseded() {}

func (n *NoopMetrics) ObserveRequest(_ string, _ int, _ time.Duration) {}

func (n *NoopMetrics) ObserveSelectionChange(_ string) {}

func (n *NoopMetrics) SetSelectionSize(_ string, _ int) {}

func (n *NoopMetrics) DeleteSelection(_ string) {}

func (n *NoopMetrics) SetActiveSessions(_ int) {}

var _ Metrics = (*NoopMetrics)(nil)
