package search

import "time"

// Remote search outcomes reported to Metrics.
const (
	OutcomeOK        = "ok"
	OutcomeError     = "error"
	OutcomeCancelled = "cancelled"
)

// Metrics receives search observations.
type Metrics interface {
	ObserveRemoteSearch(outcome string, d time.Duration, results int)
	ObserveSuperseded()
}

type nopMetrics struct{}

func (nopMetrics) ObserveRemoteSearch(string, time.Duration, int) {}
func (nopMetrics) ObserveSuperseded()                             {}
