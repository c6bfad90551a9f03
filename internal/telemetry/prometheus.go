package telemetry

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	remoteSearchDuration *prometheus.HistogramVec
	remoteSearchResults  prometheus.Histogram
	searchesSuperseded   prometheus.Counter
	requestDuration      *prometheus.HistogramVec
	selectionChanges     *prometheus.CounterVec
	selectionSize        *prometheus.GaugeVec
	activeSessions       prometheus.Gauge
}

func NewPrometheusMetrics(registerer prometheus.Registerer) *PrometheusMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &PrometheusMetrics{
		remoteSearchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stackcart_remote_search_duration_seconds",
				Help:    "Duration of npm registry searches in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"outcome"},
		),
		remoteSearchResults: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "stackcart_remote_search_results",
				Help:    "Number of results returned by successful npm registry searches",
				Buckets: []float64{0, 1, 5, 10, 20, 50},
			},
		),
		searchesSuperseded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "stackcart_searches_superseded_total",
				Help: "Total number of searches discarded because a newer search started",
			},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stackcart_api_request_duration_seconds",
				Help:    "Duration of control API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "status"},
		),
		selectionChanges: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stackcart_selection_changes_total",
				Help: "Total number of selection mutations",
			},
			[]string{"op"},
		),
		selectionSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stackcart_selection_size",
				Help: "Current number of tools selected per session",
			},
			[]string{"session"},
		),
		activeSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "stackcart_active_sessions",
				Help: "Current number of sessions",
			},
		),
	}
}

func (p *PrometheusMetrics) ObserveRemoteSearch(outcome string, d time.Duration, results int) {
	p.remoteSearchDuration.WithLabelValues(outcome).Observe(d.Seconds())
	if outcome == "ok" {
		p.remoteSearchResults.Observe(float64(results))
	}
}

func (p *PrometheusMetrics) ObserveSuperseded() {
	p.searchesSuperseded.Inc()
}

func (p *PrometheusMetrics) ObserveRequest(route string, status int, d time.Duration) {
	p.requestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (p *PrometheusMetrics) ObserveSelectionChange(op string) {
	p.selectionChanges.WithLabelValues(op).Inc()
}

func (p *PrometheusMetrics) SetSelectionSize(session string, n int) {
	p.selectionSize.WithLabelValues(session).Set(float64(n))
}

func (p *PrometheusMetrics) DeleteSelection(session string) {
	p.selectionSize.DeleteLabelValues(session)
}

func (p *PrometheusMetrics) SetActiveSessions(n int) {
	p.activeSessions.Set(float64(n))
}

var _ Metrics = (*PrometheusMetrics)(nil)
