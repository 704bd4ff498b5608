// Package metrics exposes Prometheus instruments for the reputation ledger.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "foxcom"

// Metrics holds every instrument the engine records into.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry       *prometheus.Registry
	quotaDecisions *prometheus.CounterVec
	votesApplied   *prometheus.CounterVec
	scoreDelta     prometheus.Counter
	pruneDeleted   *prometheus.CounterVec
	prunes         prometheus.Counter
	ledgerBusy     prometheus.Counter
	ledgerWrite    prometheus.Histogram
}

// New creates the instruments on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		quotaDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_decisions_total",
			Help:      "Broadcast quota decisions by result.",
		}, []string{"result"}),
		votesApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "votes_applied_total",
			Help:      "Votes that changed an author's score, by kind.",
		}, []string{"kind"}),
		scoreDelta: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "score_delta_abs_total",
			Help:      "Sum of absolute score changes applied from votes.",
		}),
		pruneDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prune_deleted_rows_total",
			Help:      "Rows removed by prune passes, by table.",
		}, []string{"table"}),
		prunes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prune_runs_total",
			Help:      "Completed prune passes.",
		}),
		ledgerBusy: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_busy_total",
			Help:      "Write lock acquisitions that timed out.",
		}),
		ledgerWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ledger_write_seconds",
			Help:      "Time spent holding the ledger write lock.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
	}

	m.registry.MustRegister(
		m.quotaDecisions,
		m.votesApplied,
		m.scoreDelta,
		m.pruneDeleted,
		m.prunes,
		m.ledgerBusy,
		m.ledgerWrite,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry backing these instruments.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// QuotaDecision records one check-and-consume outcome.
func (m *Metrics) QuotaDecision(allowed bool) {
	if m == nil {
		return
	}
	if allowed {
		m.quotaDecisions.WithLabelValues("allowed").Inc()
	} else {
		m.quotaDecisions.WithLabelValues("denied").Inc()
	}
}

// VoteApplied records a vote that produced a non-zero delta.
func (m *Metrics) VoteApplied(kind string, delta int64) {
	if m == nil || delta == 0 {
		return
	}
	m.votesApplied.WithLabelValues(kind).Inc()
	if delta < 0 {
		delta = -delta
	}
	m.scoreDelta.Add(float64(delta))
}

// Pruned records the rows removed by one prune pass.
func (m *Metrics) Pruned(messages, votes int64) {
	if m == nil {
		return
	}
	m.prunes.Inc()
	m.pruneDeleted.WithLabelValues("rep_messages").Add(float64(messages))
	m.pruneDeleted.WithLabelValues("rep_votes").Add(float64(votes))
}

// LedgerBusy records a timed-out write lock acquisition.
func (m *Metrics) LedgerBusy() {
	if m == nil {
		return
	}
	m.ledgerBusy.Inc()
}

// LedgerWrite records how long a write held the lock.
func (m *Metrics) LedgerWrite(d time.Duration) {
	if m == nil {
		return
	}
	m.ledgerWrite.Observe(d.Seconds())
}
