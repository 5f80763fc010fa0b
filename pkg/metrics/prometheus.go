package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scans          *prometheus.HistogramVec
	gateRejects    *prometheus.CounterVec
	decisions      *prometheus.CounterVec
	cacheLookups   *prometheus.CounterVec
	lockContention *prometheus.CounterVec
	storeDegraded  *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scans: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fdx_scan_duration_seconds",
				Help:    "Duration of strategy scans by outcome",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"strategy", "outcome"},
		),
		gateRejects: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fdx_gate_rejections_total",
				Help: "Hard gate rejections by gate and reason",
			},
			[]string{"gate", "reason"},
		),
		decisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fdx_decisions_total",
				Help: "Decisions emitted by strategy, direction and grade",
			},
			[]string{"strategy", "direction", "grade"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fdx_decision_cache_lookups_total",
				Help: "Decision cache lookups by result",
			},
			[]string{"result"},
		),
		lockContention: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fdx_scan_lock_contention_total",
				Help: "Scan lock acquire failures by strategy",
			},
			[]string{"strategy"},
		),
		storeDegraded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fdx_store_degraded_total",
				Help: "Durable store failures that degraded to memory-only operation",
			},
			[]string{"store"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fdx_last_price",
				Help: "Last streamed price for a symbol",
			},
			[]string{"symbol"},
		),
	}
}

// RecordScan records one scan's duration and outcome.
func (r *Recorder) RecordScan(strategyID, outcome string, seconds float64) {
	r.scans.WithLabelValues(strategyID, outcome).Observe(seconds)
}

// RecordGateReject records a hard gate rejection.
func (r *Recorder) RecordGateReject(gate, reason string) {
	r.gateRejects.WithLabelValues(gate, reason).Inc()
}

// RecordDecision records an emitted decision.
func (r *Recorder) RecordDecision(strategyID, direction, grade string) {
	r.decisions.WithLabelValues(strategyID, direction, grade).Inc()
}

// RecordCacheLookup records a decision cache hit or miss.
func (r *Recorder) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(result).Inc()
}

// RecordLockContention records a failed scan lock acquire.
func (r *Recorder) RecordLockContention(strategyID string) {
	r.lockContention.WithLabelValues(strategyID).Inc()
}

// RecordStoreDegraded records a durable store falling back to memory.
func (r *Recorder) RecordStoreDegraded(store string) {
	r.storeDegraded.WithLabelValues(store).Inc()
}

// RecordLastPrice records the last streamed price for a symbol.
func (r *Recorder) RecordLastPrice(symbol string, price float64) {
	r.lastPrice.WithLabelValues(symbol).Set(price)
}
