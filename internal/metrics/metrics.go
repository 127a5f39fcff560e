// Package metrics provides the centralized Prometheus metrics registry for
// the analysis engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	AnalysesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "analyses_total",
		Help:      "Total number of authorized parlay analyses",
	})
	LegEvaluationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "leg_evaluations_total",
		Help:      "Total number of leg probability evaluations",
	})
	QuotaRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "quota_rejections_total",
		Help:      "Total number of analyses rejected by the daily quota",
	})
	CooldownRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "cooldown_rejections_total",
		Help:      "Total number of analyses rejected by the cooldown",
	})
	ParlaysRecordedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "parlays_recorded_total",
		Help:      "Total number of parlay predictions recorded",
	})
	ParlaysSettledTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "parlays_settled_total",
		Help:      "Total number of parlays settled, by outcome",
	}, []string{"outcome"})
	GameLogSyncsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "courtside",
		Name:      "game_log_syncs_total",
		Help:      "Total number of game log synchronization runs",
	})
)

// Gauge metrics
var (
	TrackedIdentities = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "courtside",
		Name:      "tracked_identities",
		Help:      "Number of identities with a live usage record",
	})
	PendingParlays = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "courtside",
		Name:      "pending_parlays",
		Help:      "Number of recorded parlays awaiting settlement",
	})
)

// Histogram metrics
var (
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "courtside",
		Name:      "analysis_duration_seconds",
		Help:      "Duration of full parlay analyses in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(AnalysesTotal)
		registry.MustRegister(LegEvaluationsTotal)
		registry.MustRegister(QuotaRejectionsTotal)
		registry.MustRegister(CooldownRejectionsTotal)
		registry.MustRegister(ParlaysRecordedTotal)
		registry.MustRegister(ParlaysSettledTotal)
		registry.MustRegister(GameLogSyncsTotal)

		registry.MustRegister(TrackedIdentities)
		registry.MustRegister(PendingParlays)

		registry.MustRegister(AnalysisDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordAnalysis records an authorized analysis and its duration.
func RecordAnalysis(durationSeconds float64) {
	AnalysesTotal.Inc()
	AnalysisDuration.Observe(durationSeconds)
}

// RecordLegEvaluation records a leg evaluation event.
func RecordLegEvaluation() {
	LegEvaluationsTotal.Inc()
}

// RecordQuotaRejection records a quota rejection event.
func RecordQuotaRejection() {
	QuotaRejectionsTotal.Inc()
}

// RecordCooldownRejection records a cooldown rejection event.
func RecordCooldownRejection() {
	CooldownRejectionsTotal.Inc()
}

// RecordParlayRecorded records a persisted parlay prediction.
func RecordParlayRecorded() {
	ParlaysRecordedTotal.Inc()
}

// RecordParlaySettled records a settled parlay by outcome.
func RecordParlaySettled(outcome string) {
	ParlaysSettledTotal.WithLabelValues(outcome).Inc()
}
