package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the recording surface every service operation reports through.
type Metrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration)

	// RecordTransition counts an application entering a round, labelled by advisory stage.
	RecordTransition(ctx context.Context, stage string)
	// RecordAutomationFailure counts a swallowed dispatcher failure.
	RecordAutomationFailure(ctx context.Context, dispatcher string)
	// RecordVerdict counts a finalized assessment.
	RecordVerdict(ctx context.Context, mode string, passed bool)
}

// PrometheusMetrics implements Metrics on a prometheus registry.
type PrometheusMetrics struct {
	attempts           *prometheus.CounterVec
	successes          *prometheus.CounterVec
	failures           *prometheus.CounterVec
	durations          *prometheus.HistogramVec
	transitions        *prometheus.CounterVec
	automationFailures *prometheus.CounterVec
	verdicts           *prometheus.CounterVec
}

const namespace = "talent_pipeline"

// NewPrometheusMetrics registers the pipeline collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_attempts_total",
			Help:      "Service operations started.",
		}, []string{"operation", "service"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_success_total",
			Help:      "Service operations completed without infrastructure error.",
		}, []string{"operation", "service"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_failures_total",
			Help:      "Service operations that returned an infrastructure error or panicked.",
		}, []string{"operation", "service"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Service operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Applications moved into a round, by advisory stage.",
		}, []string{"stage"}),
		automationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "automation_failures_total",
			Help:      "Best-effort automation failures that were logged and dropped.",
		}, []string{"dispatcher"}),
		verdicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessment_verdicts_total",
			Help:      "Finalized assessments by evaluation mode and outcome.",
		}, []string{"mode", "passed"}),
	}
	reg.MustRegister(m.attempts, m.successes, m.failures, m.durations, m.transitions, m.automationFailures, m.verdicts)
	return m
}

func (m *PrometheusMetrics) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(_ context.Context, operation, service string, duration time.Duration) {
	m.durations.WithLabelValues(operation, service).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordTransition(_ context.Context, stage string) {
	m.transitions.WithLabelValues(stage).Inc()
}

func (m *PrometheusMetrics) RecordAutomationFailure(_ context.Context, dispatcher string) {
	m.automationFailures.WithLabelValues(dispatcher).Inc()
}

func (m *PrometheusMetrics) RecordVerdict(_ context.Context, mode string, passed bool) {
	m.verdicts.WithLabelValues(mode, strconv.FormatBool(passed)).Inc()
}

// NoOpMetrics discards everything.
type NoOpMetrics struct{}

// NewNoop returns a Metrics that records nothing.
func NewNoop() Metrics { return NoOpMetrics{} }

func (NoOpMetrics) RecordOperationAttempt(context.Context, string, string)                {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string, string)                {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, string)                {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (NoOpMetrics) RecordTransition(context.Context, string)                               {}
func (NoOpMetrics) RecordAutomationFailure(context.Context, string)                        {}
func (NoOpMetrics) RecordVerdict(context.Context, string, bool)                            {}
