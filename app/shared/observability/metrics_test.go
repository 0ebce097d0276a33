package observability

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)
	ctx := context.Background()

	m.RecordOperationAttempt(ctx, "Advance", "PipelineService")
	m.RecordOperationSuccess(ctx, "Advance", "PipelineService")
	m.RecordOperationDuration(ctx, "Advance", "PipelineService", 20*time.Millisecond)
	m.RecordTransition(ctx, "TECHNICAL_INTERVIEW")
	m.RecordTransition(ctx, "TECHNICAL_INTERVIEW")
	m.RecordAutomationFailure(ctx, "interview_scheduler")
	m.RecordVerdict(ctx, "VOTING", false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.attempts.WithLabelValues("Advance", "PipelineService")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("TECHNICAL_INTERVIEW")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.automationFailures.WithLabelValues("interview_scheduler")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.verdicts.WithLabelValues("VOTING", "false")))
}
