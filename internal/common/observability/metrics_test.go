// internal/common/observability/metrics_test.go
package observability

import (
	"context"
	"strings"
	"testing"
	"time"

	"lead-intelligence/internal/common/config"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservability_RecordsJobMetrics(t *testing.T) {
	reg := promclient.NewRegistry()
	obs, err := New(config.ObservabilityConfig{ServiceName: "lead-intelligence-test", SampleRatio: 1}, reg)
	require.NoError(t, err)
	defer obs.Shutdown(context.Background())

	ctx, span := obs.StartSpan(context.Background(), "chat.turn")
	assert.True(t, span.SpanContext().IsValid())
	obs.RecordJobProcessed(ctx, "process-chat-turn", "completed")
	obs.RecordJobDuration(ctx, "process-chat-turn", 25*time.Millisecond, "completed")
	span.End()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]float64, len(families))
	for _, f := range families {
		var total float64
		for _, m := range f.GetMetric() {
			if c := m.GetCounter(); c != nil {
				total += c.GetValue()
			}
			if h := m.GetHistogram(); h != nil {
				total += float64(h.GetSampleCount())
			}
		}
		names[f.GetName()] = total
	}

	assert.Equal(t, float64(1), names["jobs_processed_total"])
	assert.Equal(t, float64(1), names["jobs_duration_milliseconds"])
	for name := range names {
		assert.False(t, strings.Contains(name, "."), "metric name %q is not underscore-escaped", name)
	}
}

func TestObservability_NilReceiver(t *testing.T) {
	var obs *Observability

	_, span := obs.StartSpan(context.Background(), "noop")
	span.End()
	obs.RecordJobProcessed(context.Background(), "x", "completed")
	assert.NoError(t, obs.Shutdown(context.Background()))
}
