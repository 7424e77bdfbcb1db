package monitoring

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appo-sh/hostbridge/bridge"
	"github.com/appo-sh/hostbridge/bridge/bridgetest"
)

func TestBridgeStatsCountsSettlements(t *testing.T) {
	reg := prometheus.NewRegistry()
	stats := NewBridgeStats(reg)

	var _ bridge.Stats = stats

	stats.RequestSent("storage.get")
	stats.RequestSent("storage.get")
	stats.NotifySent("haptics.impact")
	stats.RequestSettled("storage.get", bridge.OutcomeResolved)
	stats.RequestSettled("storage.get", bridge.OutcomeTimeout)
	stats.EventDelivered("network.change", 3)
	stats.FrameDropped()

	assert.Equal(t, 2.0, testutil.ToFloat64(stats.requestsSent.WithLabelValues("storage.get")))
	assert.Equal(t, 1.0, testutil.ToFloat64(stats.requestsSent.WithLabelValues("haptics.impact")))
	assert.Equal(t, 1.0, testutil.ToFloat64(stats.requestsSettled.WithLabelValues("storage.get", "resolved")))
	assert.Equal(t, 1.0, testutil.ToFloat64(stats.requestsSettled.WithLabelValues("storage.get", "timeout")))
	assert.Equal(t, 3.0, testutil.ToFloat64(stats.eventsDelivered.WithLabelValues("network.change")))
	assert.Equal(t, 1.0, testutil.ToFloat64(stats.framesDropped))
}

func TestBridgeStatsObservesLiveBridge(t *testing.T) {
	reg := prometheus.NewRegistry()
	stats := NewBridgeStats(reg)

	host := bridgetest.NewHost(bridge.WithStats(stats))
	host.Handle("device.getInfo", func(any) (any, error) {
		return map[string]any{"platform": "test"}, nil
	})

	_, err := host.Bridge().Call(context.Background(), "device.getInfo", nil)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(stats.requestsSent.WithLabelValues("device.getInfo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(stats.requestsSettled.WithLabelValues("device.getInfo", "resolved")))
}

func TestMetricsRegisterOnCustomRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.SessionsTotal.Inc()
	m.RequestsTotal.WithLabelValues("storage", "get", "ok").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["hostd_sessions_total"])
	assert.True(t, names["hostd_requests_total"])
}
