// Package monitoring holds Prometheus metrics for the reference host daemon
// and a bridge.Stats implementation for instrumenting guest-side bridges.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the host daemon's Prometheus metrics.
type Metrics struct {
	// Session metrics
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter

	// Request handling metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Event metrics
	EventsBroadcast *prometheus.CounterVec

	// Inbound protection
	RateLimited prometheus.Counter
	BadFrames   prometheus.Counter
}

// NewMetrics creates the host daemon metrics, registered on reg. Pass nil to
// use the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SessionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Name: "hostd_sessions_active",
			Help: "Currently connected guest sessions",
		}),
		SessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "hostd_sessions_total",
			Help: "Total guest sessions accepted",
		}),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostd_requests_total",
				Help: "Requests handled, by channel and outcome",
			},
			[]string{"feature", "action", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "hostd_request_duration_seconds",
				Help:    "Request handling duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"feature", "action"},
		),
		EventsBroadcast: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hostd_events_broadcast_total",
				Help: "Events broadcast to guest sessions, by channel",
			},
			[]string{"event"},
		),
		RateLimited: factory.NewCounter(prometheus.CounterOpts{
			Name: "hostd_frames_rate_limited_total",
			Help: "Inbound frames rejected by the rate limiter",
		}),
		BadFrames: factory.NewCounter(prometheus.CounterOpts{
			Name: "hostd_frames_malformed_total",
			Help: "Inbound frames that failed to parse as requests",
		}),
	}
}

// BridgeStats implements bridge.Stats on Prometheus counters.
type BridgeStats struct {
	requestsSent    *prometheus.CounterVec
	requestsSettled *prometheus.CounterVec
	eventsDelivered *prometheus.CounterVec
	framesDropped   prometheus.Counter
}

// NewBridgeStats creates bridge instrumentation registered on reg. Pass nil
// to use the default registerer.
func NewBridgeStats(reg prometheus.Registerer) *BridgeStats {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &BridgeStats{
		requestsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_requests_sent_total",
				Help: "Requests and notifications transmitted, by channel",
			},
			[]string{"channel"},
		),
		requestsSettled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_requests_settled_total",
				Help: "Request settlements, by channel and outcome",
			},
			[]string{"channel", "outcome"},
		),
		eventsDelivered: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bridge_events_delivered_total",
				Help: "Event deliveries fanned out to subscribers, by channel",
			},
			[]string{"channel"},
		),
		framesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_frames_dropped_total",
			Help: "Incoming frames dropped as malformed or uncorrelated",
		}),
	}
}

func (s *BridgeStats) RequestSent(channel string) {
	s.requestsSent.WithLabelValues(channel).Inc()
}

func (s *BridgeStats) NotifySent(channel string) {
	s.requestsSent.WithLabelValues(channel).Inc()
}

func (s *BridgeStats) RequestSettled(channel, outcome string) {
	s.requestsSettled.WithLabelValues(channel, outcome).Inc()
}

func (s *BridgeStats) EventDelivered(channel string, subscribers int) {
	s.eventsDelivered.WithLabelValues(channel).Add(float64(subscribers))
}

func (s *BridgeStats) FrameDropped() {
	s.framesDropped.Inc()
}
