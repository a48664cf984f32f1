package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// TrackingMetrics records counters for tracking mutations and the sync loop.
type TrackingMetrics struct {
	transitions *prometheus.CounterVec
	syncEvents  *prometheus.CounterVec
	publishLag  *prometheus.HistogramVec
}

// NewTrackingMetrics registers the tracking metrics on the provided registerer.
func NewTrackingMetrics(reg prometheus.Registerer) *TrackingMetrics {
	if reg == nil {
		return &TrackingMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "seguimiento_transitions_total",
		Help: "Committed estado transitions, labeled by target estado.",
	}, []string{"estado"})
	syncEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sync_events_total",
		Help: "Processed intake change-stream events, labeled by change type and result.",
	}, []string{"change_type", "result"})
	publishLag := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "outbox_publish_lag_seconds",
		Help:    "Time between outbox row creation and publish.",
		Buckets: prometheus.DefBuckets,
	}, []string{"event_type"})
	reg.MustRegister(transitions, syncEvents, publishLag)
	return &TrackingMetrics{
		transitions: transitions,
		syncEvents:  syncEvents,
		publishLag:  publishLag,
	}
}

// IncTransition increments the transition counter for the target estado.
func (t *TrackingMetrics) IncTransition(estado string) {
	if t == nil || t.transitions == nil {
		return
	}
	t.transitions.WithLabelValues(normalizeLabel(estado)).Inc()
}

// IncSyncEvent increments the sync counter for the given change type.
func (t *TrackingMetrics) IncSyncEvent(changeType, result string) {
	if t == nil || t.syncEvents == nil {
		return
	}
	t.syncEvents.WithLabelValues(normalizeLabel(changeType), normalizeLabel(result)).Inc()
}

// ObservePublishLag records how long an outbox row waited before publish.
func (t *TrackingMetrics) ObservePublishLag(eventType string, lag time.Duration) {
	if t == nil || t.publishLag == nil {
		return
	}
	t.publishLag.WithLabelValues(normalizeLabel(eventType)).Observe(lag.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
