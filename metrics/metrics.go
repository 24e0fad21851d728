package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kova98/threadtext/enums"
)

const namespace = "threadtext"

// Outcome labels for upstream fetches.
const (
	OutcomeOK       = "ok"
	OutcomeStatus   = "bad_status"
	OutcomeError    = "error"
	OutcomeTooLarge = "too_large"
)

type Metrics struct {
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
	Transcripts      *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Upstream reddit fetches by outcome.",
		}, []string{"outcome"}),
		UpstreamDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Time spent fetching from reddit.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}),
		Transcripts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcripts_rendered_total",
			Help:      "Rendered transcripts by input shape.",
		}, []string{"shape"}),
	}

	reg.MustRegister(m.UpstreamRequests, m.UpstreamDuration, m.Transcripts)
	return m
}

func (m *Metrics) ObserveFetch(outcome string, elapsed time.Duration) {
	m.UpstreamRequests.WithLabelValues(outcome).Inc()
	m.UpstreamDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveTranscript(shape enums.Shape) {
	m.Transcripts.WithLabelValues(string(shape)).Inc()
}
