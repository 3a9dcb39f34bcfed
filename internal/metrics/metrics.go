// Package metrics exposes Prometheus counters for lead submissions and tier
// classifications. Nothing here is persisted; counters reset on restart.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Submission outcomes used as the "outcome" label.
const (
	OutcomeSent          = "sent"
	OutcomeInvalid       = "invalid"
	OutcomeMisconfigured = "misconfigured"
	OutcomeProviderError = "provider_error"
)

// Recorder owns a private registry so tests and multiple servers in one
// process never collide on the global default registry.
type Recorder struct {
	registry    *prometheus.Registry
	submissions *prometheus.CounterVec
	tiers       *prometheus.CounterVec
	sendLatency prometheus.Histogram
}

// New creates a Recorder with the Go runtime and process collectors attached.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		registry: reg,
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scorecard_lead_submissions_total",
			Help: "Lead submissions by form and outcome.",
		}, []string{"form", "outcome"}),
		tiers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scorecard_tier_classifications_total",
			Help: "Scored answer sets by form and resulting tier.",
		}, []string{"form", "tier"}),
		sendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scorecard_email_send_duration_seconds",
			Help:    "Time spent in the email provider call.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		r.submissions,
		r.tiers,
		r.sendLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Submission counts one POST /api/send by outcome.
func (r *Recorder) Submission(form, outcome string) {
	if r == nil {
		return
	}
	r.submissions.WithLabelValues(form, outcome).Inc()
}

// Tier counts one classification: a scored answer set, or a delivered lead.
func (r *Recorder) Tier(form, tier string) {
	if r == nil {
		return
	}
	r.tiers.WithLabelValues(form, tier).Inc()
}

// ObserveSend records the duration of one provider call.
func (r *Recorder) ObserveSend(d time.Duration) {
	if r == nil {
		return
	}
	r.sendLatency.Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry (used by tests).
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }
