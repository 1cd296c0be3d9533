// Package metrics exposes triage counters in Prometheus format.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mikey/mail-triage/internal/core"
)

const namespace = "mail_triage"

// Recorder counts triage outcomes and drafter fallbacks
type Recorder struct {
	registry  *prometheus.Registry
	messages  *prometheus.CounterVec
	meetings  prometheus.Counter
	fallbacks *prometheus.CounterVec
}

// NewRecorder registers the triage metrics on a private registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		messages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_total",
			Help:      "Messages triaged, by category and whether the verdict came from the store.",
		}, []string{"category", "cached"}),
		meetings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "meetings_detected_total",
			Help:      "Messages that proposed a meeting.",
		}),
		fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "drafter_fallbacks_total",
			Help:      "Drafts that fell back to templates, by failing provider.",
		}, []string{"provider"}),
	}

	r.registry.MustRegister(r.messages, r.meetings, r.fallbacks)
	return r
}

// ObserveTriage implements core.MetricsRecorder
func (r *Recorder) ObserveTriage(category core.Category, hasMeeting bool, cached bool) {
	r.messages.WithLabelValues(string(category), strconv.FormatBool(cached)).Inc()
	if hasMeeting {
		r.meetings.Inc()
	}
}

// ObserveDrafterFallback implements drafting.FallbackObserver
func (r *Recorder) ObserveDrafterFallback(provider string) {
	r.fallbacks.WithLabelValues(provider).Inc()
}

// Handler serves the registry for scraping
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
