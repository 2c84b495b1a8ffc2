package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeCreated  = "created"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// Recorder owns its registry so tests can build as many as they like.
// A nil *Recorder records nothing.
type Recorder struct {
	reg        *prometheus.Registry
	results    *prometheus.CounterVec
	percentage prometheus.Histogram
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	r := &Recorder{
		reg: reg,
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cognitrack",
			Name:      "assessment_results_total",
			Help:      "Assessment result submissions by outcome.",
		}, []string{"outcome"}),
		percentage: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "cognitrack",
			Name:      "assessment_score_percentage",
			Help:      "Percentage score of stored assessment results.",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}
	reg.MustRegister(
		r.results,
		r.percentage,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, o := range []string{OutcomeCreated, OutcomeRejected, OutcomeFailed} {
		r.results.WithLabelValues(o)
	}
	return r
}

func (r *Recorder) ResultCreated(percentage int) {
	if r == nil {
		return
	}
	r.results.WithLabelValues(OutcomeCreated).Inc()
	r.percentage.Observe(float64(percentage))
}

func (r *Recorder) ResultRejected() {
	if r == nil {
		return
	}
	r.results.WithLabelValues(OutcomeRejected).Inc()
}

func (r *Recorder) ResultFailed() {
	if r == nil {
		return
	}
	r.results.WithLabelValues(OutcomeFailed).Inc()
}

func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Counter returns the submissions counter for one outcome.
func (r *Recorder) Counter(outcome string) prometheus.Counter {
	return r.results.WithLabelValues(outcome)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
