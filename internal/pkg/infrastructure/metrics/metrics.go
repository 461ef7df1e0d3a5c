package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeFailed  string = "failed"
	OutcomeInvalid string = "invalid"
)

type Metrics struct {
	registry *prometheus.Registry

	jobsTotal   *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	geocoding   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.jobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mec",
		Subsystem: "handler",
		Name:      "jobs_total",
		Help:      "Number of processed music event jobs by source and outcome",
	}, []string{"source", "outcome"})
	m.jobDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "mec",
		Subsystem: "handler",
		Name:      "job_duration_seconds",
		Help:      "Time spent processing a music event job",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
	m.geocoding = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mec",
		Subsystem: "geocoding",
		Name:      "lookups_total",
		Help:      "Number of venue geocoding lookups by result",
	}, []string{"result"})

	m.registry.MustRegister(
		m.jobsTotal, m.jobDuration, m.geocoding,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// JobDone records a finished job. outcome is a mapper outcome or one of the
// Outcome constants of this package.
func (m *Metrics) JobDone(source, outcome string, duration time.Duration) {
	m.jobsTotal.WithLabelValues(source, outcome).Inc()
	m.jobDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// Geocoded records a geocoding lookup, result being "hit", "miss" or "error"
func (m *Metrics) Geocoded(result string) {
	m.geocoding.WithLabelValues(result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
