// Package metrics exposes container resolutions to Prometheus.
package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/km-arc/go-cradle/framework/container"
)

const namespace = "cradle"

// Metrics records resolutions reported through container.Options.OnResolve.
type Metrics struct {
	registry *prometheus.Registry

	resolutions *prometheus.CounterVec
	failures    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry, together with the default
// process and Go collectors.
func New(appName string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Resolutions performed, by name and lifetime.",
		}, []string{"name", "lifetime"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolution_failures_total",
			Help:      "Resolutions that returned an error, by name.",
		}, []string{"name"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "resolution_duration_seconds",
			Help:      "Time spent resolving, including dependencies.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}, []string{"lifetime"}),
	}

	registerer := prometheus.WrapRegistererWith(prometheus.Labels{"app": appName}, m.registry)
	registerer.MustRegister(prometheus.NewProcessCollector(
		prometheus.ProcessCollectorOpts{Namespace: namespace},
	))
	registerer.MustRegister(prometheus.NewGoCollector())
	registerer.MustRegister(m.resolutions, m.failures, m.duration)
	return m
}

// Observe has the signature of container.Options.OnResolve.
func (m *Metrics) Observe(name container.Key, lifetime container.Lifetime, took time.Duration, err error) {
	label := fmt.Sprint(name)
	if err != nil {
		m.failures.WithLabelValues(label).Inc()
		return
	}
	m.resolutions.WithLabelValues(label, lifetime.String()).Inc()
	m.duration.WithLabelValues(lifetime.String()).Observe(took.Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
