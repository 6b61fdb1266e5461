// Package metrics implements ports.Metrics with Prometheus collectors.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/mutuals/internal/core/domain"
	"go.trai.ch/zerr"
)

// Recorder holds the crawl collectors on a private registry, so a run's
// numbers are never mixed with another process-wide registration.
type Recorder struct {
	registry *prometheus.Registry

	remoteCalls   *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	edgesAdded    *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec
}

// New creates a new Recorder with all collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		remoteCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mutuals_remote_calls_total",
				Help: "Calls to the remote relationship service by method and outcome",
			},
			[]string{"method", "outcome"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mutuals_cache_lookups_total",
				Help: "Relationship cache lookups by direction and result",
			},
			[]string{"direction", "result"},
		),
		edgesAdded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mutuals_edges_added_total",
				Help: "Graph edges created by kind",
			},
			[]string{"kind"},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mutuals_phase_duration_seconds",
				Help:    "Duration of traced crawl phases in seconds",
				Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
			},
			[]string{"phase"},
		),
	}

	r.registry.MustRegister(r.remoteCalls, r.cacheLookups, r.edgesAdded, r.phaseDuration)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RemoteCall records one call to the remote service.
func (r *Recorder) RemoteCall(method string, err error) {
	r.remoteCalls.WithLabelValues(method, outcome(err)).Inc()
}

// CacheLookup records a relationship cache lookup.
func (r *Recorder) CacheLookup(dir domain.Direction, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(dir.String(), result).Inc()
}

// EdgeAdded records a new graph edge.
func (r *Recorder) EdgeAdded(kind string) {
	r.edgesAdded.WithLabelValues(kind).Inc()
}

// PhaseDuration records how long one traced phase took.
func (r *Recorder) PhaseDuration(phase string, d time.Duration) {
	r.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", path)
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrServiceUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}
