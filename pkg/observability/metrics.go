package observability

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by engine lifecycle events.
type Metrics struct {
	Passes         *prometheus.CounterVec
	PassDuration   *prometheus.HistogramVec
	NodeComputes   *prometheus.CounterVec
	NodeDuration   *prometheus.HistogramVec
	RemoteCalls    *prometheus.CounterVec
	RemoteDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Passes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_passes_total",
				Help: "Total number of evaluation passes",
			},
			[]string{"mode", "outcome"},
		),
		PassDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lattice_pass_duration_seconds",
				Help:    "Duration of evaluation passes",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		NodeComputes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_node_computes_total",
				Help: "Total number of computator invocations",
			},
			[]string{"computator", "outcome"},
		),
		NodeDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lattice_node_duration_seconds",
				Help:    "Duration of computator invocations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"computator"},
		),
		RemoteCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "lattice_remote_calls_total",
				Help: "Total number of remote resolver calls",
			},
			[]string{"route", "strategy", "outcome"},
		),
		RemoteDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "lattice_remote_duration_seconds",
				Help:    "Duration of remote resolver calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}

	if reg != nil {
		for _, c := range m.collectors() {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.Passes, m.PassDuration,
		m.NodeComputes, m.NodeDuration,
		m.RemoteCalls, m.RemoteDuration,
	}
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnPassEnd: func(_ context.Context, e *domain.PassEvent) {
			m.Passes.WithLabelValues(string(e.Mode), outcome(e.Err != nil)).Inc()
			m.PassDuration.WithLabelValues(string(e.Mode)).Observe(e.Duration.Seconds())
		},
		OnNodeCompute: func(_ context.Context, e *domain.NodeEvent) {
			m.NodeComputes.WithLabelValues(e.Computator, outcome(e.Err != nil)).Inc()
			m.NodeDuration.WithLabelValues(e.Computator).Observe(e.Duration.Seconds())
		},
		OnRemoteReturn: func(_ context.Context, e *domain.RemoteEvent) {
			m.RemoteCalls.WithLabelValues(e.Route, string(e.Strategy), outcome(e.IsError)).Inc()
			m.RemoteDuration.WithLabelValues(e.Route).Observe(e.Duration.Seconds())
		},
	}
}

func outcome(failed bool) string {
	if failed {
		return "error"
	}
	return "ok"
}
