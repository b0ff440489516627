package observability

import (
	"context"

	"github.com/aretw0/funchain/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "funchain"

// Metrics holds the Prometheus collectors fed by engine hooks.
type Metrics struct {
	NodeEvaluations *prometheus.CounterVec
	Runs            *prometheus.CounterVec
	RunDuration     prometheus.Histogram
	RunSteps        prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		NodeEvaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "node_evaluations_total",
				Help:      "Total number of node evaluations by outcome.",
			},
			[]string{"node_id", "outcome"},
		),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Total number of chain runs by final status.",
			},
			[]string{"status"},
		),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of chain runs.",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
		RunSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_steps",
			Help:      "Number of nodes evaluated per run.",
			Buckets:   prometheus.LinearBuckets(1, 2, 8),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.NodeEvaluations, m.Runs, m.RunDuration, m.RunSteps)
	}
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeLeave: func(_ context.Context, e *domain.NodeEvent) {
			outcome := "ok"
			if e.Step != nil && !e.Step.Outcome.IsOk() {
				outcome = "error"
			}
			m.NodeEvaluations.WithLabelValues(e.NodeID, outcome).Inc()
		},
		OnRunComplete: func(_ context.Context, e *domain.RunEvent) {
			m.Runs.WithLabelValues(string(e.Result.Status)).Inc()
			m.RunDuration.Observe(e.Duration.Seconds())
			m.RunSteps.Observe(float64(len(e.Result.Trace)))
		},
	}
}
