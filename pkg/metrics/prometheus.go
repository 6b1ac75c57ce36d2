package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	StageRuns     *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec
	LegsSearched  prometheus.Counter
	PlansProposed prometheus.Counter
	ImageFailures prometheus.Counter
	ErrorsCount   *prometheus.CounterVec
}

// NewMetrics registers the service metrics on reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StageRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_runs_total",
			Help:      "The total number of planning stage runs",
		}, []string{"stage", "status"}),
		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Time taken by planning stages",
			Buckets:   []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}, []string{"stage"}),
		LegsSearched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flight_legs_searched_total",
			Help:      "The total number of flight legs sent to flight search",
		}),
		PlansProposed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "consensus_plans_proposed_total",
			Help:      "The total number of consensus plans returned",
		}),
		ImageFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cover_image_failures_total",
			Help:      "The total number of cover images that could not be generated",
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
	}
}

// ObserveStage records the outcome and duration of one stage run
func (m *Metrics) ObserveStage(stage string, started time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
		m.ErrorsCount.WithLabelValues(stage).Inc()
	}
	m.StageRuns.WithLabelValues(stage, status).Inc()
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(started).Seconds())
}
