// Package metrics provides Prometheus metrics for muse
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/example/muse/internal/core/plan"
)

// Metrics holds all Prometheus metrics for muse
type Metrics struct {
	Registry *prometheus.Registry

	// Engine metrics
	ThoughtsStartedTotal   *prometheus.CounterVec
	ThoughtsCompletedTotal *prometheus.CounterVec
	PlansDevelopedTotal    prometheus.Counter
	PlanSteps              prometheus.Histogram
	StepsTotal             *prometheus.CounterVec
	StepDuration           *prometheus.HistogramVec
	VersionConflictsTotal  prometheus.Counter

	// gRPC request metrics
	GrpcRequestsTotal    *prometheus.CounterVec
	GrpcRequestDuration  *prometheus.HistogramVec
	GrpcRequestsInFlight prometheus.Gauge
}

// New creates all metrics on a fresh registry, together with the Go runtime
// and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{Registry: reg}

	m.ThoughtsStartedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "muse_thoughts_started_total",
			Help: "Total number of thoughts started",
		},
		[]string{"persona"},
	)

	m.ThoughtsCompletedTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "muse_thoughts_completed_total",
			Help: "Total number of thoughts that reached the complete state",
		},
		[]string{"persona"},
	)

	m.PlansDevelopedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "muse_plans_developed_total",
			Help: "Total number of plans attached to thoughts",
		},
	)

	m.PlanSteps = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "muse_plan_steps",
			Help:    "Number of steps in developed plans",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10},
		},
	)

	m.StepsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "muse_steps_total",
			Help: "Total number of executed steps",
		},
		[]string{"tool", "status"},
	)

	m.StepDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "muse_step_duration_seconds",
			Help:    "Duration of step execution in seconds, backend calls included",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"tool"},
	)

	m.VersionConflictsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "muse_version_conflicts_total",
			Help: "Total number of writes rejected because the base version was stale",
		},
	)

	m.GrpcRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "muse_grpc_requests_total",
			Help: "Total number of gRPC requests",
		},
		[]string{"method", "status"},
	)

	m.GrpcRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "muse_grpc_request_duration_seconds",
			Help:    "Duration of gRPC requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	m.GrpcRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "muse_grpc_requests_in_flight",
			Help: "Number of gRPC requests currently being processed",
		},
	)

	return m
}

func (m *Metrics) ThoughtStarted(persona string) {
	m.ThoughtsStartedTotal.WithLabelValues(persona).Inc()
}

func (m *Metrics) PlanDeveloped(steps int) {
	m.PlansDevelopedTotal.Inc()
	m.PlanSteps.Observe(float64(steps))
}

func (m *Metrics) StepFinished(tool plan.Tool, elapsed time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.StepsTotal.WithLabelValues(string(tool), status).Inc()
	m.StepDuration.WithLabelValues(string(tool)).Observe(elapsed.Seconds())
}

func (m *Metrics) ThoughtCompleted(persona string) {
	m.ThoughtsCompletedTotal.WithLabelValues(persona).Inc()
}

func (m *Metrics) VersionConflict() {
	m.VersionConflictsTotal.Inc()
}

// RecordGrpcRequest records a gRPC request
func (m *Metrics) RecordGrpcRequest(method, status string, duration time.Duration) {
	m.GrpcRequestsTotal.WithLabelValues(method, status).Inc()
	m.GrpcRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}
