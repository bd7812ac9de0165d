// Package telemetry exposes the service's Prometheus metrics.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orderflow"

// Task outcomes recorded by ObserveTask and ObserveSkippedTask.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// Metrics groups every collector of the service on its own registry, so tests can
// create as many instances as they like.
type Metrics struct {
	registry *prometheus.Registry

	OrdersEnqueued   prometheus.Counter
	EnqueueRejected  *prometheus.CounterVec
	Transitions      *prometheus.CounterVec
	Tasks            *prometheus.CounterVec
	TaskDuration     prometheus.Histogram
	BusyWorkers      prometheus.Gauge
	OrdersByStatus   *prometheus.GaugeVec
	HTTPRequests     *prometheus.CounterVec
	HTTPLatencyMS    *prometheus.HistogramVec
	queueDepthSource func() float64
}

// New builds the collectors and registers them together with the Go runtime and
// process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		OrdersEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "orders_enqueued_total",
			Help:      "Total number of orders accepted by the processing queue.",
		}),
		EnqueueRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "enqueue_rejected_total",
			Help:      "Total number of enqueue attempts rejected by the processing queue.",
		}, []string{"reason"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "status_transitions_total",
			Help:      "Total number of order status changes.",
		}, []string{"status"}),
		Tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workers",
			Name:      "tasks_total",
			Help:      "Total number of processing tasks finished, by outcome.",
		}, []string{"outcome"}),
		TaskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "workers",
			Name:      "task_duration_seconds",
			Help:      "Wall time of processing tasks in seconds.",
			Buckets:   []float64{0.01, 0.1, 1, 2.5, 5, 7.5, 10, 15},
		}),
		BusyWorkers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "workers",
			Name:      "busy",
			Help:      "Number of workers currently running a task.",
		}),
		OrdersByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "by_status",
			Help:      "Number of stored orders per status at the last metrics report.",
		}, []string{"status"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"handler", "status"}),
		HTTPLatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"handler"}),
	}

	m.registry.MustRegister(
		m.OrdersEnqueued,
		m.EnqueueRejected,
		m.Transitions,
		m.Tasks,
		m.TaskDuration,
		m.BusyWorkers,
		m.OrdersByStatus,
		m.HTTPRequests,
		m.HTTPLatencyMS,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "depth",
			Help:      "Number of orders waiting in the processing queue.",
		}, m.queueDepth),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// SetQueueDepthSource installs the function sampled for the queue depth gauge.
// It must be called before the registry is scraped concurrently.
func (m *Metrics) SetQueueDepthSource(fn func() int) {
	m.queueDepthSource = func() float64 { return float64(fn()) }
}

func (m *Metrics) queueDepth() float64 {
	if m.queueDepthSource == nil {
		return 0
	}
	return m.queueDepthSource()
}

// ObserveTask records the outcome and duration of one processing task.
func (m *Metrics) ObserveTask(err error, elapsed time.Duration) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.Tasks.WithLabelValues(outcome).Inc()
	m.TaskDuration.Observe(elapsed.Seconds())
}

// ObserveSkippedTask records a task that found nothing to do.
func (m *Metrics) ObserveSkippedTask(elapsed time.Duration) {
	m.Tasks.WithLabelValues(OutcomeSkipped).Inc()
	m.TaskDuration.Observe(elapsed.Seconds())
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(handler string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
	m.HTTPLatencyMS.WithLabelValues(handler).Observe(float64(elapsed.Milliseconds()))
}

// Registry returns the registry holding every collector.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
