package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/riskibarqy/frogcrew/internal/domain/position"
)

const metricsNamespace = "frogcrew"

// Metrics records HTTP traffic and scheduling events on a private registry.
// It satisfies usecase.Events and httpapi.HTTPObserver.
type Metrics struct {
	registry          *prometheus.Registry
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	assignments       *prometheus.CounterVec
	assignmentRejects *prometheus.CounterVec
	availability      *prometheus.CounterVec
	invitations       prometheus.Counter
	notifyFailures    prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		assignments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "assignments_committed_total",
			Help:      "Crew assignments committed, by position.",
		}, []string{"position"}),
		assignmentRejects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "assignments_rejected_total",
			Help:      "Crew assignments rejected by the rules engine, by reason.",
		}, []string{"reason"}),
		availability: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "availability_submitted_total",
			Help:      "Availability answers recorded.",
		}, []string{"available"}),
		invitations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "invitations_issued_total",
			Help:      "Invitations issued.",
		}),
		notifyFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "notifications_failed_total",
			Help:      "Invitation notifications that could not be delivered.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.assignments,
		m.assignmentRejects,
		m.availability,
		m.invitations,
		m.notifyFailures,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) AssignmentCommitted(p position.Position) {
	m.assignments.WithLabelValues(string(p)).Inc()
}

func (m *Metrics) AssignmentRejected(reason string) {
	m.assignmentRejects.WithLabelValues(reason).Inc()
}

func (m *Metrics) AvailabilitySubmitted(available bool) {
	m.availability.WithLabelValues(strconv.FormatBool(available)).Inc()
}

func (m *Metrics) InvitationsIssued(count int) {
	if count > 0 {
		m.invitations.Add(float64(count))
	}
}

func (m *Metrics) NotificationFailed() {
	m.notifyFailures.Inc()
}
