package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/crease/crease/pkg/cricket"
)

const namespace = "crease"

// Metrics holds the daemon's Prometheus collectors on a private registry.
// It satisfies ledger.Observer.
type Metrics struct {
	registry *prometheus.Registry

	deliveriesRecorded *prometheus.CounterVec
	deliveriesRemoved  *prometheus.CounterVec
	inconsistencies    prometheus.Counter
	requests           *prometheus.CounterVec
	latency            *prometheus.HistogramVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		deliveriesRecorded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_recorded_total",
			Help:      "Deliveries appended to match ledgers, by extras type.",
		}, []string{"extras_type"}),
		deliveriesRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deliveries_removed_total",
			Help:      "Deliveries removed from match ledgers, by extras type.",
		}, []string{"extras_type"}),
		inconsistencies: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_inconsistencies_total",
			Help:      "Stored legal ball numbers that disagreed with a replay.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		m.deliveriesRecorded,
		m.deliveriesRemoved,
		m.inconsistencies,
		m.requests,
		m.latency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) DeliveryRecorded(kind cricket.ExtrasKind) {
	m.deliveriesRecorded.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) DeliveryRemoved(kind cricket.ExtrasKind) {
	m.deliveriesRemoved.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) LedgerInconsistent(n int) {
	m.inconsistencies.Add(float64(n))
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.latency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
