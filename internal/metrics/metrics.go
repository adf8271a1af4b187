package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all prometheus metrics. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	RequestDuration         *prometheus.HistogramVec
	ReservationsCreated     *prometheus.CounterVec
	StatusChanges           *prometheus.CounterVec
	PriceResolutionFailures *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the metrics on a fresh registry
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(namespace, reg, reg)
}

// NewWithRegistry registers the metrics on reg and serves them from g
func NewWithRegistry(namespace string, reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time taken to serve HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		ReservationsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_created_total",
			Help:      "The total number of reservations created",
		}, []string{"kind"}),
		StatusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservation_status_changes_total",
			Help:      "The total number of reservation status changes",
		}, []string{"status"}),
		PriceResolutionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_resolution_failures_total",
			Help:      "The total number of rejected price resolutions",
		}, []string{"reason"}),
		gatherer: g,
	}
}

func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (m *Metrics) ReservationCreated(kind string) {
	if m == nil {
		return
	}
	m.ReservationsCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.StatusChanges.WithLabelValues(status).Inc()
}

func (m *Metrics) PriceResolutionFailed(reason string) {
	if m == nil {
		return
	}
	m.PriceResolutionFailures.WithLabelValues(reason).Inc()
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil || m.gatherer == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
