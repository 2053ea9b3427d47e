package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the application.
// All collectors are registered on a dedicated registry so tests can
// construct independent instances.
type Metrics struct {
	registry *prometheus.Registry

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	DatasetVehicles prometheus.Gauge
	DatasetLoads    prometheus.Counter
	DatasetWarnings prometheus.Gauge
}

// NewMetrics creates and registers the application collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evpulse_http_requests_total",
			Help: "Total HTTP requests by method, route and status code",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evpulse_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"route"}),
		DatasetVehicles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "evpulse_dataset_vehicles",
			Help: "Number of vehicle records in the currently loaded dataset",
		}),
		DatasetLoads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "evpulse_dataset_loads_total",
			Help: "Total number of dataset loads, including uploads",
		}),
		DatasetWarnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "evpulse_dataset_warnings",
			Help: "Number of schema warnings from the last dataset load",
		}),
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDuration,
		m.DatasetVehicles,
		m.DatasetLoads,
		m.DatasetWarnings,
	)

	return m
}

// Handler returns an http.Handler exposing the registry in the
// Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveDataset records gauges after a dataset load.
func (m *Metrics) ObserveDataset(vehicles, warnings int) {
	m.DatasetVehicles.Set(float64(vehicles))
	m.DatasetWarnings.Set(float64(warnings))
	m.DatasetLoads.Inc()
}
