package lib

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

/* This file implements dev-ops telemetry for a long running host of the library in the form of prometheus metrics */

const metricsPattern = "/metrics"

// Metrics represents a server that exposes Prometheus metrics
type Metrics struct {
	server   *http.Server         // the http prometheus server
	registry *prometheus.Registry // metrics are registered per instance so several hosts may coexist in one process
	config   MetricsConfig        // the configuration
	log      LoggerI              // the logger

	BoundaryMetrics // foreign entry point telemetry
	WalletMetrics   // address discovery telemetry
}

// BoundaryMetrics represents the telemetry of the foreign call entry points
type BoundaryMetrics struct {
	Calls       *prometheus.CounterVec   // how many times was each entry point called?
	Failures    *prometheus.CounterVec   // how many calls returned an error, by entry point and error module?
	Panics      prometheus.Counter       // how many faults were contained?
	LiveHandles prometheus.Gauge         // how many handles are currently owned by the arena?
	CallTime    *prometheus.HistogramVec // how long does each entry point take?
}

// WalletMetrics represents the telemetry of the address manager
type WalletMetrics struct {
	AddressesFound prometheus.Counter   // how many used addresses were discovered?
	UsageChecks    prometheus.Counter   // how many addresses were checked for usage?
	ScanTime       prometheus.Histogram // how long does an address scan take?
}

// NewMetricsServer() creates a new telemetry server
func NewMetricsServer(config MetricsConfig, log LoggerI) *Metrics {
	if log == nil {
		log = NewDefaultLogger()
	}
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)
	mux := http.NewServeMux()
	mux.Handle(metricsPattern, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	return &Metrics{
		server:   &http.Server{Addr: config.PrometheusAddress, Handler: mux},
		registry: registry,
		config:   config,
		log:      log,
		BoundaryMetrics: BoundaryMetrics{
			Calls: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "cardano_boundary_calls_total",
				Help: "Total number of entry point calls",
			}, []string{"op"}),
			Failures: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "cardano_boundary_failures_total",
				Help: "Total number of entry point calls that returned an error",
			}, []string{"op", "module"}),
			Panics: factory.NewCounter(prometheus.CounterOpts{
				Name: "cardano_boundary_panics_total",
				Help: "Total number of contained faults",
			}),
			LiveHandles: factory.NewGauge(prometheus.GaugeOpts{
				Name: "cardano_boundary_live_handles",
				Help: "Number of handles owned by the arena",
			}),
			CallTime: factory.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "cardano_boundary_call_seconds",
				Help:    "Time spent in an entry point in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			}, []string{"op"}),
		},
		WalletMetrics: WalletMetrics{
			AddressesFound: factory.NewCounter(prometheus.CounterOpts{
				Name: "cardano_wallet_addresses_found_total",
				Help: "Total number of used addresses discovered",
			}),
			UsageChecks: factory.NewCounter(prometheus.CounterOpts{
				Name: "cardano_wallet_usage_checks_total",
				Help: "Total number of addresses checked for usage",
			}),
			ScanTime: factory.NewHistogram(prometheus.HistogramOpts{
				Name: "cardano_wallet_scan_seconds",
				Help: "Time to scan an account in seconds",
			}),
		},
	}
}

// Handler() serves the metrics of this instance
func (m *Metrics) Handler() http.Handler { return m.server.Handler }

// Start() starts the telemetry server
func (m *Metrics) Start() {
	// exit if empty
	if m == nil {
		return
	}
	if m.config.Enabled {
		go func() {
			m.log.Infof("Starting metrics server on %s", m.config.PrometheusAddress)
			if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				m.log.Errorf("Metrics server failed with err: %s", err.Error())
			}
		}()
	}
}

// Stop() gracefully stops the telemetry server
func (m *Metrics) Stop() {
	// exit if empty
	if m == nil {
		return
	}
	if m.config.Enabled {
		if err := m.server.Shutdown(context.Background()); err != nil {
			m.log.Error(err.Error())
		}
	}
}

// UpdateBoundaryCall() records one entry point call and its outcome
func (m *Metrics) UpdateBoundaryCall(op string, err ErrorI, duration time.Duration, liveHandles int) {
	// exit if empty
	if m == nil {
		return
	}
	m.Calls.WithLabelValues(op).Inc()
	m.CallTime.WithLabelValues(op).Observe(duration.Seconds())
	m.LiveHandles.Set(float64(liveHandles))
	if err == nil {
		return
	}
	m.Failures.WithLabelValues(op, string(err.Module())).Inc()
	if err.Module() == BoundaryModule && err.Code() == CodePanic {
		m.Panics.Inc()
	}
}

// UpdateAddressScan() records one finished address scan
func (m *Metrics) UpdateAddressScan(found, checked int, duration time.Duration) {
	// exit if empty
	if m == nil {
		return
	}
	m.AddressesFound.Add(float64(found))
	m.UsageChecks.Add(float64(checked))
	m.ScanTime.Observe(duration.Seconds())
}
