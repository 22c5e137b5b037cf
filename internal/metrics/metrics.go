// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"Supermarket-Vision-Backend/domain"
	"fmt"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"time"
)

type Metrics struct {
	Scanner  *ScannerMetrics
	Proxy    *ProxyMetrics
	Broker   *BrokerMetrics
	registry *prometheus.Registry
}

func New() (*Metrics, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	scanner, err := NewScannerMetrics(registry)
	if err != nil {
		return nil, err
	}
	proxy, err := NewProxyMetrics(registry)
	if err != nil {
		return nil, err
	}
	broker, err := NewBrokerMetrics(registry)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		Scanner:  scanner,
		Proxy:    proxy,
		Broker:   broker,
		registry: registry,
	}, nil
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// ScannerMetrics tracks the scan loop.
type ScannerMetrics struct {
	Cycles        *prometheus.CounterVec
	CycleDuration *prometheus.HistogramVec
	DroppedTicks  prometheus.Counter
	Discarded     prometheus.Counter
	State         *prometheus.GaugeVec
	Detections    prometheus.Gauge
}

func NewScannerMetrics(registry *prometheus.Registry) (*ScannerMetrics, error) {
	m := &ScannerMetrics{
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scanner_cycles_total",
			Help: "Completed analysis cycles by mode and result",
		}, []string{"mode", "result"}),
		CycleDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scanner_cycle_duration_seconds",
			Help:    "Time from frame capture to analysis result",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		}, []string{"mode"}),
		DroppedTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanner_dropped_ticks_total",
			Help: "Timer ticks skipped because a cycle was still in flight",
		}),
		Discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scanner_discarded_results_total",
			Help: "Analysis results that arrived after their session stopped",
		}),
		State: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "scanner_state",
			Help: "Current scanner state (1 for the active state)",
		}, []string{"state"}),
		Detections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scanner_current_detections",
			Help: "Number of items in the latest applied detection set",
		}),
	}

	for _, c := range []prometheus.Collector{m.Cycles, m.CycleDuration, m.DroppedTicks, m.Discarded, m.State, m.Detections} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register scanner metrics: %w", err)
		}
	}
	m.StateChanged(domain.ScannerIdle)
	return m, nil
}

func (m *ScannerMetrics) CycleFinished(mode domain.ScanMode, took time.Duration, err error) {
	m.Cycles.WithLabelValues(string(mode), resultLabel(err)).Inc()
	m.CycleDuration.WithLabelValues(string(mode)).Observe(took.Seconds())
}

func (m *ScannerMetrics) TickDropped() {
	m.DroppedTicks.Inc()
}

func (m *ScannerMetrics) CycleDiscarded() {
	m.Discarded.Inc()
}

func (m *ScannerMetrics) StateChanged(state domain.ScannerState) {
	for _, s := range []domain.ScannerState{domain.ScannerIdle, domain.ScannerStreaming, domain.ScannerAnalyzing} {
		value := 0.0
		if s == state {
			value = 1
		}
		m.State.WithLabelValues(string(s)).Set(value)
	}
}

func (m *ScannerMetrics) DetectionsApplied(count int) {
	m.Detections.Set(float64(count))
}

// ProxyMetrics tracks upstream model calls made by the inference proxy.
type ProxyMetrics struct {
	Requests *prometheus.CounterVec
	Latency  *prometheus.HistogramVec
}

func NewProxyMetrics(registry *prometheus.Registry) (*ProxyMetrics, error) {
	m := &ProxyMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "inference_upstream_requests_total",
			Help: "Upstream model requests by provider, analysis type and result",
		}, []string{"provider", "type", "result"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inference_upstream_latency_seconds",
			Help:    "Latency of upstream model requests",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		}, []string{"provider"}),
	}
	for _, c := range []prometheus.Collector{m.Requests, m.Latency} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register proxy metrics: %w", err)
		}
	}
	return m, nil
}

func (m *ProxyMetrics) UpstreamCall(provider string, kind domain.AnalysisType, took time.Duration, err error) {
	m.Requests.WithLabelValues(provider, string(kind), resultLabel(err)).Inc()
	m.Latency.WithLabelValues(provider).Observe(took.Seconds())
}

// BrokerMetrics tracks the MQTT detection publisher.
type BrokerMetrics struct {
	ConnectionStatus prometheus.Gauge
	Published        prometheus.Counter
	Errors           prometheus.Counter
	PublishLatency   prometheus.Histogram
}

func NewBrokerMetrics(registry *prometheus.Registry) (*BrokerMetrics, error) {
	m := &BrokerMetrics{
		ConnectionStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "mqtt_connection_status",
			Help: "Current MQTT connection status (1 for connected, 0 for disconnected)",
		}),
		Published: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_messages_delivered_total",
			Help: "Total number of detection messages delivered",
		}),
		Errors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "mqtt_errors_total",
			Help: "Total number of MQTT errors encountered",
		}),
		PublishLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "mqtt_publish_latency_seconds",
			Help:    "Latency of MQTT publish operations in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		}),
	}
	for _, c := range []prometheus.Collector{m.ConnectionStatus, m.Published, m.Errors, m.PublishLatency} {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register mqtt metrics: %w", err)
		}
	}
	return m, nil
}

func (m *BrokerMetrics) Connected(connected bool) {
	if connected {
		m.ConnectionStatus.Set(1)
		return
	}
	m.ConnectionStatus.Set(0)
}

func (m *BrokerMetrics) Delivered(took time.Duration) {
	m.Published.Inc()
	m.PublishLatency.Observe(took.Seconds())
}

func (m *BrokerMetrics) Failed() {
	m.Errors.Inc()
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
