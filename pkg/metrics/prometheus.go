// Package metrics provides Prometheus metrics for the fare prediction service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Price buckets in whole currency units.
var defaultPriceBuckets = []float64{2000, 4000, 6000, 8000, 10000, 15000, 20000, 30000, 50000, 80000}

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	priceBuckets     []float64
	enabled          bool
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Prediction metrics
	predictions       *prometheus.CounterVec
	invalidCategories *prometheus.CounterVec
	predictionErrors  prometheus.Counter
	predictionLatency prometheus.Histogram
	predictedPrice    prometheus.Histogram
	journeyDuration   prometheus.Histogram

	// Model metrics
	modelInfo     *prometheus.GaugeVec
	modelFeatures prometheus.Gauge
	modelLoadedAt prometheus.Gauge

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
	customRegistry.MustRegister(collectors.NewGoCollector())
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fareprice",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		priceBuckets:     defaultPriceBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.predictions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("predictions_total"),
		Help:        "Total number of successful price predictions by airline",
		ConstLabels: constLabels,
	}, []string{"airline"})

	m.invalidCategories = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("invalid_category_total"),
		Help:        "Total number of inputs rejected for a value outside its vocabulary",
		ConstLabels: constLabels,
	}, []string{"field"})

	m.predictionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("prediction_errors_total"),
		Help:        "Total number of failed predictor calls",
		ConstLabels: constLabels,
	})

	m.predictionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("prediction_latency_seconds"),
		Help:        "Latency of encode plus predict",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	})

	m.predictedPrice = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("predicted_price"),
		Help:        "Distribution of predicted prices in currency units",
		Buckets:     m.priceBuckets,
		ConstLabels: constLabels,
	})

	m.journeyDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("journey_duration_minutes"),
		Help:        "Distribution of computed journey durations",
		Buckets:     prometheus.LinearBuckets(0, 120, 12),
		ConstLabels: constLabels,
	})

	m.modelInfo = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("model_info"),
		Help:        "Loaded model metadata; value is always 1",
		ConstLabels: constLabels,
	}, []string{"kind", "name", "sha256"})

	m.modelFeatures = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("model_features"),
		Help:        "Number of input features the loaded model expects",
		ConstLabels: constLabels,
	})

	m.modelLoadedAt = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("model_loaded_timestamp_seconds"),
		Help:        "Unix time the model artifact was loaded",
		ConstLabels: constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_requests_total"),
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("http_request_duration_milliseconds"),
		Help:        "HTTP request duration in milliseconds",
		Buckets:     prometheus.ExponentialBuckets(0.5, 2, 12),
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_type_total"),
		Help:        "Total number of errors by type and severity",
		ConstLabels: constLabels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name("errors_by_endpoint_total"),
		Help:        "Total number of errors by endpoint, method and type",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})
}

// Enabled reports whether recording is switched on.
func (m *Manager) Enabled() bool { return m.enabled }

// RecordPrediction records a successful prediction.
func (m *Manager) RecordPrediction(airline string, price float64, durationMins int, latency time.Duration) {
	if !m.enabled {
		return
	}
	m.predictions.WithLabelValues(airline).Inc()
	m.predictedPrice.Observe(price)
	m.journeyDuration.Observe(float64(durationMins))
	m.predictionLatency.Observe(latency.Seconds())
}

// RecordInvalidCategory counts a rejected categorical input.
func (m *Manager) RecordInvalidCategory(field string) {
	if !m.enabled {
		return
	}
	m.invalidCategories.WithLabelValues(field).Inc()
}

// RecordPredictionError counts a failed predictor call.
func (m *Manager) RecordPredictionError() {
	if !m.enabled {
		return
	}
	m.predictionErrors.Inc()
}

// SetModel publishes metadata about the loaded model.
func (m *Manager) SetModel(kind, name, digest string, features int, loadedAt time.Time) {
	if !m.enabled {
		return
	}
	m.modelInfo.Reset()
	m.modelInfo.WithLabelValues(kind, name, digest).Set(1)
	m.modelFeatures.Set(float64(features))
	m.modelLoadedAt.Set(float64(loadedAt.Unix()))
}

// RecordHTTPRequest records one served request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError records an error response by endpoint and by type.
func (m *Manager) RecordHTTPError(endpoint, method, errorType, severity string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// Package-level helpers write to the global manager.

// RecordPrediction records a successful prediction.
func RecordPrediction(airline string, price float64, durationMins int, latency time.Duration) {
	globalManager.RecordPrediction(airline, price, durationMins, latency)
}

// RecordInvalidCategory counts a rejected categorical input.
func RecordInvalidCategory(field string) { globalManager.RecordInvalidCategory(field) }

// RecordPredictionError counts a failed predictor call.
func RecordPredictionError() { globalManager.RecordPredictionError() }

// SetModel publishes metadata about the loaded model.
func SetModel(kind, name, digest string, features int, loadedAt time.Time) {
	globalManager.SetModel(kind, name, digest, features, loadedAt)
}

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordHTTPError records an error response.
func RecordHTTPError(endpoint, method, errorType, severity string) {
	globalManager.RecordHTTPError(endpoint, method, errorType, severity)
}

// Global returns the process-wide manager.
func Global() *Manager { return globalManager }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
