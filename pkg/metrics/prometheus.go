package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics глобальный контейнер метрик
type Metrics struct {
	// gRPC метрики
	GRPCRequestsTotal    *prometheus.CounterVec
	GRPCRequestDuration  *prometheus.HistogramVec
	GRPCRequestsInFlight prometheus.Gauge

	// Бизнес-метрики
	ValidationsTotal   *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
	CheckRunsTotal     *prometheus.CounterVec
	CheckDuration    *prometheus.HistogramVec
	FetchesTotal     *prometheus.CounterVec
	FetchDuration    *prometheus.HistogramVec
	StationsFetched  *prometheus.HistogramVec
	FlagsTotal       *prometheus.CounterVec

	// Информация о сервисе
	ServiceInfo *prometheus.GaugeVec
}

var (
	defaultMetrics *Metrics
	initOnce       sync.Once
)

// InitMetrics инициализирует метрики. Повторные вызовы игнорируются.
func InitMetrics(namespace, subsystem string) *Metrics {
	initOnce.Do(func() {
		defaultMetrics = newMetrics(namespace, subsystem)
	})
	return defaultMetrics
}

// Get возвращает глобальный контейнер метрик
func Get() *Metrics {
	return InitMetrics("rove", "")
}

func newMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		GRPCRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "grpc_requests_total",
				Help:      "Total number of gRPC requests",
			},
			[]string{"method", "status"},
		),

		GRPCRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "grpc_request_duration_seconds",
				Help:      "Duration of gRPC requests",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method"},
		),

		GRPCRequestsInFlight: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "grpc_requests_in_flight",
				Help:      "Current number of gRPC requests being processed",
			},
		),

		ValidationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "validations_total",
				Help:      "Total number of QC validations",
			},
			[]string{"pipeline", "status"},
		),

		ValidationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "validation_duration_seconds",
				Help:      "Duration of QC validations end to end",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"pipeline"},
		),

		CheckRunsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "check_runs_total",
				Help:      "Total number of check executions",
			},
			[]string{"check", "status"},
		),

		CheckDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "check_duration_seconds",
				Help:      "Duration of check executions",
				Buckets:   []float64{.0001, .001, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"check"},
		),

		FetchesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fetches_total",
				Help:      "Total number of data fetches",
			},
			[]string{"source", "status"},
		),

		FetchDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fetch_duration_seconds",
				Help:      "Duration of data fetches",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"source"},
		),

		StationsFetched: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stations_fetched",
				Help:      "Number of stations per fetched cache",
				Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000, 10000},
			},
			[]string{"source"},
		),

		FlagsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "flags_total",
				Help:      "QC flags emitted, by check and verdict",
			},
			[]string{"check", "flag"},
		),

		ServiceInfo: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "service_info",
				Help:      "Service metadata",
			},
			[]string{"version", "environment"},
		),
	}
}

// RecordGRPCRequest записывает метрики одного запроса
func (m *Metrics) RecordGRPCRequest(method, status string, duration time.Duration) {
	m.GRPCRequestsTotal.WithLabelValues(method, status).Inc()
	m.GRPCRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordValidation записывает метрики одной валидации
func (m *Metrics) RecordValidation(pipeline string, ok bool, duration time.Duration) {
	m.ValidationsTotal.WithLabelValues(pipeline, statusLabel(ok)).Inc()
	m.ValidationDuration.WithLabelValues(pipeline).Observe(duration.Seconds())
}

// RecordCheck записывает метрики одного шага пайплайна
func (m *Metrics) RecordCheck(check string, ok bool, duration time.Duration) {
	m.CheckRunsTotal.WithLabelValues(check, statusLabel(ok)).Inc()
	m.CheckDuration.WithLabelValues(check).Observe(duration.Seconds())
}

// RecordFetch записывает метрики одного обращения к источнику данных
func (m *Metrics) RecordFetch(source string, ok bool, duration time.Duration) {
	m.FetchesTotal.WithLabelValues(source, statusLabel(ok)).Inc()
	m.FetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

// RecordCacheSize записывает размер полученного кэша
func (m *Metrics) RecordCacheSize(source string, stations int) {
	m.StationsFetched.WithLabelValues(source).Observe(float64(stations))
}

// RecordFlag записывает выставленный флаг
func (m *Metrics) RecordFlag(check, flag string) {
	m.FlagsTotal.WithLabelValues(check, flag).Inc()
}

func statusLabel(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}

// RequestTracker отслеживает запросы в полёте
type RequestTracker struct {
	gauge prometheus.Gauge
}

// NewRequestTracker создаёт трекер
func NewRequestTracker(gauge prometheus.Gauge) *RequestTracker {
	return &RequestTracker{gauge: gauge}
}

// Start отмечает начало запроса
func (t *RequestTracker) Start(method string) {
	t.gauge.Inc()
}

// End отмечает конец запроса
func (t *RequestTracker) End(method string) {
	t.gauge.Dec()
}

// StartMetricsServer запускает HTTP сервер с /metrics
func StartMetricsServer(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return http.ListenAndServe(fmt.Sprintf(":%d", port), mux)
}
