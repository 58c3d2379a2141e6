package metrics

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns the Prometheus collectors of the service. All methods are
// safe on a nil receiver, which disables instrumentation.
type Metrics struct {
	registry            *prometheus.Registry
	handler             http.Handler
	requestDuration     *prometheus.HistogramVec
	requestTotal        *prometheus.CounterVec
	computationDuration *prometheus.HistogramVec
	anomalies           *prometheus.CounterVec
	malformedRecords    prometheus.Counter
	sseSubscribers      prometheus.Gauge
	openSessions        prometheus.Gauge
	digestAnomalies     *prometheus.GaugeVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	computationDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "analytics_computation_duration_seconds",
		Help:    "Duration of analytics computations, snapshot load included",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	anomalies := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "analytics_anomalies_total",
		Help: "Unmatched attendance events seen by analytics computations",
	}, []string{"kind"})

	malformedRecords := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "analytics_malformed_records_total",
		Help: "Attendance events skipped for an unreadable timestamp",
	})

	sseSubscribers := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sse_subscribers",
		Help: "Connected change stream subscribers",
	})

	openSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "attendance_open_sessions",
		Help: "Sessions without a check-out at the last digest run",
	})

	digestAnomalies := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "attendance_digest_anomalies",
		Help: "Anomalies for the current day at the last digest run",
	}, []string{"kind"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, computationDuration, anomalies, malformedRecords,
		sseSubscribers, openSessions, digestAnomalies, goroutines)

	return &Metrics{
		registry:            registry,
		handler:             promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:     requestDuration,
		requestTotal:        requestTotal,
		computationDuration: computationDuration,
		anomalies:           anomalies,
		malformedRecords:    malformedRecords,
		sseSubscribers:      sseSubscribers,
		openSessions:        openSessions,
		digestAnomalies:     digestAnomalies,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Middleware records request duration by route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labelStatus := strconv.Itoa(status)
		m.requestDuration.WithLabelValues(r.Method, path, labelStatus).Observe(time.Since(start).Seconds())
		m.requestTotal.WithLabelValues(r.Method, path, labelStatus).Inc()
	})
}

// ObserveComputation records how long an analytics operation took.
func (m *Metrics) ObserveComputation(operation string, duration time.Duration) {
	if m == nil {
		return
	}
	m.computationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *Metrics) AddAnomalies(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.anomalies.WithLabelValues(kind).Add(float64(n))
}

func (m *Metrics) AddMalformed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.malformedRecords.Add(float64(n))
}

func (m *Metrics) SetSSESubscribers(n int) {
	if m == nil {
		return
	}
	m.sseSubscribers.Set(float64(n))
}

// SetDigest publishes the result of the latest anomaly digest.
func (m *Metrics) SetDigest(openSessions int, anomaliesByKind map[string]int) {
	if m == nil {
		return
	}
	m.openSessions.Set(float64(openSessions))
	m.digestAnomalies.Reset()
	for kind, n := range anomaliesByKind {
		m.digestAnomalies.WithLabelValues(kind).Set(float64(n))
	}
}
