package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveComputation("stats", time.Second)
		m.AddAnomalies("stray_check_out", 2)
		m.AddMalformed(1)
		m.SetSSESubscribers(3)
		m.SetDigest(1, map[string]int{"stray_check_out": 1})
	})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.AddAnomalies("superseded_check_in", 2)
	m.AddAnomalies("superseded_check_in", 0)
	m.AddMalformed(3)
	m.SetDigest(4, map[string]int{"stray_check_out": 5})

	assert.Equal(t, float64(2), testutil.ToFloat64(m.anomalies.WithLabelValues("superseded_check_in")))
	assert.Equal(t, float64(3), testutil.ToFloat64(m.malformedRecords))
	assert.Equal(t, float64(4), testutil.ToFloat64(m.openSessions))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.digestAnomalies.WithLabelValues("stray_check_out")))
}

func TestMetrics_MiddlewareUsesRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/employees/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/employees/abc", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(m.requestTotal.WithLabelValues(http.MethodGet, "/employees/{id}", "418")))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "http_requests_total"))
}
