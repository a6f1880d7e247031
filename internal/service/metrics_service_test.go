package service

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsServiceCounters(t *testing.T) {
	m := NewMetricsService()

	m.ObserveSummary("theory", "A-")
	m.ObserveSummary("theory", "A-")
	m.ObserveAssessmentRejected("MID")
	m.ObserveCourseTypeFallback()
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.summariesComputed.WithLabelValues("theory", "A-")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assessmentRejections.WithLabelValues("MID")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.courseTypeFallbacks))
	assert.Equal(t, 0.5, testutil.ToFloat64(m.cacheHitRatio))
}

func TestMetricsServiceHandlerExposesRegistry(t *testing.T) {
	m := NewMetricsService()
	m.ObserveAttendanceMarks(5)
	m.ObserveHTTPRequest(http.MethodGet, "/courses/:id", http.StatusOK, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "attendance_marks_awarded_count 1"))
	assert.Contains(t, body, `http_requests_total{method="GET",path="/courses/:id",status="200"} 1`)
}

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	m.ObserveSummary("lab", "A")
	m.ObserveAttendanceMarks(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
