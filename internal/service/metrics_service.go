package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic,
// the summary cache and grade computations.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter

	summariesComputed    *prometheus.CounterVec
	assessmentRejections *prometheus.CounterVec
	attendanceMarks      prometheus.Histogram
	courseTypeFallbacks  prometheus.Counter

	cacheHitCount  uint64
	cacheMissCount uint64
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
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

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "summary_cache_latency_seconds",
		Help:    "Latency for summary cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "summary_cache_write_seconds",
		Help:    "Latency for summary cache writes",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "summary_cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "summary_cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "summary_cache_misses_total",
		Help: "Total cache misses",
	})

	summariesComputed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grade_summaries_computed_total",
		Help: "Course summaries computed, by course type and resulting grade",
	}, []string{"course_type", "grade"})

	assessmentRejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assessment_uniqueness_rejections_total",
		Help: "Assessments rejected because their category already exists in the course",
	}, []string{"category"})

	attendanceMarks := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "attendance_marks_awarded",
		Help:    "Distribution of 0-5 attendance marks produced by conversions",
		Buckets: []float64{0, 1, 2, 3, 4, 5},
	})

	courseTypeFallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "course_type_fallbacks_total",
		Help: "Courses with an unsupported type that were scored with the default formula",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		summariesComputed, assessmentRejections, attendanceMarks, courseTypeFallbacks, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:             registry,
		handler:              handler,
		requestDuration:      requestDuration,
		requestTotal:         requestTotal,
		cacheLatency:         cacheLatency,
		cacheWrite:           cacheWrite,
		cacheHitRatio:        cacheHitRatio,
		cacheHits:            cacheHits,
		cacheMisses:          cacheMisses,
		summariesComputed:    summariesComputed,
		assessmentRejections: assessmentRejections,
		attendanceMarks:      attendanceMarks,
		courseTypeFallbacks:  courseTypeFallbacks,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveSummary counts a computed course summary.
func (m *MetricsService) ObserveSummary(courseType, grade string) {
	if m == nil {
		return
	}
	m.summariesComputed.WithLabelValues(courseType, grade).Inc()
}

// ObserveAssessmentRejected counts a uniqueness policy rejection.
func (m *MetricsService) ObserveAssessmentRejected(category string) {
	if m == nil {
		return
	}
	m.assessmentRejections.WithLabelValues(category).Inc()
}

// ObserveAttendanceMarks records a converted attendance mark.
func (m *MetricsService) ObserveAttendanceMarks(marks int) {
	if m == nil {
		return
	}
	m.attendanceMarks.Observe(float64(marks))
}

// ObserveCourseTypeFallback counts a course scored with the default formula.
func (m *MetricsService) ObserveCourseTypeFallback() {
	if m == nil {
		return
	}
	m.courseTypeFallbacks.Inc()
}
