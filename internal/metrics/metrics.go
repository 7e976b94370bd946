// Package metrics метрики Prometheus для файлового сервера.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	StatusSuccess  = "success"
	StatusNotFound = "not_found"
	StatusError    = "error"
	StatusAborted  = "aborted"
	StatusRejected = "rejected"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flashfs_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flashfs_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	bytesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flashfs_file_bytes_sent_total",
			Help: "Total file bytes streamed to clients",
		},
	)

	downloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flashfs_file_downloads_total",
			Help: "Total number of file downloads",
		},
		[]string{"status"},
	)

	listingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "flashfs_directory_listings_total",
			Help: "Total number of directory listings",
		},
		[]string{"status"},
	)

	listingEntriesSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "flashfs_listing_entries_skipped_total",
			Help: "Directory entries skipped because stat failed",
		},
	)

	bufferWait = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "flashfs_scratch_buffer_wait_seconds",
			Help:    "Time spent waiting for a scratch buffer",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"policy"},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordDownload bytes считаются и для прерванных передач.
func RecordDownload(bytes int64, status string) {
	bytesSent.Add(float64(bytes))
	downloadsTotal.WithLabelValues(status).Inc()
}

func RecordListing(status string, skipped int) {
	listingsTotal.WithLabelValues(status).Inc()
	listingEntriesSkipped.Add(float64(skipped))
}

func RecordBufferWait(policy string, d time.Duration) {
	bufferWait.WithLabelValues(policy).Observe(d.Seconds())
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware returns HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		RecordHTTPRequest(r.Method, rw.statusCode, time.Since(start))
	})
}
