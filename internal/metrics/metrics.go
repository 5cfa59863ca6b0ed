package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"code", "method", "path"},
	)
	httpRequestsDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current Number of HTTP requests being processed.",
		},
	)

	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "commerce_upstream_requests_total",
			Help: "Total number of requests issued to the commerce API.",
		},
		[]string{"operation", "outcome"},
	)

	cartMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Cart mutations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	chatHandoffsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_pharmacist_handoffs_total",
			Help: "Number of chat conversations escalated to a pharmacist.",
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

// ObserveUpstreamRequest records one call against the commerce API.
func ObserveUpstreamRequest(operation string, err error) {

	outcome := "success"
	if err != nil {
		outcome = "error"
	}

	upstreamRequestsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveCartMutation records one cart store mutation.
func ObserveCartMutation(operation string, err error) {

	outcome := "success"
	if err != nil {
		outcome = "error"
	}

	cartMutationsTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveChatHandoff records a bot-to-pharmacist escalation.
func ObserveChatHandoff() {
	chatHandoffsTotal.Inc()
}

// wrapper around http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{w, http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		start := time.Now()
		httpRequestsInFlight.Inc()

		rw := newResponseWriter(w)

		defer func() {

			duration := time.Since(start)
			statusCodeStr := strconv.Itoa(rw.statusCode)

			// ServeMux fills in r.Pattern during routing, so the label is
			// read after the handler ran. Keeping it templated ({id} instead
			// of raw ids) bounds the label cardinality.
			pathPattern := r.Pattern
			if i := strings.IndexByte(pathPattern, ' '); i >= 0 {
				pathPattern = pathPattern[i+1:]
			}

			if pathPattern == "" {
				pathPattern = r.URL.Path
			}

			httpRequestsTotal.WithLabelValues(statusCodeStr, r.Method, pathPattern).Inc()
			httpRequestsDuration.WithLabelValues(r.Method, pathPattern).Observe(duration.Seconds())
			httpRequestsInFlight.Dec()

		}()

		next.ServeHTTP(rw, r)

	})
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
