package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// httpDurationBuckets are latency boundaries in seconds
var httpDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}

// httpMetrics holds all HTTP-related metrics instruments.
type httpMetrics struct {
	requestTotal    metric.Int64Counter
	requestDuration metric.Float64Histogram
	responseSize    metric.Int64Histogram
	activeRequests  metric.Int64UpDownCounter
}

// newHTTPMetrics creates all HTTP metrics instruments from a meter.
func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	m := &httpMetrics{}
	var err error
	if m.requestTotal, err = meter.Int64Counter("http_server_request_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}")); err != nil {
		return nil, fmt.Errorf("create request counter: %w", err)
	}
	if m.requestDuration, err = meter.Float64Histogram("http_server_request_duration_seconds",
		metric.WithDescription("HTTP request latency distribution in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(httpDurationBuckets...)); err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}
	if m.responseSize, err = meter.Int64Histogram("http_server_response_size_bytes",
		metric.WithDescription("HTTP response body size distribution in bytes"),
		metric.WithUnit("By"),
		metric.WithExplicitBucketBoundaries(100, 1000, 10000, 100000, 1000000, 5000000)); err != nil {
		return nil, fmt.Errorf("create size histogram: %w", err)
	}
	if m.activeRequests, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}")); err != nil {
		return nil, fmt.Errorf("create active requests counter: %w", err)
	}
	return m, nil
}

// HTTPMetrics returns middleware recording request count, latency, response
// size and in-flight requests on meter. Routes are labelled by their pattern
// to keep cardinality bounded.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	metrics, err := newHTTPMetrics(meter)
	if err != nil {
		return nil, err
	}
	return httpMetricsMiddleware(metrics), nil
}

// httpMetricsMiddleware is the core middleware logic
func httpMetricsMiddleware(metrics *httpMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		metrics.activeRequests.Add(ctx, 1)
		c.Next()
		metrics.activeRequests.Add(ctx, -1)

		recordHTTPMetrics(ctx, metrics, c.Request.Method, getRoutePattern(c), c.Writer.Status(),
			time.Since(start), c.Writer.Size())
	}
}

func recordHTTPMetrics(ctx context.Context, metrics *httpMetrics, method, route string, statusCode int,
	duration time.Duration, responseSize int) {
	base := []attribute.KeyValue{
		attribute.String("http.request.method", method),
		attribute.String("http.route", route),
	}
	metrics.requestTotal.Add(ctx, 1, metric.WithAttributes(append(base,
		attribute.String("http.response.status_code", strconv.Itoa(statusCode)),
		attribute.String("http.status_class", statusClass(statusCode)),
	)...))
	metrics.requestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(base...))
	if responseSize > 0 {
		metrics.responseSize.Record(ctx, int64(responseSize), metric.WithAttributes(base...))
	}
}

// getRoutePattern returns the matched route, e.g. "/api/v1/letters/:id"
func getRoutePattern(c *gin.Context) string {
	if route := c.FullPath(); route != "" {
		return route
	}
	return "unknown"
}

// statusClass groups status codes for error-rate queries
func statusClass(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "other"
	}
}
