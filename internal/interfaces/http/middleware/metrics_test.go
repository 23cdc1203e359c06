package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func setupTestMeter(t *testing.T) (*sdkmetric.MeterProvider, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = mp.Shutdown(context.Background())
	})
	return mp, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	return rm
}

func findMetricByName(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

func TestHTTPMetrics(t *testing.T) {
	mp, reader := setupTestMeter(t)
	mw, err := HTTPMetrics(mp.Meter("desa/http"))
	require.NoError(t, err)

	router := gin.New()
	router.Use(mw)
	router.GET("/api/v1/letters/:id", func(c *gin.Context) {
		c.String(http.StatusOK, "letter")
	})

	for _, id := range []string{"1", "2", "3"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/letters/"+id, nil)
		router.ServeHTTP(httptest.NewRecorder(), req)
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	rm := collectMetrics(t, reader)

	total := findMetricByName(rm, "http_server_request_total")
	require.NotNil(t, total)
	sum, ok := total.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byRoute := map[string]int64{}
	for _, dp := range sum.DataPoints {
		route, _ := dp.Attributes.Value("http.route")
		byRoute[route.AsString()] += dp.Value
	}
	assert.Equal(t, int64(3), byRoute["/api/v1/letters/:id"])
	assert.Equal(t, int64(1), byRoute["unknown"])

	require.NotNil(t, findMetricByName(rm, "http_server_request_duration_seconds"))
	require.NotNil(t, findMetricByName(rm, "http_server_response_size_bytes"))

	active := findMetricByName(rm, "http_server_active_requests")
	require.NotNil(t, active)
	activeSum, ok := active.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	for _, dp := range activeSum.DataPoints {
		assert.Equal(t, int64(0), dp.Value)
	}
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(201))
	assert.Equal(t, "3xx", statusClass(302))
	assert.Equal(t, "4xx", statusClass(429))
	assert.Equal(t, "5xx", statusClass(503))
	assert.Equal(t, "other", statusClass(101))
}
