package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]string {
	out := map[attribute.Key]string{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value.Emit()
	}
	return out
}

func TestTracing_SpanPerRequest(t *testing.T) {
	sr := setupTestTracer(t)
	tenantID := uuid.NewString()

	router := gin.New()
	router.Use(RequestID(), Tracing())
	router.Use(func(c *gin.Context) {
		c.Set(logger.GinTenantIDKey, tenantID)
		c.Set(logger.GinUserIDKey, "staff-1")
		c.Next()
	})
	router.Use(TracingAttributeInjector())
	router.GET("/api/v1/letters/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/letters/42", nil)
	req.Header.Set(RequestIDHeader, "req-abc")
	router.ServeHTTP(httptest.NewRecorder(), req)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Contains(t, spans[0].Name(), "/api/v1/letters/:id")

	attrs := spanAttrs(spans[0])
	assert.Equal(t, "req-abc", attrs["request_id"])
	assert.Equal(t, tenantID, attrs["tenant_id"])
	assert.Equal(t, "staff-1", attrs["user_id"])
}

func TestTracing_SkipsHealthAndSwagger(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/swagger/*any", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	assert.Empty(t, sr.Ended())
}

func TestTracingAttributeInjector_DropsNonUUIDTenant(t *testing.T) {
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing())
	router.Use(func(c *gin.Context) {
		c.Set(logger.GinTenantIDKey, "not-a-uuid")
		c.Next()
	})
	router.Use(TracingAttributeInjector())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	spans := sr.Ended()
	require.Len(t, spans, 1)
	_, ok := spanAttrs(spans[0])["tenant_id"]
	assert.False(t, ok)
}
