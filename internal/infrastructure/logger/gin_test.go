package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedRouter(level zapcore.Level) (*gin.Engine, *observer.ObservedLogs) {
	gin.SetMode(gin.TestMode)
	core, recorded := observer.New(level)
	l := zap.New(core)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(GinRequestIDKey, "req-123")
		c.Next()
	})
	r.Use(Recovery(l), GinMiddleware(l))
	return r, recorded
}

func TestGinMiddleware_LogsRequest(t *testing.T) {
	r, recorded := newObservedRouter(zapcore.InfoLevel)
	r.GET("/letters", func(c *gin.Context) {
		c.Set(GinTenantIDKey, "tenant-1")
		c.Set(GinUserIDKey, "user-1")
		assert.Equal(t, "req-123", RequestID(c.Request.Context()))
		FromGin(c).Info("inside handler")
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/letters?status=draft", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1, recorded.FilterMessage("inside handler").Len())
	logs := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, zapcore.InfoLevel, logs[0].Level)
	assert.Equal(t, "req-123", fields["request_id"])
	assert.Equal(t, "tenant-1", fields["tenant_id"])
	assert.Equal(t, "user-1", fields["user_id"])
	assert.Equal(t, "status=draft", fields["query"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestGinMiddleware_LevelFollowsStatus(t *testing.T) {
	r, recorded := newObservedRouter(zapcore.DebugLevel)
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	r.GET("/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/broken", nil))

	logs := recorded.FilterMessage("HTTP Request").All()
	require.Len(t, logs, 2)
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, logs[1].Level)
}

func TestRecovery(t *testing.T) {
	r, recorded := newObservedRouter(zapcore.InfoLevel)
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"request_id":"req-123"`)
	assert.Equal(t, 1, recorded.FilterMessage("Panic recovered").Len())
}

func TestFromGin_NotSet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.NotNil(t, FromGin(c))
}
