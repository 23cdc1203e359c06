package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func systemRouter(h *SystemHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/system/info", h.GetSystemInfo)
	r.GET("/system/ping", h.Ping)
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler(SystemOptions{
		Name:        "desa-api",
		Version:     "1.0.0",
		Environment: "staging",
		Features:    map[string]bool{"ai": true, "pdf": false},
	})
	h.startTime = time.Date(2026, 1, 23, 10, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return time.Date(2026, 1, 23, 11, 30, 45, 0, time.UTC) }

	w := get(systemRouter(h), "/system/info")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool               `json:"success"`
		Data    SystemInfoResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "desa-api", resp.Data.Name)
	assert.Equal(t, "staging", resp.Data.Environment)
	assert.Equal(t, "1h30m45s", resp.Data.Uptime)
	assert.NotEmpty(t, resp.Data.GoVersion)
	assert.Equal(t, map[string]bool{"ai": true, "pdf": false}, resp.Data.Features)
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler(SystemOptions{Name: "desa-api"})

	w := get(systemRouter(h), "/system/ping")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data PingResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "pong", resp.Data.Message)
	_, err := time.Parse(time.RFC3339, resp.Data.Timestamp)
	assert.NoError(t, err)
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("database answers", func(t *testing.T) {
		h := NewSystemHandler(SystemOptions{Database: pingerFunc(func(context.Context) error { return nil })})

		w := get(systemRouter(h), "/health")

		assert.Equal(t, http.StatusOK, w.Code)
		var resp HealthResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "ok", resp.Database)
	})

	t.Run("database down", func(t *testing.T) {
		h := NewSystemHandler(SystemOptions{Database: pingerFunc(func(context.Context) error {
			return errors.New("connection refused")
		})})

		w := get(systemRouter(h), "/health")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "unhealthy")
	})

	t.Run("ping is bounded", func(t *testing.T) {
		h := NewSystemHandler(SystemOptions{
			HealthTimeout: 20 * time.Millisecond,
			Database: pingerFunc(func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			}),
		})

		start := time.Now()
		w := get(systemRouter(h), "/health")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Less(t, time.Since(start), time.Second)
	})
}
