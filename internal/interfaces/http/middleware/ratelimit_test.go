package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_AllowAndRefill(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	defer rl.Stop()

	now := time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "buckets are per key")

	now = now.Add(time.Second)
	assert.True(t, rl.Allow("a"))
	assert.Equal(t, 0, rl.Remaining("a"))
	assert.Equal(t, 2, rl.Limit())
}

func TestRateLimiter_Sweep(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.Allow("idle")

	now = now.Add(2 * time.Minute)
	rl.Allow("fresh")

	assert.Equal(t, 1, rl.sweep())
	_, ok := rl.clients["fresh"]
	assert.True(t, ok)
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter(0.001, 1)
	defer rl.Stop()

	router := gin.New()
	router.Use(RateLimit(rl))
	router.POST("/api/v1/public/contact", func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})

	send := func(tenant string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/public/contact", nil)
		req.RemoteAddr = "10.0.0.7:5000"
		if tenant != "" {
			req.Header.Set(TenantHeaderKey, tenant)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w := send("")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = send("")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "ERR_RATE_LIMITED")

	w = send("village-a")
	assert.Equal(t, http.StatusCreated, w.Code, "tenant scoped bucket")
}
