package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client key
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*client
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	stopOnce sync.Once
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a limiter that refills rps tokens per second up to burst.
// Buckets idle for longer than a minute are dropped by a background sweeper; call Stop to end it.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	rl := &RateLimiter{
		clients: make(map[string]*client),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: time.Minute,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	go rl.cleanup()
	return rl
}

// cleanup removes idle clients periodically
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) sweep() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	removed := 0
	for key, c := range rl.clients {
		if now.Sub(c.lastSeen) > rl.idleTTL {
			delete(rl.clients, key)
			removed++
		}
	}
	return removed
}

// Stop ends the sweeper
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

func (rl *RateLimiter) bucket(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	c, ok := rl.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = c
	}
	c.lastSeen = now
	return c.limiter
}

// Allow takes one token from key's bucket
func (rl *RateLimiter) Allow(key string) bool {
	return rl.bucket(key).AllowN(rl.now(), 1)
}

// Remaining returns the whole tokens left in key's bucket
func (rl *RateLimiter) Remaining(key string) int {
	tokens := rl.bucket(key).TokensAt(rl.now())
	if tokens < 0 {
		return 0
	}
	return int(math.Floor(tokens))
}

// Limit returns the bucket size
func (rl *RateLimiter) Limit() int {
	return rl.burst
}

// RateLimit limits per client IP, scoped by tenant when one is known
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		key := c.ClientIP()
		if tenantID := c.GetHeader(TenantHeaderKey); tenantID != "" {
			key = tenantID + ":" + key
		}
		return key
	})
}

// RateLimitByKey returns a rate limiting middleware with custom key extractor
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFunc(c)

		if !limiter.Allow(key) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error": gin.H{
					"code":       "ERR_RATE_LIMITED",
					"message":    "Too many requests. Please try again later.",
					"request_id": c.GetString(logger.GinRequestIDKey),
				},
			})
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))
		c.Next()
	}
}
