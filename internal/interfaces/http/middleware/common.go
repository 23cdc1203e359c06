package middleware

import (
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
)

// CORSConfig holds CORS middleware configuration.
// AllowOrigins entries are exact origins, "*", or a subdomain pattern such as
// "https://*.desa.id" which matches each village site under that domain.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           time.Duration
}

// DefaultCORSConfig returns default CORS configuration. AllowOrigins is empty,
// so cross-origin requests are refused until origins are configured.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins:     []string{},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", RequestIDHeader, "X-Tenant-ID", "Accept", "Origin", "Cache-Control"},
		ExposeHeaders:    []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
}

// CORS returns a middleware that handles CORS with default configuration
func CORS() gin.HandlerFunc {
	return CORSWithConfig(DefaultCORSConfig())
}

// originMatcher decides which request origins get CORS headers
type originMatcher struct {
	any      bool
	exact    []string
	suffixes []struct{ scheme, domain string }
}

func newOriginMatcher(origins []string) originMatcher {
	var m originMatcher
	for _, o := range origins {
		switch {
		case o == "*":
			m.any = true
		case strings.Contains(o, "://*."):
			scheme, domain, _ := strings.Cut(o, "://*")
			m.suffixes = append(m.suffixes, struct{ scheme, domain string }{scheme + "://", domain})
		default:
			m.exact = append(m.exact, strings.TrimSuffix(o, "/"))
		}
	}
	return m
}

// allowed returns the Access-Control-Allow-Origin value for origin, or ""
func (m originMatcher) allowed(origin string) string {
	if m.any {
		return "*"
	}
	if origin == "" {
		return ""
	}
	if slices.Contains(m.exact, origin) {
		return origin
	}
	for _, s := range m.suffixes {
		host, ok := strings.CutPrefix(origin, s.scheme)
		if ok && strings.HasSuffix(host, s.domain) && len(host) > len(s.domain) {
			return origin
		}
	}
	return ""
}

// CORSWithConfig returns a CORS middleware with custom configuration.
// Preflight requests always end with 204; headers are only set for allowed origins.
func CORSWithConfig(cfg CORSConfig) gin.HandlerFunc {
	matcher := newOriginMatcher(cfg.AllowOrigins)
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	expose := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := ""
	if cfg.MaxAge > 0 {
		maxAge = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Add("Vary", "Origin")

		if allow := matcher.allowed(c.GetHeader("Origin")); allow != "" {
			h.Set("Access-Control-Allow-Origin", allow)
			// browsers reject credentials together with a wildcard origin
			if cfg.AllowCredentials && allow != "*" {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			if expose != "" {
				h.Set("Access-Control-Expose-Headers", expose)
			}
			if maxAge != "" {
				h.Set("Access-Control-Max-Age", maxAge)
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RequestIDHeader carries the request id in and out
const RequestIDHeader = "X-Request-ID"

// RequestID adds a unique request ID to each request. An incoming header is
// kept when it is short enough to be safe in logs and span attributes.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > MaxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(logger.GinRequestIDKey, requestID)
		c.Writer.Header().Set(RequestIDHeader, requestID)
		c.Next()
	}
}

// SecurityConfig holds configuration for security headers
type SecurityConfig struct {
	// FrameOptions is DENY or SAMEORIGIN. The staff portal previews letter
	// PDFs in an iframe, so SAMEORIGIN is the default.
	FrameOptions string
	// HSTSMaxAge enables Strict-Transport-Security when positive
	HSTSMaxAge            time.Duration
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	// ContentSecurityPolicy is sent verbatim when not empty
	ContentSecurityPolicy string
	PermissionsPolicy     string
}

// DefaultSecurityConfig returns the portal defaults. HSTS stays off until
// the deployment terminates TLS.
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		FrameOptions: "SAMEORIGIN",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; " +
			"img-src 'self' data: blob: https:; font-src 'self' data:; connect-src 'self'; " +
			"object-src 'self'; frame-ancestors 'self'; base-uri 'self'; form-action 'self'",
		PermissionsPolicy: "camera=(), microphone=(), geolocation=(self), payment=(), usb=()",
	}
}

// Secure adds security headers to responses using default configuration
func Secure() gin.HandlerFunc {
	return SecureWithConfig(DefaultSecurityConfig())
}

// SecureWithConfig adds security headers to responses with custom configuration
func SecureWithConfig(cfg SecurityConfig) gin.HandlerFunc {
	static := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	}
	if cfg.FrameOptions != "" {
		static["X-Frame-Options"] = cfg.FrameOptions
	}
	if cfg.ContentSecurityPolicy != "" {
		static["Content-Security-Policy"] = cfg.ContentSecurityPolicy
	}
	if cfg.PermissionsPolicy != "" {
		static["Permissions-Policy"] = cfg.PermissionsPolicy
	}
	if cfg.HSTSMaxAge > 0 {
		hsts := fmt.Sprintf("max-age=%d", int(cfg.HSTSMaxAge.Seconds()))
		if cfg.HSTSIncludeSubdomains {
			hsts += "; includeSubDomains"
		}
		if cfg.HSTSPreload {
			hsts += "; preload"
		}
		static["Strict-Transport-Security"] = hsts
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		for k, v := range static {
			h.Set(k, v)
		}
		c.Next()
	}
}
