package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/grafana/pyroscope-go"
)

// Profiling label names
const (
	ProfilingLabelController = "controller"
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	// Enabled controls whether profiling labels are added to requests.
	Enabled bool
	// SkipPaths are paths that don't need profiling labels (e.g., health checks).
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't need profiling labels.
	SkipPathPrefixes []string
}

// DefaultProfilingConfig returns default profiling middleware configuration.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:          true,
		SkipPaths:        []string{"/health", "/healthz", "/ready"},
		SkipPathPrefixes: []string{"/swagger"},
	}
}

// ProfilingWithConfig tags the CPU samples taken while a request runs with its
// method, route and controller, so profiles can be sliced per endpoint.
// Tenant ids are left out to keep label cardinality low.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		pyroscope.TagWrapper(c.Request.Context(), pyroscope.Labels(extractProfilingLabels(c)...), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// extractProfilingLabels returns alternating label keys and values
func extractProfilingLabels(c *gin.Context) []string {
	labels := []string{ProfilingLabelMethod, c.Request.Method}
	route := c.FullPath()
	if route == "" {
		return labels
	}
	labels = append(labels, ProfilingLabelRoute, route)
	if controller := extractControllerFromRoute(route); controller != "" {
		labels = append(labels, ProfilingLabelController, controller)
	}
	return labels
}

// extractControllerFromRoute derives a controller name from the route pattern.
// Example: "/api/v1/letters/:id/sign" -> "letters"
// Example: "/api/v1/public/news/:slug" -> "public"
func extractControllerFromRoute(route string) string {
	for _, part := range strings.Split(route, "/") {
		if part == "" || part == "api" || isVersionSegment(part) {
			continue
		}
		if strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		return part
	}
	return ""
}

// isVersionSegment checks if a path segment is an API version (v1, v2, etc.)
func isVersionSegment(segment string) bool {
	if len(segment) < 2 || (segment[0] != 'v' && segment[0] != 'V') {
		return false
	}
	for i := 1; i < len(segment); i++ {
		if segment[i] < '0' || segment[i] > '9' {
			return false
		}
	}
	return true
}
