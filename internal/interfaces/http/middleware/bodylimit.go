package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
)

// BodyLimitConfig bounds request bodies, optionally per path prefix
type BodyLimitConfig struct {
	MaxBytes int64
	// PathLimits override MaxBytes for paths starting with the key; the
	// longest matching prefix wins
	PathLimits map[string]int64
}

// BodyLimit rejects bodies larger than maxBytes
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return BodyLimitWithConfig(BodyLimitConfig{MaxBytes: maxBytes})
}

// BodyLimitWithConfig rejects declared oversize bodies with 413 and caps
// streamed bodies with http.MaxBytesReader
func BodyLimitWithConfig(cfg BodyLimitConfig) gin.HandlerFunc {
	limitFor := func(path string) int64 {
		limit, matched := cfg.MaxBytes, ""
		for prefix, l := range cfg.PathLimits {
			if strings.HasPrefix(path, prefix) && len(prefix) > len(matched) {
				limit, matched = l, prefix
			}
		}
		return limit
	}

	return func(c *gin.Context) {
		limit := limitFor(c.Request.URL.Path)
		if limit <= 0 {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error": gin.H{
					"code":       "ERR_PAYLOAD_TOO_LARGE",
					"message":    "Request body exceeds maximum allowed size",
					"request_id": c.GetString(logger.GinRequestIDKey),
				},
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
