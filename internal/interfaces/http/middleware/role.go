package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Staff roles carried in the access token
const (
	RoleAdmin      = "admin"
	RoleOperator   = "operator"
	RoleKepalaDesa = "kepala_desa"
	RoleKader      = "kader"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when the role check fails (optional)
	OnDenied func(c *gin.Context, required []string)
}

// RequireRole lets the request through when the staff member holds any of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(cfg RoleConfig, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, roles, "No authentication claims found")
			return
		}
		if !claims.HasRole(roles...) {
			handleRoleDenied(c, cfg, roles, "Staff role not allowed")
			return
		}
		c.Next()
	}
}

// HasRole is a helper for handlers that branch on the caller's role
func HasRole(c *gin.Context, roles ...string) bool {
	claims := GetJWTClaims(c)
	return claims != nil && claims.HasRole(roles...)
}

func handleRoleDenied(c *gin.Context, cfg RoleConfig, required []string, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, required)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("Role check failed",
			zap.String("reason", reason),
			zap.String("user_id", GetJWTUserID(c)),
			zap.String("role", GetJWTRole(c)),
			zap.Strings("required_roles", required),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":       "ERR_FORBIDDEN",
			"message":    "Access denied: insufficient role",
			"request_id": c.GetString(logger.GinRequestIDKey),
		},
	})
}
