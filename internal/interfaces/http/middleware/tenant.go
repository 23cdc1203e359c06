package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Tenant context keys. TenantIDKey is shared with the request logger.
const (
	TenantIDKey     = logger.GinTenantIDKey
	TenantCodeKey   = "tenant_code"
	TenantHeaderKey = "X-Tenant-ID"
)

// TenantInfo holds the resolved village
type TenantInfo struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}

// TenantResolver maps a tenant key (id, code or domain) to an active village
type TenantResolver interface {
	ResolveTenant(ctx context.Context, key string) (*TenantInfo, error)
}

// TenantResolverFunc adapts a function to TenantResolver
type TenantResolverFunc func(ctx context.Context, key string) (*TenantInfo, error)

// ResolveTenant calls f
func (f TenantResolverFunc) ResolveTenant(ctx context.Context, key string) (*TenantInfo, error) {
	return f(ctx, key)
}

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// HeaderEnabled enables X-Tenant-ID header extraction
	HeaderEnabled bool
	// JWTEnabled trusts the tenant in the access token when JWT middleware ran first
	JWTEnabled bool
	// SubdomainEnabled enables subdomain extraction
	SubdomainEnabled bool
	// BaseDomain is the base domain for subdomain extraction (e.g., "desa.id")
	BaseDomain string
	// DefaultTenantID is used when nothing else identifies the village
	DefaultTenantID string
	// SkipPaths are paths that don't require tenant context (e.g., health check)
	SkipPaths []string
	// Resolver turns codes and domains into ids and rejects inactive villages.
	// Without it only UUID keys are accepted.
	Resolver TenantResolver
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultTenantConfig returns default tenant middleware configuration
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		SkipPaths:     []string{"/health", "/healthz", "/ready"},
	}
}

// TenantMiddleware identifies the village a request belongs to.
// Extraction order: JWT claims > X-Tenant-ID header > subdomain > default.
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig returns tenant middleware with custom configuration
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		if cfg.JWTEnabled {
			if claims := GetJWTClaims(c); claims != nil && claims.TenantID != "" {
				c.Next()
				return
			}
		}

		key, method := "", ""
		if cfg.HeaderEnabled {
			if v := strings.TrimSpace(c.GetHeader(TenantHeaderKey)); v != "" {
				key, method = v, "header"
			}
		}
		if key == "" && cfg.SubdomainEnabled && cfg.BaseDomain != "" {
			if v := extractTenantFromSubdomain(c.Request.Host, cfg.BaseDomain); v != "" {
				key, method = v, "subdomain"
			}
		}
		if key == "" && cfg.DefaultTenantID != "" {
			key, method = cfg.DefaultTenantID, "default"
		}
		if key == "" {
			respondTenantError(c, http.StatusBadRequest, "Tenant identification required")
			return
		}

		info, err := resolveTenant(c.Request.Context(), cfg.Resolver, key)
		if err != nil {
			log := cfg.Logger
			if log == nil {
				log = logger.FromContext(c.Request.Context())
			}
			log.Warn("Tenant resolution failed",
				zap.String("tenant_key", key),
				zap.String("method", method),
				zap.Error(err),
			)
			respondTenantError(c, http.StatusNotFound, "Unknown or inactive village")
			return
		}

		tenantID := info.ID.String()
		c.Set(TenantIDKey, tenantID)
		if info.Code != "" {
			c.Set(TenantCodeKey, info.Code)
		}
		c.Request = c.Request.WithContext(logger.WithTenantID(c.Request.Context(), tenantID))

		if cfg.Logger != nil {
			cfg.Logger.Debug("Tenant identified",
				zap.String("tenant_id", tenantID),
				zap.String("method", method),
			)
		}
		c.Next()
	}
}

func resolveTenant(ctx context.Context, resolver TenantResolver, key string) (*TenantInfo, error) {
	if resolver != nil {
		return resolver.ResolveTenant(ctx, key)
	}
	id, err := uuid.Parse(key)
	if err != nil {
		return nil, err
	}
	return &TenantInfo{ID: id}, nil
}

// extractTenantFromSubdomain extracts tenant code from subdomain
// e.g., "pulosarok.desa.id" with baseDomain "desa.id" returns "pulosarok"
func extractTenantFromSubdomain(host, baseDomain string) string {
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	if !strings.HasSuffix(host, "."+baseDomain) {
		return ""
	}
	subdomain := strings.TrimSuffix(host, "."+baseDomain)
	if subdomain == "" || subdomain == "www" {
		return ""
	}
	parts := strings.Split(subdomain, ".")
	return parts[0]
}

func respondTenantError(c *gin.Context, status int, message string) {
	code := "ERR_BAD_REQUEST"
	if status == http.StatusNotFound {
		code = "ERR_NOT_FOUND"
	}
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":       code,
			"message":    message,
			"request_id": c.GetString(logger.GinRequestIDKey),
		},
	})
}

// GetTenantID retrieves the tenant ID from gin.Context
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetTenantUUID retrieves the tenant ID as UUID from gin.Context
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(tenantID)
}

// GetTenantCode retrieves the tenant code from gin.Context
func GetTenantCode(c *gin.Context) string {
	return c.GetString(TenantCodeKey)
}
