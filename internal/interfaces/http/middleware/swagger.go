package middleware

import (
	"net/http"
	"net/netip"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// SwaggerConfig controls who may open the API documentation
type SwaggerConfig struct {
	// RequireAuth runs the JWT middleware before the docs are served
	RequireAuth bool
	// Roles narrows authenticated access; empty admits any staff role
	Roles []string
	// AllowedNetworks lists client addresses or CIDR prefixes; empty admits all
	AllowedNetworks []string
	Logger          *zap.Logger
}

// ParseNetworks turns addresses and CIDR prefixes into prefixes, skipping
// entries that parse as neither
func ParseNetworks(entries []string) []netip.Prefix {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if p, err := netip.ParsePrefix(e); err == nil {
			prefixes = append(prefixes, p.Masked())
			continue
		}
		if a, err := netip.ParseAddr(e); err == nil {
			prefixes = append(prefixes, netip.PrefixFrom(a, a.BitLen()))
		}
	}
	return prefixes
}

// SwaggerProtection returns the handler chain that guards /swagger/*any.
// Requests from outside the allowed networks get 403; the JWT and role
// checks follow when RequireAuth is set.
func SwaggerProtection(cfg SwaggerConfig, jwtMiddleware gin.HandlerFunc) gin.HandlersChain {
	networks := ParseNetworks(cfg.AllowedNetworks)
	if cfg.Logger != nil && len(networks) != len(cfg.AllowedNetworks) {
		cfg.Logger.Warn("Ignoring unparseable swagger network entries",
			zap.Strings("configured", cfg.AllowedNetworks))
	}

	chain := gin.HandlersChain{func(c *gin.Context) {
		if len(networks) > 0 && !inNetworks(c.ClientIP(), networks) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":       "ERR_FORBIDDEN",
					"message":    "API documentation is not available from this network",
					"request_id": c.GetString(logger.GinRequestIDKey),
				},
			})
			return
		}
		c.Next()
	}}
	if cfg.RequireAuth && jwtMiddleware != nil {
		chain = append(chain, jwtMiddleware)
		if len(cfg.Roles) > 0 {
			chain = append(chain, RequireRoleWithConfig(RoleConfig{Logger: cfg.Logger}, cfg.Roles...))
		}
	}
	return chain
}

func inNetworks(clientIP string, networks []netip.Prefix) bool {
	addr, err := netip.ParseAddr(clientIP)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, n := range networks {
		if n.Contains(addr) {
			return true
		}
	}
	return false
}
