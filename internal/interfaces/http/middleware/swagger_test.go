package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
)

func TestParseNetworks(t *testing.T) {
	got := ParseNetworks([]string{"10.0.0.0/8", " 192.168.1.10 ", "::1", "not-an-ip", "172.16.5.9/12"})

	assert.Equal(t, []netip.Prefix{
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("192.168.1.10/32"),
		netip.MustParsePrefix("::1/128"),
		netip.MustParsePrefix("172.16.0.0/12"),
	}, got)
}

// fakeJWT authenticates requests carrying a role header and rejects the rest
func fakeJWT(c *gin.Context) {
	role := c.GetHeader("X-Test-Role")
	if role == "" {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Set(JWTClaimsKey, &auth.Claims{Role: role})
	c.Next()
}

func swaggerRouter(cfg SwaggerConfig) *gin.Engine {
	r := gin.New()
	chain := SwaggerProtection(cfg, fakeJWT)
	r.GET("/swagger/*any", append(chain, func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})...)
	return r
}

func serveSwagger(r *gin.Engine, remoteAddr, role string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	if role != "" {
		req.Header.Set("X-Test-Role", role)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name   string
		cfg    SwaggerConfig
		remote string
		role   string
		want   int
	}{
		{"open", SwaggerConfig{}, "203.0.113.7:4000", "", http.StatusOK},
		{"network allowed", SwaggerConfig{AllowedNetworks: []string{"10.0.0.0/8"}}, "10.1.2.3:4000", "", http.StatusOK},
		{"single address allowed", SwaggerConfig{AllowedNetworks: []string{"192.168.1.10"}}, "192.168.1.10:4000", "", http.StatusOK},
		{"network refused", SwaggerConfig{AllowedNetworks: []string{"10.0.0.0/8"}}, "203.0.113.7:4000", "", http.StatusForbidden},
		{"ipv6 loopback", SwaggerConfig{AllowedNetworks: []string{"::1"}}, "[::1]:4000", "", http.StatusOK},
		{"auth without token", SwaggerConfig{RequireAuth: true}, "203.0.113.7:4000", "", http.StatusUnauthorized},
		{"auth with token", SwaggerConfig{RequireAuth: true}, "203.0.113.7:4000", RoleOperator, http.StatusOK},
		{"role refused", SwaggerConfig{RequireAuth: true, Roles: []string{RoleAdmin}}, "203.0.113.7:4000", RoleOperator, http.StatusForbidden},
		{"role allowed", SwaggerConfig{RequireAuth: true, Roles: []string{RoleAdmin}}, "203.0.113.7:4000", RoleAdmin, http.StatusOK},
		{"network checked before auth", SwaggerConfig{RequireAuth: true, AllowedNetworks: []string{"10.0.0.0/8"}}, "203.0.113.7:4000", RoleAdmin, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveSwagger(swaggerRouter(tt.cfg), tt.remote, tt.role)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "docs", w.Body.String())
			}
		})
	}
}

func TestSwaggerProtection_ForbiddenEnvelope(t *testing.T) {
	r := swaggerRouter(SwaggerConfig{AllowedNetworks: []string{"127.0.0.1"}})

	w := serveSwagger(r, "198.51.100.1:80", "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
	assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
}
