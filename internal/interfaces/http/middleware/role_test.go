package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func withClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set(JWTClaimsKey, claims)
			c.Set(JWTRoleKey, claims.Role)
		}
		c.Next()
	}
}

func roleRouter(claims *auth.Claims, gate gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/letters/:id/approve", withClaims(claims), gate, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"approved": true})
	})
	return r
}

func TestRequireRole_Roles(t *testing.T) {
	tests := []struct {
		name   string
		claims *auth.Claims
		want   int
	}{
		{"kepala desa approves", &auth.Claims{Role: RoleKepalaDesa}, http.StatusOK},
		{"admin approves", &auth.Claims{Role: RoleAdmin}, http.StatusOK},
		{"operator is refused", &auth.Claims{Role: RoleOperator}, http.StatusForbidden},
		{"kader is refused", &auth.Claims{Role: RoleKader}, http.StatusForbidden},
		{"no claims", nil, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := roleRouter(tt.claims, RequireRole(RoleKepalaDesa, RoleAdmin))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/letters/1/approve", nil))

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "ERR_FORBIDDEN")
			}
		})
	}
}

func TestRequireRoleWithConfig_LogsDenial(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	gate := RequireRoleWithConfig(RoleConfig{Logger: zap.New(core)}, RoleAdmin)
	r := roleRouter(&auth.Claims{Role: RoleOperator}, gate)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/letters/1/approve", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	entries := logs.FilterMessage("Role check failed").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "operator", entries[0].ContextMap()["role"])
	}
}

func TestRequireRoleWithConfig_OnDenied(t *testing.T) {
	var required []string
	gate := RequireRoleWithConfig(RoleConfig{OnDenied: func(c *gin.Context, roles []string) {
		required = roles
		c.AbortWithStatus(http.StatusTeapot)
	}}, RoleKepalaDesa)
	r := roleRouter(&auth.Claims{Role: RoleKader}, gate)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/letters/1/approve", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, []string{RoleKepalaDesa}, required)
}

func TestHasRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.False(t, HasRole(c, RoleAdmin))

	c.Set(JWTClaimsKey, &auth.Claims{Role: RoleAdmin})
	assert.True(t, HasRole(c, RoleKepalaDesa, RoleAdmin))
	assert.False(t, HasRole(c, RoleKader))
}
