package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/infrastructure/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tenantRouter(cfg TenantMiddlewareConfig, pre ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(pre...)
	router.Use(TenantMiddlewareWithConfig(cfg))
	router.GET("/api/v1/public/news", func(c *gin.Context) {
		c.String(http.StatusOK, GetTenantID(c)+"|"+GetTenantCode(c))
	})
	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestTenantMiddleware_Header(t *testing.T) {
	router := tenantRouter(DefaultTenantConfig())
	id := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/news", nil)
	req.Header.Set(TenantHeaderKey, id.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String()+"|", w.Body.String())
}

func TestTenantMiddleware_MissingTenant(t *testing.T) {
	router := tenantRouter(DefaultTenantConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/news", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTenantMiddleware_NonUUIDWithoutResolver(t *testing.T) {
	router := tenantRouter(DefaultTenantConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/news", nil)
	req.Header.Set(TenantHeaderKey, "pulosarok")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTenantMiddleware_SkipPath(t *testing.T) {
	router := tenantRouter(DefaultTenantConfig())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTenantMiddleware_ResolverAndSubdomain(t *testing.T) {
	id := uuid.New()
	resolver := TenantResolverFunc(func(_ context.Context, key string) (*TenantInfo, error) {
		if key == "pulosarok" {
			return &TenantInfo{ID: id, Code: "pulosarok"}, nil
		}
		return nil, errors.New("not found")
	})
	cfg := DefaultTenantConfig()
	cfg.SubdomainEnabled = true
	cfg.BaseDomain = "desa.id"
	cfg.Resolver = resolver
	router := tenantRouter(cfg)

	t.Run("subdomain code", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/public/news", nil)
		req.Host = "pulosarok.desa.id:8080"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, id.String()+"|pulosarok", w.Body.String())
	})

	t.Run("header wins over subdomain", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/public/news", nil)
		req.Host = "pulosarok.desa.id"
		req.Header.Set(TenantHeaderKey, "unknown")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTenantMiddleware_Default(t *testing.T) {
	id := uuid.New()
	cfg := DefaultTenantConfig()
	cfg.DefaultTenantID = id.String()
	router := tenantRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/news", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String()+"|", w.Body.String())
}

func TestTenantMiddleware_JWTClaimsWin(t *testing.T) {
	tenantID := uuid.New()
	claims := &auth.Claims{TenantID: tenantID.String(), UserID: uuid.NewString()}
	setter := func(c *gin.Context) {
		setClaims(c, claims)
		c.Next()
	}
	router := tenantRouter(DefaultTenantConfig(), setter)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/public/news", nil)
	req.Header.Set(TenantHeaderKey, uuid.NewString())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, tenantID.String()+"|", w.Body.String())
}

func TestExtractTenantFromSubdomain(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"pulosarok.desa.id", "pulosarok"},
		{"pulosarok.desa.id:443", "pulosarok"},
		{"a.b.desa.id", "a"},
		{"www.desa.id", ""},
		{"desa.id", ""},
		{"example.com", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractTenantFromSubdomain(tt.host, "desa.id"), tt.host)
	}
}

func TestGetTenantUUID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	id, err := GetTenantUUID(c)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, id)

	want := uuid.New()
	c.Set(TenantIDKey, want.String())
	id, err = GetTenantUUID(c)
	require.NoError(t, err)
	assert.Equal(t, want, id)

	c.Set(TenantIDKey, "bogus")
	_, err = GetTenantUUID(c)
	assert.Error(t, err)
}
