package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/infrastructure/auth"
	"github.com/pulosarok/desa/internal/infrastructure/config"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-characters",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "desa-test",
		MaxRefreshCount:        3,
	})
}

func issueTokens(t *testing.T, svc *auth.JWTService, role string) (*auth.TokenPair, uuid.UUID, uuid.UUID) {
	t.Helper()
	tenantID, userID := uuid.New(), uuid.New()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID: tenantID,
		UserID:   userID,
		Username: "operator1",
		Role:     role,
	})
	require.NoError(t, err)
	return pair, tenantID, userID
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp.Error.Code
}

func newJWTRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	router := gin.New()
	router.Use(JWTAuthMiddlewareWithConfig(cfg))
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   GetJWTUserID(c),
			"tenant_id": c.GetString(logger.GinTenantIDKey),
			"role":      GetJWTRole(c),
		})
	}
	router.GET("/api/v1/letters", handler)
	router.POST("/api/v1/auth/login", handler)
	router.GET("/api/v1/public/news", handler)
	return router
}

func TestJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()
	router := newJWTRouter(DefaultJWTConfig(svc))

	t.Run("valid access token", func(t *testing.T) {
		pair, tenantID, userID := issueTokens(t, svc, RoleOperator)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/letters", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, userID.String(), body["user_id"])
		assert.Equal(t, tenantID.String(), body["tenant_id"])
		assert.Equal(t, RoleOperator, body["role"])
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/letters", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_TOKEN_INVALID", errorCode(t, w.Body.Bytes()))
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		pair, _, _ := issueTokens(t, svc, RoleOperator)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/letters", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+pair.RefreshToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("login and public paths skip auth", func(t *testing.T) {
		for _, tc := range []struct{ method, path string }{
			{http.MethodPost, "/api/v1/auth/login"},
			{http.MethodGet, "/api/v1/public/news"},
		} {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, tc.path)
		}
	})
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	svc := newTestJWTService()
	blacklist := auth.NewInMemoryTokenBlacklist()
	cfg := DefaultJWTConfig(svc)
	cfg.TokenBlacklist = blacklist
	router := newJWTRouter(cfg)

	pair, _, _ := issueTokens(t, svc, RoleAdmin)
	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	t.Run("revoked jti", func(t *testing.T) {
		require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Minute))
		req := httptest.NewRequest(http.MethodGet, "/api/v1/letters", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "ERR_TOKEN_REVOKED", errorCode(t, w.Body.Bytes()))
	})

	t.Run("user invalidated after issue", func(t *testing.T) {
		other, _, otherUser := issueTokens(t, svc, RoleAdmin)
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, blacklist.InvalidateUser(context.Background(), otherUser.String(), time.Hour))

		req := httptest.NewRequest(http.MethodGet, "/api/v1/letters", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+other.AccessToken)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

type failingBlacklist struct{ auth.TokenBlacklist }

func (failingBlacklist) IsBlacklisted(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func (failingBlacklist) IsUserTokenInvalidated(context.Context, string, time.Time) (bool, error) {
	return false, errors.New("redis down")
}

func TestJWTAuthMiddleware_BlacklistFailsOpen(t *testing.T) {
	svc := newTestJWTService()
	cfg := DefaultJWTConfig(svc)
	cfg.TokenBlacklist = failingBlacklist{}
	router := newJWTRouter(cfg)

	pair, _, _ := issueTokens(t, svc, RoleOperator)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/letters", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()
	router := gin.New()
	router.Use(OptionalJWTAuthMiddleware(svc))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetJWTUsername(c))
	})

	pair, _, _ := issueTokens(t, svc, RoleOperator)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "operator1", w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+"garbage")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService()
	router := gin.New()
	router.Use(JWTAuthMiddleware(svc))
	router.POST("/api/v1/letters/:id/sign", RequireRole(RoleKepalaDesa, RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		role string
		want int
	}{
		{RoleKepalaDesa, http.StatusNoContent},
		{RoleAdmin, http.StatusNoContent},
		{RoleOperator, http.StatusForbidden},
		{RoleKader, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			pair, _, _ := issueTokens(t, svc, tt.role)
			req := httptest.NewRequest(http.MethodPost, "/api/v1/letters/1/sign", nil)
			req.Header.Set(AuthHeaderKey, BearerPrefix+pair.AccessToken)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusForbidden {
				assert.Equal(t, "ERR_FORBIDDEN", errorCode(t, w.Body.Bytes()))
			}
		})
	}
}

func TestRequireRole_NoClaims(t *testing.T) {
	router := gin.New()
	router.GET("/test", RequireRole(RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
