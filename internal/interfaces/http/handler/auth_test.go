package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	appidentity "github.com/pulosarok/desa/internal/application/identity"
	"github.com/pulosarok/desa/internal/domain/identity"
	"github.com/pulosarok/desa/internal/infrastructure/auth"
	"github.com/pulosarok/desa/internal/infrastructure/config"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
	"github.com/pulosarok/desa/internal/infrastructure/persistence"
	"github.com/pulosarok/desa/internal/interfaces/http/dto"
	"github.com/pulosarok/desa/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func setupSQLite(t *testing.T, tables ...any) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(tables...))
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// withTenant stands in for the tenant middleware
func withTenant(tenantID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(logger.GinTenantIDKey, tenantID)
		c.Next()
	}
}

type authTestEnv struct {
	router *gin.Engine
	tenant *identity.Tenant
	staff  *identity.Staff
}

func newAuthTestEnv(t *testing.T) *authTestEnv {
	t.Helper()
	db := setupSQLite(t, &identity.Tenant{}, &identity.Staff{})
	tenants := persistence.NewGormTenantRepository(db)
	staffRepo := persistence.NewGormStaffRepository(db)

	tenant, err := identity.NewTenant("PULO", "Desa Pulosarok")
	require.NoError(t, err)
	require.NoError(t, tenants.Save(t.Context(), tenant))
	staff, err := identity.NewStaff(tenant.ID, "operator1", "Password123", identity.RoleKepalaDesa)
	require.NoError(t, err)
	require.NoError(t, staffRepo.Save(t.Context(), staff))

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "desa-test",
		MaxRefreshCount:        3,
	})
	blacklist := auth.NewInMemoryTokenBlacklist()
	service := appidentity.NewAuthService(tenants, staffRepo, jwtService, blacklist, nil, appidentity.DefaultAuthServiceConfig(), zap.NewNop())
	h := NewAuthHandler(service)

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.TokenBlacklist = blacklist

	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(withTenant(tenant.ID.String()), middleware.JWTAuthMiddlewareWithConfig(jwtCfg))
	api.POST("/auth/login", h.Login)
	api.POST("/auth/refresh", h.RefreshToken)
	api.POST("/auth/logout", h.Logout)
	api.GET("/auth/me", h.Me)
	api.PUT("/auth/password", h.ChangePassword)

	return &authTestEnv{router: router, tenant: tenant, staff: staff}
}

func (e *authTestEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = jsonBody(t, body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *authTestEnv) login(t *testing.T) appidentity.LoginResult {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "operator1", Password: "Password123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		Data appidentity.LoginResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}

func TestAuthHandler_Login(t *testing.T) {
	env := newAuthTestEnv(t)

	result := env.login(t)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Equal(t, "kepala_desa", result.Staff.Role)
	assert.Equal(t, env.tenant.ID, result.Staff.TenantID)
}

func TestAuthHandler_LoginRejectsBadCredentials(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "operator1", Password: "WrongPassword"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, dto.ErrCodeUnauthorized, decodeResponse(t, w).Error.Code)
}

func TestAuthHandler_LoginLocksAfterRepeatedFailures(t *testing.T) {
	env := newAuthTestEnv(t)

	var w *httptest.ResponseRecorder
	for i := 0; i < identity.MaxLoginAttempts; i++ {
		w = env.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "operator1", Password: "WrongPassword"})
	}
	assert.Equal(t, http.StatusLocked, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "operator1", Password: "Password123"})
	assert.Equal(t, http.StatusLocked, w.Code)
	assert.Equal(t, dto.ErrCodeAccountLocked, decodeResponse(t, w).Error.Code)
}

func TestAuthHandler_LoginValidation(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "op"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	fields := make([]string, 0, len(resp.Error.Details))
	for _, d := range resp.Error.Details {
		fields = append(fields, d.Field)
	}
	assert.ElementsMatch(t, []string{"username", "password"}, fields)
}

func TestAuthHandler_Me(t *testing.T) {
	env := newAuthTestEnv(t)
	result := env.login(t)

	w := env.do(t, http.MethodGet, "/api/v1/auth/me", result.AccessToken, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data appidentity.StaffResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, env.staff.ID, resp.Data.ID)
	assert.Equal(t, "operator1", resp.Data.Username)
	assert.NotNil(t, resp.Data.LastLoginAt)
}

func TestAuthHandler_MeRequiresToken(t *testing.T) {
	env := newAuthTestEnv(t)

	w := env.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	env := newAuthTestEnv(t)
	result := env.login(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", RefreshTokenRequest{RefreshToken: result.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", RefreshTokenRequest{RefreshToken: result.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code, "a used refresh token is revoked")
}

func TestAuthHandler_LogoutRevokesAccessToken(t *testing.T) {
	env := newAuthTestEnv(t)
	result := env.login(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/logout", result.AccessToken, LogoutRequest{RefreshToken: result.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/v1/auth/me", result.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/auth/refresh", "", RefreshTokenRequest{RefreshToken: result.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_ChangePassword(t *testing.T) {
	env := newAuthTestEnv(t)
	result := env.login(t)

	w := env.do(t, http.MethodPut, "/api/v1/auth/password", result.AccessToken, ChangePasswordRequest{OldPassword: "WrongOld123", NewPassword: "NewPassword456"})
	assert.NotEqual(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPut, "/api/v1/auth/password", result.AccessToken, ChangePasswordRequest{OldPassword: "Password123", NewPassword: "NewPassword456"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/v1/auth/login", "", LoginRequest{Username: "operator1", Password: "NewPassword456"})
	assert.Equal(t, http.StatusOK, w.Code)
}
