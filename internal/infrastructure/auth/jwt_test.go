package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "desa-test",
		MaxRefreshCount:        3,
	})
}

func newTestInput() GenerateTokenInput {
	return GenerateTokenInput{
		TenantID: uuid.New(),
		UserID:   uuid.New(),
		Username: "sekdes",
		Role:     "kepala_desa",
	}
}

func TestNewJWTService_UsesSecretForRefreshIfNotProvided(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "only-secret"})
	assert.Equal(t, []byte("only-secret"), svc.refreshSecret)
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)
	assert.True(t, pair.RefreshTokenExpiresAt.After(pair.AccessTokenExpiresAt))

	access, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, input.TenantID.String(), access.TenantID)
	assert.Equal(t, input.UserID.String(), access.UserID)
	assert.Equal(t, "sekdes", access.Username)
	assert.Equal(t, "kepala_desa", access.Role)
	assert.True(t, access.HasRole("admin", "kepala_desa"))
	assert.False(t, access.HasRole("admin"))

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.Role)
	assert.Equal(t, 0, refresh.RefreshCount)
}

func TestValidateToken_WrongType(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "refresh secret differs from access secret")

	same := NewJWTService(config.JWTConfig{Secret: "shared-secret-for-both-token-types", Issuer: "desa-test",
		AccessTokenExpiration: time.Minute, RefreshTokenExpiration: time.Hour})
	pair, err = same.GenerateTokenPair(newTestInput())
	require.NoError(t, err)
	_, err = same.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidateToken_Expired(t *testing.T) {
	svc := newTestJWTService()
	svc.accessExpiration = -time.Minute

	pair, err := svc.GenerateTokenPair(newTestInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateToken_RejectsOtherIssuerAndAlgorithm(t *testing.T) {
	svc := newTestJWTService()

	other := newTestJWTService()
	other.issuer = "someone-else"
	pair, err := other.GenerateTokenPair(newTestInput())
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{TenantID: "t", UserID: "u", TokenType: TokenTypeAccess})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_MissingClaims(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()
	claims := svc.claims(input, TokenTypeAccess, time.Now(), time.Minute)
	claims.TenantID = ""
	raw, err := sign(claims, svc.accessSecret)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(raw)
	assert.ErrorIs(t, err, ErrMissingTenantID)
}

func TestValidateRefreshToken_MaxRefreshCount(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()

	input.RefreshCount = 2
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	claims, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, 2, claims.RefreshCount)

	input.RefreshCount = 3
	pair, err = svc.GenerateTokenPair(input)
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}

func TestClaims_Helpers(t *testing.T) {
	svc := newTestJWTService()
	input := newTestInput()
	pair, err := svc.GenerateTokenPair(input)
	require.NoError(t, err)
	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	tenantID, err := claims.GetTenantUUID()
	require.NoError(t, err)
	assert.Equal(t, input.TenantID, tenantID)

	userID, err := claims.GetUserUUID()
	require.NoError(t, err)
	assert.Equal(t, input.UserID, userID)

	assert.WithinDuration(t, time.Now(), claims.GetIssuedAtTime(), 2*time.Second)
	assert.InDelta(t, (15 * time.Minute).Seconds(), claims.GetRemainingTTL().Seconds(), 5)
	assert.Equal(t, time.Duration(0), (&Claims{}).GetRemainingTTL())
}
