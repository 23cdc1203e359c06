package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/identity"
	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/pulosarok/desa/internal/infrastructure/auth"
	"go.uber.org/zap"
)

type tokenPair = auth.TokenPair

var (
	errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")
	errAccountLocked      = shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
	errAccountInactive    = shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	errTenantInactive     = shared.NewDomainError("TENANT_INACTIVE", "Village is not active")
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // failed attempts before the account is locked
	LockDuration     time.Duration // how long a locked account stays locked
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: identity.MaxLoginAttempts,
		LockDuration:     identity.LockDuration,
	}
}

// AuthService handles staff authentication
type AuthService struct {
	tenants   identity.TenantRepository
	staff     identity.StaffRepository
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	events    shared.EventPublisher
	config    AuthServiceConfig
	logger    *zap.Logger
}

// NewAuthService creates a new authentication service. blacklist and events may be nil.
func NewAuthService(
	tenants identity.TenantRepository,
	staff identity.StaffRepository,
	jwt *auth.JWTService,
	blacklist auth.TokenBlacklist,
	events shared.EventPublisher,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		tenants:   tenants,
		staff:     staff,
		jwt:       jwt,
		blacklist: blacklist,
		events:    events,
		config:    config,
		logger:    logger,
	}
}

// Login authenticates a staff account and returns a token pair.
// Repeated failures lock the account for the configured duration.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	tenant, err := s.tenants.FindByID(ctx, input.TenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !tenant.IsActive() {
		return nil, errTenantInactive
	}

	staff, err := s.staff.FindByUsername(ctx, input.TenantID, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown username", zap.String("username", input.Username))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !staff.CanLogin() {
		if staff.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("username", staff.Username))
			return nil, errAccountLocked
		}
		return nil, errAccountInactive
	}

	if !staff.VerifyPassword(input.Password) {
		locked := staff.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.staff.Save(ctx, staff); err != nil {
			s.logger.Error("Failed to record login failure", zap.Error(err))
		}
		if locked {
			s.publish(ctx, staff)
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("username", staff.Username),
				zap.Int("attempts", staff.FailedAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		return nil, errInvalidCredentials
	}

	pair, err := s.issue(staff, 0)
	if err != nil {
		return nil, err
	}

	staff.RecordLoginSuccess(input.IP)
	if err := s.staff.Save(ctx, staff); err != nil {
		s.logger.Error("Failed to record login success", zap.Error(err))
	}

	s.logger.Info("Staff logged in",
		zap.String("username", staff.Username),
		zap.String("staff_id", staff.ID.String()))

	return &LoginResult{TokenResult: toTokenResult(*pair), Staff: ToStaffResponse(staff)}, nil
}

// Refresh exchanges a refresh token for a new pair. The role is re-read from
// the account so role changes apply, and the used refresh token is revoked.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenResult, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
	staffID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}

	staff, err := s.staff.FindByIDForTenant(ctx, tenantID, staffID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "Account no longer exists")
		}
		return nil, err
	}
	if !staff.CanLogin() {
		return nil, errAccountInactive
	}

	pair, err := s.issue(staff, claims.RefreshCount+1)
	if err != nil {
		return nil, err
	}
	if s.blacklist != nil {
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			s.logger.Warn("Failed to revoke used refresh token", zap.Error(err))
		}
	}

	result := toTokenResult(*pair)
	return &result, nil
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if s.blacklist == nil {
		return nil
	}
	if input.AccessJTI != "" && input.AccessTTL > 0 {
		if err := s.blacklist.AddToBlacklist(ctx, input.AccessJTI, input.AccessTTL); err != nil {
			return err
		}
	}
	if input.RefreshToken == "" {
		return nil
	}
	claims, err := s.jwt.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		// an unusable refresh token needs no revocation
		return nil
	}
	return s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL())
}

// Me returns the account behind the current token
func (s *AuthService) Me(ctx context.Context, tenantID, staffID uuid.UUID) (*StaffResponse, error) {
	staff, err := s.staff.FindByIDForTenant(ctx, tenantID, staffID)
	if err != nil {
		return nil, err
	}
	resp := ToStaffResponse(staff)
	return &resp, nil
}

// ChangePassword replaces the password and revokes every token issued before
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	staff, err := s.staff.FindByIDForTenant(ctx, input.TenantID, input.StaffID)
	if err != nil {
		return err
	}
	if err := staff.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}
	if err := s.staff.Save(ctx, staff); err != nil {
		return err
	}
	if s.blacklist != nil {
		if err := s.blacklist.InvalidateUser(ctx, staff.ID.String(), s.jwt.GetRefreshTokenExpiration()); err != nil {
			s.logger.Warn("Failed to revoke tokens after password change", zap.Error(err))
		}
	}
	s.logger.Info("Staff password changed", zap.String("staff_id", staff.ID.String()))
	return nil
}

// ValidateAccess checks an access token including revocations.
// The JWT middleware uses it for every authenticated request.
func (s *AuthService) ValidateAccess(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	if s.blacklist == nil {
		return nil
	}
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if !revoked {
		revoked, err = s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
		if err != nil {
			return err
		}
	}
	if revoked {
		return shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
	}
	return nil
}

func (s *AuthService) issue(staff *identity.Staff, refreshCount int) (*auth.TokenPair, error) {
	pair, err := s.jwt.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:     staff.TenantID,
		UserID:       staff.ID,
		Username:     staff.Username,
		Role:         string(staff.Role),
		RefreshCount: refreshCount,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	return pair, nil
}

func (s *AuthService) publish(ctx context.Context, staff *identity.Staff) {
	events := staff.PullDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish staff events", zap.Error(err))
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	}
	return shared.NewDomainError("TOKEN_INVALID", "Invalid token")
}
