package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/identity"
)

// LoginInput contains the credentials of a login attempt
type LoginInput struct {
	TenantID uuid.UUID
	Username string
	Password string
	IP       string
}

// TokenResult carries a freshly issued token pair
type TokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LoginResult is returned after a successful login
type LoginResult struct {
	TokenResult
	Staff StaffResponse `json:"staff"`
}

// LogoutInput revokes the tokens of the current session
type LogoutInput struct {
	AccessJTI    string
	AccessTTL    time.Duration
	RefreshToken string
}

// ChangePasswordInput contains the data to change a password
type ChangePasswordInput struct {
	TenantID    uuid.UUID
	StaffID     uuid.UUID
	OldPassword string
	NewPassword string
}

// CreateStaffRequest creates a staff account
type CreateStaffRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=50"`
	Password    string `json:"password" binding:"required,min=8,max=72"`
	DisplayName string `json:"display_name" binding:"max=200"`
	Email       string `json:"email" binding:"omitempty,email,max=200"`
	Role        string `json:"role" binding:"required,oneof=admin operator kepala_desa kader"`
}

// UpdateStaffRequest changes profile fields and the role of an account
type UpdateStaffRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
	Email       *string `json:"email" binding:"omitempty,max=200"`
	Role        *string `json:"role" binding:"omitempty,oneof=admin operator kepala_desa kader"`
}

// StaffResponse represents a staff account in API responses
type StaffResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToStaffResponse converts a staff account to its response
func ToStaffResponse(s *identity.Staff) StaffResponse {
	return StaffResponse{
		ID:          s.ID,
		TenantID:    s.TenantID,
		Username:    s.Username,
		DisplayName: s.DisplayNameOrUsername(),
		Email:       s.Email,
		Role:        string(s.Role),
		Status:      string(s.Status),
		LockedUntil: s.LockedUntil,
		LastLoginAt: s.LastLoginAt,
		CreatedAt:   s.CreatedAt,
	}
}

// TenantResponse represents a village in API responses
type TenantResponse struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
	Domain string    `json:"domain,omitempty"`
}

// ToTenantResponse converts a tenant to its response
func ToTenantResponse(t *identity.Tenant) TenantResponse {
	return TenantResponse{
		ID:     t.ID,
		Code:   t.Code,
		Name:   t.Name,
		Status: string(t.Status),
		Domain: t.Domain,
	}
}

func toTokenResult(p tokenPair) TokenResult {
	return TokenResult{
		AccessToken:           p.AccessToken,
		RefreshToken:          p.RefreshToken,
		AccessTokenExpiresAt:  p.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: p.RefreshTokenExpiresAt,
		TokenType:             p.TokenType,
	}
}
