package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/application/identity"
	"github.com/pulosarok/desa/internal/interfaces/http/middleware"
)

// AuthHandler handles staff login and session endpoints
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginRequest represents the request body for staff login
// @Description Staff credentials. The village comes from X-Tenant-ID or the subdomain.
type LoginRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"operator1"`
	Password string `json:"password" binding:"required,min=8,max=72" example:"rahasia123"`
}

// RefreshTokenRequest represents the request body for token refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke with the session
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// MessageResponse carries a human readable confirmation
type MessageResponse struct {
	Message string `json:"message" example:"Logged out successfully"`
}

// Login godoc
// @ID           loginStaff
// @Summary      Staff login
// @Description  Authenticate a staff member of the village and issue a token pair. Five failed attempts lock the account for fifteen minutes.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[identity.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      423 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}

	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		TenantID: tenantID,
		Username: req.Username,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// RefreshToken godoc
// @ID           refreshToken
// @Summary      Refresh access token
// @Description  Exchange a refresh token for a new pair. The used refresh token is revoked.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshTokenRequest true "Refresh token"
// @Success      200 {object} APIResponse[identity.TokenResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Logout godoc
// @ID           logoutStaff
// @Summary      Staff logout
// @Description  Revoke the current access token and, when supplied, the refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LogoutRequest false "Refresh token to revoke"
// @Success      200 {object} APIResponse[MessageResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req LogoutRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	err := h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		AccessJTI:    claims.ID,
		AccessTTL:    claims.GetRemainingTTL(),
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "Logged out successfully"})
}

// Me godoc
// @ID           getCurrentStaff
// @Summary      Current staff member
// @Description  Return the account behind the access token
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identity.StaffResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	staffID, ok := h.requireUser(c)
	if !ok {
		return
	}

	staff, err := h.authService.Me(c.Request.Context(), tenantID, staffID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, staff)
}

// ChangePassword godoc
// @ID           changePassword
// @Summary      Change password
// @Description  Change the current staff member's password. Existing sessions are invalidated.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body ChangePasswordRequest true "Password change request"
// @Success      200 {object} APIResponse[MessageResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	staffID, ok := h.requireUser(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	err := h.authService.ChangePassword(c.Request.Context(), identity.ChangePasswordInput{
		TenantID:    tenantID,
		StaffID:     staffID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageResponse{Message: "Password changed successfully"})
}
