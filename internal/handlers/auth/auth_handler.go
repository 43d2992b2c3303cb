// internal/handlers/auth/auth_handler.go
package auth

import (
	"net/http"

	"shiftcare-service/internal/domain/account"
	"shiftcare-service/internal/middleware"
	"shiftcare-service/internal/pkg/response"
	service "shiftcare-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account and returns a token pair.
func (h *AuthHandler) Register(c *gin.Context) {
	var req account.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "account registered", result)
}

// Login authenticates with email and password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req account.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "login successful", result)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a refresh token for a fresh token pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "token refreshed", result)
}

// Logout invalidates the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)
	jti := middleware.MustGetJTI(c)

	if err := h.authService.Logout(c.Request.Context(), accountID, jti); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "logged out", nil)
}

// Me returns the authenticated account.
func (h *AuthHandler) Me(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	acc, err := h.authService.Account(c.Request.Context(), accountID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "account retrieved", acc.View(false))
}

// ChangeEmail updates the address and restarts verification.
func (h *AuthHandler) ChangeEmail(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req account.ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.authService.ChangeEmail(c.Request.Context(), accountID, &req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "email updated, verification sent", nil)
}

// VerifyEmail confirms an address from the emailed token.
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.ValidationError(c, "missing verification token", nil)
		return
	}

	if err := h.authService.VerifyEmail(c.Request.Context(), token); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "email verified", nil)
}

// RequestPasswordReset emails a reset link. Responds the same whether or not
// the address is known.
func (h *AuthHandler) RequestPasswordReset(c *gin.Context) {
	var req account.RequestPasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.authService.RequestPasswordReset(c.Request.Context(), &req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "if the address is registered, a reset link has been sent", nil)
}

// ResetPassword sets a new password from the emailed token.
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req account.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), &req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "password reset", nil)
}

// ChangePassword rotates the password and kills every live session.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	var req account.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), accountID, &req); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "password changed", nil)
}

// DeleteAccount removes the account and everything it owns.
func (h *AuthHandler) DeleteAccount(c *gin.Context) {
	accountID := middleware.MustGetAccountID(c)

	if err := h.authService.DeleteAccount(c.Request.Context(), accountID); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, "account deleted", nil)
}
