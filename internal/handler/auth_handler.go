package handler

import (
	"errors"
	"net/http"

	"geolog/internal/auth"
	"geolog/internal/logging"
	"geolog/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	svc *service.AuthService
}

func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}
	u, tokens, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCreds):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": err.Error()})
		case errors.Is(err, service.ErrAccountDisabled):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
		default:
			logging.Ctx(c.Request.Context()).Error().Err(err).Msg("login failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "login failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"session_id":    tokens.SessionID,
		"user": gin.H{
			"name":      u.ID,
			"full_name": u.FullName,
			"roles":     u.RoleNames(),
		},
	})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refresh_token is required")
		return
	}
	tokens, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidToken):
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid or expired refresh token"})
		case errors.Is(err, service.ErrAccountDisabled):
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": err.Error()})
		default:
			logging.Ctx(c.Request.Context()).Error().Err(err).Msg("token refresh failed")
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "refresh failed"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"session_id":    tokens.SessionID,
	})
}
