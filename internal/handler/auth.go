package handler

import (
	"net/http"

	"pixel-canvas-system/internal/service"
	"pixel-canvas-system/pkg/errors"

	"github.com/gin-gonic/gin"
)

// AuthHandler exposes the email-code login collaborator.
type AuthHandler struct {
	auth       *service.AuthService
	cookieName string
}

func NewAuthHandler(auth *service.AuthService, cookieName string) *AuthHandler {
	return &AuthHandler{
		auth:       auth,
		cookieName: cookieName,
	}
}

// SendCode handles POST /api/auth/send-code
func (h *AuthHandler) SendCode(c *gin.Context) {
	type Request struct {
		Email string `json:"email" binding:"required"`
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.New(errors.CodeInvalidInput, "email is required", nil))
		return
	}

	if err := h.auth.SendCode(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, gin.H{"message": "verification code sent"})
}

// VerifyCode handles POST /api/auth/verify-code
func (h *AuthHandler) VerifyCode(c *gin.Context) {
	type Request struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.New(errors.CodeInvalidInput, "email and code are required", nil))
		return
	}

	user, sessionID, err := h.auth.VerifyCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(h.cookieName, sessionID, 30*24*3600, "/", "", false, true)
	respondOK(c, gin.H{
		"userId":   user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(c *gin.Context) {
	user := currentUser(c)
	respondOK(c, gin.H{
		"userId":   user.ID,
		"username": user.Username,
		"email":    user.Email,
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	user := currentUser(c)
	if err := h.auth.Logout(c.Request.Context(), user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
