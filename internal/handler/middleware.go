package handler

import (
	"net/http"

	"pixel-canvas-system/internal/service"
	"pixel-canvas-system/pkg/errors"

	"github.com/gin-gonic/gin"
)

// SessionMiddleware resolves the session cookie into a user and stores it
// on the context. Unauthenticated requests are rejected before any
// transaction begins.
func SessionMiddleware(auth *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err != nil || sessionID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    errors.CodeUnauthorized,
					"message": "unauthorized",
				},
			})
			return
		}

		user, err := auth.ResolveSession(c.Request.Context(), sessionID)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}
