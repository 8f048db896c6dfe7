package handler

import (
	stderrors "errors"
	"net/http"

	"pixel-canvas-system/internal/models"
	"pixel-canvas-system/pkg/errors"
	"pixel-canvas-system/pkg/logger"

	"github.com/gin-gonic/gin"
)

const contextUserKey = "current_user"

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

// respondError maps the domain error taxonomy onto HTTP statuses. Anything
// that is not an AppError is an unexpected storage-layer failure and is
// reported as a retryable internal error.
func respondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		logger.WithError(err).Error("unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    errors.CodeInternal,
				"message": "internal server error",
			},
		})
		return
	}

	status := http.StatusBadRequest
	switch appErr.Code {
	case errors.CodeInsufficientBalance:
		status = http.StatusPaymentRequired
	case errors.CodeNotFound:
		status = http.StatusNotFound
	case errors.CodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.CodePixelProtected:
		status = http.StatusConflict
	case errors.CodeInternal:
		status = http.StatusInternalServerError
		logger.WithError(appErr).Error("internal error")
	}

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if appErr.Code == errors.CodeCooldownActive || appErr.Code == errors.CodePixelProtected {
		body["cooldownRemaining"] = appErr.Remaining
	}

	c.JSON(status, gin.H{
		"success": false,
		"error":   body,
	})
}

// currentUser returns the user resolved by the session middleware.
func currentUser(c *gin.Context) *models.User {
	v, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

func HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
