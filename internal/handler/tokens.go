package handler

import (
	"strconv"

	"pixel-canvas-system/internal/service"
	"pixel-canvas-system/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TokensHandler serves donation conversion plus the read-side views.
type TokensHandler struct {
	donation         *service.DonationService
	views            *service.ViewsService
	leaderboardLimit int
}

func NewTokensHandler(donation *service.DonationService, views *service.ViewsService, leaderboardLimit int) *TokensHandler {
	if leaderboardLimit <= 0 {
		leaderboardLimit = 10
	}
	return &TokensHandler{
		donation:         donation,
		views:            views,
		leaderboardLimit: leaderboardLimit,
	}
}

// SimulateDonation handles POST /api/donations/simulate
func (h *TokensHandler) SimulateDonation(c *gin.Context) {
	type Request struct {
		ProjectID string          `json:"projectId" binding:"required"`
		Amount    decimal.Decimal `json:"amount" binding:"required"`
		Message   string          `json:"message"`
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.New(errors.CodeInvalidInput, "invalid input: "+err.Error(), nil))
		return
	}

	user := currentUser(c)
	result, err := h.donation.Donate(c.Request.Context(), user.ID, req.ProjectID, req.Amount, req.Message, true)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, result)
}

// TokenStatus handles GET /api/tokens/status?projectId=
func (h *TokensHandler) TokenStatus(c *gin.Context) {
	projectID := c.Query("projectId")
	if projectID == "" {
		respondError(c, errors.New(errors.CodeInvalidInput, "projectId is required", nil))
		return
	}

	user := currentUser(c)
	status, err := h.views.GetTokenStatus(c.Request.Context(), user.ID, projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, status)
}

// Leaderboard handles GET /api/leaderboard?projectId=&limit=
func (h *TokensHandler) Leaderboard(c *gin.Context) {
	projectID := c.Query("projectId")
	if projectID == "" {
		respondError(c, errors.New(errors.CodeInvalidInput, "projectId is required", nil))
		return
	}

	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 {
		limit = h.leaderboardLimit
	}

	entries, err := h.views.Leaderboard(c.Request.Context(), projectID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, entries)
}

// UserStats handles GET /api/user/stats
func (h *TokensHandler) UserStats(c *gin.Context) {
	user := currentUser(c)
	stats, err := h.views.GetUserStats(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, stats)
}

// RecentTransactions handles GET /api/transactions/recent?projectId=&limit=
func (h *TokensHandler) RecentTransactions(c *gin.Context) {
	projectID := c.Query("projectId")
	if projectID == "" {
		respondError(c, errors.New(errors.CodeInvalidInput, "projectId is required", nil))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	txns, err := h.views.RecentTransactions(c.Request.Context(), projectID, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, txns)
}
