package handler

import (
	"strconv"

	"pixel-canvas-system/internal/service"
	"pixel-canvas-system/pkg/errors"

	"github.com/gin-gonic/gin"
)

// CanvasHandler serves pixel placement and grid reads.
type CanvasHandler struct {
	placement *service.PlacementService
	grid      *service.GridService
}

func NewCanvasHandler(placement *service.PlacementService, grid *service.GridService) *CanvasHandler {
	return &CanvasHandler{
		placement: placement,
		grid:      grid,
	}
}

// PlacePixel handles POST /api/pixels/place
func (h *CanvasHandler) PlacePixel(c *gin.Context) {
	type Request struct {
		ProjectID string `json:"projectId" binding:"required"`
		PositionX *int   `json:"positionX" binding:"required"`
		PositionY *int   `json:"positionY" binding:"required"`
		Color     string `json:"color" binding:"required"`
		Message   string `json:"message"`
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.New(errors.CodeInvalidInput, "invalid input: "+err.Error(), nil))
		return
	}

	user := currentUser(c)
	result, err := h.placement.PlacePixel(
		c.Request.Context(),
		user.ID,
		req.ProjectID,
		*req.PositionX,
		*req.PositionY,
		req.Color,
		req.Message,
	)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, result)
}

// PixelHistory handles GET /api/pixels/history?projectId=&x=&y=
func (h *CanvasHandler) PixelHistory(c *gin.Context) {
	projectID := c.Query("projectId")
	if projectID == "" {
		respondError(c, errors.New(errors.CodeInvalidInput, "projectId is required", nil))
		return
	}

	x, errX := strconv.Atoi(c.Query("x"))
	y, errY := strconv.Atoi(c.Query("y"))
	if errX != nil || errY != nil {
		respondError(c, errors.New(errors.CodeInvalidInput, "x and y must be integers", nil))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.grid.History(c.Request.Context(), projectID, x, y, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, entries)
}
