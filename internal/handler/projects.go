package handler

import (
	"pixel-canvas-system/internal/service"

	"github.com/gin-gonic/gin"
)

// ProjectsHandler serves read-only project metadata. The engine never
// creates or mutates project configuration.
type ProjectsHandler struct {
	views *service.ViewsService
}

func NewProjectsHandler(views *service.ViewsService) *ProjectsHandler {
	return &ProjectsHandler{views: views}
}

// List handles GET /api/projects
func (h *ProjectsHandler) List(c *gin.Context) {
	projects, err := h.views.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]gin.H, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		items = append(items, gin.H{
			"id":                  p.ID,
			"title":               p.Title,
			"description":         p.Description,
			"target_amount":       p.TargetAmount,
			"amount_raised":       p.AmountRaised,
			"grid_size":           p.GridSize,
			"pixels_total":        p.PixelsTotal,
			"pixels_placed":       p.PixelsPlaced,
			"status":              p.Status,
			"progress_percentage": p.ProgressPercentage(),
		})
	}

	respondOK(c, items)
}

// Get handles GET /api/projects/:id
func (h *ProjectsHandler) Get(c *gin.Context) {
	detail, err := h.views.GetProjectDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, detail)
}
