package service

import (
	"context"

	"pixel-canvas-system/internal/repository"
	"pixel-canvas-system/pkg/errors"
	"pixel-canvas-system/pkg/logger"
)

// ReconcileService recomputes the cached project counters from the fact
// tables (pixels, donations). The counters are maintained transactionally
// by placements and donations; this pass heals any drift.
type ReconcileService struct {
	projectRepo  *repository.ProjectRepository
	pixelRepo    *repository.PixelRepository
	donationRepo *repository.DonationRepository
}

func NewReconcileService(
	projectRepo *repository.ProjectRepository,
	pixelRepo *repository.PixelRepository,
	donationRepo *repository.DonationRepository,
) *ReconcileService {
	return &ReconcileService{
		projectRepo:  projectRepo,
		pixelRepo:    pixelRepo,
		donationRepo: donationRepo,
	}
}

// ReconcileProject 以事实表重算并覆盖单个项目的缓存计数
func (s *ReconcileService) ReconcileProject(ctx context.Context, projectID string) error {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return errors.NotFound("project")
	}

	// pixels_placed 与 unique_pixels 都只计存活像素，覆盖不计数
	pixels, err := s.pixelRepo.CountByProject(ctx, projectID)
	if err != nil {
		return err
	}

	contributors, err := s.pixelRepo.CountDistinctContributors(ctx, projectID)
	if err != nil {
		return err
	}

	raised, err := s.donationRepo.SumAmountByProject(ctx, projectID)
	if err != nil {
		return err
	}

	if err := s.projectRepo.ReplaceCounters(ctx, projectID, pixels, contributors, raised); err != nil {
		return err
	}

	logger.WithFields(map[string]interface{}{
		"project_id":    projectID,
		"pixels":        pixels,
		"contributors":  contributors,
		"amount_raised": raised.StringFixed(2),
	}).Debug("项目计数已对账")

	return nil
}

// ReconcileAll 对所有项目执行一轮对账
func (s *ReconcileService) ReconcileAll(ctx context.Context) error {
	projects, err := s.projectRepo.List(ctx)
	if err != nil {
		return err
	}

	for _, project := range projects {
		if err := s.ReconcileProject(ctx, project.ID); err != nil {
			logger.Error("Failed to reconcile project:", project.ID, err)
		}
	}
	return nil
}
