package service

import (
	"context"
	"time"

	"pixel-canvas-system/internal/models"
	"pixel-canvas-system/internal/repository"
	"pixel-canvas-system/pkg/errors"

	"gorm.io/gorm"
)

// Contributor is the identity stamped onto a placed pixel.
type Contributor struct {
	ID      string
	Name    string
	Message string
}

// GridService owns per-coordinate cell state and its overwrite history.
// Two placements at the same coordinate serialize on the pixel row lock:
// the later one always observes the earlier result and archives it.
type GridService struct {
	pixelRepo         *repository.PixelRepository
	protection        time.Duration
	enforceProtection bool
}

func NewGridService(pixelRepo *repository.PixelRepository, protection time.Duration, enforceProtection bool) *GridService {
	return &GridService{
		pixelRepo:         pixelRepo,
		protection:        protection,
		enforceProtection: enforceProtection,
	}
}

// ValidatePlacement 校验坐标在网格内且颜色属于项目调色板
// 纯校验，不读写任何状态，在进入事务前调用
func (s *GridService) ValidatePlacement(project *models.Project, palette *models.ColorPalette, x, y int, color string) error {
	if x < 0 || y < 0 || x >= project.GridSize || y >= project.GridSize {
		return errors.OutOfBounds(x, y, project.GridSize)
	}
	if palette != nil && !palette.Contains(color) {
		return errors.InvalidColor(color)
	}
	return nil
}

// Place 在坐标上写入像素；已有像素时先归档再原地覆盖
// 必须在持有像素行锁的事务内调用
func (s *GridService) Place(tx *gorm.DB, projectID string, x, y int, color string, contributor Contributor, now time.Time) (*models.Pixel, bool, string, error) {
	existing, err := s.pixelRepo.GetForUpdate(tx, projectID, x, y)
	if err != nil {
		return nil, false, "", err
	}

	protectedUntil := now.Add(s.protection)

	if existing == nil {
		pixel := &models.Pixel{
			ProjectID:          projectID,
			PositionX:          x,
			PositionY:          y,
			Color:              color,
			ContributorID:      contributor.ID,
			ContributorName:    contributor.Name,
			ContributorMessage: contributor.Message,
			PlacedAt:           now,
			ProtectedUntil:     protectedUntil,
			TimesOverwritten:   0,
		}
		if err := s.pixelRepo.Create(tx, pixel); err != nil {
			return nil, false, "", err
		}
		return pixel, false, "", nil
	}

	if s.enforceProtection && existing.ProtectedUntil.After(now) && existing.ContributorID != contributor.ID {
		remaining := int64(existing.ProtectedUntil.Sub(now).Seconds())
		if existing.ProtectedUntil.Sub(now)%time.Second > 0 {
			remaining++
		}
		return nil, false, "", errors.PixelProtected(remaining)
	}

	previousColor := existing.Color

	entry := &models.PixelHistory{
		PixelID:            existing.ID,
		ContributorID:      existing.ContributorID,
		ContributorName:    existing.ContributorName,
		ContributorMessage: existing.ContributorMessage,
		Color:              existing.Color,
		PlacedAt:           existing.PlacedAt,
		WasOverwrite:       true,
		PreviousColor:      existing.Color,
	}
	if err := s.pixelRepo.CreateHistory(tx, entry); err != nil {
		return nil, false, "", err
	}

	existing.Color = color
	existing.ContributorID = contributor.ID
	existing.ContributorName = contributor.Name
	existing.ContributorMessage = contributor.Message
	existing.PlacedAt = now
	existing.ProtectedUntil = protectedUntil
	existing.TimesOverwritten++

	if err := s.pixelRepo.Save(tx, existing); err != nil {
		return nil, false, "", err
	}
	return existing, true, previousColor, nil
}

// Get 返回坐标上的存活像素，空坐标返回nil
func (s *GridService) Get(ctx context.Context, projectID string, x, y int) (*models.Pixel, error) {
	return s.pixelRepo.GetByPosition(ctx, projectID, x, y)
}

// History 返回坐标的覆盖历史，最近的在前
func (s *GridService) History(ctx context.Context, projectID string, x, y int, limit int) ([]models.PixelHistory, error) {
	pixel, err := s.pixelRepo.GetByPosition(ctx, projectID, x, y)
	if err != nil {
		return nil, err
	}
	if pixel == nil {
		return nil, errors.NotFound("pixel")
	}
	return s.pixelRepo.GetHistory(ctx, pixel.ID, limit)
}
