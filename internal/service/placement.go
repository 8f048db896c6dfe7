package service

import (
	"context"
	"fmt"
	"time"

	"pixel-canvas-system/internal/models"
	"pixel-canvas-system/internal/repository"
	"pixel-canvas-system/pkg/errors"
	"pixel-canvas-system/pkg/logger"

	"gorm.io/gorm"
)

type PlacementResult struct {
	Pixel            *models.Pixel `json:"pixel"`
	WasOverwrite     bool          `json:"was_overwrite"`
	PreviousColor    string        `json:"previous_color,omitempty"`
	BalanceRemaining int64         `json:"balance_remaining"`
	CooldownUntil    time.Time     `json:"cooldown_until"`
}

// PlacementService orchestrates one pixel placement: ledger debit, cooldown
// gate and grid write under a single transaction. Lock order is fixed, token
// account first and then pixel row, so concurrent placements cannot deadlock.
type PlacementService struct {
	db          *gorm.DB
	accountRepo *repository.AccountRepository
	projectRepo *repository.ProjectRepository
	userRepo    *repository.UserRepository
	ledger      *LedgerService
	gate        *CooldownGate
	grid        *GridService
}

func NewPlacementService(
	db *gorm.DB,
	accountRepo *repository.AccountRepository,
	projectRepo *repository.ProjectRepository,
	userRepo *repository.UserRepository,
	ledger *LedgerService,
	gate *CooldownGate,
	grid *GridService,
) *PlacementService {
	return &PlacementService{
		db:          db,
		accountRepo: accountRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		ledger:      ledger,
		gate:        gate,
		grid:        grid,
	}
}

// PlacePixel 执行一次完整的像素放置
// 余额检查、冷却检查、网格写入、扣款、上冷却、项目计数在同一事务内
// 全部成功或全部回滚
func (s *PlacementService) PlacePixel(ctx context.Context, userID, projectID string, x, y int, color, message string) (*PlacementResult, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, errors.Internal("failed to load project", err)
	}
	if project == nil {
		return nil, errors.NotFound("project")
	}

	palette, err := s.projectRepo.GetPalette(ctx, projectID)
	if err != nil {
		return nil, errors.Internal("failed to load palette", err)
	}

	if err := s.grid.ValidatePlacement(project, palette, x, y, color); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, errors.NotFound("user")
	}

	now := time.Now()
	var result *PlacementResult

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := s.accountRepo.GetOrCreateForUpdate(tx, userID, projectID)
		if err != nil {
			return err
		}

		if account.Balance < 1 {
			return errors.InsufficientBalance(account.Balance, 1)
		}

		if err := s.gate.Check(account, now); err != nil {
			return err
		}

		contributor := Contributor{
			ID:      user.ID,
			Name:    user.Username,
			Message: message,
		}
		pixel, wasOverwrite, previousColor, err := s.grid.Place(tx, projectID, x, y, color, contributor, now)
		if err != nil {
			return err
		}

		source := Source{
			Type:        models.SourceTypePixelPlacement,
			ID:          pixel.ID,
			Description: fmt.Sprintf("Placed pixel at (%d, %d)", x, y),
		}
		if _, err := s.ledger.Debit(tx, account, 1, source); err != nil {
			return err
		}

		s.gate.Arm(account, now)
		if err := s.accountRepo.Save(tx, account); err != nil {
			return err
		}

		if err := s.projectRepo.IncrementPixelCounters(tx, projectID, !wasOverwrite); err != nil {
			return err
		}

		result = &PlacementResult{
			Pixel:            pixel,
			WasOverwrite:     wasOverwrite,
			PreviousColor:    previousColor,
			BalanceRemaining: account.Balance,
			CooldownUntil:    *account.CooldownUntil,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"user_id":       userID,
		"project_id":    projectID,
		"x":             x,
		"y":             y,
		"color":         color,
		"was_overwrite": result.WasOverwrite,
		"balance":       result.BalanceRemaining,
	}).Info("像素已放置")

	return result, nil
}
