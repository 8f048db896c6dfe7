package repository

import (
	"context"
	"errors"

	"pixel-canvas-system/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) WithTx(tx *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: tx}
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&project).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepository) List(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&projects).Error
	return projects, err
}

func (r *ProjectRepository) GetPalette(ctx context.Context, projectID string) (*models.ColorPalette, error) {
	var palette models.ColorPalette
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		First(&palette).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &palette, nil
}

// IncrementPixelCounters 在放置事务内更新项目的像素计数
// 仅首次占用坐标时递增，覆盖不改变计数
func (r *ProjectRepository) IncrementPixelCounters(tx *gorm.DB, projectID string, freshPixel bool) error {
	if !freshPixel {
		return nil
	}
	return tx.Model(&models.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"pixels_placed": gorm.Expr("pixels_placed + 1"),
			"unique_pixels": gorm.Expr("unique_pixels + 1"),
		}).Error
}

// AddAmountRaised 在捐款事务内累加项目筹款额
func (r *ProjectRepository) AddAmountRaised(tx *gorm.DB, projectID string, amount decimal.Decimal) error {
	return tx.Model(&models.Project{}).
		Where("id = ?", projectID).
		Update("amount_raised", gorm.Expr("amount_raised + ?", amount)).Error
}

// ReplaceCounters 以事实表重算结果整体覆盖缓存计数，对账任务使用
func (r *ProjectRepository) ReplaceCounters(ctx context.Context, projectID string, pixels, contributors int64, raised decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", projectID).
		Updates(map[string]interface{}{
			"pixels_placed":      pixels,
			"unique_pixels":      pixels,
			"total_contributors": contributors,
			"amount_raised":      raised,
		}).Error
}
