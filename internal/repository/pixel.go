package repository

import (
	"context"
	"errors"

	"pixel-canvas-system/internal/models"

	"gorm.io/gorm"
)

type PixelRepository struct {
	db *gorm.DB
}

func NewPixelRepository(db *gorm.DB) *PixelRepository {
	return &PixelRepository{db: db}
}

func (r *PixelRepository) WithTx(tx *gorm.DB) *PixelRepository {
	return &PixelRepository{db: tx}
}

// GetByPosition 获取坐标上的存活像素，不存在返回nil
func (r *PixelRepository) GetByPosition(ctx context.Context, projectID string, x, y int) (*models.Pixel, error) {
	var pixel models.Pixel
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND position_x = ? AND position_y = ?", projectID, x, y).
		First(&pixel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pixel, nil
}

// GetForUpdate 以行锁加载坐标上的像素，保证同一坐标的放置串行化
func (r *PixelRepository) GetForUpdate(tx *gorm.DB, projectID string, x, y int) (*models.Pixel, error) {
	var pixel models.Pixel
	err := forUpdate(tx).
		Where("project_id = ? AND position_x = ? AND position_y = ?", projectID, x, y).
		First(&pixel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pixel, nil
}

func (r *PixelRepository) Create(tx *gorm.DB, pixel *models.Pixel) error {
	return tx.Create(pixel).Error
}

func (r *PixelRepository) Save(tx *gorm.DB, pixel *models.Pixel) error {
	return tx.Save(pixel).Error
}

func (r *PixelRepository) CreateHistory(tx *gorm.DB, entry *models.PixelHistory) error {
	return tx.Create(entry).Error
}

// GetHistory 按时间倒序返回像素的覆盖历史
func (r *PixelRepository) GetHistory(ctx context.Context, pixelID string, limit int) ([]models.PixelHistory, error) {
	var entries []models.PixelHistory
	query := r.db.WithContext(ctx).
		Where("pixel_id = ?", pixelID).
		Order("id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&entries).Error
	return entries, err
}

// ListByProject 按行优先顺序返回项目的全部存活像素
func (r *PixelRepository) ListByProject(ctx context.Context, projectID string) ([]models.Pixel, error) {
	var pixels []models.Pixel
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("position_y ASC").
		Order("position_x ASC").
		Find(&pixels).Error
	return pixels, err
}

func (r *PixelRepository) CountByProject(ctx context.Context, projectID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Pixel{}).
		Where("project_id = ?", projectID).
		Count(&count).Error
	return count, err
}

func (r *PixelRepository) CountDistinctContributors(ctx context.Context, projectID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Pixel{}).
		Where("project_id = ?", projectID).
		Distinct("contributor_id").
		Count(&count).Error
	return count, err
}

func (r *PixelRepository) CountByContributor(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Pixel{}).
		Where("contributor_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *PixelRepository) CountDistinctProjectsByContributor(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Pixel{}).
		Where("contributor_id = ?", userID).
		Distinct("project_id").
		Count(&count).Error
	return count, err
}
