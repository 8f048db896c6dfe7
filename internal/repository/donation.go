package repository

import (
	"context"

	"pixel-canvas-system/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DonationRepository struct {
	db *gorm.DB
}

func NewDonationRepository(db *gorm.DB) *DonationRepository {
	return &DonationRepository{db: db}
}

func (r *DonationRepository) WithTx(tx *gorm.DB) *DonationRepository {
	return &DonationRepository{db: tx}
}

func (r *DonationRepository) Create(tx *gorm.DB, donation *models.Donation) error {
	return tx.Create(donation).Error
}

func (r *DonationRepository) GetByUser(ctx context.Context, userID string, limit int) ([]models.Donation, error) {
	var donations []models.Donation
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	err := query.Find(&donations).Error
	return donations, err
}

// SumAmountByProject 汇总项目的捐款总额，用于对账
func (r *DonationRepository) SumAmountByProject(ctx context.Context, projectID string) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("project_id = ? AND status = ?", projectID, models.DonationStatusSuccess).
		Select("SUM(amount)").
		Scan(&total).Error

	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}
