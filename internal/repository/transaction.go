package repository

import (
	"context"

	"pixel-canvas-system/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) WithTx(tx *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: tx}
}

func (r *TransactionRepository) Create(tx *gorm.DB, txn *models.TokenTransaction) error {
	return tx.Create(txn).Error
}

// GetByAccount returns an account's ledger entries in creation order, the
// order that replays to the current balance.
func (r *TransactionRepository) GetByAccount(ctx context.Context, accountID uint64) ([]models.TokenTransaction, error) {
	var txns []models.TokenTransaction
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("id ASC").
		Find(&txns).Error
	return txns, err
}

func (r *TransactionRepository) GetRecentByProject(ctx context.Context, projectID string, limit int) ([]models.TokenTransaction, error) {
	if limit <= 0 {
		limit = 10
	}
	var txns []models.TokenTransaction
	err := r.db.WithContext(ctx).
		Joins("JOIN user_tokens ON user_tokens.id = token_transactions.account_id").
		Where("user_tokens.project_id = ?", projectID).
		Order("token_transactions.id DESC").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

func (r *TransactionRepository) CountByAccount(ctx context.Context, accountID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.TokenTransaction{}).
		Where("account_id = ?", accountID).
		Count(&count).Error
	return count, err
}
