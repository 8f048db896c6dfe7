package repository

import (
	"context"
	"errors"

	"pixel-canvas-system/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// WithTx 返回一个在指定事务内操作的仓库副本
func (r *AccountRepository) WithTx(tx *gorm.DB) *AccountRepository {
	return &AccountRepository{db: tx}
}

// GetByUserProject 获取指定用户在指定项目下的代币账户
func (r *AccountRepository) GetByUserProject(ctx context.Context, userID, projectID string) (*models.TokenAccount, error) {
	var account models.TokenAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&account).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetOrCreateForUpdate 以行锁加载账户，不存在则惰性创建后再加锁
// 必须在事务内调用；锁随事务提交或回滚释放
func (r *AccountRepository) GetOrCreateForUpdate(tx *gorm.DB, userID, projectID string) (*models.TokenAccount, error) {
	var account models.TokenAccount
	err := forUpdate(tx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&account).Error

	if err == nil {
		return &account, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	// Two lazy creators can race here; ON CONFLICT DO NOTHING lets the
	// loser fall through to the locked re-select.
	account = models.TokenAccount{UserID: userID, ProjectID: projectID}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&account).Error; err != nil {
		return nil, err
	}

	account = models.TokenAccount{}
	err = forUpdate(tx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetForUpdate 以行锁加载账户，不存在返回nil
func (r *AccountRepository) GetForUpdate(tx *gorm.DB, userID, projectID string) (*models.TokenAccount, error) {
	var account models.TokenAccount
	err := forUpdate(tx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		First(&account).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) Save(tx *gorm.DB, account *models.TokenAccount) error {
	return tx.Save(account).Error
}

// Leaderboard 按放置像素数、捐款额排序返回项目排行榜
// 并列时以账户创建顺序（自增ID）稳定排序
func (r *AccountRepository) Leaderboard(ctx context.Context, projectID string, limit int) ([]models.TokenAccount, error) {
	var accounts []models.TokenAccount
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("pixels_placed DESC").
		Order("total_donated DESC").
		Order("id ASC").
		Limit(limit).
		Find(&accounts).Error
	return accounts, err
}

func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]models.TokenAccount, error) {
	var accounts []models.TokenAccount
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&accounts).Error
	return accounts, err
}

func (r *AccountRepository) SumBalanceByUser(ctx context.Context, userID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.TokenAccount{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&total).Error
	return total, err
}
