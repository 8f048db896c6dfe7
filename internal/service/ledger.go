package service

import (
	"context"
	"fmt"

	"pixel-canvas-system/internal/models"
	"pixel-canvas-system/internal/repository"
	"pixel-canvas-system/pkg/errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Source identifies the operation that caused a ledger entry.
type Source struct {
	Type        models.SourceType
	ID          string
	Description string
}

// LedgerService owns the double-entry token ledger: every balance change
// goes through Credit or Debit, which append an audit row with before/after
// snapshots. Both must be called on an account row already locked by the
// surrounding transaction.
type LedgerService struct {
	accountRepo *repository.AccountRepository
	txnRepo     *repository.TransactionRepository
}

func NewLedgerService(
	accountRepo *repository.AccountRepository,
	txnRepo *repository.TransactionRepository,
) *LedgerService {
	return &LedgerService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

// Credit 为账户增加代币并追加EARN流水
// donated 仅在捐款来源时累计到账户的捐款总额
func (s *LedgerService) Credit(tx *gorm.DB, account *models.TokenAccount, amount int64, source Source, donated decimal.Decimal) (*models.TokenTransaction, error) {
	if amount <= 0 {
		return nil, errors.InvalidAmount(fmt.Sprintf("credit amount must be positive, got %d", amount))
	}

	balanceBefore := account.Balance
	account.Balance += amount
	account.TotalEarned += amount
	if source.Type == models.SourceTypeDonation {
		account.TotalDonated = account.TotalDonated.Add(donated)
	}

	if err := s.accountRepo.Save(tx, account); err != nil {
		return nil, err
	}

	txn := &models.TokenTransaction{
		AccountID:     account.ID,
		Type:          models.TransactionTypeEarn,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  account.Balance,
		Description:   source.Description,
		SourceType:    source.Type,
		SourceID:      source.ID,
	}
	if err := s.txnRepo.Create(tx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// Debit 从账户扣除代币并追加SPEND流水（记录负数金额）
// 余额检查与扣减在同一把行锁下完成，并发扣减不会穿透余额
func (s *LedgerService) Debit(tx *gorm.DB, account *models.TokenAccount, amount int64, source Source) (*models.TokenTransaction, error) {
	if amount <= 0 {
		return nil, errors.InvalidAmount(fmt.Sprintf("debit amount must be positive, got %d", amount))
	}
	if account.Balance < amount {
		return nil, errors.InsufficientBalance(account.Balance, amount)
	}

	balanceBefore := account.Balance
	account.Balance -= amount
	account.TotalSpent += amount
	if source.Type == models.SourceTypePixelPlacement {
		account.PixelsPlaced++
	}

	if err := s.accountRepo.Save(tx, account); err != nil {
		return nil, err
	}

	txn := &models.TokenTransaction{
		AccountID:     account.ID,
		Type:          models.TransactionTypeSpend,
		Amount:        -amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  account.Balance,
		Description:   source.Description,
		SourceType:    source.Type,
		SourceID:      source.ID,
	}
	if err := s.txnRepo.Create(tx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// Replay 从零开始按顺序重放账户流水，返回重建的余额
func (s *LedgerService) Replay(ctx context.Context, accountID uint64) (int64, error) {
	txns, err := s.txnRepo.GetByAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}

	var balance int64
	for _, txn := range txns {
		balance += txn.Amount
	}
	return balance, nil
}
