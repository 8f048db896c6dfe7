package models

import (
	"time"
)

type TransactionType string

const (
	TransactionTypeEarn  TransactionType = "EARN"
	TransactionTypeSpend TransactionType = "SPEND"
)

type SourceType string

const (
	SourceTypeDonation       SourceType = "donation"
	SourceTypePixelPlacement SourceType = "pixel_placement"
)

// TokenTransaction is one append-only ledger entry. Amount is signed:
// positive for EARN, negative for SPEND. Replaying a single account's
// entries in ID order from zero reproduces its current balance.
type TokenTransaction struct {
	ID        uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountID uint64          `gorm:"not null;index:idx_account_created" json:"account_id"`
	Type      TransactionType `gorm:"size:10;not null" json:"type"`
	Amount    int64           `gorm:"not null" json:"amount"`

	BalanceBefore int64 `gorm:"not null" json:"balance_before"`
	BalanceAfter  int64 `gorm:"not null" json:"balance_after"`

	Description string     `gorm:"size:255" json:"description"`
	SourceType  SourceType `gorm:"size:20;not null" json:"source_type"`
	SourceID    string     `gorm:"size:36;not null;index" json:"source_id"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_account_created" json:"created_at"`
}

func (TokenTransaction) TableName() string {
	return "token_transactions"
}
