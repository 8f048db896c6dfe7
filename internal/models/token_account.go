package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TokenAccount holds the per-(user, project) token balance and cooldown
// state. Created lazily on first earn or spend, never deleted. The
// autoincrement ID doubles as account creation order for leaderboard
// tie-breaks.
type TokenAccount struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string `gorm:"uniqueIndex:uk_user_project;size:36;not null" json:"user_id"`
	ProjectID string `gorm:"uniqueIndex:uk_user_project;size:36;not null" json:"project_id"`

	Balance     int64 `gorm:"not null;default:0" json:"balance"`
	TotalEarned int64 `gorm:"not null;default:0" json:"total_earned"`
	TotalSpent  int64 `gorm:"not null;default:0" json:"total_spent"`

	TotalDonated decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_donated"`
	PixelsPlaced int64           `gorm:"not null;default:0" json:"pixels_placed"`

	LastPlacedAt  *time.Time `json:"last_placed_at"`
	CooldownUntil *time.Time `json:"cooldown_until"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (TokenAccount) TableName() string {
	return "user_tokens"
}

// IsCoolingDown reports whether the account is in the Cooling state at now,
// and the remaining whole seconds if so.
func (a *TokenAccount) IsCoolingDown(now time.Time) (bool, int64) {
	if a.CooldownUntil == nil || !a.CooldownUntil.After(now) {
		return false, 0
	}
	remaining := int64(a.CooldownUntil.Sub(now).Seconds())
	if a.CooldownUntil.Sub(now)%time.Second > 0 {
		remaining++
	}
	return true, remaining
}
