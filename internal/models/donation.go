package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DonationStatus string

const (
	DonationStatusSuccess DonationStatus = "SUCCESS"
	DonationStatusPending DonationStatus = "PENDING"
	DonationStatusFailed  DonationStatus = "FAILED"
)

// Donation is immutable once created. PixelsAwarded is computed from the
// project's target at donation time and never recomputed.
type Donation struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string `gorm:"size:36;not null;index" json:"project_id"`
	UserID    string `gorm:"size:36;not null;index" json:"user_id"`

	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	PixelsAwarded int64           `gorm:"not null" json:"pixels_awarded"`

	Message     string         `gorm:"size:255" json:"message"`
	IsSimulated bool           `gorm:"not null;default:false" json:"is_simulated"`
	Status      DonationStatus `gorm:"size:20;not null;default:SUCCESS" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Donation) TableName() string {
	return "donations"
}

func (d *Donation) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
