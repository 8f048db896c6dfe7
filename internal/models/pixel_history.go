package models

import (
	"time"
)

// PixelHistory archives the previous occupant of a pixel immediately before
// an overwrite. Rows are never mutated or deleted.
type PixelHistory struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	PixelID string `gorm:"size:36;not null;index:idx_pixel_created" json:"pixel_id"`

	ContributorID      string `gorm:"size:36;not null" json:"contributor_id"`
	ContributorName    string `gorm:"size:50" json:"contributor_name"`
	ContributorMessage string `gorm:"size:255" json:"contributor_message"`

	Color         string    `gorm:"size:7;not null" json:"color"`
	PlacedAt      time.Time `gorm:"not null" json:"placed_at"`
	WasOverwrite  bool      `gorm:"not null" json:"was_overwrite"`
	PreviousColor string    `gorm:"size:7" json:"previous_color"`

	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_pixel_created" json:"created_at"`
}

func (PixelHistory) TableName() string {
	return "pixel_history"
}
