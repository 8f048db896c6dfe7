package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Pixel is the live cell at one grid coordinate. At most one row exists per
// (project, x, y); overwrites mutate it in place after archiving the prior
// state into PixelHistory.
type Pixel struct {
	ID        string `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string `gorm:"uniqueIndex:uk_project_pos;size:36;not null" json:"project_id"`
	PositionX int    `gorm:"uniqueIndex:uk_project_pos;not null" json:"position_x"`
	PositionY int    `gorm:"uniqueIndex:uk_project_pos;not null" json:"position_y"`

	Color string `gorm:"size:7;not null" json:"color"`

	ContributorID      string `gorm:"size:36;not null;index" json:"contributor_id"`
	ContributorName    string `gorm:"size:50" json:"contributor_name"`
	ContributorMessage string `gorm:"size:255" json:"contributor_message"`

	PlacedAt         time.Time `gorm:"not null" json:"placed_at"`
	ProtectedUntil   time.Time `gorm:"not null" json:"protected_until"`
	TimesOverwritten int       `gorm:"not null;default:0" json:"times_overwritten"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Pixel) TableName() string {
	return "pixels"
}

func (p *Pixel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
