package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "ACTIVE"
	ProjectStatusCompleted ProjectStatus = "COMPLETED"
	ProjectStatusArchived  ProjectStatus = "ARCHIVED"
)

type Project struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	TargetAmount decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"target_amount"`
	AmountRaised decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"amount_raised"`

	GridSize    int `gorm:"not null" json:"grid_size"`
	PixelsTotal int `gorm:"not null" json:"pixels_total"`

	// Cached projections over pixels/donations, maintained transactionally
	// and healed by the reconciler. Never the source of truth.
	PixelsPlaced      int `gorm:"not null;default:0" json:"pixels_placed"`
	UniquePixels      int `gorm:"not null;default:0" json:"unique_pixels"`
	TotalContributors int `gorm:"not null;default:0" json:"total_contributors"`

	Status    ProjectStatus `gorm:"size:20;not null;default:ACTIVE" json:"status"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProgressPercentage returns pixels_placed / pixels_total as a percentage
// rounded to two decimal places.
func (p *Project) ProgressPercentage() float64 {
	if p.PixelsTotal <= 0 {
		return 0
	}
	ratio := decimal.NewFromInt(int64(p.PixelsPlaced)).
		Div(decimal.NewFromInt(int64(p.PixelsTotal))).
		Mul(decimal.NewFromInt(100)).
		Round(2)
	f, _ := ratio.Float64()
	return f
}

type ColorPalette struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID string    `gorm:"uniqueIndex;size:36;not null" json:"project_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	// Colors is a JSON array of hex strings, e.g. ["#ffffff", "#212121"].
	Colors    string    `gorm:"type:text;not null" json:"colors"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (ColorPalette) TableName() string {
	return "color_palettes"
}

func (p *ColorPalette) ColorList() []string {
	var colors []string
	if err := json.Unmarshal([]byte(p.Colors), &colors); err != nil {
		return nil
	}
	return colors
}

func (p *ColorPalette) Contains(color string) bool {
	for _, c := range p.ColorList() {
		if c == color {
			return true
		}
	}
	return false
}
