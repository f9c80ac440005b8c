package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PromotionalKit bundles services under a single price.
type PromotionalKit struct {
	ID                 uint                `gorm:"primaryKey" json:"id"`
	Name               string              `gorm:"not null" json:"name"`
	Description        string              `json:"description"`
	Price              decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price"`
	DurationMinutes    int                 `json:"duration_minutes"`
	DiscountPercentage int                 `gorm:"default:0" json:"discount_percentage"`
	IsActive           bool                `gorm:"default:true;index" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PromotionalKit) TableName() string { return "promotional_kits" }
