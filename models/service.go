package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service categories offered by the salon.
const (
	CategoryHair        = "hair"
	CategoryHairRemoval = "hair_removal"
	CategoryNails       = "nails"
)

// Special services that book a whole period of the day.
const (
	SpecialMechas  = "mechas"
	SpecialSelagem = "selagem"
)

type Service struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Category    string `gorm:"type:varchar(20);index;not null" json:"category"`

	// Price is null when the value is arranged in person.
	Price            decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"price"`
	DownPaymentValue decimal.Decimal     `gorm:"type:decimal(10,2);default:0" json:"down_payment_value"`
	DurationMinutes  int                 `gorm:"default:30" json:"duration_minutes"`

	RequiresDownPayment bool   `gorm:"default:false" json:"requires_down_payment"`
	IsVariablePrice     bool   `gorm:"default:false" json:"is_variable_price"`
	CanBeConcurrent     bool   `gorm:"default:false" json:"can_be_concurrent"`
	IsSpecialService    bool   `gorm:"default:false" json:"is_special_service"`
	SpecialType         string `gorm:"type:varchar(20)" json:"special_type,omitempty"`
	IsActive            bool   `gorm:"default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidCategory reports whether category is one the salon offers.
func ValidCategory(category string) bool {
	switch category {
	case CategoryHair, CategoryHairRemoval, CategoryNails:
		return true
	}
	return false
}
