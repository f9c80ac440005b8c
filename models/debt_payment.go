package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtPayment records money received for an appointment after it was booked.
type DebtPayment struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	AppointmentID uint            `gorm:"index;not null" json:"appointment_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentMethod string          `gorm:"type:varchar(20)" json:"payment_method"` // pix, cash, card
	PaymentDate   time.Time       `gorm:"default:CURRENT_TIMESTAMP" json:"payment_date"`
	Notes         string          `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
