package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending           = "pending"
	StatusPendingPayment    = "pending_payment"
	StatusConfirmed         = "confirmed"
	StatusCompleted         = "completed"
	StatusCancelledByClient = "cancelled_by_client"
	StatusCancelledBySalon  = "cancelled_by_salon"
)

// CancelledStatuses never occupy a slot.
var CancelledStatuses = []string{StatusCancelledByClient, StatusCancelledBySalon}

// Periods used by special services.
const (
	PeriodMorning   = "morning"
	PeriodAfternoon = "afternoon"
)

type Appointment struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	ClientID  uint `gorm:"index;not null" json:"client_id"`
	ServiceID uint `gorm:"index;not null" json:"service_id"`

	AppointmentDate time.Time `gorm:"type:date;index:idx_appointment_slot,priority:1;not null" json:"appointment_date"`
	AppointmentTime string    `gorm:"type:varchar(5);index:idx_appointment_slot,priority:2;not null" json:"appointment_time"`

	Status          string              `gorm:"type:varchar(30);index;not null;default:'pending'" json:"status"`
	TotalValue      decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"total_value"`
	DownPaymentPaid bool                `gorm:"default:false" json:"down_payment_paid"`
	PaymentOrderNSU *string             `gorm:"type:varchar(64)" json:"payment_order_nsu"`

	IsMechas      bool   `gorm:"default:false" json:"is_mechas"`
	MechasPeriod  string `gorm:"type:varchar(20)" json:"mechas_period,omitempty"`
	IsSelagem     bool   `gorm:"default:false" json:"is_selagem"`
	SelagemPeriod string `gorm:"type:varchar(20)" json:"selagem_period,omitempty"`
	Notes         string `json:"notes,omitempty"`

	Client  *Client  `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Service *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsCancelled reports whether status is one of the cancellation statuses.
func IsCancelled(status string) bool {
	return status == StatusCancelledByClient || status == StatusCancelledBySalon
}

// PeriodOf returns the half of the day a HH:MM slot belongs to.
func PeriodOf(slot string) string {
	if slot < "12:00" {
		return PeriodMorning
	}
	return PeriodAfternoon
}
