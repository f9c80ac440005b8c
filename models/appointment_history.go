package models

import "time"

type AppointmentHistory struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AppointmentID uint      `gorm:"index;not null" json:"appointment_id"`
	OldStatus     string    `gorm:"type:varchar(30)" json:"old_status"`
	NewStatus     string    `gorm:"type:varchar(30);not null" json:"new_status"`
	ChangedBy     string    `gorm:"type:varchar(50)" json:"changed_by"` // username, "client" or "payment"
	Reason        string    `json:"reason,omitempty"`
	ChangedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"changed_at"`
}

func (AppointmentHistory) TableName() string { return "appointment_history" }
