// models/notification.go
package models

import "time"

const (
	NotificationConfirmation = "confirmation"
	NotificationReminder     = "reminder"
)

// NotificationTemplate holds the message sent for a notification type.
// Placeholders: [ClientName], [ServiceName], [Date], [Time].
type NotificationTemplate struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Type      string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	UpdatedAt time.Time `json:"updated_at"`
}

type NotificationLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	AppointmentID uint      `gorm:"index;not null" json:"appointment_id"`
	ClientID      uint      `gorm:"index;not null" json:"client_id"`
	Type          string    `gorm:"type:varchar(20)" json:"type"`    // confirmation, reminder
	Channel       string    `gorm:"type:varchar(20)" json:"channel"` // whatsapp, sms
	Message       string    `gorm:"type:text" json:"message"`
	Status        string    `gorm:"type:varchar(20)" json:"status"` // sent, failed
	ErrorMessage  string    `gorm:"type:text" json:"error_message,omitempty"`
	SentAt        time.Time `json:"sent_at"`
}
