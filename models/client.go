package models

import "time"

type Client struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	Phone   string `gorm:"type:varchar(11);uniqueIndex;not null" json:"phone"` // digits only
	Address string `json:"address"`
	CPF     string `gorm:"column:cpf;type:varchar(11);index" json:"cpf"` // digits only, may be empty

	Appointments []Appointment `gorm:"foreignKey:ClientID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
