package entity

import "time"

// AppointmentType is a catalogue entry such as "Examination" or "Follow-up".
type AppointmentType struct {
	ID              int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"name"`
	DurationMinutes int       `gorm:"not null;default:30" json:"duration_minutes"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AppointmentType) TableName() string {
	return "appointment_types"
}
