package entity

import (
	"time"

	"github.com/google/uuid"
)

// SpecialDay overrides a doctor's weekly schedule for a single date.
// A day off empties the slot list; a working override replaces it.
type SpecialDay struct {
	ID          int        `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_special_days_doctor_date" json:"doctor_id"`
	Date        time.Time  `gorm:"type:date;not null;uniqueIndex:idx_special_days_doctor_date" json:"date"`
	DayOff      bool       `gorm:"not null;default:false" json:"day_off"`
	Slots       StringList `gorm:"type:jsonb;not null;default:'[]'" json:"slots"`
	MaxBookings int        `gorm:"not null;default:0" json:"max_bookings"`
	Note        string     `gorm:"type:text" json:"note,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Doctor *DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (SpecialDay) TableName() string {
	return "special_days"
}

// Normalize enforces the day-off shape: no slots and no booking cap.
func (d *SpecialDay) Normalize() {
	if d.DayOff {
		d.Slots = StringList{}
		d.MaxBookings = 0
	}
	if d.MaxBookings < 0 {
		d.MaxBookings = 0
	}
}
