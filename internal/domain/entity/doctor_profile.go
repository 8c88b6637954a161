package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DoctorProfile represents doctor-specific profile data together with the
// recurring weekly slot configuration.
type DoctorProfile struct {
	UserID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"user_id"`
	Title           string          `gorm:"type:varchar(50)" json:"title,omitempty"`
	Specialization  string          `gorm:"type:varchar(100);not null;index" json:"specialization"`
	Diploma         string          `gorm:"type:varchar(255)" json:"diploma,omitempty"`
	ExperienceYears int             `gorm:"not null;default:0" json:"experience_years"`
	PhoneNumber     string          `gorm:"type:varchar(20)" json:"phone_number,omitempty"`
	Biography       string          `gorm:"type:text" json:"biography,omitempty"`
	Fee             decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"fee"`
	WeeklySchedule  WeeklySchedule  `gorm:"type:jsonb;not null;default:'{}'" json:"weekly_schedule"`

	// Relationships
	User        User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	SpecialDays []SpecialDay `gorm:"foreignKey:DoctorID" json:"special_days,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
