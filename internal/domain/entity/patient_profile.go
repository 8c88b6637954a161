package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfile represents patient-specific profile data
type PatientProfile struct {
	UserID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	NationalID   string    `gorm:"type:char(11);uniqueIndex;not null" json:"national_id"`
	PhoneNumber  string    `gorm:"type:varchar(20);index" json:"phone_number,omitempty"`
	DateOfBirth  time.Time `gorm:"type:date;not null" json:"date_of_birth"`
	Gender       string    `gorm:"type:char(1);not null" json:"gender"`
	BloodType    string    `gorm:"type:varchar(5)" json:"blood_type,omitempty"`
	Address      string    `gorm:"type:text" json:"address,omitempty"`
	MedicalNotes string    `gorm:"type:text" json:"medical_notes,omitempty"`

	// Relationships
	User         User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Appointments []Appointment `gorm:"foreignKey:PatientID" json:"appointments,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}

// Gender constants
const (
	GenderMale   = "M"
	GenderFemale = "F"
)
