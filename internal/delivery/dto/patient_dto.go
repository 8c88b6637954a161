package dto

import (
	"time"

	"github.com/google/uuid"
)

type PatientUpdateSelfRequest struct {
	OldPassword string `json:"old_password" validate:"required_with=Password"`
	Password    string `json:"password" validate:"omitempty,password"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,trphone"`
	Address     string `json:"address" validate:"omitempty,max=500"`
	BloodType   string `json:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- 0+ 0-"`
}

// AdminUpdatePatientRequest edits a patient account. Empty fields are left untouched.
type AdminUpdatePatientRequest struct {
	Email       string `json:"email" validate:"omitempty,email"`
	FullName    string `json:"full_name" validate:"omitempty,min=2,max=255"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,trphone"`
	Address     string `json:"address" validate:"omitempty,max=500"`
	BloodType   string `json:"blood_type" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- 0+ 0-"`
	IsActive    *bool  `json:"is_active"`
}

// PatientProfileResponse represents patient profile data in responses
type PatientProfileResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	NationalID   string    `json:"national_id"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	DateOfBirth  string    `json:"date_of_birth"`
	Gender       string    `json:"gender"`
	BloodType    string    `json:"blood_type,omitempty"`
	Address      string    `json:"address,omitempty"`
	MedicalNotes string    `json:"medical_notes,omitempty"`
}

// PatientResponse represents a patient user with profile data
type PatientResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	NationalID  string    `json:"national_id"`
	PhoneNumber string    `json:"phone_number,omitempty"`
	DateOfBirth string    `json:"date_of_birth"`
	Gender      string    `json:"gender"`
	BloodType   string    `json:"blood_type,omitempty"`
	Address     string    `json:"address,omitempty"`
	IsActive    *bool     `json:"is_active,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
}

// PatientListQuery is the admin listing query string.
type PatientListQuery struct {
	Search string
	Page   int
	Limit  int
}
