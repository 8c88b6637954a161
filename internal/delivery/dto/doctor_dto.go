package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateDoctorRequest struct {
	Email           string              `json:"email" validate:"required,email"`
	Password        string              `json:"password" validate:"required,password"`
	FullName        string              `json:"full_name" validate:"required,personname"`
	Title           string              `json:"title" validate:"omitempty,max=50"`
	Specialization  string              `json:"specialization" validate:"required,max=100"`
	Diploma         string              `json:"diploma" validate:"omitempty,max=255"`
	ExperienceYears int                 `json:"experience_years" validate:"gte=0,lte=70"`
	PhoneNumber     string              `json:"phone_number" validate:"omitempty,trphone"`
	Biography       string              `json:"biography" validate:"omitempty"`
	Fee             decimal.Decimal     `json:"fee"`
	WeeklySchedule  map[string][]string `json:"weekly_schedule" validate:"omitempty"`
}

type UpdateDoctorRequest struct {
	Email           string           `json:"email" validate:"omitempty,email"`
	FullName        string           `json:"full_name" validate:"omitempty,personname"`
	Title           string           `json:"title" validate:"omitempty,max=50"`
	Specialization  string           `json:"specialization" validate:"omitempty,max=100"`
	Diploma         string           `json:"diploma" validate:"omitempty,max=255"`
	ExperienceYears *int             `json:"experience_years" validate:"omitempty,gte=0,lte=70"`
	PhoneNumber     string           `json:"phone_number" validate:"omitempty,trphone"`
	Biography       string           `json:"biography" validate:"omitempty"`
	Fee             *decimal.Decimal `json:"fee"`
	IsActive        *bool            `json:"is_active" validate:"omitempty"`
}

type DoctorUpdateSelfRequest struct {
	OldPassword string `json:"old_password" validate:"required_with=Password"`
	Password    string `json:"password" validate:"omitempty,password"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,trphone"`
	Biography   string `json:"biography" validate:"omitempty"`
}

// DoctorListQuery is parsed from query parameters
type DoctorListQuery struct {
	Name           string
	Specialization string
}

// Response DTOs

// DoctorProfileResponse is embedded in UserResponse
type DoctorProfileResponse struct {
	Title          string          `json:"title,omitempty"`
	Specialization string          `json:"specialization"`
	Biography      string          `json:"biography,omitempty"`
	Fee            decimal.Decimal `json:"fee"`
}

type DoctorResponse struct {
	ID              uuid.UUID           `json:"id"`
	Email           string              `json:"email"`
	FullName        string              `json:"full_name"`
	Title           string              `json:"title,omitempty"`
	Specialization  string              `json:"specialization"`
	Diploma         string              `json:"diploma,omitempty"`
	ExperienceYears int                 `json:"experience_years"`
	PhoneNumber     string              `json:"phone_number,omitempty"`
	Biography       string              `json:"biography,omitempty"`
	Fee             decimal.Decimal     `json:"fee"`
	IsActive        *bool               `json:"is_active"`
	WeeklySchedule  map[string][]string `json:"weekly_schedule"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}

type SpecializationListResponse struct {
	Specializations []string `json:"specializations"`
}
