package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

// CreateAppointmentRequest is checked by the booking rules rather than struct
// tags, so every failure is reported together.
type CreateAppointmentRequest struct {
	DoctorID          uuid.UUID  `json:"doctor_id"`
	PatientID         *uuid.UUID `json:"patient_id,omitempty"` // admin only
	Date              string     `json:"date"`                 // Format: YYYY-MM-DD
	Time              string     `json:"time"`                 // Format: HH:MM
	AppointmentTypeID *int       `json:"appointment_type_id,omitempty"`
	Notes             string     `json:"notes"`
}

type UpdateAppointmentStatusRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// AppointmentListQuery is parsed from query parameters
type AppointmentListQuery struct {
	Status    string
	StartDate string
	EndDate   string
	DoctorID  *uuid.UUID
	PatientID *uuid.UUID
	Page      int
	Limit     int
}

// Response DTOs

type AppointmentResponse struct {
	ID              uuid.UUID                `json:"id"`
	BookingCode     string                   `json:"booking_code"`
	PatientID       uuid.UUID                `json:"patient_id"`
	PatientName     string                   `json:"patient_name,omitempty"`
	DoctorID        uuid.UUID                `json:"doctor_id"`
	DoctorName      string                   `json:"doctor_name,omitempty"`
	Specialization  string                   `json:"specialization,omitempty"`
	Date            string                   `json:"date"`
	Time            string                   `json:"time"`
	Status          string                   `json:"status"`
	Notes           string                   `json:"notes,omitempty"`
	Fee             decimal.Decimal          `json:"fee"`
	AppointmentType *AppointmentTypeResponse `json:"appointment_type,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	Limit        int                   `json:"limit"`
}
