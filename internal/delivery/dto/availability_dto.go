package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// UpdateWeeklyScheduleRequest replaces a doctor's whole weekly schedule
type UpdateWeeklyScheduleRequest struct {
	Schedule map[string][]string `json:"schedule" validate:"required"`
}

type CreateSpecialDayRequest struct {
	Date        string   `json:"date" validate:"required,date"` // Format: YYYY-MM-DD
	DayOff      bool     `json:"day_off"`
	Slots       []string `json:"slots" validate:"omitempty,dive,hhmm"`
	MaxBookings int      `json:"max_bookings" validate:"gte=0"`
	Note        string   `json:"note" validate:"omitempty,max=500"`
}

// Response DTOs

type WeeklyScheduleResponse struct {
	DoctorID uuid.UUID           `json:"doctor_id"`
	Schedule map[string][]string `json:"schedule"`
}

type SpecialDayResponse struct {
	ID          int       `json:"id"`
	DoctorID    uuid.UUID `json:"doctor_id"`
	Date        string    `json:"date"`
	DayOff      bool      `json:"day_off"`
	Slots       []string  `json:"slots"`
	MaxBookings int       `json:"max_bookings"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type SpecialDayListResponse struct {
	SpecialDays []SpecialDayResponse `json:"special_days"`
	Total       int                  `json:"total"`
}

// OpenSlotsResponse lists the bookable slots of a doctor on one date
type OpenSlotsResponse struct {
	DoctorID   uuid.UUID `json:"doctor_id"`
	Date       string    `json:"date"`
	Weekday    string    `json:"weekday"`
	Slots      []string  `json:"slots"`
	SpecialDay bool      `json:"special_day"`
}
