package dto

import (
	"time"
)

// Request DTOs

type CreateAppointmentTypeRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gte=5,lte=480"`
	Description     string `json:"description"`
}

type UpdateAppointmentTypeRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,gte=5,lte=480"`
	Description     string `json:"description"`
}

// Response DTOs

type AppointmentTypeResponse struct {
	ID              int       `json:"id"`
	Name            string    `json:"name"`
	DurationMinutes int       `json:"duration_minutes"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
