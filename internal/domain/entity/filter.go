package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AppointmentFilter is a domain-level filter for querying appointments.
// Zero values are ignored.
type AppointmentFilter struct {
	PatientID *uuid.UUID
	DoctorID  *uuid.UUID
	Status    AppointmentStatus
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive
	Page      int
	PageSize  int
}

// DoctorFilter is a domain-level filter for listing doctors.
type DoctorFilter struct {
	Name           string // ILIKE on full name
	Specialization string // ILIKE
	OnlyActive     bool
}

// PatientFilter narrows the admin patient listing.
type PatientFilter struct {
	Search   string // ILIKE on full name, national id prefix
	Page     int
	PageSize int
}

// AppointmentReportRow is the projection the reporting queries aggregate over.
type AppointmentReportRow struct {
	AppointmentDate time.Time
	Status          AppointmentStatus
	Fee             decimal.Decimal
	Specialization  string
}
